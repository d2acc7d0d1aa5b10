package pci

import "fmt"

// BAR kind constants.
const (
	BARKindIO       = "io"
	BARKindMem32    = "mem32"
	BARKindMem64    = "mem64"
	BARKindDisabled = "disabled"
)

// BAR is one decoded base-address register: a resource window of a function.
// Size and Flags are only known when a backend with native resource
// information (sysfs) filled them; decoding raw registers yields base and
// type bits alone, because sizing requires write-probing the register.
type BAR struct {
	Index        int    `json:"index"`
	Base         uint64 `json:"base"`
	Size         uint64 `json:"size,omitempty"`
	Flags        uint64 `json:"flags,omitempty"`
	Kind         string `json:"kind"`
	Prefetchable bool   `json:"prefetchable,omitempty"`
	Is64Bit      bool   `json:"is_64bit,omitempty"`
}

// IsIO reports whether this is an I/O port window.
func (b *BAR) IsIO() bool { return b.Kind == BARKindIO }

// IsMemory reports whether this is a memory window.
func (b *BAR) IsMemory() bool { return b.Kind == BARKindMem32 || b.Kind == BARKindMem64 }

// IsDisabled reports whether the register is unimplemented or unassigned.
func (b *BAR) IsDisabled() bool { return b.Kind == BARKindDisabled || b.Kind == "" }

// SizeHuman returns the window size in human-readable form.
func (b *BAR) SizeHuman() string {
	switch {
	case b.Size == 0:
		return "0"
	case b.Size >= 1<<30:
		return fmt.Sprintf("%d GB", b.Size>>30)
	case b.Size >= 1<<20:
		return fmt.Sprintf("%d MB", b.Size>>20)
	case b.Size >= 1<<10:
		return fmt.Sprintf("%d KB", b.Size>>10)
	default:
		return fmt.Sprintf("%d B", b.Size)
	}
}

func (b *BAR) String() string {
	if b.IsDisabled() {
		return fmt.Sprintf("BAR%d: [disabled]", b.Index)
	}
	pf := ""
	if b.Prefetchable {
		pf = " [prefetchable]"
	}
	if b.Size == 0 {
		return fmt.Sprintf("BAR%d: %s at 0x%x%s", b.Index, b.Kind, b.Base, pf)
	}
	return fmt.Sprintf("BAR%d: %s at 0x%x, size %s%s", b.Index, b.Kind, b.Base, b.SizeHuman(), pf)
}

// DecodeBaseAddrs decodes raw base-address register values into BARs.
// A 64-bit memory window consumes the following register as its upper half;
// the consumed slot is reported as disabled. Sizes are not available on this
// path (see BAR).
func DecodeBaseAddrs(regs []uint32) []BAR {
	bars := make([]BAR, len(regs))
	for i := 0; i < len(regs); i++ {
		bar := BAR{Index: i, Kind: BARKindDisabled}
		raw := regs[i]

		switch {
		case raw == 0 || raw == 0xFFFFFFFF:
			// unimplemented register
		case raw&BaseAddrSpaceIO != 0:
			bar.Kind = BARKindIO
			bar.Base = uint64(raw) & BaseAddrIOMask
		default:
			bar.Prefetchable = raw&BaseAddrMemPrefetch != 0
			switch raw & BaseAddrMemTypeMask {
			case BaseAddrMemType32, BaseAddrMemType1M:
				bar.Kind = BARKindMem32
				bar.Base = uint64(raw) & BaseAddrMemMask
			case BaseAddrMemType64:
				bar.Kind = BARKindMem64
				bar.Is64Bit = true
				bar.Base = uint64(raw) & BaseAddrMemMask
				if i+1 < len(regs) {
					bar.Base |= uint64(regs[i+1]) << 32
					bars[i] = bar
					i++
					bars[i] = BAR{Index: i, Kind: BARKindDisabled}
					continue
				}
			}
		}
		bars[i] = bar
	}
	return bars
}

// ParseSysfsResource parses BARs from the lines of a sysfs "resource" file.
// Each line is "start end flags" in hex.
func ParseSysfsResource(lines []string) []BAR {
	var bars []BAR
	for i := 0; i < BaseAddrCount && i < len(lines); i++ {
		var start, end, flags uint64
		n, _ := fmt.Sscanf(lines[i], "0x%x 0x%x 0x%x", &start, &end, &flags)
		if n != 3 {
			n, _ = fmt.Sscanf(lines[i], "%x %x %x", &start, &end, &flags)
			if n != 3 {
				continue
			}
		}

		bar := BAR{Index: i, Kind: BARKindDisabled, Flags: flags}
		if start != 0 || end != 0 {
			bar.Base = start
			bar.Size = end - start + 1
			if flags&0x100 != 0 {
				bar.Kind = BARKindIO
			} else {
				bar.Prefetchable = flags&0x2000 != 0
				if flags&0x100000 != 0 {
					bar.Kind = BARKindMem64
					bar.Is64Bit = true
				} else {
					bar.Kind = BARKindMem32
				}
			}
		}
		bars = append(bars, bar)
	}
	return bars
}
