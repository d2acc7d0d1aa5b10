package access

import (
	"github.com/sercanarga/pciaccess/internal/pci"
)

// Generic enumeration and fill for backends whose OS primitive can move
// config-space bytes but cannot enumerate devices or translate resources.
// Everything here trusts nothing but raw configuration space.

// GenericScan brute-forces every bus/device/function triple in domain 0,
// following bridges to their secondary buses. A scanned-bus set keeps
// looped bridge topologies from recursing forever.
func GenericScan(ctx *Context) error {
	var scanned [256]bool
	genericScanBus(ctx, &scanned, 0)
	return nil
}

func genericScanBus(ctx *Context, scanned *[256]bool, bus uint8) {
	if scanned[bus] {
		return
	}
	scanned[bus] = true
	ctx.Debugf("scanning bus %02x", bus)

	for dev := uint8(0); dev < 32; dev++ {
		multi := false
		for fn := uint8(0); fn < 8; fn++ {
			d := ctx.NewDevice(pci.Addr{Bus: bus, Device: dev, Function: fn})
			vendor := d.ReadWord(pci.RegVendorID)
			if vendor == 0x0000 || vendor == 0xFFFF {
				if fn == 0 {
					break
				}
				continue
			}

			ht := d.ReadByte(pci.RegHeaderType)
			if fn == 0 {
				multi = ht&pci.HeaderTypeMultiFunction != 0
			}
			ctx.Link(d)

			if ht&0x7F == pci.HeaderTypeBridge {
				secondary := d.ReadByte(pci.RegSecondaryBus)
				genericScanBus(ctx, scanned, secondary)
			}

			if fn == 0 && !multi {
				break
			}
		}
	}
}

// GenericFillInfo derives the requested field groups from configuration
// space at their architecturally fixed offsets and returns the groups it
// satisfied. Resource sizes cannot be derived without write-probing the
// registers, so FillSizes is never satisfied here and the caller sees its
// bit unset.
func GenericFillInfo(d *Device, want Fields) Fields {
	var done Fields

	if want&FillIdent != 0 {
		d.VendorID = d.ReadWord(pci.RegVendorID)
		d.DeviceID = d.ReadWord(pci.RegDeviceID)
		done |= FillIdent
	}
	if want&FillClass != 0 {
		d.Class = d.ReadWord(pci.RegClassDevice)
		done |= FillClass
	}
	if want&FillClassExt != 0 {
		d.Revision = d.ReadByte(pci.RegRevisionID)
		d.ProgIF = d.ReadByte(pci.RegProgIF)
		done |= FillClassExt
	}
	if want&FillSubsys != 0 {
		switch d.ReadByte(pci.RegHeaderType) & 0x7F {
		case pci.HeaderTypeNormal:
			d.SubsysVendor = d.ReadWord(pci.RegSubsysVendor)
			d.SubsysDevice = d.ReadWord(pci.RegSubsysDevice)
			done |= FillSubsys
		}
	}
	if want&FillIRQ != 0 {
		irq := d.ReadByte(pci.RegInterruptLine)
		if irq != 0xFF {
			d.IRQ = int(irq)
		} else {
			d.IRQ = -1
		}
		done |= FillIRQ
	}
	if want&FillBases != 0 {
		done |= genericFillBases(d)
	}
	if want&FillROMBase != 0 {
		done |= genericFillROM(d)
	}
	if want&FillBridgeBases != 0 {
		done |= genericFillBridgeBases(d)
	}
	if want&(FillCaps|FillExtCaps) != 0 {
		done |= ScanCapabilities(d, want)
	}

	return done
}

// genericFillBases decodes the base address registers present for the
// device's header layout.
func genericFillBases(d *Device) Fields {
	count := pci.BaseAddrCount
	switch d.ReadByte(pci.RegHeaderType) & 0x7F {
	case pci.HeaderTypeBridge:
		count = 2
	case pci.HeaderTypeCardbus:
		count = 1
	}

	regs := make([]uint32, count)
	for i := range regs {
		regs[i] = d.ReadLong(pci.RegBaseAddr0 + 4*i)
	}
	for i, bar := range pci.DecodeBaseAddrs(regs) {
		d.Bases[i] = bar
	}
	for i := count; i < pci.BaseAddrCount; i++ {
		d.Bases[i] = pci.BAR{Index: i, Kind: pci.BARKindDisabled}
	}
	return FillBases
}

func genericFillROM(d *Device) Fields {
	reg := pci.RegROMAddress
	switch d.ReadByte(pci.RegHeaderType) & 0x7F {
	case pci.HeaderTypeBridge:
		reg = pci.RegBridgeROM
	case pci.HeaderTypeCardbus:
		return FillROMBase // no expansion ROM register
	}

	d.ROM = pci.BAR{Index: -1, Kind: pci.BARKindDisabled}
	val := d.ReadLong(reg)
	if val != 0 && val != 0xFFFFFFFF {
		d.ROM.Kind = pci.BARKindMem32
		d.ROM.Base = uint64(val) &^ uint64(pci.ROMAddressEnable)
	}
	return FillROMBase
}

// genericFillBridgeBases decodes the forwarding windows of a PCI-to-PCI
// bridge: I/O, memory and prefetchable memory, with the 32-bit I/O and
// 64-bit prefetch extensions.
func genericFillBridgeBases(d *Device) Fields {
	if d.ReadByte(pci.RegHeaderType)&0x7F != pci.HeaderTypeBridge {
		return 0
	}

	ioBase := uint64(d.ReadByte(pci.RegIOBase))
	ioLimit := uint64(d.ReadByte(pci.RegIOLimit))
	io := pci.BAR{Index: 0, Kind: pci.BARKindDisabled}
	if ioBase != 0xFF || ioLimit != 0xFF {
		base := (ioBase &^ 0x0F) << 8
		limit := (ioLimit&^0x0F)<<8 | 0xFFF
		if ioBase&0x0F == 0x01 { // 32-bit I/O window
			base |= uint64(d.ReadWord(pci.RegIOBaseUpper)) << 16
			limit |= uint64(d.ReadWord(pci.RegIOLimitUpper)) << 16
		}
		if limit >= base {
			io = pci.BAR{Index: 0, Kind: pci.BARKindIO, Base: base, Size: limit - base + 1}
		}
	}
	d.BridgeBases[0] = io

	memBase := uint64(d.ReadWord(pci.RegMemoryBase))
	memLimit := uint64(d.ReadWord(pci.RegMemoryLimit))
	mem := pci.BAR{Index: 1, Kind: pci.BARKindDisabled}
	if base, limit := (memBase&^0x0F)<<16, (memLimit&^0x0F)<<16|0xFFFFF; limit >= base && memBase != 0xFFFF {
		mem = pci.BAR{Index: 1, Kind: pci.BARKindMem32, Base: base, Size: limit - base + 1}
	}
	d.BridgeBases[1] = mem

	prefBase := uint64(d.ReadWord(pci.RegPrefMemoryBase))
	prefLimit := uint64(d.ReadWord(pci.RegPrefMemoryLimit))
	pref := pci.BAR{Index: 2, Kind: pci.BARKindDisabled}
	if prefBase != 0xFFFF {
		base := (prefBase &^ 0x0F) << 16
		limit := (prefLimit&^0x0F)<<16 | 0xFFFFF
		is64 := false
		if prefBase&0x0F == 0x01 { // 64-bit prefetch window
			base |= uint64(d.ReadLong(pci.RegPrefBaseUpper)) << 32
			limit |= uint64(d.ReadLong(pci.RegPrefLimitUpper)) << 32
			is64 = true
		}
		if limit >= base {
			pref = pci.BAR{Index: 2, Kind: pci.BARKindMem32, Base: base, Size: limit - base + 1, Prefetchable: true, Is64Bit: is64}
			if is64 {
				pref.Kind = pci.BARKindMem64
			}
		}
	}
	d.BridgeBases[2] = pref

	d.BridgeBases[3] = pci.BAR{Index: 3, Kind: pci.BARKindDisabled}
	return FillBridgeBases
}
