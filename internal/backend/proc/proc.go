// Package proc implements the Linux /proc/bus/pci access backend, the
// fallback used on systems where sysfs is unavailable. The "devices" table
// provides enumeration plus identity, IRQ and resource data; raw config
// space goes through the per-device files.
package proc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

func init() {
	access.Register(20, &method{curFd: -1})
}

// devInfo is what the devices table knows about one function; it hangs off
// Device.Backend so FillInfo can serve those groups without file I/O.
type devInfo struct {
	vendor uint16
	device uint16
	irq    int
	bases  [pci.BaseAddrCount]uint64
	sizes  [pci.BaseAddrCount]uint64
	rom    uint64
	romLen uint64
	driver string
}

type method struct {
	base string

	curAddr pci.Addr
	curFd   int
	curRW   bool
}

func (m *method) Name() string { return "linux-proc" }

func (m *method) Config(ctx *access.Context) {
	ctx.DefineParam("proc.path", "/proc/bus/pci", "Path to the procfs PCI tree")
}

func (m *method) Detect(ctx *access.Context) bool {
	_, err := os.Stat(filepath.Join(ctx.Param("proc.path"), "devices"))
	return err == nil
}

func (m *method) Init(ctx *access.Context) error {
	m.base = ctx.Param("proc.path")
	if _, err := os.Stat(filepath.Join(m.base, "devices")); err != nil {
		return fmt.Errorf("proc: %w", err)
	}
	m.curFd = -1
	return nil
}

func (m *method) Cleanup(ctx *access.Context) {
	if m.curFd >= 0 {
		unix.Close(m.curFd)
		m.curFd = -1
	}
}

func (m *method) Scan(ctx *access.Context) error {
	path := filepath.Join(m.base, "devices")
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("proc: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		addr, info, err := parseDevicesLine(line)
		if err != nil {
			ctx.Warnf("proc: %s line %d: %v", path, lineno, err)
			continue
		}
		d := ctx.AddDevice(addr)
		d.Backend = info
	}
	return sc.Err()
}

// parseDevicesLine parses one row of the devices table: dfn, packed
// vendor/device, irq, six base addresses, ROM base, six sizes, ROM size,
// and optionally the bound driver name. All values are hex.
func parseDevicesLine(line string) (pci.Addr, *devInfo, error) {
	fields := strings.Fields(line)
	if len(fields) < 17 {
		return pci.Addr{}, nil, fmt.Errorf("short row (%d fields)", len(fields))
	}

	var dfn, ids uint32
	var irq uint32
	if _, err := fmt.Sscanf(fields[0], "%x", &dfn); err != nil {
		return pci.Addr{}, nil, fmt.Errorf("bad dfn %q", fields[0])
	}
	if _, err := fmt.Sscanf(fields[1], "%x", &ids); err != nil {
		return pci.Addr{}, nil, fmt.Errorf("bad id %q", fields[1])
	}
	if _, err := fmt.Sscanf(fields[2], "%x", &irq); err != nil {
		return pci.Addr{}, nil, fmt.Errorf("bad irq %q", fields[2])
	}

	addr := pci.Addr{
		Bus:      uint8(dfn >> 8),
		Device:   uint8(dfn>>3) & 0x1F,
		Function: uint8(dfn) & 0x07,
	}
	info := &devInfo{
		vendor: uint16(ids >> 16),
		device: uint16(ids),
		irq:    int(irq),
	}

	hexAt := func(i int) uint64 {
		var v uint64
		fmt.Sscanf(fields[i], "%x", &v)
		return v
	}
	for i := 0; i < pci.BaseAddrCount; i++ {
		info.bases[i] = hexAt(3 + i)
		info.sizes[i] = hexAt(10 + i)
	}
	info.rom = hexAt(9)
	info.romLen = hexAt(16)
	if len(fields) > 17 {
		info.driver = fields[17]
	}
	return addr, info, nil
}

func (m *method) devFile(d *access.Device) string {
	if d.Addr.Domain != 0 {
		return filepath.Join(m.base,
			fmt.Sprintf("%04x:%02x", d.Addr.Domain, d.Addr.Bus),
			fmt.Sprintf("%02x.%x", d.Addr.Device, d.Addr.Function))
	}
	return filepath.Join(m.base,
		fmt.Sprintf("%02x", d.Addr.Bus),
		fmt.Sprintf("%02x.%x", d.Addr.Device, d.Addr.Function))
}

func (m *method) open(d *access.Device) (int, error) {
	rw := d.Context().WritesEnabled
	if m.curFd >= 0 && m.curAddr == d.Addr && m.curRW == rw {
		return m.curFd, nil
	}
	if m.curFd >= 0 {
		unix.Close(m.curFd)
		m.curFd = -1
	}
	flags := unix.O_RDONLY
	if rw {
		flags = unix.O_RDWR
	}
	fd, err := unix.Open(m.devFile(d), flags, 0)
	if err != nil {
		return -1, err
	}
	m.curAddr = d.Addr
	m.curFd = fd
	m.curRW = rw
	return fd, nil
}

func (m *method) Read(d *access.Device, pos int, buf []byte) bool {
	fd, err := m.open(d)
	if err != nil {
		d.Context().Warnf("proc: %s: %v", d.Addr, err)
		return false
	}
	n, err := unix.Pread(fd, buf, int64(pos))
	return err == nil && n == len(buf)
}

func (m *method) Write(d *access.Device, pos int, buf []byte) bool {
	fd, err := m.open(d)
	if err != nil {
		d.Context().Warnf("proc: %s: %v", d.Addr, err)
		return false
	}
	n, err := unix.Pwrite(fd, buf, int64(pos))
	return err == nil && n == len(buf)
}

func (m *method) FillInfo(d *access.Device, want access.Fields) access.Fields {
	info, _ := d.Backend.(*devInfo)
	if info == nil {
		return access.GenericFillInfo(d, want)
	}

	var done access.Fields
	if want&access.FillIdent != 0 {
		d.VendorID = info.vendor
		d.DeviceID = info.device
		done |= access.FillIdent
	}
	if want&access.FillIRQ != 0 {
		d.IRQ = info.irq
		done |= access.FillIRQ
	}
	if want&access.FillDriver != 0 && info.driver != "" {
		d.Driver = info.driver
		done |= access.FillDriver
	}
	if want&(access.FillBases|access.FillSizes) != 0 {
		regs := make([]uint32, pci.BaseAddrCount)
		for i, b := range info.bases {
			regs[i] = uint32(b)
		}
		bars := pci.DecodeBaseAddrs(regs)
		for i := range bars {
			if bars[i].Is64Bit {
				bars[i].Base = info.bases[i] &^ 0x0F
			}
			bars[i].Size = info.sizes[i]
			d.Bases[i] = bars[i]
		}
		done |= want & (access.FillBases | access.FillSizes)
	}
	if want&access.FillROMBase != 0 {
		d.ROM = pci.BAR{Index: -1, Kind: pci.BARKindDisabled}
		if info.rom != 0 {
			d.ROM = pci.BAR{Index: -1, Kind: pci.BARKindMem32, Base: info.rom &^ pci.ROMAddressEnable, Size: info.romLen}
		}
		done |= access.FillROMBase
	}

	// Everything the table does not know comes from raw config space.
	rest := want &^ (done | access.FillCaps | access.FillExtCaps)
	if rest != 0 {
		done |= access.GenericFillInfo(d, rest)
	}
	if want&(access.FillCaps|access.FillExtCaps) != 0 {
		done |= access.ScanCapabilities(d, want)
	}
	return done
}
