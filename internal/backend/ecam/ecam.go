// Package ecam implements the memory-mapped enhanced configuration access
// mechanism backend. It maps ECAM windows out of a physical-memory device
// (normally /dev/mem) according to an explicit address specification; it
// never guesses addresses, so detection requires the ecam.addrs parameter.
// Enumeration uses the generic brute-force scan.
package ecam

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

func init() {
	access.Register(30, &method{fd: -1})
}

type method struct {
	regions []region
	fd      int

	// One bus window is mapped at a time; switching the target bus or
	// domain remaps. mapped holds the page-aligned mapping, mapOff the
	// offset of the bus window within it.
	mappedDomain uint32
	mappedBus    uint8
	mapped       []byte
	mapOff       int
}

func (m *method) Name() string { return "ecam" }

func (m *method) Config(ctx *access.Context) {
	ctx.DefineParam("ecam.addrs", "", "ECAM windows as [domain:]start_bus[-end_bus]:start_addr[+length], comma separated")
	ctx.DefineParam("devmem.path", "/dev/mem", "Physical memory device to map ECAM windows from")
}

func (m *method) Detect(ctx *access.Context) bool {
	spec := ctx.Param("ecam.addrs")
	if spec == "" {
		return false
	}
	if _, err := parseAddrSpec(spec); err != nil {
		ctx.Warnf("ecam: %v", err)
		return false
	}
	_, err := os.Stat(ctx.Param("devmem.path"))
	return err == nil
}

func (m *method) Init(ctx *access.Context) error {
	regions, err := parseAddrSpec(ctx.Param("ecam.addrs"))
	if err != nil {
		return fmt.Errorf("ecam: %w", err)
	}

	flags := unix.O_RDONLY
	if ctx.WritesEnabled {
		flags = unix.O_RDWR
	}
	fd, err := unix.Open(ctx.Param("devmem.path"), flags|unix.O_DSYNC, 0)
	if err != nil {
		return fmt.Errorf("ecam: opening %s: %w", ctx.Param("devmem.path"), err)
	}
	m.regions = regions
	m.fd = fd
	return nil
}

func (m *method) Cleanup(ctx *access.Context) {
	m.unmap()
	if m.fd >= 0 {
		unix.Close(m.fd)
		m.fd = -1
	}
	m.regions = nil
}

func (m *method) Scan(ctx *access.Context) error {
	return access.GenericScan(ctx)
}

func (m *method) FillInfo(d *access.Device, want access.Fields) access.Fields {
	return access.GenericFillInfo(d, want)
}

func (m *method) unmap() {
	if m.mapped != nil {
		unix.Munmap(m.mapped)
		m.mapped = nil
		m.mapOff = 0
	}
}

// window maps (or reuses) the 1MB ECAM window of the device's bus and
// returns it.
func (m *method) window(d *access.Device) ([]byte, error) {
	addr := d.Addr
	if m.mapped != nil && m.mappedDomain == addr.Domain && m.mappedBus == addr.Bus {
		return m.mapped[m.mapOff:], nil
	}

	var reg *region
	for i := range m.regions {
		if m.regions[i].covers(addr.Domain, addr.Bus) {
			reg = &m.regions[i]
			break
		}
	}
	if reg == nil {
		return nil, fmt.Errorf("no ECAM window covers %s", addr)
	}

	m.unmap()

	prot := unix.PROT_READ | unix.PROT_WRITE
	if !d.Context().WritesEnabled {
		prot = unix.PROT_READ
	}
	base := reg.busBase(addr.Bus)
	pageMask := uint64(unix.Getpagesize() - 1)
	mapBase := base &^ pageMask
	mapLen := int(base - mapBase + busWindowSize)

	data, err := unix.Mmap(m.fd, int64(mapBase), mapLen, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mapping ECAM window for bus %02x: %w", addr.Bus, err)
	}
	m.mapped = data
	m.mapOff = int(base - mapBase)
	m.mappedDomain = addr.Domain
	m.mappedBus = addr.Bus
	return m.mapped[m.mapOff:], nil
}

// fnOffset is the offset of the function's 4K config space in a bus window.
func fnOffset(addr pci.Addr) int {
	return int(addr.Device)<<15 | int(addr.Function)<<12
}

func (m *method) Read(d *access.Device, pos int, buf []byte) bool {
	if pos < 0 || pos+len(buf) > pci.ConfigSpaceSize {
		return false
	}
	win, err := m.window(d)
	if err != nil {
		d.Context().Warnf("ecam: %s: %v", d.Addr, err)
		return false
	}
	off := fnOffset(d.Addr) + pos
	copy(buf, win[off:off+len(buf)])
	return true
}

func (m *method) Write(d *access.Device, pos int, buf []byte) bool {
	if pos < 0 || pos+len(buf) > pci.ConfigSpaceSize {
		return false
	}
	win, err := m.window(d)
	if err != nil {
		d.Context().Warnf("ecam: %s: %v", d.Addr, err)
		return false
	}
	off := fnOffset(d.Addr) + pos
	copy(win[off:], buf)
	return true
}
