// Package sysfs implements the Linux sysfs access backend. It is the
// preferred method on Linux: the kernel has already enumerated the bus and
// translated resources, so device discovery and most field groups come from
// attribute files under /sys/bus/pci, and raw configuration space is reached
// through each device's "config" file.
package sysfs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

func init() {
	access.Register(10, &method{curFd: -1})
}

type method struct {
	base string

	// One config file handle is live at a time; switching devices closes
	// and reopens it. Serial access only, like the rest of the library.
	curAddr pci.Addr
	curFd   int
	curRW   bool
}

func (m *method) Name() string { return "linux-sysfs" }

func (m *method) Config(ctx *access.Context) {
	ctx.DefineParam("sysfs.path", "/sys/bus/pci", "Path to the sysfs PCI tree")
}

func (m *method) Detect(ctx *access.Context) bool {
	fi, err := os.Stat(filepath.Join(ctx.Param("sysfs.path"), "devices"))
	return err == nil && fi.IsDir()
}

func (m *method) Init(ctx *access.Context) error {
	m.base = ctx.Param("sysfs.path")
	if _, err := os.Stat(filepath.Join(m.base, "devices")); err != nil {
		return fmt.Errorf("sysfs: %w", err)
	}
	m.curFd = -1
	return nil
}

func (m *method) Cleanup(ctx *access.Context) {
	m.closeConfig()
}

func (m *method) Scan(ctx *access.Context) error {
	dir := filepath.Join(m.base, "devices")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("sysfs: reading %s: %w", dir, err)
	}

	for _, entry := range entries {
		addr, err := pci.ParseAddr(entry.Name())
		if err != nil {
			ctx.Warnf("sysfs: skipping %s: %v", entry.Name(), err)
			continue
		}
		ctx.AddDevice(addr)
	}
	return nil
}

func (m *method) devPath(d *access.Device, name string) string {
	return filepath.Join(m.base, "devices", d.Addr.String(), name)
}

// --- raw config space ---

func (m *method) openConfig(d *access.Device) (int, error) {
	rw := d.Context().WritesEnabled
	if m.curFd >= 0 && m.curAddr == d.Addr && m.curRW == rw {
		return m.curFd, nil
	}
	m.closeConfig()

	flags := unix.O_RDONLY
	if rw {
		flags = unix.O_RDWR
	}
	fd, err := unix.Open(m.devPath(d, "config"), flags, 0)
	if err != nil {
		return -1, err
	}
	m.curAddr = d.Addr
	m.curFd = fd
	m.curRW = rw
	return fd, nil
}

func (m *method) closeConfig() {
	if m.curFd >= 0 {
		unix.Close(m.curFd)
		m.curFd = -1
	}
}

func (m *method) Read(d *access.Device, pos int, buf []byte) bool {
	fd, err := m.openConfig(d)
	if err != nil {
		d.Context().Warnf("sysfs: %s: opening config: %v", d.Addr, err)
		return false
	}
	n, err := unix.Pread(fd, buf, int64(pos))
	return err == nil && n == len(buf)
}

func (m *method) Write(d *access.Device, pos int, buf []byte) bool {
	fd, err := m.openConfig(d)
	if err != nil {
		d.Context().Warnf("sysfs: %s: opening config: %v", d.Addr, err)
		return false
	}
	n, err := unix.Pwrite(fd, buf, int64(pos))
	return err == nil && n == len(buf)
}

// ReadVPD reads from the device's "vpd" attribute.
func (m *method) ReadVPD(d *access.Device, pos int, buf []byte) bool {
	fd, err := unix.Open(m.devPath(d, "vpd"), unix.O_RDONLY, 0)
	if err != nil {
		return false
	}
	defer unix.Close(fd)
	n, err := unix.Pread(fd, buf, int64(pos))
	return err == nil && n == len(buf)
}

// --- fill info ---

func (m *method) FillInfo(d *access.Device, want access.Fields) access.Fields {
	ctx := d.Context()
	var done access.Fields

	if want&access.FillIdent != 0 {
		v, errV := m.readHex(d, "vendor", 16)
		dev, errD := m.readHex(d, "device", 16)
		if errV == nil && errD == nil {
			d.VendorID = uint16(v)
			d.DeviceID = uint16(dev)
			done |= access.FillIdent
		} else {
			ctx.Warnf("sysfs: %s: reading identity: %v", d.Addr, errV)
		}
	}
	if want&access.FillClass != 0 {
		if class, err := m.readHex(d, "class", 32); err == nil {
			d.Class = uint16(class >> 8) // attribute is base:sub:prog-if
			done |= access.FillClass
		}
	}
	if want&access.FillClassExt != 0 {
		if rev, err := m.readHex(d, "revision", 8); err == nil {
			d.Revision = uint8(rev)
		}
		if class, err := m.readHex(d, "class", 32); err == nil {
			d.ProgIF = uint8(class)
		}
		done |= access.FillClassExt
	}
	if want&access.FillSubsys != 0 {
		sv, errV := m.readHex(d, "subsystem_vendor", 16)
		sd, errD := m.readHex(d, "subsystem_device", 16)
		if errV == nil && errD == nil {
			d.SubsysVendor = uint16(sv)
			d.SubsysDevice = uint16(sd)
			done |= access.FillSubsys
		}
	}
	if want&access.FillIRQ != 0 {
		if irq, err := m.readDec(d, "irq"); err == nil {
			d.IRQ = irq
			done |= access.FillIRQ
		}
	}
	if want&access.FillNUMANode != 0 {
		if node, err := m.readDec(d, "numa_node"); err == nil {
			d.NUMANode = node
			done |= access.FillNUMANode
		}
	}

	// Resource windows. Buscentric callers want addresses as the bus sees
	// them, which means raw config-space decoding instead of the
	// kernel-translated resource file.
	if want&(access.FillBases|access.FillSizes|access.FillIOFlags|access.FillROMBase) != 0 {
		if ctx.Buscentric {
			done |= access.GenericFillInfo(d, want&(access.FillBases|access.FillROMBase))
		} else if bars, rom, err := m.readResource(d); err == nil {
			copy(d.Bases[:], bars)
			d.ROM = rom
			done |= want & (access.FillBases | access.FillSizes | access.FillIOFlags | access.FillROMBase)
		} else {
			ctx.Warnf("sysfs: %s: reading resource file: %v", d.Addr, err)
			done |= access.GenericFillInfo(d, want&(access.FillBases|access.FillROMBase))
		}
	}
	if want&access.FillBridgeBases != 0 {
		done |= access.GenericFillInfo(d, access.FillBridgeBases)
	}

	if want&access.FillPhysSlot != 0 {
		d.PhysSlot = m.findSlot(d)
		done |= access.FillPhysSlot
	}
	if want&access.FillModuleAlias != 0 {
		if alias, err := m.readString(d, "modalias"); err == nil {
			d.ModuleAlias = alias
			done |= access.FillModuleAlias
		}
	}
	if want&access.FillLabel != 0 {
		if label, err := m.readString(d, "label"); err == nil {
			d.Label = label
			done |= access.FillLabel
		}
	}
	if want&access.FillDriver != 0 {
		if target, err := os.Readlink(m.devPath(d, "driver")); err == nil {
			d.Driver = filepath.Base(target)
			done |= access.FillDriver
		}
	}
	if want&access.FillIOMMUGroup != 0 {
		if target, err := os.Readlink(m.devPath(d, "iommu_group")); err == nil {
			if g, err := strconv.Atoi(filepath.Base(target)); err == nil {
				d.IOMMUGroup = g
				done |= access.FillIOMMUGroup
			}
		}
	}
	if want&access.FillDTNode != 0 {
		if target, err := os.Readlink(m.devPath(d, "of_node")); err == nil {
			d.DTNode = target
			done |= access.FillDTNode
		}
	}
	if want&access.FillParent != 0 {
		if p := m.findParent(d); p != nil {
			d.Parent = p
			done |= access.FillParent
		}
	}

	if want&(access.FillCaps|access.FillExtCaps) != 0 {
		done |= access.ScanCapabilities(d, want)
	}
	return done
}

// readResource parses the sysfs resource file: six BAR lines followed by
// the expansion ROM line.
func (m *method) readResource(d *access.Device) ([]pci.BAR, pci.BAR, error) {
	f, err := os.Open(m.devPath(d, "resource"))
	if err != nil {
		return nil, pci.BAR{}, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, pci.BAR{}, err
	}

	bars := pci.ParseSysfsResource(lines)
	rom := pci.BAR{Index: -1, Kind: pci.BARKindDisabled}
	if len(lines) > pci.BaseAddrCount {
		if romBars := pci.ParseSysfsResource(lines[pci.BaseAddrCount : pci.BaseAddrCount+1]); len(romBars) == 1 {
			rom = romBars[0]
			rom.Index = -1
		}
	}
	return bars, rom, nil
}

// findSlot scans the slots directory for one whose address covers this
// device. Slot addresses name a domain:bus:device; all functions share it.
func (m *method) findSlot(d *access.Device) string {
	slotsDir := filepath.Join(m.base, "slots")
	entries, err := os.ReadDir(slotsDir)
	if err != nil {
		return ""
	}
	want := fmt.Sprintf("%04x:%02x:%02x", d.Addr.Domain, d.Addr.Bus, d.Addr.Device)
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(slotsDir, entry.Name(), "address"))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == want {
			return entry.Name()
		}
	}
	return ""
}

// findParent resolves the device symlink and looks for the next address
// component up the devices tree among the scanned devices.
func (m *method) findParent(d *access.Device) *access.Device {
	target, err := filepath.EvalSymlinks(m.devPath(d, ""))
	if err != nil {
		return nil
	}
	parts := strings.Split(filepath.Dir(target), string(filepath.Separator))
	if len(parts) == 0 {
		return nil
	}
	parentAddr, err := pci.ParseAddr(parts[len(parts)-1])
	if err != nil {
		return nil
	}
	for _, other := range d.Context().Devices() {
		if other.Addr == parentAddr {
			return other
		}
	}
	return nil
}

// --- attribute helpers ---

func (m *method) readString(d *access.Device, name string) (string, error) {
	data, err := os.ReadFile(m.devPath(d, name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (m *method) readHex(d *access.Device, name string, bits int) (uint64, error) {
	s, err := m.readString(d, name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(s, 0, bits)
}

func (m *method) readDec(d *access.Device, name string) (int, error) {
	s, err := m.readString(d, name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
