package access

import (
	"github.com/sercanarga/pciaccess/internal/pci"
)

// Device is one discovered PCI function and the session-local knowledge
// about it. Fields outside the address are only meaningful once the matching
// Fields bit has been returned by FillInfo.
type Device struct {
	Addr pci.Addr

	VendorID     uint16
	DeviceID     uint16
	Class        uint16 // base<<8 | sub
	Revision     uint8
	ProgIF       uint8
	IRQ          int
	NUMANode     int
	SubsysVendor uint16
	SubsysDevice uint16

	// Bases holds the six resource windows of a type 0 header (fewer are
	// meaningful for bridge and cardbus headers). ROM is the expansion
	// ROM window. BridgeBases holds the I/O, memory, prefetchable memory
	// and ROM windows of a type 1 header, in that order.
	Bases       [pci.BaseAddrCount]pci.BAR
	ROM         pci.BAR
	BridgeBases [4]pci.BAR

	// Lazily populated string properties.
	PhysSlot    string
	ModuleAlias string
	Label       string
	Driver      string
	DTNode      string
	IOMMUGroup  int

	// Parent is a weak back-reference to the bridge this function sits
	// behind, when the backend can derive the hierarchy.
	Parent *Device

	// Backend is private state owned by the access method.
	Backend any

	ctx       *Context
	known     Fields
	cache     []byte
	cacheLen  int
	caps      []*pci.Capability
	transport Transport // per-device override, nil means the context method
}

// NewDevice allocates an unlinked device record for the given address.
// Backends use unlinked records to probe addresses before deciding whether
// the function exists; Link attaches the record to the context's list.
func (ctx *Context) NewDevice(addr pci.Addr) *Device {
	d := &Device{Addr: addr, IRQ: -1, NUMANode: -1, IOMMUGroup: -1, ctx: ctx}
	if h, ok := ctx.method.(DeviceHooks); ok {
		h.InitDevice(d)
	}
	return d
}

// Link appends a device record to the context's device list.
func (ctx *Context) Link(d *Device) {
	ctx.devices = append(ctx.devices, d)
}

// AddDevice allocates, links and returns a device record in one step.
func (ctx *Context) AddDevice(addr pci.Addr) *Device {
	d := ctx.NewDevice(addr)
	ctx.Link(d)
	return d
}

// Context returns the owning access context.
func (d *Device) Context() *Context { return d.ctx }

// Known returns the set of field groups populated so far.
func (d *Device) Known() Fields { return d.known }

// Capabilities returns the discovered capability records in walk order.
// The list is only meaningful once FillCaps (and FillExtCaps for the
// extended ring) has been filled.
func (d *Device) Capabilities() []*pci.Capability { return d.caps }

// SetupCache installs buf as a read-through and write-through shadow of the
// first len(buf) bytes of configuration space. The cache is never
// authoritative for anything beyond that prefix.
func (d *Device) SetupCache(buf []byte) {
	d.cache = buf
	d.cacheLen = len(buf)
}

// release frees per-device state when the context shuts down.
func (d *Device) release() {
	if h, ok := d.ctx.method.(DeviceHooks); ok {
		h.CleanupDevice(d)
	}
	d.caps = nil
	d.cache = nil
	d.cacheLen = 0
	d.transport = nil
}

// methodFor resolves the transport serving this device.
func (d *Device) methodFor() Transport {
	if d.transport != nil {
		return d.transport
	}
	return d.ctx.method
}

// FillInfo populates the requested field groups and returns the set of
// groups known afterwards. Already-known groups are never re-fetched;
// FillRescan clears all known state and discards the capability list first,
// forcing re-derivation. Requesting the extended capability ring always
// (re)populates the ordinary capability list as well, since the ring is
// only reachable through an ordinary PCI Express capability.
func (d *Device) FillInfo(want Fields) Fields {
	if want&FillRescan != 0 {
		want &^= FillRescan
		d.known = 0
		d.caps = nil
	}
	if want&FillExtCaps != 0 {
		want |= FillCaps
	}
	if missing := want &^ d.known; missing != 0 {
		d.known |= d.methodFor().FillInfo(d, missing)
	}
	return d.known
}
