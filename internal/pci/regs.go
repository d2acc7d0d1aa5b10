package pci

// Configuration space sizes.
const (
	// ConfigSpaceSize is the full PCIe extended config space size (4KB).
	ConfigSpaceSize = 4096
	// ConfigSpaceLegacySize is the legacy PCI config space size (256 bytes).
	ConfigSpaceLegacySize = 256
	// ExtCapStart is the first valid extended capability offset.
	ExtCapStart = 0x100
)

// Common configuration-space register offsets (type 0 and type 1 headers).
const (
	RegVendorID      = 0x00
	RegDeviceID      = 0x02
	RegCommand       = 0x04
	RegStatus        = 0x06
	RegRevisionID    = 0x08
	RegProgIF        = 0x09
	RegClassDevice   = 0x0A // 16-bit base<<8 | sub
	RegCacheLineSize = 0x0C
	RegLatencyTimer  = 0x0D
	RegHeaderType    = 0x0E
	RegBIST          = 0x0F
	RegBaseAddr0     = 0x10
	RegSubsysVendor  = 0x2C
	RegSubsysDevice  = 0x2E
	RegROMAddress    = 0x30
	RegCapList       = 0x34
	RegInterruptLine = 0x3C
	RegInterruptPin  = 0x3D
)

// Type 1 (PCI-to-PCI bridge) header registers.
const (
	RegPrimaryBus      = 0x18
	RegSecondaryBus    = 0x19
	RegSubordinateBus  = 0x1A
	RegIOBase          = 0x1C
	RegIOLimit         = 0x1D
	RegMemoryBase      = 0x20
	RegMemoryLimit     = 0x22
	RegPrefMemoryBase  = 0x24
	RegPrefMemoryLimit = 0x26
	RegPrefBaseUpper   = 0x28
	RegPrefLimitUpper  = 0x2C
	RegIOBaseUpper     = 0x30
	RegIOLimitUpper    = 0x32
	RegBridgeROM       = 0x38
)

// Status register bits.
const (
	StatusCapList = 0x0010 // capability list present
)

// Header type values (low 7 bits of RegHeaderType).
const (
	HeaderTypeNormal  = 0x00
	HeaderTypeBridge  = 0x01
	HeaderTypeCardbus = 0x02
	// HeaderTypeMultiFunction is bit 7 of the header type register.
	HeaderTypeMultiFunction = 0x80
)

// Base-address register bits.
const (
	BaseAddrSpaceIO    = 0x01
	BaseAddrMemTypeMask = 0x06
	BaseAddrMemType32  = 0x00
	BaseAddrMemType1M  = 0x02
	BaseAddrMemType64  = 0x04
	BaseAddrMemPrefetch = 0x08
	BaseAddrIOMask     = ^uint64(0x03)
	BaseAddrMemMask    = ^uint64(0x0F)
)

// BaseAddrCount is the number of base address registers in a type 0 header.
const BaseAddrCount = 6

// ROMAddressEnable is bit 0 of the expansion ROM base address register.
const ROMAddressEnable = 0x01
