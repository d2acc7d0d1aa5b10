package pci

// Standard PCI capability IDs (legacy capability list, offsets 0x40-0xFF).
const (
	CapIDPowerManagement   uint16 = 0x01
	CapIDAGP               uint16 = 0x02
	CapIDVPD               uint16 = 0x03
	CapIDSlotID            uint16 = 0x04
	CapIDMSI               uint16 = 0x05
	CapIDCompactPCIHotSwap uint16 = 0x06
	CapIDPCIX              uint16 = 0x07
	CapIDHyperTransport    uint16 = 0x08
	CapIDVendorSpecific    uint16 = 0x09
	CapIDDebugPort         uint16 = 0x0A
	CapIDCompactPCI        uint16 = 0x0B
	CapIDPCIHotPlug        uint16 = 0x0C
	CapIDBridgeSubsysVID   uint16 = 0x0D
	CapIDAGP8x             uint16 = 0x0E
	CapIDSecureDevice      uint16 = 0x0F
	CapIDPCIExpress        uint16 = 0x10
	CapIDMSIX              uint16 = 0x11
	CapIDSATADataIndex     uint16 = 0x12
	CapIDAdvancedFeatures  uint16 = 0x13
	CapIDEnhancedAlloc     uint16 = 0x14
	CapIDFlatteningPortal  uint16 = 0x15
)

// PCIe extended capability IDs (extended config space, offsets 0x100-0xFFF).
const (
	ExtCapIDAER                uint16 = 0x0001
	ExtCapIDVC                 uint16 = 0x0002
	ExtCapIDDeviceSerialNumber uint16 = 0x0003
	ExtCapIDPowerBudgeting     uint16 = 0x0004
	ExtCapIDRCLinkDeclaration  uint16 = 0x0005
	ExtCapIDRCInternalLinkCtl  uint16 = 0x0006
	ExtCapIDRCEventCollector   uint16 = 0x0007
	ExtCapIDMFVC               uint16 = 0x0008
	ExtCapIDRCRB               uint16 = 0x000A
	ExtCapIDVendorSpecific     uint16 = 0x000B
	ExtCapIDACS                uint16 = 0x000D
	ExtCapIDARI                uint16 = 0x000E
	ExtCapIDATS                uint16 = 0x000F
	ExtCapIDSRIOV              uint16 = 0x0010
	ExtCapIDMulticast          uint16 = 0x0012
	ExtCapIDPageRequest        uint16 = 0x0013
	ExtCapIDResizableBAR       uint16 = 0x0015
	ExtCapIDDPA                uint16 = 0x0016
	ExtCapIDTPHRequester       uint16 = 0x0017
	ExtCapIDLTR                uint16 = 0x0018
	ExtCapIDSecondaryPCIe      uint16 = 0x0019
	ExtCapIDPASID              uint16 = 0x001B
	ExtCapIDDPC                uint16 = 0x001D
	ExtCapIDL1PMSubstates      uint16 = 0x001E
	ExtCapIDPTM                uint16 = 0x001F
)

// CapSentinel terminates the legacy capability list.
const CapSentinel = 0xFF

// CapType distinguishes the two capability spaces a record can come from.
type CapType int

const (
	// CapNormal is a capability from the legacy list (pointer at 0x34).
	CapNormal CapType = iota
	// CapExtended is a PCIe extended capability (ring starting at 0x100).
	CapExtended
)

func (t CapType) String() string {
	if t == CapExtended {
		return "extended"
	}
	return "normal"
}

// Capability is one discovered capability record. Records are kept in the
// order they were encountered while walking the chain.
type Capability struct {
	Offset int     `json:"offset"`
	ID     uint16  `json:"id"`
	Type   CapType `json:"type"`
}

// Name returns the human-readable capability name, or "Unknown".
func (c *Capability) Name() string {
	if c.Type == CapExtended {
		return ExtCapabilityName(c.ID)
	}
	return CapabilityName(c.ID)
}

var capNames = map[uint16]string{
	CapIDPowerManagement:   "Power Management",
	CapIDAGP:               "AGP",
	CapIDVPD:               "Vital Product Data",
	CapIDSlotID:            "Slot Identification",
	CapIDMSI:               "MSI",
	CapIDCompactPCIHotSwap: "CompactPCI HotSwap",
	CapIDPCIX:              "PCI-X",
	CapIDHyperTransport:    "HyperTransport",
	CapIDVendorSpecific:    "Vendor Specific",
	CapIDDebugPort:         "Debug Port",
	CapIDCompactPCI:        "CompactPCI",
	CapIDPCIHotPlug:        "PCI Hot-Plug",
	CapIDBridgeSubsysVID:   "Bridge Subsystem VID",
	CapIDAGP8x:             "AGP 8x",
	CapIDSecureDevice:      "Secure Device",
	CapIDPCIExpress:        "PCI Express",
	CapIDMSIX:              "MSI-X",
	CapIDSATADataIndex:     "SATA Data/Index",
	CapIDAdvancedFeatures:  "Advanced Features",
	CapIDEnhancedAlloc:     "Enhanced Allocation",
	CapIDFlatteningPortal:  "Flattening Portal Bridge",
}

var extCapNames = map[uint16]string{
	ExtCapIDAER:                "Advanced Error Reporting",
	ExtCapIDVC:                 "Virtual Channel",
	ExtCapIDDeviceSerialNumber: "Device Serial Number",
	ExtCapIDPowerBudgeting:     "Power Budgeting",
	ExtCapIDRCLinkDeclaration:  "Root Complex Link Declaration",
	ExtCapIDVendorSpecific:     "Vendor Specific",
	ExtCapIDACS:                "Access Control Services",
	ExtCapIDARI:                "Alternative Routing-ID Interpretation",
	ExtCapIDATS:                "Address Translation Services",
	ExtCapIDSRIOV:              "Single Root I/O Virtualization",
	ExtCapIDMulticast:          "Multicast",
	ExtCapIDPageRequest:        "Page Request Interface",
	ExtCapIDResizableBAR:       "Resizable BAR",
	ExtCapIDDPA:                "Dynamic Power Allocation",
	ExtCapIDTPHRequester:       "TPH Requester",
	ExtCapIDLTR:                "Latency Tolerance Reporting",
	ExtCapIDSecondaryPCIe:      "Secondary PCI Express",
	ExtCapIDPASID:              "Process Address Space ID",
	ExtCapIDDPC:                "Downstream Port Containment",
	ExtCapIDL1PMSubstates:      "L1 PM Substates",
	ExtCapIDPTM:                "Precision Time Measurement",
}

// CapabilityName returns the human-readable name for a legacy capability ID.
func CapabilityName(id uint16) string {
	if name, ok := capNames[id]; ok {
		return name
	}
	return "Unknown"
}

// ExtCapabilityName returns the human-readable name for an extended
// capability ID.
func ExtCapabilityName(id uint16) string {
	if name, ok := extCapNames[id]; ok {
		return name
	}
	return "Unknown"
}
