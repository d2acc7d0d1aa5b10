package access

import "strings"

// Fields is the bitmask vocabulary of the fill-info protocol. Each bit names
// one group of Device fields; a set bit in Device known state means the
// group has been populated and will not be fetched again.
type Fields uint32

const (
	FillIdent       Fields = 1 << iota // vendor and device ID
	FillClass                          // 16-bit device class
	FillClassExt                       // programming interface and revision
	FillIRQ                            // interrupt line
	FillBases                          // base address registers
	FillROMBase                        // expansion ROM base
	FillSizes                          // resource window sizes
	FillBridgeBases                    // bridge I/O, memory and prefetch windows
	FillIOFlags                        // resource flag words
	FillCaps                           // legacy capability list
	FillExtCaps                        // PCIe extended capability ring
	FillPhysSlot                       // physical slot name
	FillModuleAlias                    // kernel module alias
	FillNUMANode                       // NUMA node
	FillLabel                          // firmware device label
	FillParent                         // parent bridge back-reference
	FillSubsys                         // subsystem vendor and device ID
	FillDriver                         // bound kernel driver name
	FillIOMMUGroup                     // IOMMU group number
	FillDTNode                         // devicetree node path

	// FillRescan is never stored: it clears all known state and discards
	// the capability list before the missing set is computed.
	FillRescan Fields = 1 << 31
)

// FillAll is every storable field group.
const FillAll = FillDTNode<<1 - 1

var fieldNames = []struct {
	f    Fields
	name string
}{
	{FillIdent, "ident"},
	{FillClass, "class"},
	{FillClassExt, "class-ext"},
	{FillIRQ, "irq"},
	{FillBases, "bases"},
	{FillROMBase, "rom"},
	{FillSizes, "sizes"},
	{FillBridgeBases, "bridge-bases"},
	{FillIOFlags, "io-flags"},
	{FillCaps, "caps"},
	{FillExtCaps, "ext-caps"},
	{FillPhysSlot, "phys-slot"},
	{FillModuleAlias, "module-alias"},
	{FillNUMANode, "numa-node"},
	{FillLabel, "label"},
	{FillParent, "parent"},
	{FillSubsys, "subsys"},
	{FillDriver, "driver"},
	{FillIOMMUGroup, "iommu-group"},
	{FillDTNode, "dt-node"},
	{FillRescan, "rescan"},
}

func (f Fields) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range fieldNames {
		if f&fn.f != 0 {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}
