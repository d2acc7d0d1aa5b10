package access

import (
	"github.com/sercanarga/pciaccess/internal/pci"
)

// Capability walker. Both walks tolerate malformed chains by stopping at
// the first repeated offset; a broken chain yields the records found so
// far, never an error. The visited tables are plain arrays indexed by byte
// offset since the offset domain is small and fixed.

// scanCaps walks the legacy capability list. Only attempted when the status
// register advertises one.
func (d *Device) scanCaps() {
	if d.ReadWord(pci.RegStatus)&pci.StatusCapList == 0 {
		return
	}

	var visited [pci.ConfigSpaceLegacySize]bool
	ptr := int(d.ReadByte(pci.RegCapList)) &^ 3
	for ptr != 0 && ptr < pci.ConfigSpaceLegacySize {
		if visited[ptr] {
			d.ctx.Debugf("%s: capability chain loops back to %#02x, stopping", d.Addr, ptr)
			break
		}
		visited[ptr] = true

		id := d.ReadByte(ptr)
		next := int(d.ReadByte(ptr+1)) &^ 3
		if id == pci.CapSentinel {
			break
		}

		d.ctx.Debugf("%s: capability %#02x (%s) at %#02x", d.Addr, id, pci.CapabilityName(uint16(id)), ptr)
		d.caps = append(d.caps, &pci.Capability{
			Offset: ptr,
			ID:     uint16(id),
			Type:   pci.CapNormal,
		})
		ptr = next
	}
}

// scanExtCaps walks the PCIe extended capability ring. Only attempted when
// an ordinary PCI Express capability is present: devices without one have
// no config space beyond 0xFF and must not be probed there.
func (d *Device) scanExtCaps() {
	if d.findCap(pci.CapIDPCIExpress, pci.CapNormal) == nil {
		return
	}

	var visited [pci.ConfigSpaceSize]bool
	offset := pci.ExtCapStart
	for offset != 0 {
		if visited[offset] {
			d.ctx.Debugf("%s: extended capability chain loops back to %#03x, stopping", d.Addr, offset)
			break
		}
		visited[offset] = true

		header := d.ReadLong(offset)
		if header == 0 || header == 0xFFFFFFFF {
			break
		}

		id := uint16(header & 0xFFFF)
		d.ctx.Debugf("%s: extended capability %#04x (%s) at %#03x", d.Addr, id, pci.ExtCapabilityName(id), offset)
		d.caps = append(d.caps, &pci.Capability{
			Offset: offset,
			ID:     id,
			Type:   pci.CapExtended,
		})
		offset = int(header>>20) &^ 3
	}
}

// findCap returns the first already-discovered record matching id and type.
func (d *Device) findCap(id uint16, typ pci.CapType) *pci.Capability {
	for _, c := range d.caps {
		if c.ID == id && c.Type == typ {
			return c
		}
	}
	return nil
}

// FindCapability returns the first capability with the given id and type,
// triggering a lazy fill of the matching field group.
func (d *Device) FindCapability(id uint16, typ pci.CapType) *pci.Capability {
	c, _ := d.FindCapabilityNth(id, typ, 0)
	return c
}

// FindCapabilityNth returns the n-th (zero-based, in walk order) capability
// matching id and type, plus the total number of matches. It returns nil
// when fewer than n+1 matches exist.
func (d *Device) FindCapabilityNth(id uint16, typ pci.CapType, n int) (*pci.Capability, int) {
	if typ == pci.CapExtended {
		d.FillInfo(FillExtCaps)
	} else {
		d.FillInfo(FillCaps)
	}

	var found *pci.Capability
	count := 0
	for _, c := range d.caps {
		if c.ID != id || c.Type != typ {
			continue
		}
		if count == n {
			found = c
		}
		count++
	}
	return found, count
}

// ScanCapabilities runs the capability walks requested by want and returns
// the groups satisfied. Backends call it from their FillInfo to serve the
// FillCaps and FillExtCaps groups; the ordering rule (ordinary list before
// extended ring) is enforced by FillInfo itself.
func ScanCapabilities(d *Device, want Fields) Fields {
	var done Fields
	if want&FillCaps != 0 {
		d.scanCaps()
		done |= FillCaps
	}
	if want&FillExtCaps != 0 {
		d.scanExtCaps()
		done |= FillExtCaps
	}
	return done
}
