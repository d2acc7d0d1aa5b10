package access

import (
	"testing"

	"github.com/sercanarga/pciaccess/internal/pci"
)

func TestFillInfoIdempotent(t *testing.T) {
	m := newStubMethod()
	m.images[testAddr] = testImage()
	ctx := newTestContext(t, m)
	d := ctx.AddDevice(testAddr)

	got := d.FillInfo(FillIdent)
	if got&FillIdent == 0 {
		t.Fatal("FillInfo(FillIdent) did not report the group known")
	}
	if m.fillCalls != 1 {
		t.Fatalf("first FillInfo made %d method calls, want 1", m.fillCalls)
	}
	if d.VendorID != 0x8086 {
		t.Errorf("VendorID = %#04x, want 0x8086", d.VendorID)
	}

	// Second request for the same group must not reach the method.
	d.FillInfo(FillIdent)
	if m.fillCalls != 1 {
		t.Errorf("repeated FillInfo made %d method calls, want 1", m.fillCalls)
	}
}

func TestFillInfoFetchesOnlyMissingGroups(t *testing.T) {
	m := newStubMethod()
	m.images[testAddr] = testImage()
	ctx := newTestContext(t, m)
	d := ctx.AddDevice(testAddr)

	d.FillInfo(FillIdent)
	d.FillInfo(FillIdent | FillClass)
	if m.fillCalls != 2 {
		t.Fatalf("FillInfo made %d method calls, want 2", m.fillCalls)
	}
	if d.Class != 0x0200 {
		t.Errorf("Class = %#04x, want 0x0200", d.Class)
	}
}

func TestFillInfoRescan(t *testing.T) {
	m := newStubMethod()
	img := testImage()
	// One capability so that rescan observably clears the list.
	img[0x06] = 0x10 // status: capability list
	img[0x34] = 0x40
	img[0x40], img[0x41] = 0x05, 0x00 // MSI, end of list
	m.images[testAddr] = img
	ctx := newTestContext(t, m)
	d := ctx.AddDevice(testAddr)

	d.FillInfo(FillIdent | FillCaps)
	if len(d.Capabilities()) != 1 {
		t.Fatalf("got %d capabilities, want 1", len(d.Capabilities()))
	}
	calls := m.fillCalls

	// Rescan must clear the capability list and hit the method again even
	// though FillIdent is already known.
	img[0x06] = 0x00 // capability list gone
	got := d.FillInfo(FillIdent | FillRescan)
	if m.fillCalls != calls+1 {
		t.Errorf("rescan made %d method calls, want %d", m.fillCalls, calls+1)
	}
	if got&FillIdent == 0 {
		t.Error("rescan did not re-fill the requested group")
	}
	if len(d.Capabilities()) != 0 {
		t.Errorf("rescan left %d capabilities, want 0", len(d.Capabilities()))
	}
	if got&FillCaps != 0 {
		t.Error("rescan kept FillCaps known without it being requested")
	}
}

func TestFillInfoExtCapsImpliesCaps(t *testing.T) {
	m := newStubMethod()
	img := make([]byte, pci.ConfigSpaceSize)
	copy(img, testImage())
	img[0x06] = 0x10 // status: capability list
	img[0x34] = 0x40
	img[0x40], img[0x41] = 0x10, 0x00 // PCI Express, end of list
	// AER at 0x100, no next.
	img[0x100], img[0x101] = 0x01, 0x00
	img[0x102], img[0x103] = 0x01, 0x00 // version 1, next 0
	m.images[testAddr] = img
	ctx := newTestContext(t, m)
	d := ctx.AddDevice(testAddr)

	got := d.FillInfo(FillExtCaps)
	if got&FillCaps == 0 {
		t.Error("requesting the extended ring did not populate the ordinary list")
	}

	var normal, extended int
	for _, c := range d.Capabilities() {
		if c.Type == pci.CapExtended {
			extended++
		} else {
			normal++
		}
	}
	if normal != 1 || extended != 1 {
		t.Errorf("got %d normal and %d extended capabilities, want 1 and 1", normal, extended)
	}
}

func TestFillInfoUnachievedGroupStaysUnknown(t *testing.T) {
	m := newStubMethod()
	m.images[testAddr] = testImage()
	ctx := newTestContext(t, m)
	d := ctx.AddDevice(testAddr)

	// The generic path cannot size resources.
	got := d.FillInfo(FillSizes)
	if got&FillSizes != 0 {
		t.Error("FillSizes reported known through the generic path")
	}
}
