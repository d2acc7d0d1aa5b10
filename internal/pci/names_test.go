package pci

import "testing"

func TestCapabilityName(t *testing.T) {
	if got := CapabilityName(CapIDMSIX); got != "MSI-X" {
		t.Errorf("CapabilityName(MSI-X) = %q", got)
	}
	if got := CapabilityName(0xE7); got != "Unknown" {
		t.Errorf("CapabilityName(0xE7) = %q, want Unknown", got)
	}
}

func TestExtCapabilityName(t *testing.T) {
	if got := ExtCapabilityName(ExtCapIDAER); got != "Advanced Error Reporting" {
		t.Errorf("ExtCapabilityName(AER) = %q", got)
	}
	if got := ExtCapabilityName(0x7777); got != "Unknown" {
		t.Errorf("ExtCapabilityName(0x7777) = %q, want Unknown", got)
	}
}

func TestCapabilityNameDispatch(t *testing.T) {
	// ID 0x10 means PCI Express in the legacy space and SR-IOV in the
	// extended space; the record's type picks the right table.
	normal := Capability{Offset: 0x40, ID: 0x10, Type: CapNormal}
	if got := normal.Name(); got != "PCI Express" {
		t.Errorf("normal cap 0x10 = %q, want %q", got, "PCI Express")
	}
	ext := Capability{Offset: 0x100, ID: 0x10, Type: CapExtended}
	if got := ext.Name(); got != "Single Root I/O Virtualization" {
		t.Errorf("extended cap 0x10 = %q, want %q", got, "Single Root I/O Virtualization")
	}
}

func TestClassName(t *testing.T) {
	if got := ClassName(0x0200); got != "Ethernet controller" {
		t.Errorf("ClassName(0x0200) = %q", got)
	}
	// Unknown subclass falls back to the base class.
	if got := ClassName(0x02E0); got != "Network controller" {
		t.Errorf("ClassName(0x02e0) = %q, want base-class fallback", got)
	}
	if got := ClassName(0xEE00); got != "Class [ee00]" {
		t.Errorf("ClassName(0xee00) = %q", got)
	}
}
