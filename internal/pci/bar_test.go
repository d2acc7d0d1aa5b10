package pci

import "testing"

func TestDecodeBaseAddrs(t *testing.T) {
	regs := []uint32{
		0xFE000008, // 32-bit memory, prefetchable
		0x0000E001, // I/O port
		0x00000004, // 64-bit memory, lower half
		0x00000001, // upper half of the previous register
		0x00000000, // unimplemented
		0xFFFFFFFF, // unassigned
	}
	bars := DecodeBaseAddrs(regs)
	if len(bars) != 6 {
		t.Fatalf("decoded %d BARs, want 6", len(bars))
	}

	if b := bars[0]; b.Kind != BARKindMem32 || b.Base != 0xFE000000 || !b.Prefetchable {
		t.Errorf("BAR0 = %+v, want prefetchable mem32 at 0xFE000000", b)
	}
	if b := bars[1]; b.Kind != BARKindIO || b.Base != 0xE000 {
		t.Errorf("BAR1 = %+v, want io at 0xE000", b)
	}
	if b := bars[2]; b.Kind != BARKindMem64 || b.Base != 0x100000000 || !b.Is64Bit {
		t.Errorf("BAR2 = %+v, want mem64 at 0x100000000", b)
	}
	if !bars[3].IsDisabled() {
		t.Errorf("BAR3 = %+v, want disabled (upper half)", bars[3])
	}
	if !bars[4].IsDisabled() || !bars[5].IsDisabled() {
		t.Error("unimplemented registers not reported as disabled")
	}
}

func TestDecodeBaseAddrs64BitAtEnd(t *testing.T) {
	// A 64-bit BAR in the last slot has no upper half to consume.
	bars := DecodeBaseAddrs([]uint32{0xD0000004})
	if len(bars) != 1 {
		t.Fatalf("decoded %d BARs, want 1", len(bars))
	}
	if b := bars[0]; b.Kind != BARKindMem64 || b.Base != 0xD0000000 {
		t.Errorf("BAR0 = %+v, want mem64 at 0xD0000000", b)
	}
}

func TestParseSysfsResource(t *testing.T) {
	lines := []string{
		"0x00000000fe000000 0x00000000fe01ffff 0x0000000000140204",
		"0x000000000000e000 0x000000000000e01f 0x0000000000040101",
		"0x00000000d0000000 0x00000000d0ffffff 0x0000000000002208",
		"0x0000000000000000 0x0000000000000000 0x0000000000000000",
	}
	bars := ParseSysfsResource(lines)
	if len(bars) != 4 {
		t.Fatalf("parsed %d BARs, want 4", len(bars))
	}

	if b := bars[0]; b.Kind != BARKindMem64 || b.Base != 0xFE000000 || b.Size != 0x20000 {
		t.Errorf("BAR0 = %+v, want mem64 at 0xFE000000 size 0x20000", b)
	}
	if b := bars[1]; b.Kind != BARKindIO || b.Base != 0xE000 || b.Size != 0x20 {
		t.Errorf("BAR1 = %+v, want io at 0xE000 size 0x20", b)
	}
	if b := bars[2]; b.Kind != BARKindMem32 || !b.Prefetchable || b.Size != 0x1000000 {
		t.Errorf("BAR2 = %+v, want prefetchable mem32 size 0x1000000", b)
	}
	if !bars[3].IsDisabled() {
		t.Errorf("BAR3 = %+v, want disabled", bars[3])
	}
}

func TestBARSizeHuman(t *testing.T) {
	tests := []struct {
		size uint64
		want string
	}{
		{0, "0"},
		{32, "32 B"},
		{4096, "4 KB"},
		{16 << 20, "16 MB"},
		{8 << 30, "8 GB"},
	}
	for _, tt := range tests {
		b := BAR{Size: tt.size}
		if got := b.SizeHuman(); got != tt.want {
			t.Errorf("SizeHuman(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestBARString(t *testing.T) {
	b := BAR{Index: 2, Kind: BARKindMem64, Base: 0xD0000000, Size: 1 << 24, Prefetchable: true}
	want := "BAR2: mem64 at 0xd0000000, size 16 MB [prefetchable]"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	d := BAR{Index: 5, Kind: BARKindDisabled}
	if got := d.String(); got != "BAR5: [disabled]" {
		t.Errorf("String() = %q, want %q", got, "BAR5: [disabled]")
	}
}
