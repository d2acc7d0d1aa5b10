package pci

import "testing"

func TestParseAddr(t *testing.T) {
	tests := []struct {
		in      string
		want    Addr
		wantErr bool
	}{
		{in: "0000:00:1f.3", want: Addr{Domain: 0, Bus: 0x00, Device: 0x1F, Function: 3}},
		{in: "0002:03:04.7", want: Addr{Domain: 2, Bus: 0x03, Device: 0x04, Function: 7}},
		{in: "03:00.0", want: Addr{Bus: 0x03, Device: 0x00, Function: 0}},
		{in: "  03:00.0  ", want: Addr{Bus: 0x03}},
		{in: "ff:1f.7", want: Addr{Bus: 0xFF, Device: 0x1F, Function: 7}},
		{in: "", wantErr: true},
		{in: "banana", wantErr: true},
		{in: "03", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAddr(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAddr(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAddr(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAddr(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddrString(t *testing.T) {
	a := Addr{Domain: 2, Bus: 0x03, Device: 0x1F, Function: 5}
	if got := a.String(); got != "0002:03:1f.5" {
		t.Errorf("String() = %q, want %q", got, "0002:03:1f.5")
	}
	if got := a.Short(); got != "03:1f.5" {
		t.Errorf("Short() = %q, want %q", got, "03:1f.5")
	}
}

func TestAddrRoundTrip(t *testing.T) {
	orig := Addr{Domain: 0x10, Bus: 0xA5, Device: 0x12, Function: 6}
	got, err := ParseAddr(orig.String())
	if err != nil {
		t.Fatalf("ParseAddr(%q) failed: %v", orig.String(), err)
	}
	if got != orig {
		t.Errorf("round trip = %v, want %v", got, orig)
	}
}
