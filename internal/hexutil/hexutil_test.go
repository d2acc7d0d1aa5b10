package hexutil

import (
	"bytes"
	"testing"
)

func TestToBytes(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{in: "8680d315", want: []byte{0x86, 0x80, 0xd3, 0x15}},
		{in: "86 80 d3 15", want: []byte{0x86, 0x80, 0xd3, 0x15}},
		{in: "  86\t80 ", want: []byte{0x86, 0x80}},
		{in: "", want: []byte{}},
		{in: "868", wantErr: true},
		{in: "86zz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ToBytes(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ToBytes(%q) succeeded, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ToBytes(%q) failed: %v", tt.in, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("ToBytes(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestFromBytes(t *testing.T) {
	if got := FromBytes([]byte{0x86, 0x80, 0x00, 0xff}); got != "86 80 00 ff" {
		t.Errorf("FromBytes() = %q", got)
	}
	if got := FromBytes(nil); got != "" {
		t.Errorf("FromBytes(nil) = %q, want empty", got)
	}
}

func TestDump(t *testing.T) {
	data := make([]byte, 18)
	for i := range data {
		data[i] = byte(i)
	}
	want := "00: 00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f\n" +
		"10: 10 11\n"
	if got := Dump(data, 0); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}
}

func TestDumpWithBase(t *testing.T) {
	got := Dump([]byte{0xaa, 0xbb}, 0x40)
	if got != "40: aa bb\n" {
		t.Errorf("Dump(base 0x40) = %q", got)
	}
}
