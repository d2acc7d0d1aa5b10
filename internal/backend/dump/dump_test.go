package dump

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

const sampleDump = `# e1000e on a desktop board
00:1f.6 Ethernet controller: Intel Corporation Ethernet Connection
00: 86 80 d3 15 07 04 10 00 21 00 00 02 00 00 00 00
10: 00 00 20 b1 00 00 00 00 00 00 00 00 00 00 00 00
30: 00 00 00 00 c8 00 00 00 00 00 00 00 0b 01 00 00
c8: 01 d0 22 00 00 00 00 00
d0: 05 00 80 00 00 00 00 00

01:00.0 Non-Volatile memory controller
00: 4d 14 0b 22 06 04 10 00 00 02 08 01 00 00 00 00
100: 01 00 01 00 00 00 00 00
`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.dump")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing dump file: %v", err)
	}
	return path
}

func newDumpContext(t *testing.T, path string) *access.Context {
	t.Helper()
	ctx := access.New()
	ctx.Errorf = func(format string, args ...any) {
		panic(fmt.Sprintf(format, args...))
	}
	ctx.Debugf = func(format string, args ...any) {}
	if err := ctx.SetParam("dump.name", path); err != nil {
		t.Fatalf("SetParam() failed: %v", err)
	}
	if err := ctx.Init("dump"); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return ctx
}

func TestDumpReplay(t *testing.T) {
	ctx := newDumpContext(t, writeDump(t, sampleDump))
	defer ctx.Close()
	if err := ctx.Scan(); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	devices := ctx.Devices()
	if len(devices) != 2 {
		t.Fatalf("Scan() found %d devices, want 2", len(devices))
	}

	nic := devices[0]
	if want := (pci.Addr{Bus: 0x00, Device: 0x1F, Function: 6}); nic.Addr != want {
		t.Fatalf("first device at %s, want %s", nic.Addr, want)
	}
	nic.FillInfo(access.FillIdent | access.FillClass)
	if nic.VendorID != 0x8086 || nic.DeviceID != 0x15D3 {
		t.Errorf("identity = %04x:%04x, want 8086:15d3", nic.VendorID, nic.DeviceID)
	}
	if nic.Class != 0x0200 {
		t.Errorf("Class = %#04x, want 0x0200", nic.Class)
	}

	// Rows past 0xFF promote the image to the extended space size.
	nvme := devices[1]
	if hdr := nvme.ReadLong(pci.ExtCapStart); hdr != 0x00010001 {
		t.Errorf("extended header = %#08x, want 0x00010001", hdr)
	}
}

func TestDumpCapabilityWalk(t *testing.T) {
	ctx := newDumpContext(t, writeDump(t, sampleDump))
	defer ctx.Close()
	if err := ctx.Scan(); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}

	nic := ctx.Devices()[0]
	cap := nic.FindCapability(pci.CapIDMSI, pci.CapNormal)
	if cap == nil {
		t.Fatal("MSI capability not found")
	}
	if cap.Offset != 0xD0 {
		t.Errorf("MSI capability at %#x, want 0xD0", cap.Offset)
	}
}

func TestDumpWritesRejected(t *testing.T) {
	ctx := newDumpContext(t, writeDump(t, sampleDump))
	defer ctx.Close()
	ctx.WritesEnabled = true
	if err := ctx.Scan(); err != nil {
		t.Fatalf("Scan() failed: %v", err)
	}
	d := ctx.Devices()[0]
	if d.WriteByte(0x40, 0xAA) {
		t.Error("write to a replayed device succeeded")
	}
}

func TestDumpDetectRequiresName(t *testing.T) {
	m := &method{}
	ctx := access.New()
	if m.Detect(ctx) {
		t.Error("Detect() usable without a file name")
	}
	if err := ctx.SetParam("dump.name", "somefile"); err != nil {
		t.Fatalf("SetParam() failed: %v", err)
	}
	if !m.Detect(ctx) {
		t.Error("Detect() not usable with a file name set")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"row before header", "00: 86 80\n"},
		{"bad offset", "00:1f.6\nzz: 86 80\n"},
		{"bad byte", "00:1f.6\n00: 86 gg\n"},
		{"row past config space", "00:1f.6\nff9: 00 00 00 00 00 00 00 00\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := parse(bufio.NewScanner(strings.NewReader(tt.in)))
			if err == nil {
				t.Errorf("parse accepted %q", tt.in)
			}
		})
	}
}

func TestParseImageSizing(t *testing.T) {
	in := "03:00.0\n00: 11 22\n"
	images, order, err := parse(bufio.NewScanner(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(order) != 1 {
		t.Fatalf("parsed %d devices, want 1", len(order))
	}
	img := images[order[0]]
	if len(img) != pci.ConfigSpaceLegacySize {
		t.Errorf("image size %d, want %d", len(img), pci.ConfigSpaceLegacySize)
	}
	if img[0] != 0x11 || img[1] != 0x22 {
		t.Error("row bytes not placed at offset 0")
	}
}
