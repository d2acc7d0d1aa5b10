// Package dump implements the dump-file replay backend: devices are
// synthesized from a text dump of their configuration space, so the library
// runs unmodified without hardware. The format is line oriented: a device
// header line starting with a bus address ("01:00.0", optionally followed
// by a description), then hex byte rows "OFF: b0 b1 ... b15".
package dump

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sercanarga/pciaccess/internal/access"
	"github.com/sercanarga/pciaccess/internal/pci"
)

func init() {
	access.Register(40, &method{})
}

type method struct {
	images map[pci.Addr][]byte
	order  []pci.Addr
}

func (m *method) Name() string { return "dump" }

func (m *method) Config(ctx *access.Context) {
	ctx.DefineParam("dump.name", "", "Name of the dump file to replay")
}

// Detect succeeds only when a dump file was named; replay never competes
// with real hardware access otherwise.
func (m *method) Detect(ctx *access.Context) bool {
	return ctx.Param("dump.name") != ""
}

func (m *method) Init(ctx *access.Context) error {
	name := ctx.Param("dump.name")
	if name == "" {
		return fmt.Errorf("dump: no file named (set the dump.name parameter)")
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer f.Close()

	images, order, err := parse(bufio.NewScanner(f))
	if err != nil {
		return fmt.Errorf("dump: parsing %s: %w", name, err)
	}
	m.images = images
	m.order = order
	return nil
}

func (m *method) Cleanup(ctx *access.Context) {
	m.images = nil
	m.order = nil
}

func (m *method) Scan(ctx *access.Context) error {
	for _, addr := range m.order {
		d := ctx.AddDevice(addr)
		d.SetupBuffer(m.images[addr])
	}
	return nil
}

// The transport slots are never reached: every scanned device carries its
// own buffer transport. They exist to satisfy the method contract for
// devices allocated by hand against this method.
func (m *method) Read(d *access.Device, pos int, buf []byte) bool {
	img, ok := m.images[d.Addr]
	if !ok || pos < 0 || pos+len(buf) > len(img) {
		return false
	}
	copy(buf, img[pos:pos+len(buf)])
	return true
}

func (m *method) Write(d *access.Device, pos int, buf []byte) bool {
	return false
}

func (m *method) FillInfo(d *access.Device, want access.Fields) access.Fields {
	return access.GenericFillInfo(d, want)
}

// parse reads the dump format. Rows may extend an image up to the full
// 4096-byte extended space; images are sized to the highest row seen,
// rounded up to a legacy or extended space size.
func parse(sc *bufio.Scanner) (map[pci.Addr][]byte, []pci.Addr, error) {
	images := make(map[pci.Addr][]byte)
	var order []pci.Addr
	var cur pci.Addr
	var curImg []byte
	haveCur := false

	flush := func() {
		if !haveCur {
			return
		}
		size := pci.ConfigSpaceLegacySize
		if len(curImg) > pci.ConfigSpaceLegacySize {
			size = pci.ConfigSpaceSize
		}
		img := make([]byte, size)
		copy(img, curImg)
		if _, dup := images[cur]; !dup {
			order = append(order, cur)
		}
		images[cur] = img
	}

	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimRight(sc.Text(), "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if addr, ok := parseHeader(line); ok {
			flush()
			cur = addr
			curImg = nil
			haveCur = true
			continue
		}

		if !haveCur {
			return nil, nil, fmt.Errorf("line %d: data row before any device header", lineno)
		}
		off, data, err := parseRow(line)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineno, err)
		}
		if off+len(data) > pci.ConfigSpaceSize {
			return nil, nil, fmt.Errorf("line %d: row exceeds config space", lineno)
		}
		if off+len(data) > len(curImg) {
			grown := make([]byte, off+len(data))
			copy(grown, curImg)
			curImg = grown
		}
		copy(curImg[off:], data)
	}
	if err := sc.Err(); err != nil {
		return nil, nil, err
	}
	flush()
	return images, order, nil
}

// parseHeader recognizes a device header line: an address token, optionally
// followed by free-form description text.
func parseHeader(line string) (pci.Addr, bool) {
	token, _, _ := strings.Cut(line, " ")
	if !strings.Contains(token, ".") {
		return pci.Addr{}, false
	}
	addr, err := pci.ParseAddr(token)
	if err != nil {
		return pci.Addr{}, false
	}
	return addr, true
}

// parseRow parses "OFF: b0 b1 ..." hex rows.
func parseRow(line string) (int, []byte, error) {
	offStr, rest, ok := strings.Cut(line, ":")
	if !ok {
		return 0, nil, fmt.Errorf("malformed row %q", line)
	}
	var off int
	if _, err := fmt.Sscanf(strings.TrimSpace(offStr), "%x", &off); err != nil {
		return 0, nil, fmt.Errorf("bad offset in row %q", line)
	}

	var data []byte
	for _, tok := range strings.Fields(rest) {
		var b uint8
		if _, err := fmt.Sscanf(tok, "%x", &b); err != nil || len(tok) > 2 {
			return 0, nil, fmt.Errorf("bad byte %q in row", tok)
		}
		data = append(data, b)
	}
	if len(data) == 0 {
		return 0, nil, fmt.Errorf("empty row %q", line)
	}
	return off, data, nil
}
