package access

import (
	"fmt"
	"testing"

	"github.com/sercanarga/pciaccess/internal/pci"
)

// stubMethod is a synthetic in-memory backend used throughout the package
// tests: it records every call so that tests can assert which paths reached
// the method and which were satisfied elsewhere.
type stubMethod struct {
	name       string
	detectable bool
	initErr    error

	// images maps addresses to config-space byte images; reads outside an
	// image (or for an unknown address) fail.
	images map[pci.Addr][]byte

	detectCalls  int
	initCalls    int
	cleanupCalls int
	readCalls    int
	writeCalls   int
	fillCalls    int
	readPos      []int
}

func newStubMethod() *stubMethod {
	return &stubMethod{
		name:       "stub",
		detectable: true,
		images:     make(map[pci.Addr][]byte),
	}
}

func (m *stubMethod) Name() string               { return m.name }
func (m *stubMethod) Config(ctx *Context)        { ctx.DefineParam("stub.param", "default", "stub parameter") }
func (m *stubMethod) Detect(ctx *Context) bool   { m.detectCalls++; return m.detectable }
func (m *stubMethod) Init(ctx *Context) error    { m.initCalls++; return m.initErr }
func (m *stubMethod) Cleanup(ctx *Context)       { m.cleanupCalls++ }
func (m *stubMethod) Scan(ctx *Context) error {
	for addr := range m.images {
		ctx.AddDevice(addr)
	}
	return nil
}

func (m *stubMethod) Read(d *Device, pos int, buf []byte) bool {
	m.readCalls++
	m.readPos = append(m.readPos, pos)
	img, ok := m.images[d.Addr]
	if !ok || pos < 0 || pos+len(buf) > len(img) {
		return false
	}
	copy(buf, img[pos:pos+len(buf)])
	return true
}

func (m *stubMethod) Write(d *Device, pos int, buf []byte) bool {
	m.writeCalls++
	img, ok := m.images[d.Addr]
	if !ok || pos < 0 || pos+len(buf) > len(img) {
		return false
	}
	copy(img[pos:pos+len(buf)], buf)
	return true
}

func (m *stubMethod) FillInfo(d *Device, want Fields) Fields {
	m.fillCalls++
	return GenericFillInfo(d, want)
}

// fatalError carries a fatal condition out of the overridden error handler.
type fatalError string

// newTestContext builds an initialized context over the stub alone, with a
// panicking fatal handler so tests can observe fatal conditions.
func newTestContext(t *testing.T, m *stubMethod) *Context {
	t.Helper()
	ctx := newContext([]Method{m})
	ctx.Errorf = func(format string, args ...any) {
		panic(fatalError(fmt.Sprintf(format, args...)))
	}
	ctx.Debugf = func(format string, args ...any) {}
	ctx.Warnf = func(format string, args ...any) {}
	if err := ctx.Init(m.name); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return ctx
}

// expectFatal runs fn and asserts that it hits the fatal error handler.
func expectFatal(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a fatal error, got none")
		}
		fe, ok := r.(fatalError)
		if !ok {
			panic(r)
		}
		msg = string(fe)
	}()
	fn()
	return ""
}

// testImage builds a legacy-sized config image with sane header fields.
func testImage() []byte {
	img := make([]byte, pci.ConfigSpaceLegacySize)
	img[0x00], img[0x01] = 0x86, 0x80 // vendor 8086
	img[0x02], img[0x03] = 0x33, 0x15 // device 1533
	img[0x0A], img[0x0B] = 0x00, 0x02 // class 0200
	img[0x08] = 0x03                  // revision
	return img
}
