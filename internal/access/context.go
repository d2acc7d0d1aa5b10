package access

import (
	"fmt"
	"log/slog"
	"os"
)

// Context is one access session: the selected method, its parameters, the
// discovered device list and the diagnostic callbacks. A Context and its
// devices are not safe for concurrent use; callers needing parallelism use
// one context per goroutine.
type Context struct {
	// NumericIDs disables name lookups in display paths.
	NumericIDs bool
	// WritesEnabled must be set before any configuration-space write;
	// writing with it clear is a fatal error.
	WritesEnabled bool
	// Buscentric reports resources as seen from the bus: backends with
	// native (OS-translated) resource data fall back to raw config-space
	// values instead.
	Buscentric bool

	// Backend is private state owned by the selected method.
	Backend any

	// Debugf, Warnf and Errorf are the three diagnostic tiers. Errorf is
	// fatal: it must not return. The defaults log through slog; the
	// default Errorf exits the process, so library callers that need to
	// survive fatal conditions install their own handler.
	Debugf func(format string, args ...any)
	Warnf  func(format string, args ...any)
	Errorf func(format string, args ...any)

	method     Method
	candidates []Method
	params     map[string]*Param
	devices    []*Device
	closed     bool
}

// New creates a Context and registers the parameters of every known method.
func New() *Context {
	return newContext(Methods())
}

// newContext builds a context over an explicit candidate list. Tests use it
// to avoid the process-wide registry.
func newContext(candidates []Method) *Context {
	ctx := &Context{
		candidates: candidates,
		params:     make(map[string]*Param),
		Debugf: func(format string, args ...any) {
			slog.Debug(fmt.Sprintf(format, args...))
		},
		Warnf: func(format string, args ...any) {
			slog.Warn(fmt.Sprintf(format, args...))
		},
		Errorf: func(format string, args ...any) {
			slog.Error(fmt.Sprintf(format, args...))
			os.Exit(1)
		},
	}
	for _, m := range candidates {
		m.Config(ctx)
	}
	return ctx
}

// Fatalf reports a fatal error through the Errorf callback and panics if the
// callback returns, so that no caller observes execution past a fatal
// condition.
func (ctx *Context) Fatalf(format string, args ...any) {
	ctx.Errorf(format, args...)
	panic(fmt.Sprintf("fatal error handler returned: "+format, args...))
}

// Init selects and initializes an access method. An empty name auto-detects:
// candidates are probed in priority order and the first whose Detect
// succeeds is used. A non-empty name skips detection entirely; naming an
// unknown method is an error. Init failure of the selected method is final,
// there is no fallback to the next candidate.
func (ctx *Context) Init(name string) error {
	if ctx.method != nil {
		return fmt.Errorf("access method already initialized")
	}

	var m Method
	if name != "" {
		for _, c := range ctx.candidates {
			if c.Name() == name {
				m = c
				break
			}
		}
		if m == nil {
			return fmt.Errorf("unknown access method %q", name)
		}
	} else {
		for _, c := range ctx.candidates {
			if c.Detect(ctx) {
				ctx.Debugf("detected access method %s", c.Name())
				m = c
				break
			}
			ctx.Debugf("access method %s not usable", c.Name())
		}
		if m == nil {
			return fmt.Errorf("no usable access method found")
		}
	}

	if err := m.Init(ctx); err != nil {
		return fmt.Errorf("initializing access method %s: %w", m.Name(), err)
	}
	ctx.method = m
	return nil
}

// Method returns the selected method's name, or "" before Init.
func (ctx *Context) Method() string {
	if ctx.method == nil {
		return ""
	}
	return ctx.method.Name()
}

// Scan asks the selected method to enumerate devices. Per-device failures
// are reported as warnings by the method and do not abort the scan.
func (ctx *Context) Scan() error {
	if ctx.method == nil {
		return fmt.Errorf("access method not initialized")
	}
	return ctx.method.Scan(ctx)
}

// Devices returns the device list in discovery order.
func (ctx *Context) Devices() []*Device {
	return ctx.devices
}

// Close releases every device and runs the method's Cleanup. It is safe to
// call on a context whose Init failed or never ran.
func (ctx *Context) Close() {
	if ctx.closed {
		return
	}
	ctx.closed = true
	for _, d := range ctx.devices {
		d.release()
	}
	ctx.devices = nil
	if ctx.method != nil {
		ctx.method.Cleanup(ctx)
		ctx.method = nil
	}
}
