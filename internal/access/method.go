// Package access implements the core of the library: the access-method
// registry, the per-session context, the device record with its cached
// configuration-space accessor and mask-driven fill-info protocol, the
// capability walker, and the generic scan/fill fallback used by backends
// with no native enumeration.
//
// Backends register themselves with Register and implement Method; the rest
// of the package never touches OS primitives directly.
package access

import (
	"fmt"
	"sort"
)

// Transport moves raw configuration-space bytes for one device. It is the
// subset of Method that can be overridden per device (see Device.SetupBuffer).
type Transport interface {
	// Read copies len(buf) bytes starting at pos into buf. It reports
	// false when the range cannot be read.
	Read(d *Device, pos int, buf []byte) bool
	// Write copies buf to configuration space starting at pos. It reports
	// false when the range cannot be written.
	Write(d *Device, pos int, buf []byte) bool
	// FillInfo populates the requested field groups on d and returns the
	// subset it achieved.
	FillInfo(d *Device, want Fields) Fields
}

// Method is the contract every access backend satisfies. Config registers
// parameters, Detect probes usability without side effects, Init/Cleanup
// bracket the session, Scan enumerates devices.
type Method interface {
	Transport
	Name() string
	Config(ctx *Context)
	Detect(ctx *Context) bool
	Init(ctx *Context) error
	Cleanup(ctx *Context)
	Scan(ctx *Context) error
}

// VPDReader is implemented by methods that can reach vendor product data.
// A method without it makes every VPD read report "not available".
type VPDReader interface {
	ReadVPD(d *Device, pos int, buf []byte) bool
}

// DeviceHooks is implemented by methods that keep per-device state.
type DeviceHooks interface {
	InitDevice(d *Device)
	CleanupDevice(d *Device)
}

type registeredMethod struct {
	priority int
	order    int
	method   Method
}

var registry []registeredMethod

// Register adds a backend to the method registry. Lower priority values are
// probed first during auto-detection. Backends call this from init.
func Register(priority int, m Method) {
	registry = append(registry, registeredMethod{
		priority: priority,
		order:    len(registry),
		method:   m,
	})
	sort.SliceStable(registry, func(i, j int) bool {
		if registry[i].priority != registry[j].priority {
			return registry[i].priority < registry[j].priority
		}
		return registry[i].order < registry[j].order
	})
}

// Methods returns the registered backends in detection order.
func Methods() []Method {
	out := make([]Method, len(registry))
	for i, rm := range registry {
		out[i] = rm.method
	}
	return out
}

// LookupMethod finds a registered backend by name.
func LookupMethod(name string) (Method, error) {
	for _, rm := range registry {
		if rm.method.Name() == name {
			return rm.method, nil
		}
	}
	return nil, fmt.Errorf("unknown access method %q", name)
}
