// Package pci defines the PCI/PCIe vocabulary shared by every access
// backend: bus addresses, configuration-space register offsets, capability
// identifiers and base-address-register decoding.
package pci

import (
	"fmt"
	"strings"
)

// Addr identifies a single PCI function: Domain:Bus:Device.Function.
type Addr struct {
	Domain   uint32
	Bus      uint8
	Device   uint8
	Function uint8
}

// ParseAddr parses an address in the format "DDDD:BB:DD.F" or "BB:DD.F".
func ParseAddr(s string) (Addr, error) {
	s = strings.TrimSpace(s)
	var a Addr

	// Full format: DDDD:BB:DD.F
	n, err := fmt.Sscanf(s, "%x:%x:%x.%x", &a.Domain, &a.Bus, &a.Device, &a.Function)
	if err == nil && n == 4 {
		return a, nil
	}

	// Short format: BB:DD.F (domain defaults to 0)
	n, err = fmt.Sscanf(s, "%x:%x.%x", &a.Bus, &a.Device, &a.Function)
	if err == nil && n == 3 {
		a.Domain = 0
		return a, nil
	}

	return Addr{}, fmt.Errorf("invalid PCI address %q: expected DDDD:BB:DD.F or BB:DD.F", s)
}

// String returns the canonical representation: "DDDD:BB:DD.F".
func (a Addr) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Device, a.Function)
}

// Short returns the representation without the domain: "BB:DD.F".
func (a Addr) Short() string {
	return fmt.Sprintf("%02x:%02x.%x", a.Bus, a.Device, a.Function)
}
