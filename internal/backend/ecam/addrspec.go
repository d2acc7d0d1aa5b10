package ecam

import (
	"fmt"
	"strconv"
	"strings"
)

// region is one ECAM window: a physical address range serving a bus range
// within one domain.
type region struct {
	domain   uint32
	startBus uint8
	endBus   uint8
	base     uint64
	length   uint64
}

// busWindowSize is the ECAM space consumed per bus: 32 devices x 8
// functions x 4K config space.
const busWindowSize = 1 << 20

// parseAddrSpec parses a comma-separated list of ECAM window
// specifications, each of the form
//
//	[domain:]start_bus[-end_bus]:start_addr[+length]
//
// All numbers are hex. The physical address must be 4-byte aligned. When
// the length is omitted it is derived from the bus range; when given, it
// caps the bus range instead.
func parseAddrSpec(spec string) ([]region, error) {
	var regions []region
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		r, err := parseOneRegion(part)
		if err != nil {
			return nil, fmt.Errorf("bad address range %q: %w", part, err)
		}
		regions = append(regions, r)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("empty address specification")
	}
	return regions, nil
}

func parseOneRegion(s string) (region, error) {
	var r region

	fields := strings.Split(s, ":")
	switch len(fields) {
	case 2:
		// start_bus[-end_bus]:start_addr[+length]
	case 3:
		dom, err := parseHex(fields[0], 32)
		if err != nil {
			return r, fmt.Errorf("domain: %w", err)
		}
		r.domain = uint32(dom)
		fields = fields[1:]
	default:
		return r, fmt.Errorf("expected [domain:]buses:address")
	}

	busPart, addrPart := fields[0], fields[1]

	startStr, endStr, ranged := strings.Cut(busPart, "-")
	start, err := parseHex(startStr, 8)
	if err != nil {
		return r, fmt.Errorf("start bus: %w", err)
	}
	r.startBus = uint8(start)
	r.endBus = 0xFF
	if ranged {
		end, err := parseHex(endStr, 8)
		if err != nil {
			return r, fmt.Errorf("end bus: %w", err)
		}
		if uint8(end) < r.startBus {
			return r, fmt.Errorf("end bus below start bus")
		}
		r.endBus = uint8(end)
	}

	baseStr, lenStr, hasLen := strings.Cut(addrPart, "+")
	base, err := parseHex(baseStr, 64)
	if err != nil {
		return r, fmt.Errorf("address: %w", err)
	}
	if base&3 != 0 {
		return r, fmt.Errorf("address not 4-byte aligned")
	}
	r.base = base

	if hasLen {
		length, err := parseHex(lenStr, 64)
		if err != nil {
			return r, fmt.Errorf("length: %w", err)
		}
		if length == 0 {
			return r, fmt.Errorf("zero length")
		}
		r.length = length
		// An explicit length caps how many buses the window serves.
		buses := length / busWindowSize
		if buses == 0 {
			return r, fmt.Errorf("length below one bus window")
		}
		if max := uint64(r.endBus-r.startBus) + 1; buses < max {
			r.endBus = r.startBus + uint8(buses-1)
		}
	} else {
		r.length = (uint64(r.endBus-r.startBus) + 1) * busWindowSize
	}
	return r, nil
}

// parseHex accepts bare hex digits only; prefixes and signs are rejected.
func parseHex(s string, bits int) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return 0, fmt.Errorf("non-hex digit %q", c)
		}
	}
	return strconv.ParseUint(s, 16, bits)
}

func (r *region) covers(domain uint32, bus uint8) bool {
	return r.domain == domain && bus >= r.startBus && bus <= r.endBus
}

// busBase returns the physical address of the given bus's window.
func (r *region) busBase(bus uint8) uint64 {
	return r.base + uint64(bus-r.startBus)*busWindowSize
}
