// Package hexutil provides hex parsing and dump formatting shared by the
// CLI and the dump fixture tooling.
package hexutil

import (
	"fmt"
	"strings"
)

// ToBytes converts a hex string, with or without whitespace, to bytes.
func ToBytes(hex string) ([]byte, error) {
	hex = strings.Join(strings.Fields(hex), "")
	if len(hex)%2 != 0 {
		return nil, fmt.Errorf("hex string has odd length: %d", len(hex))
	}
	result := make([]byte, len(hex)/2)
	for i := range result {
		if _, err := fmt.Sscanf(hex[i*2:i*2+2], "%02x", &result[i]); err != nil {
			return nil, fmt.Errorf("invalid hex at position %d: %w", i*2, err)
		}
	}
	return result, nil
}

// FromBytes converts bytes to a hex string with spaces between bytes.
func FromBytes(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02x", b)
	}
	return strings.Join(parts, " ")
}

// Dump renders data as 16-byte hex rows. Offsets are labelled starting at
// base, matching the dump-file row format.
func Dump(data []byte, base int) string {
	var sb strings.Builder
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(&sb, "%02x:", base+i)
		for j := 0; j < 16 && i+j < len(data); j++ {
			fmt.Fprintf(&sb, " %02x", data[i+j])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
