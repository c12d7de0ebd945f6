// Package aetitle implements the Application Entity Title value type
// (spec.md §3): ASCII 1-16 chars, not all-whitespace, padded to 16 with
// spaces on the wire, trailing spaces non-significant on ingest.
package aetitle

import (
	"fmt"
	"strings"
)

// WireLength is the fixed width an AE title occupies on the wire.
const WireLength = 16

// AET is a validated Application Entity Title.
type AET struct {
	value string
}

// Parse validates a caller-supplied (not yet wire-padded) AE title.
func Parse(s string) (AET, error) {
	if len(s) == 0 || len(s) > WireLength {
		return AET{}, fmt.Errorf("aetitle: length %d out of range [1,%d]", len(s), WireLength)
	}
	if strings.TrimSpace(s) == "" {
		return AET{}, fmt.Errorf("aetitle: %q is all whitespace", s)
	}
	for _, r := range s {
		if r > 0x7e || r < 0x20 {
			return AET{}, fmt.Errorf("aetitle: %q contains non-ASCII-printable byte %q", s, r)
		}
	}
	return AET{value: s}, nil
}

// FromWire decodes a 16-byte wire field, trimming non-significant
// trailing spaces (and NULs, tolerated for lenient-mode peers).
func FromWire(b []byte) (AET, error) {
	return Parse(strings.TrimRight(string(b), " \x00"))
}

// String returns the trimmed AE title.
func (a AET) String() string { return a.value }

// Wire returns the 16-byte, space-padded wire representation.
func (a AET) Wire() [WireLength]byte {
	var out [WireLength]byte
	for i := range out {
		out[i] = ' '
	}
	copy(out[:], a.value)
	return out
}

// Equal compares two AE titles after their respective trimming.
func (a AET) Equal(o AET) bool { return a.value == o.value }

// IsZero reports whether a has never been assigned a value.
func (a AET) IsZero() bool { return a.value == "" }
