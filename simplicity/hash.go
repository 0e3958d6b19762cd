// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the size of every Simplicity Merkle root.
const HashSize = 32

// CMR is the commitment Merkle root of a program.  Unlike transaction hashes
// it is displayed in natural byte order.
type CMR [HashSize]byte

// AMR is the annotated Merkle root of a program, which also commits to its
// type annotations.
type AMR [HashSize]byte

// IHR is the identity hash root of a program, which also commits to its
// witness data.
type IHR [HashSize]byte

// String returns the CMR as a hexadecimal string.
func (c CMR) String() string { return hex.EncodeToString(c[:]) }

// String returns the AMR as a hexadecimal string.
func (a AMR) String() string { return hex.EncodeToString(a[:]) }

// String returns the IHR as a hexadecimal string.
func (i IHR) String() string { return hex.EncodeToString(i[:]) }

// MarshalText implements encoding.TextMarshaler.
func (c CMR) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (a AMR) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// MarshalText implements encoding.TextMarshaler.
func (i IHR) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// parseHash32 decodes exactly 64 hex characters.
func parseHash32(s, what string) ([HashSize]byte, error) {
	var h [HashSize]byte
	if len(s) != 2*HashSize {
		return h, fmt.Errorf("invalid %s: expected %d hex characters, "+
			"got %d", what, 2*HashSize, len(s))
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return h, fmt.Errorf("invalid %s: %v", what, err)
	}
	return h, nil
}

// ParseCMR parses a CMR from its 64 character hex form.
func ParseCMR(s string) (CMR, error) {
	h, err := parseHash32(s, "CMR")
	return CMR(h), err
}

// ParseState parses 32 bytes of hex encoded state committed to next to a
// program's leaf.
func ParseState(s string) ([32]byte, error) {
	return parseHash32(s, "state")
}
