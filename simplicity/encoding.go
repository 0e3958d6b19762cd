// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"encoding/base64"
	"encoding/hex"
)

// isLowerHex returns whether s is an even-length string made only of the
// lowercase hex alphabet.
func isLowerHex(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// HexOrBase64 decodes program and witness encodings.  Programs are
// canonically base64 while witnesses are canonically hex, but both forms are
// seen for both.  An even-length lowercase hex string is treated as hex,
// anything else as standard base64.
func HexOrBase64(s string) ([]byte, error) {
	if isLowerHex(s) {
		return hex.DecodeString(s)
	}
	return base64.StdEncoding.DecodeString(s)
}
