// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txenv

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/wire"
)

// maxWitnessItemSize bounds a single witness stack item.  Simplicity programs
// are limited by the block size, not the standardness rules of tapscript.
const maxWitnessItemSize = 4_000_000

// SerializeWitness encodes a witness stack the way the final_script_witness
// field of a PSET input stores it: a count followed by each item with a
// length prefix.
func SerializeWitness(stack [][]byte) []byte {
	var buf bytes.Buffer
	_ = wire.WriteVarInt(&buf, 0, uint64(len(stack)))
	for _, item := range stack {
		_ = wire.WriteVarBytes(&buf, 0, item)
	}
	return buf.Bytes()
}

// ParseWitness decodes a witness stack encoded by SerializeWitness.  Trailing
// bytes are an error.
func ParseWitness(b []byte) ([][]byte, error) {
	r := bytes.NewReader(b)
	count, err := wire.ReadVarInt(r, 0)
	if err != nil {
		return nil, err
	}
	if count > uint64(len(b)) {
		return nil, fmt.Errorf("witness claims %d items in %d bytes",
			count, len(b))
	}
	stack := make([][]byte, 0, count)
	for i := uint64(0); i < count; i++ {
		item, err := wire.ReadVarBytes(r, 0, maxWitnessItemSize,
			"witness item")
		if err != nil {
			return nil, err
		}
		stack = append(stack, item)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes after witness stack",
			r.Len())
	}
	return stack, nil
}
