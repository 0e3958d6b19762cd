// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// WebIDEGenesisHash is the genesis hash hard-coded by the Simplicity web IDE,
// in internal byte order.  It is the Liquid test network genesis hash.
var WebIDEGenesisHash = chainhash.Hash([chainhash.HashSize]byte{ // Make go vet happy.
	0xc1, 0xb1, 0x6a, 0xe2, 0x4f, 0x24, 0x23, 0xae,
	0xa2, 0xea, 0x34, 0x55, 0x22, 0x92, 0x79, 0x3b,
	0x5b, 0x5e, 0x82, 0x99, 0x9a, 0x1e, 0xed, 0x81,
	0xd5, 0x6a, 0xee, 0x52, 0x8e, 0xda, 0x71, 0xa7,
})

// BitcoinGenesisHash is the byte sequence some older tooling uses as its
// fallback genesis hash.  The bytes are kept exactly as those tools wrote
// them, which is the Bitcoin main network genesis hash in display order.
var BitcoinGenesisHash = chainhash.Hash([chainhash.HashSize]byte{ // Make go vet happy.
	0x00, 0x00, 0x00, 0x00, 0x00, 0x19, 0xd6, 0x68,
	0x9c, 0x08, 0x5a, 0xe1, 0x65, 0x83, 0x1e, 0x93,
	0x4f, 0xf7, 0x63, 0xae, 0x46, 0xa2, 0xa6, 0xc1,
	0x72, 0xb3, 0xf1, 0xb6, 0x0a, 0x8c, 0xe2, 0x6f,
})

// DefaultGenesisHash is used whenever an operation that binds a program to a
// chain is not given a genesis hash.  Applications may point it at another
// value during startup, before any operation runs.
var DefaultGenesisHash = WebIDEGenesisHash

// genesisPresets maps the names accepted by ParseGenesisHash to their
// hashes.
var genesisPresets = map[string]*chainhash.Hash{
	"webide":  &WebIDEGenesisHash,
	"bitcoin": &BitcoinGenesisHash,
}

// ParseGenesisHash parses a genesis hash given either as one of the preset
// names "webide" and "bitcoin", or as 64 hex characters in display (byte
// reversed) order, the same way block hashes are printed.
func ParseGenesisHash(s string) (chainhash.Hash, error) {
	if preset, ok := genesisPresets[strings.ToLower(s)]; ok {
		return *preset, nil
	}
	if len(s) != chainhash.MaxHashStringSize {
		return chainhash.Hash{}, fmt.Errorf("genesis hash must be %d hex "+
			"characters, got %d", chainhash.MaxHashStringSize, len(s))
	}
	hash, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return chainhash.Hash{}, err
	}
	return *hash, nil
}

// ResolveGenesisHash returns the parsed genesis hash when s is non-nil and
// DefaultGenesisHash otherwise.
func ResolveGenesisHash(s *string) (chainhash.Hash, error) {
	if s == nil {
		return DefaultGenesisHash, nil
	}
	return ParseGenesisHash(*s)
}
