// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/vulpemventures/go-elements/taproot"
)

const (
	// LeafVersion is the taproot leaf version under which Simplicity
	// programs are committed.  The leaf script is the 32-byte CMR.
	LeafVersion txscript.TapscriptLeafVersion = 0xbe

	// UnspendableKeyHex is the nothing-up-my-sleeve internal key defined
	// in BIP-0341.
	UnspendableKeyHex = "50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0"

	// WebIDEKeyHex is the internal key hard-coded by the Simplicity web
	// IDE.  It should not be used in production.
	WebIDEKeyHex = "f5919fa64ce45f8306849072b26c1bfdd2937e6b81774796ff372bd1eb5362d2"
)

var (
	tagTapBranchElements = []byte("TapBranch/elements")
	tagTapData           = []byte("TapData")
)

// ParseXOnlyKey parses a 64 character hex x-only public key.
func ParseXOnlyKey(s string) (*btcec.PublicKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return schnorr.ParsePubKey(b)
}

// UnspendableKey returns the BIP-0341 unspendable internal key.
func UnspendableKey() *btcec.PublicKey {
	key, err := ParseXOnlyKey(UnspendableKeyHex)
	if err != nil {
		panic(fmt.Sprintf("invalid unspendable key: %v", err))
	}
	return key
}

// LeafHash returns the Elements tapleaf hash of script under version.
func LeafHash(script []byte, version txscript.TapscriptLeafVersion) chainhash.Hash {
	leaf := taproot.TapElementsLeaf{TapLeaf: txscript.NewTapLeaf(version, script)}
	return leaf.TapHash()
}

// BranchHash returns the Elements tapbranch hash of two child nodes, ordered
// lexicographically.
func BranchHash(a, b chainhash.Hash) chainhash.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return *chainhash.TaggedHash(tagTapBranchElements, a[:], b[:])
}

// DataHash returns the hidden node committing to 32 bytes of state.
func DataHash(state [32]byte) chainhash.Hash {
	return *chainhash.TaggedHash(tagTapData, state[:])
}

// ControlBlockRoot returns the merkle root a control block proves for
// leafScript.
func ControlBlockRoot(cb *taproot.ControlBlock, leafScript []byte) chainhash.Hash {
	node := LeafHash(leafScript, cb.LeafVersion)
	proof := cb.InclusionProof
	for len(proof) >= txscript.ControlBlockNodeSize {
		var sibling chainhash.Hash
		copy(sibling[:], proof[:txscript.ControlBlockNodeSize])
		node = BranchHash(node, sibling)
		proof = proof[txscript.ControlBlockNodeSize:]
	}
	return node
}

func isOddY(key *btcec.PublicKey) bool {
	return key.SerializeCompressed()[0] == secp256k1.PubKeyFormatCompressedOdd
}

// SpendInfo describes a taproot output committing to a single leaf,
// optionally next to a hidden node that commits to 32 bytes of state.
type SpendInfo struct {
	InternalKey  *btcec.PublicKey
	MerkleRoot   chainhash.Hash
	OutputKey    *btcec.PublicKey
	LeafScript   []byte
	ControlBlock *taproot.ControlBlock
}

// NewSpendInfo builds the spend info of a taptree whose only script leaf is
// the Simplicity leaf for cmr.  With a state the tree has two depth-one
// nodes: the leaf and the hidden TapData hash of the state.
func NewSpendInfo(internal *btcec.PublicKey, cmr CMR,
	state *[32]byte) (*SpendInfo, error) {

	internalKey, err := schnorr.ParsePubKey(schnorr.SerializePubKey(internal))
	if err != nil {
		return nil, err
	}

	leafScript := append([]byte(nil), cmr[:]...)
	root := LeafHash(leafScript, LeafVersion)
	var proof []byte
	if state != nil {
		hidden := DataHash(*state)
		root = BranchHash(root, hidden)
		proof = hidden[:]
	}

	outputKey := taproot.ComputeTaprootOutputKey(internalKey, root[:])

	cb := txscript.ControlBlock{
		InternalKey:     internalKey,
		OutputKeyYIsOdd: isOddY(outputKey),
		LeafVersion:     LeafVersion,
		InclusionProof:  proof,
	}
	raw, err := cb.ToBytes()
	if err != nil {
		return nil, err
	}
	controlBlock, err := taproot.ParseControlBlock(raw)
	if err != nil {
		return nil, err
	}

	return &SpendInfo{
		InternalKey:  internalKey,
		MerkleRoot:   root,
		OutputKey:    outputKey,
		LeafScript:   leafScript,
		ControlBlock: controlBlock,
	}, nil
}

// ScriptPubKey returns the segwit v1 script paying to the output key.
func (s *SpendInfo) ScriptPubKey() []byte {
	return PayToTaprootScript(s.OutputKey)
}

// PayToTaprootScript returns the segwit v1 script paying to the output key.
func PayToTaprootScript(outputKey *btcec.PublicKey) []byte {
	script := make([]byte, 0, 34)
	script = append(script, txscript.OP_1, txscript.OP_DATA_32)
	return append(script, schnorr.SerializePubKey(outputKey)...)
}

// IsPayToTaproot returns whether script is a segwit v1 output with a 32-byte
// program.
func IsPayToTaproot(script []byte) bool {
	return len(script) == 34 && script[0] == txscript.OP_1 &&
		script[1] == txscript.OP_DATA_32
}
