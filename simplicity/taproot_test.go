// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-elements/taproot"
)

func testCMR() CMR {
	return CMR(chainhash.HashH([]byte("a simplicity program")))
}

func TestKnownKeysParse(t *testing.T) {
	key := UnspendableKey()
	require.Equal(t, UnspendableKeyHex,
		hex.EncodeToString(schnorr.SerializePubKey(key)))

	_, err := ParseXOnlyKey(WebIDEKeyHex)
	require.NoError(t, err)

	_, err = ParseXOnlyKey("00")
	require.Error(t, err)
}

func TestBranchHashOrdering(t *testing.T) {
	a := chainhash.HashH([]byte("a"))
	b := chainhash.HashH([]byte("b"))
	require.Equal(t, BranchHash(a, b), BranchHash(b, a))
	require.NotEqual(t, BranchHash(a, b), BranchHash(a, a))

	// Elements tags must not collide with the Bitcoin ones.
	cmr := testCMR()
	leaf := LeafHash(cmr[:], LeafVersion)
	var enc bytes.Buffer
	enc.WriteByte(byte(LeafVersion))
	enc.WriteByte(32)
	enc.Write(cmr[:])
	require.NotEqual(t, *chainhash.TaggedHash(chainhash.TagTapLeaf, enc.Bytes()), leaf)
	require.Equal(t, *chainhash.TaggedHash([]byte("TapLeaf/elements"), enc.Bytes()), leaf)
}

// TestSpendInfoMatchesTweakedPrivateKey checks the output key against an
// independent derivation from the tweaked private key.
func TestSpendInfoMatchesTweakedPrivateKey(t *testing.T) {
	privKey, _ := btcec.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
	cmr := testCMR()

	for _, withState := range []bool{false, true} {
		var state *[32]byte
		if withState {
			state = &[32]byte{1, 2, 3}
		}
		info, err := NewSpendInfo(privKey.PubKey(), cmr, state)
		require.NoError(t, err)

		// d' = d (negated for odd y) + t.
		d := privKey.Key
		if privKey.PubKey().SerializeCompressed()[0] == 0x03 {
			d.Negate()
		}
		tweakHash := chainhash.TaggedHash([]byte("TapTweak/elements"),
			schnorr.SerializePubKey(privKey.PubKey()), info.MerkleRoot[:])
		var tweak btcec.ModNScalar
		tweak.SetBytes((*[32]byte)(tweakHash))
		d.Add(&tweak)
		tweaked := secp256k1.NewPrivateKey(&d)

		require.Equal(t, tweaked.PubKey().SerializeCompressed(),
			info.OutputKey.SerializeCompressed())
		require.Equal(t, info.MerkleRoot,
			ControlBlockRoot(info.ControlBlock, info.LeafScript))
		require.Equal(t, isOddY(info.OutputKey),
			info.ControlBlock.OutputKeyYIsOdd)

		if withState {
			require.Len(t, info.ControlBlock.InclusionProof,
				txscript.ControlBlockNodeSize)
		} else {
			require.Empty(t, info.ControlBlock.InclusionProof)
			require.Equal(t, LeafHash(cmr[:], LeafVersion), info.MerkleRoot)
		}
	}
}

func TestControlBlockRoundTrip(t *testing.T) {
	state := [32]byte{0xab}
	cmr := testCMR()
	info, err := NewSpendInfo(UnspendableKey(), cmr, &state)
	require.NoError(t, err)

	raw, err := info.ControlBlock.ToBytes()
	require.NoError(t, err)
	require.Len(t, raw, txscript.ControlBlockBaseSize+txscript.ControlBlockNodeSize)
	require.Equal(t, byte(LeafVersion), raw[0]&0xfe)

	cb, err := taproot.ParseControlBlock(raw)
	require.NoError(t, err)
	require.Equal(t, LeafVersion, cb.LeafVersion)
	require.Equal(t, info.ControlBlock.OutputKeyYIsOdd, cb.OutputKeyYIsOdd)
	require.Equal(t, info.MerkleRoot, ControlBlockRoot(cb, cmr[:]))

	// A different leaf proves a different root.
	require.NotEqual(t, info.MerkleRoot,
		ControlBlockRoot(cb, chainhash.HashB([]byte("other"))))

	_, err = taproot.ParseControlBlock(raw[:40])
	require.Error(t, err)
}

func TestPayToTaprootScript(t *testing.T) {
	info, err := NewSpendInfo(UnspendableKey(), testCMR(), nil)
	require.NoError(t, err)

	script := info.ScriptPubKey()
	require.True(t, IsPayToTaproot(script))
	require.Equal(t, schnorr.SerializePubKey(info.OutputKey), script[2:])

	require.False(t, IsPayToTaproot(script[:33]))
	require.False(t, IsPayToTaproot(append([]byte{0x00}, script[1:]...)))
}
