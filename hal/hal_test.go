// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/simplicity/simtest"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/stretchr/testify/require"
	"github.com/vulpemventures/go-elements/elementsutil"
	"github.com/vulpemventures/go-elements/psetv2"
)

const (
	lbtc     = "144c654344aa716d6f3abcc1ca90e5641e4e2a7f633bc09fe3baf64585819a49"
	prevTxid = "8f3b5e7c2a1d9e0f4b6c8a2e1d3f5a7b9c0e2d4f6a8b1c3e5d7f9a0b2c4e6d8f"

	// secretOne is the secret key 1, whose public key is the generator.
	secretOne  = "0000000000000000000000000000000000000000000000000000000000000001"
	generatorX = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"
)

func strPtr(s string) *string { return &s }

func testHandler(t *testing.T) *Handler {
	t.Helper()

	engine, err := simplicity.EngineByName(simtest.EngineName)
	require.NoError(t, err)
	return New(&Config{Engine: engine})
}

// testControlBlock returns the serialized control block of the first leaf of
// the first input of p.
func testControlBlock(t *testing.T, p *psetv2.Pset) []byte {
	t.Helper()

	require.NotEmpty(t, p.Inputs[0].TapLeafScript)
	cb, err := p.Inputs[0].TapLeafScript[0].ControlBlock.ToBytes()
	require.NoError(t, err)
	return cb
}

func mustControlBlockBytes(t *testing.T, info *simplicity.SpendInfo) []byte {
	t.Helper()

	cb, err := info.ControlBlock.ToBytes()
	require.NoError(t, err)
	return cb
}

func outputAmount(t *testing.T, value []byte) uint64 {
	t.Helper()

	amount, err := elementsutil.ValueFromBytes(value)
	require.NoError(t, err)
	return amount
}

func testProgram(lines ...string) string {
	return base64.StdEncoding.EncodeToString(simtest.Program(lines...))
}

// testSpend is a single input PSET spending a Simplicity output.
type testSpend struct {
	pset    string
	program string
	cmr     simplicity.CMR
	utxo    string
}

// newTestSpend creates a PSET with one input and two outputs and registers
// program on the input the way a wallet would.
func newTestSpend(t *testing.T, h *Handler, program string) *testSpend {
	t.Helper()

	info, err := h.Info(&simjson.SimplicityInfoCmd{Program: program})
	require.NoError(t, err)
	cmr, err := simplicity.ParseCMR(info.CMR)
	require.NoError(t, err)

	spend, err := simplicity.NewSpendInfo(simplicity.UnspendableKey(), cmr,
		nil)
	require.NoError(t, err)
	utxo := fmt.Sprintf("%x:%s:1", spend.ScriptPubKey(), lbtc)

	created, err := h.CreatePset(&simjson.PsetCreateCmd{
		Inputs: `[{"txid":"` + prevTxid + `","vout":1}]`,
		Outputs: `[{"address":"data:deadbeef","asset":"` + lbtc +
			`","amount":0.9999},{"fee":0.0001}]`,
	})
	require.NoError(t, err)
	require.NotNil(t, created.UpdatedValues)
	require.Empty(t, created.UpdatedValues)

	updated, err := h.UpdateInput(&simjson.PsetUpdateInputCmd{
		Pset:        created.Pset,
		InputIndex:  0,
		InputUtxo:   utxo,
		InternalKey: strPtr(simplicity.UnspendableKeyHex),
		CMR:         strPtr(cmr.String()),
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		FieldTapInternalKey, FieldTapMerkleRoot,
		FieldTapScripts, FieldWitnessUtxo,
	}, updated.UpdatedValues)

	return &testSpend{
		pset:    updated.Pset,
		program: program,
		cmr:     cmr,
		utxo:    utxo,
	}
}

func TestFinalize(t *testing.T) {
	h := testHandler(t)
	program := testProgram("jet verify 0000000000000001 -",
		"hidden other branch")
	spend := newTestSpend(t, h, program)

	res, err := h.Finalize(&simjson.PsetFinalizeCmd{
		Pset:       spend.pset,
		InputIndex: 0,
		Program:    program,
		Witness:    "00",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"final_script_witness"}, res.UpdatedValues)

	p, err := psetv2.NewPsetFromBase64(res.Pset)
	require.NoError(t, err)
	stack, err := txenv.ParseWitness(p.Inputs[0].FinalScriptWitness)
	require.NoError(t, err)
	require.Len(t, stack, 4, spew.Sdump(stack))
	require.Equal(t, []byte{0x00}, stack[0])
	require.Contains(t, string(stack[1]), "pruned ")
	require.NotContains(t, string(stack[1]), "hidden")
	require.Equal(t, spend.cmr[:], stack[2])
	require.Equal(t, testControlBlock(t, p), stack[3])

	// The pruned program keeps the CMR the input commits to.
	pruned := base64.StdEncoding.EncodeToString(stack[1])
	info, err := h.Info(&simjson.SimplicityInfoCmd{Program: pruned})
	require.NoError(t, err)
	require.Equal(t, spend.cmr.String(), info.CMR)

	extracted, err := h.ExtractPset(&simjson.PsetExtractCmd{Pset: res.Pset})
	require.NoError(t, err)
	decoded, err := h.DecodeTx(&simjson.TxDecodeCmd{RawTx: extracted.RawTx})
	require.NoError(t, err)
	require.Len(t, decoded.Inputs, 1)
	require.NotNil(t, decoded.Inputs[0].Witness)
	require.Len(t, decoded.Inputs[0].Witness.ScriptWitness, 4)

	// Finalizing does not touch the input it was given.
	again, err := h.Finalize(&simjson.PsetFinalizeCmd{
		Pset:    spend.pset,
		Program: program,
		Witness: "00",
	})
	require.NoError(t, err)
	require.Equal(t, res.Pset, again.Pset)
}

func TestFinalizeErrors(t *testing.T) {
	h := testHandler(t)
	program := testProgram("unit")
	spend := newTestSpend(t, h, program)

	tests := []struct {
		name    string
		cmd     *simjson.PsetFinalizeCmd
		code    txenv.ErrorCode
		kind    txenv.ErrorKind
		message string
	}{
		{
			name: "index out of range",
			cmd: &simjson.PsetFinalizeCmd{
				Pset: spend.pset, InputIndex: 3, Program: program,
				Witness: "00",
			},
			code:    txenv.ErrInputIndexOutOfRange,
			kind:    txenv.ErrBounds,
			message: "input index 3 out-of-range for PSET with 1 inputs",
		},
		{
			name: "unregistered program",
			cmd: &simjson.PsetFinalizeCmd{
				Pset: spend.pset, Program: testProgram("unit", "unit"),
				Witness: "00",
			},
			code:    txenv.ErrMissingSimplicityLeaf,
			kind:    txenv.ErrMissingData,
			message: "could not find Simplicity leaf",
		},
		{
			name: "bad genesis",
			cmd: &simjson.PsetFinalizeCmd{
				Pset: spend.pset, Program: program, Witness: "00",
				GenesisHash: strPtr("abcd"),
			},
			code: txenv.ErrInvalidGenesisHash,
			kind: txenv.ErrFormat,
		},
		{
			name: "bad pset",
			cmd: &simjson.PsetFinalizeCmd{
				Pset: "cHNldP8=", Program: program, Witness: "00",
			},
			code: txenv.ErrPsetDecode,
			kind: txenv.ErrFormat,
		},
		{
			name: "bad program",
			cmd: &simjson.PsetFinalizeCmd{
				Pset: spend.pset, Program: testProgram("bogus"),
				Witness: "00",
			},
			code: txenv.ErrProgramParse,
			kind: txenv.ErrFormat,
		},
	}

	for _, test := range tests {
		_, err := h.Finalize(test.cmd)
		require.Error(t, err, test.name)
		require.ErrorIs(t, err, test.code, test.name)
		require.ErrorIs(t, err, test.kind, test.name)
		require.Contains(t, err.Error(), test.message, test.name)
	}
}

func TestFinalizePruneFailure(t *testing.T) {
	h := testHandler(t)
	program := testProgram("unit", "fail-prune")
	spend := newTestSpend(t, h, program)

	_, err := h.Finalize(&simjson.PsetFinalizeCmd{
		Pset: spend.pset, Program: program, Witness: "00",
	})
	require.ErrorIs(t, err, txenv.ErrProgramPrune)
	require.ErrorIs(t, err, txenv.ErrExecution)
	require.ErrorIs(t, err, simtest.ErrPrune)
	require.Contains(t, err.Error(), "failed to prune program")
}

func TestMissingWitnessUtxo(t *testing.T) {
	h := testHandler(t)
	program := testProgram("unit")
	spend := newTestSpend(t, h, program)

	p, err := psetv2.NewPsetFromBase64(spend.pset)
	require.NoError(t, err)
	p.Inputs[0].WitnessUtxo = nil
	encoded, err := p.ToBase64()
	require.NoError(t, err)

	_, err = h.Run(&simjson.PsetRunCmd{
		Pset: encoded, Program: program, Witness: "00",
	})
	require.ErrorIs(t, err, txenv.ErrMissingWitnessUtxo)
	require.Contains(t, err.Error(), "input 0")
}

func TestNoEngine(t *testing.T) {
	h := New(&Config{})
	_, err := h.Finalize(&simjson.PsetFinalizeCmd{
		Pset: "cHNldP8=", Program: testProgram("unit"), Witness: "00",
	})
	require.Error(t, err)

	_, err = h.Info(&simjson.SimplicityInfoCmd{Program: testProgram("unit")})
	require.ErrorIs(t, err, txenv.ErrNoEngine)
	require.ErrorIs(t, err, simplicity.ErrNoEngine)

	_, err = h.Sighash(&simjson.SimplicitySighashCmd{})
	require.ErrorIs(t, err, txenv.ErrNoEngine)

	// Operations without programs still work.
	_, err = h.GenerateKeypair(&simjson.KeypairGenerateCmd{})
	require.NoError(t, err)
}

func TestRun(t *testing.T) {
	h := testHandler(t)
	program := testProgram(
		"jet add_32 0000000100000002 0000000000000003",
		"jet eq_64 00000000000000070000000000000007 -",
	)
	spend := newTestSpend(t, h, program)

	res, err := h.Run(&simjson.PsetRunCmd{
		Pset: spend.pset, Program: program, Witness: "00",
	})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.Len(t, res.Jets, 2, spew.Sdump(res.Jets))

	require.Equal(t, "add_32", res.Jets[0].Jet)
	require.Nil(t, res.Jets[0].EqualityCheck)

	eq := res.Jets[1]
	require.Equal(t, "eq_64", eq.Jet)
	require.True(t, eq.Success)
	require.NotNil(t, eq.EqualityCheck)
	half := len(eq.InputHex) / 2
	require.Len(t, eq.EqualityCheck[0], half)
	require.Len(t, eq.EqualityCheck[1], half)
	require.Equal(t, eq.InputHex, eq.EqualityCheck[0]+eq.EqualityCheck[1])
}

func TestRunFailure(t *testing.T) {
	h := testHandler(t)
	program := testProgram("jet eq_8 0000000000000001 -",
		"fail verify 0000000000000000", "unit")
	spend := newTestSpend(t, h, program)

	res, err := h.Run(&simjson.PsetRunCmd{
		Pset: spend.pset, Program: program, Witness: "00",
	})
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Len(t, res.Jets, 2)
	require.True(t, res.Jets[0].Success)
	require.NotNil(t, res.Jets[0].EqualityCheck)
	require.Equal(t, "verify", res.Jets[1].Jet)
	require.False(t, res.Jets[1].Success)

	huge := testProgram("unit", "huge")
	spend = newTestSpend(t, h, huge)
	_, err = h.Run(&simjson.PsetRunCmd{
		Pset: spend.pset, Program: huge, Witness: "00",
	})
	require.ErrorIs(t, err, txenv.ErrBitMachineConstruction)
	require.ErrorIs(t, err, simtest.ErrLimit)
}

func TestSighashDeterminism(t *testing.T) {
	h := testHandler(t)
	spend := newTestSpend(t, h, testProgram("unit"))

	fromPset, err := h.Sighash(&simjson.SimplicitySighashCmd{
		Tx:  spend.pset,
		CMR: spend.cmr.String(),
	})
	require.NoError(t, err)
	require.Len(t, fromPset.Sighash, 64)
	require.Nil(t, fromPset.Signature)
	require.Nil(t, fromPset.ValidSignature)

	p, err := psetv2.NewPsetFromBase64(spend.pset)
	require.NoError(t, err)
	cb := hex.EncodeToString(testControlBlock(t, p))
	extracted, err := h.ExtractPset(&simjson.PsetExtractCmd{Pset: spend.pset})
	require.NoError(t, err)

	utxos := []string{spend.utxo}
	fromRaw, err := h.Sighash(&simjson.SimplicitySighashCmd{
		Tx:           extracted.RawTx,
		CMR:          spend.cmr.String(),
		ControlBlock: &cb,
		InputUtxos:   &utxos,
	})
	require.NoError(t, err)
	require.Equal(t, fromPset.Sighash, fromRaw.Sighash)

	// The default genesis hash is the web IDE one.
	webide, err := h.Sighash(&simjson.SimplicitySighashCmd{
		Tx:          spend.pset,
		CMR:         spend.cmr.String(),
		GenesisHash: strPtr("webide"),
	})
	require.NoError(t, err)
	require.Equal(t, fromPset.Sighash, webide.Sighash)

	bitcoin, err := h.Sighash(&simjson.SimplicitySighashCmd{
		Tx:          spend.pset,
		CMR:         spend.cmr.String(),
		GenesisHash: strPtr("bitcoin"),
	})
	require.NoError(t, err)
	require.NotEqual(t, fromPset.Sighash, bitcoin.Sighash)
}

func TestSighashErrors(t *testing.T) {
	h := testHandler(t)
	spend := newTestSpend(t, h, testProgram("unit"))
	extracted, err := h.ExtractPset(&simjson.PsetExtractCmd{Pset: spend.pset})
	require.NoError(t, err)
	p, err := psetv2.NewPsetFromBase64(spend.pset)
	require.NoError(t, err)
	cb := hex.EncodeToString(testControlBlock(t, p))
	other, err := h.Info(&simjson.SimplicityInfoCmd{
		Program: testProgram("unit", "unit"),
	})
	require.NoError(t, err)
	twoUtxos := []string{spend.utxo, spend.utxo}

	tests := []struct {
		name    string
		cmd     *simjson.SimplicitySighashCmd
		code    txenv.ErrorCode
		message string
	}{
		{
			name: "raw tx without control block",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: extracted.RawTx, CMR: spend.cmr.String(),
			},
			code:    txenv.ErrControlBlockRequired,
			message: "control-block must be provided",
		},
		{
			name: "raw tx without utxos",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: extracted.RawTx, CMR: spend.cmr.String(),
				ControlBlock: &cb,
			},
			code:    txenv.ErrInputUtxosRequired,
			message: "input-utxos must be provided",
		},
		{
			name: "utxo count",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: spend.cmr.String(),
				InputUtxos: &twoUtxos,
			},
			code:    txenv.ErrInputUtxoCountMismatch,
			message: "expected 1 input UTXOs but got 2",
		},
		{
			name: "unknown cmr",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: other.CMR,
			},
			code:    txenv.ErrControlBlockNotFound,
			message: "could not find control block in PSET for CMR " + other.CMR,
		},
		{
			name: "bad transaction",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: "zz", CMR: spend.cmr.String(),
			},
			code: txenv.ErrTxDecode,
		},
		{
			name: "bad cmr",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: "1234",
			},
			code: txenv.ErrInvalidCMR,
		},
		{
			name: "signature without public key",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: spend.cmr.String(),
				Signature: strPtr(hex.EncodeToString(make([]byte, 64))),
			},
			code:    txenv.ErrSignatureWithoutPublicKey,
			message: "public-key must be provided as well",
		},
		{
			name: "public key mismatch",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: spend.cmr.String(),
				SecretKey: strPtr(secretOne),
				PublicKey: strPtr(simplicity.UnspendableKeyHex),
			},
			code: txenv.ErrPublicKeyMismatch,
			message: "secret key had public key " + generatorX +
				", but was passed explicit public key " +
				simplicity.UnspendableKeyHex,
		},
		{
			name: "zero secret key",
			cmd: &simjson.SimplicitySighashCmd{
				Tx: spend.pset, CMR: spend.cmr.String(),
				SecretKey: strPtr(hex.EncodeToString(make([]byte, 32))),
			},
			code: txenv.ErrInvalidKey,
		},
	}

	for _, test := range tests {
		res, err := h.Sighash(test.cmd)
		require.Nil(t, res, test.name)
		require.ErrorIs(t, err, test.code, test.name)
		require.Contains(t, err.Error(), test.message, test.name)
	}

	_, err = h.Sighash(&simjson.SimplicitySighashCmd{
		Tx: spend.pset, CMR: spend.cmr.String(),
		SecretKey: strPtr(secretOne),
		PublicKey: strPtr(simplicity.UnspendableKeyHex),
	})
	require.ErrorIs(t, err, txenv.ErrConsistency)
}

func TestSighashSignAndVerify(t *testing.T) {
	h := testHandler(t)
	spend := newTestSpend(t, h, testProgram("unit"))

	signed, err := h.Sighash(&simjson.SimplicitySighashCmd{
		Tx:        spend.pset,
		CMR:       spend.cmr.String(),
		SecretKey: strPtr(secretOne),
		PublicKey: strPtr(generatorX),
	})
	require.NoError(t, err)
	require.NotNil(t, signed.Signature)
	require.Len(t, *signed.Signature, 128)
	require.Nil(t, signed.ValidSignature)

	tests := []struct {
		name   string
		pubKey string
		valid  bool
	}{
		{"signer", generatorX, true},
		{"other key", simplicity.UnspendableKeyHex, false},
	}
	for _, test := range tests {
		res, err := h.Sighash(&simjson.SimplicitySighashCmd{
			Tx:        spend.pset,
			CMR:       spend.cmr.String(),
			PublicKey: strPtr(test.pubKey),
			Signature: signed.Signature,
		})
		require.NoError(t, err, test.name)
		require.Equal(t, signed.Sighash, res.Sighash, test.name)
		require.Nil(t, res.Signature, test.name)
		require.NotNil(t, res.ValidSignature, test.name)
		require.Equal(t, test.valid, *res.ValidSignature, test.name)
	}
}

func TestUpdateInput(t *testing.T) {
	h := testHandler(t)
	program := testProgram("unit")
	info, err := h.Info(&simjson.SimplicityInfoCmd{Program: program})
	require.NoError(t, err)
	cmr, err := simplicity.ParseCMR(info.CMR)
	require.NoError(t, err)

	state := [32]byte{0x01, 0x02}
	spend, err := simplicity.NewSpendInfo(simplicity.UnspendableKey(), cmr,
		&state)
	require.NoError(t, err)
	script := spend.ScriptPubKey()
	utxo := fmt.Sprintf("%x:%s:0.5", script, lbtc)

	created, err := h.CreatePset(&simjson.PsetCreateCmd{
		Inputs:  `[{"txid":"` + prevTxid + `","vout":0,"sequence":4294967293}]`,
		Outputs: `[{"fee":0.5}]`,
	})
	require.NoError(t, err)

	res, err := h.UpdateInput(&simjson.PsetUpdateInputCmd{
		Pset:        created.Pset,
		InputUtxo:   utxo,
		InternalKey: strPtr(simplicity.UnspendableKeyHex),
		CMR:         strPtr(cmr.String()),
		State:       strPtr(hex.EncodeToString(state[:])),
	})
	require.NoError(t, err)

	p, err := psetv2.NewPsetFromBase64(res.Pset)
	require.NoError(t, err)
	in := p.Inputs[0]
	require.Equal(t, spend.MerkleRoot[:], in.TapMerkleRoot)
	require.Len(t, in.TapLeafScript, 1)
	require.Equal(t, cmr[:], in.TapLeafScript[0].Script)
	require.Equal(t, simplicity.LeafVersion, in.TapLeafScript[0].LeafVersion)
	require.Equal(t, testControlBlock(t, p), mustControlBlockBytes(t, spend))
	require.NotNil(t, in.WitnessUtxo)
	require.Equal(t, script, in.WitnessUtxo.Script)
	value, err := elementsutil.ValueFromBytes(in.WitnessUtxo.Value)
	require.NoError(t, err)
	require.EqualValues(t, 50000000, value)
	require.Equal(t, []byte{0x00}, in.WitnessUtxo.Nonce)
	require.EqualValues(t, 4294967293, in.Sequence)

	// Without the state the output key does not match.
	_, err = h.UpdateInput(&simjson.PsetUpdateInputCmd{
		Pset:        created.Pset,
		InputUtxo:   utxo,
		InternalKey: strPtr(simplicity.UnspendableKeyHex),
		CMR:         strPtr(cmr.String()),
	})
	require.ErrorIs(t, err, txenv.ErrOutputKeyMismatch)
	require.ErrorIs(t, err, txenv.ErrConsistency)
	require.Contains(t, err.Error(), "which does not match input scriptPubKey")

	// An internal key alone only sets the key.
	res, err = h.UpdateInput(&simjson.PsetUpdateInputCmd{
		Pset:        created.Pset,
		InputUtxo:   utxo,
		InternalKey: strPtr(simplicity.WebIDEKeyHex),
	})
	require.NoError(t, err)
	require.Equal(t, []string{FieldTapInternalKey, FieldWitnessUtxo},
		res.UpdatedValues)

	res, err = h.UpdateInput(&simjson.PsetUpdateInputCmd{
		Pset:      created.Pset,
		InputUtxo: utxo,
	})
	require.NoError(t, err)
	require.Equal(t, []string{FieldWitnessUtxo}, res.UpdatedValues)
}

func TestUpdateInputErrors(t *testing.T) {
	h := testHandler(t)
	created, err := h.CreatePset(&simjson.PsetCreateCmd{
		Inputs:  `[{"txid":"` + prevTxid + `","vout":0}]`,
		Outputs: `[]`,
	})
	require.NoError(t, err)

	taprootUtxo := fmt.Sprintf("5120%s:%s:1", generatorX, lbtc)
	cmr := generatorX

	tests := []struct {
		name    string
		cmd     *simjson.PsetUpdateInputCmd
		code    txenv.ErrorCode
		message string
	}{
		{
			name: "bad utxo",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset, InputUtxo: "51:" + lbtc,
			},
			code: txenv.ErrInvalidUtxo,
		},
		{
			name: "index out of range",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset, InputIndex: 1,
				InputUtxo: taprootUtxo,
			},
			code:    txenv.ErrInputIndexOutOfRange,
			message: "input index 1 out-of-range for PSET with 1 inputs",
		},
		{
			name: "cmr without internal key",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset, InputUtxo: taprootUtxo,
				CMR: &cmr,
			},
			code:    txenv.ErrMissingInternalKey,
			message: simplicity.UnspendableKeyHex,
		},
		{
			name: "not taproot",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset,
				InputUtxo: "0014" + generatorX[:40] + ":" + lbtc +
					":1",
			},
			code:    txenv.ErrNotTaprootOutput,
			message: "does not appear to be a Taproot output",
		},
		{
			name: "bad state",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset, InputUtxo: taprootUtxo,
				State: strPtr("00"),
			},
			code:    txenv.ErrInvalidParameter,
			message: "invalid state commitment",
		},
		{
			name: "bad internal key",
			cmd: &simjson.PsetUpdateInputCmd{
				Pset: created.Pset, InputUtxo: taprootUtxo,
				InternalKey: strPtr("02"),
			},
			code: txenv.ErrInvalidKey,
		},
	}

	for _, test := range tests {
		_, err := h.UpdateInput(test.cmd)
		require.ErrorIs(t, err, test.code, test.name)
		require.Contains(t, err.Error(), test.message, test.name)
	}
}

func TestCreatePset(t *testing.T) {
	h := testHandler(t)
	info, err := h.Info(&simjson.SimplicityInfoCmd{Program: testProgram("unit")})
	require.NoError(t, err)

	res, err := h.CreatePset(&simjson.PsetCreateCmd{
		Inputs: `[{"txid":"` + prevTxid + `","vout":2},` +
			`{"txid":"` + prevTxid + `","vout":3,"sequence":0}]`,
		Outputs: `[{"` + info.LiquidTestnetAddressUnconf + `":0.25,"fee":0.01},` +
			`{"address":"data:","asset":"` + lbtc + `","amount":0}]`,
	})
	require.NoError(t, err)

	p, err := psetv2.NewPsetFromBase64(res.Pset)
	require.NoError(t, err)
	tx, err := p.UnsignedTx()
	require.NoError(t, err)
	require.EqualValues(t, 2, tx.Version)
	require.Zero(t, tx.Locktime)
	require.Len(t, tx.Inputs, 2)
	require.EqualValues(t, 2, tx.Inputs[0].Index)
	require.Equal(t, prevTxid, elementsutil.TxIDFromBytes(tx.Inputs[0].Hash))
	require.EqualValues(t, 0xffffffff, tx.Inputs[0].Sequence)
	require.EqualValues(t, 0, tx.Inputs[1].Sequence)

	// Map entries come in address order, so "fee" sorts first.
	require.Len(t, tx.Outputs, 3)
	require.Empty(t, tx.Outputs[0].Script)
	require.EqualValues(t, 1000000, outputAmount(t, tx.Outputs[0].Value))
	require.Equal(t, lbtc, elementsutil.AssetHashFromBytes(tx.Outputs[0].Asset))
	require.True(t, simplicity.IsPayToTaproot(tx.Outputs[1].Script))
	require.EqualValues(t, 25000000, outputAmount(t, tx.Outputs[1].Value))
	require.Equal(t, []byte{0x6a, 0x00}, tx.Outputs[2].Script)
}

func TestCreatePsetErrors(t *testing.T) {
	h := testHandler(t)
	inputs := `[{"txid":"` + prevTxid + `","vout":0}]`

	tests := []struct {
		name    string
		inputs  string
		outputs string
		message string
	}{
		{"bad inputs", `{}`, `[]`, "invalid inputs JSON"},
		{"bad txid", `[{"txid":"00","vout":0}]`, `[]`, "bad txid"},
		{"bad outputs", inputs, `[1]`, "invalid outputs JSON"},
		{"bad asset", inputs, `[{"address":"fee","asset":"00","amount":1}]`,
			"invalid outputs JSON"},
		{"negative amount", inputs, `[{"fee":-1}]`, "invalid amount"},
		{"bad data", inputs, `[{"data:zz":1}]`, "invalid OP_RETURN hex data"},
		{"bad address", inputs, `[{"nonsense":1}]`, "invalid address"},
		{"blinded", inputs,
			`[{"tlq1qqv0fzdmrjrp0a3rwlq5r9t6wc5x0pfk8v3pt":1}]`,
			"confidential addresses are not yet supported"},
	}
	for _, test := range tests {
		_, err := h.CreatePset(&simjson.PsetCreateCmd{
			Inputs:  test.inputs,
			Outputs: test.outputs,
		})
		require.ErrorIs(t, err, txenv.ErrInvalidParameter, test.name)
		require.Contains(t, err.Error(), test.message, test.name)
	}
}

func TestCreatePsetNetworkAsset(t *testing.T) {
	h := testHandler(t)
	res, err := h.CreatePset(&simjson.PsetCreateCmd{
		Inputs:  `[]`,
		Outputs: `[{"fee":1}]`,
		Network: strPtr("liquid"),
	})
	require.NoError(t, err)
	p, err := psetv2.NewPsetFromBase64(res.Pset)
	require.NoError(t, err)
	tx, err := p.UnsignedTx()
	require.NoError(t, err)
	require.Equal(t,
		"6f0279e9ed041c3d710a9f57d0c02928416460c4b722ae3457a11eec381c526d",
		elementsutil.AssetHashFromBytes(tx.Outputs[0].Asset))

	_, err = h.CreatePset(&simjson.PsetCreateCmd{
		Inputs: `[]`, Outputs: `[]`, Network: strPtr("mainnet"),
	})
	require.ErrorIs(t, err, txenv.ErrInvalidParameter)
}

func TestExtractPsetErrors(t *testing.T) {
	h := testHandler(t)
	_, err := h.ExtractPset(&simjson.PsetExtractCmd{Pset: "not a pset"})
	require.ErrorIs(t, err, txenv.ErrPsetDecode)
}

func TestInfo(t *testing.T) {
	h := testHandler(t)
	program := testProgram("jet verify 0000000000000001 -")

	info, err := h.Info(&simjson.SimplicityInfoCmd{Program: program})
	require.NoError(t, err)
	require.Equal(t, "core", info.Jets)
	require.Equal(t, program, info.CommitBase64)
	require.Equal(t, "jet verify 0000000000000001 -", info.CommitDecode)
	require.Equal(t, "1 -> 1", info.TypeArrow)
	require.Len(t, info.CMR, 64)
	require.Regexp(t, "^ex1p", info.LiquidAddressUnconf)
	require.Regexp(t, "^tex1p", info.LiquidTestnetAddressUnconf)
	require.Empty(t, info.AddressUnconf)
	require.False(t, info.IsRedeem)
	require.Nil(t, info.RedeemInfoResult)

	withWitness, err := h.Info(&simjson.SimplicityInfoCmd{
		Program: program,
		Witness: strPtr("abcd"),
		Network: strPtr("regtest"),
	})
	require.NoError(t, err)
	require.Equal(t, info.CMR, withWitness.CMR)
	require.True(t, withWitness.IsRedeem)
	require.NotNil(t, withWitness.RedeemInfoResult)
	require.Equal(t, "abcd", withWitness.WitnessHex)
	require.Equal(t, program, withWitness.RedeemBase64)
	require.Len(t, withWitness.AMR, 64)
	require.Len(t, withWitness.IHR, 64)
	require.Regexp(t, "^ert1p", withWitness.AddressUnconf)

	// A state commits to a different address.
	withState, err := h.Info(&simjson.SimplicityInfoCmd{
		Program: program,
		State:   strPtr(generatorX),
	})
	require.NoError(t, err)
	require.NotEqual(t, info.LiquidAddressUnconf, withState.LiquidAddressUnconf)

	_, err = h.Info(&simjson.SimplicityInfoCmd{
		Program: program,
		State:   strPtr("beef"),
	})
	require.ErrorIs(t, err, txenv.ErrInvalidParameter)
	require.Contains(t, err.Error(), "failed to parse state (32-byte hex)")
}

func TestErrorKinds(t *testing.T) {
	// Every handler error is a txenv.Error.
	h := testHandler(t)
	_, err := h.ExtractPset(&simjson.PsetExtractCmd{Pset: "bad"})
	var herr txenv.Error
	require.True(t, errors.As(err, &herr))
	require.Equal(t, txenv.ErrPsetDecode, herr.Code)
}
