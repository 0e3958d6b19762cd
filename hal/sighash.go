// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/psetv2"
	"github.com/vulpemventures/go-elements/taproot"
	"github.com/vulpemventures/go-elements/transaction"
)

// parseSecretKey parses a 32-byte hex secret key, rejecting zero and values
// not below the group order.
func parseSecretKey(s string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("secret key must be 32 bytes, got %d",
			len(b))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(b); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("secret key is out of range")
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv, nil
}

// sighashControlBlock returns the control block for the sighash environment:
// the explicit one if given, otherwise the one stored in the PSET for cmr.
func sighashControlBlock(cmd *simjson.SimplicitySighashCmd, p *psetv2.Pset,
	cmr simplicity.CMR) (*taproot.ControlBlock, error) {

	switch {
	case cmd.ControlBlock != nil:
		raw, err := hex.DecodeString(*cmd.ControlBlock)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidControlBlock,
				"invalid control block hex", err)
		}
		cb, err := taproot.ParseControlBlock(raw)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidControlBlock,
				"invalid control block decoding", err)
		}
		return cb, nil

	case p != nil:
		total := len(p.Inputs)
		if int(cmd.InputIndex) >= total {
			return nil, txenv.Errorf(txenv.ErrInputIndexOutOfRange,
				"input index %d out-of-range for PSET with %d inputs",
				cmd.InputIndex, total)
		}
		leaf := txenv.FindSimplicityLeaf(
			p.Inputs[cmd.InputIndex].TapLeafScript, cmr)
		if leaf == nil {
			return nil, txenv.Errorf(txenv.ErrControlBlockNotFound,
				"could not find control block in PSET for CMR %s", cmr)
		}
		raw, err := leaf.ControlBlock.ToBytes()
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidControlBlock,
				"invalid control block in PSET", err)
		}
		cb, err := taproot.ParseControlBlock(raw)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidControlBlock,
				"invalid control block in PSET", err)
		}
		return cb, nil
	}

	return nil, txenv.Errorf(txenv.ErrControlBlockRequired,
		"with a raw transaction, control-block must be provided")
}

// sighashUtxos returns the UTXOs spent by the transaction: the explicit ones
// if given, otherwise the witness UTXOs of the PSET.
func sighashUtxos(cmd *simjson.SimplicitySighashCmd,
	p *psetv2.Pset) ([]simplicity.ElementsUtxo, error) {

	switch {
	case cmd.InputUtxos != nil:
		utxos := make([]simplicity.ElementsUtxo, 0, len(*cmd.InputUtxos))
		for i, s := range *cmd.InputUtxos {
			utxo, err := simplicity.ParseElementsUtxo(s)
			if err != nil {
				return nil, txenv.MakeError(txenv.ErrInvalidUtxo,
					fmt.Sprintf("invalid input UTXO %d", i), err)
			}
			utxos = append(utxos, utxo)
		}
		return utxos, nil

	case p != nil:
		return txenv.WitnessUtxos(p)
	}

	return nil, txenv.Errorf(txenv.ErrInputUtxosRequired,
		"with a raw transaction, input-utxos must be provided")
}

// Sighash computes the SIGHASH_ALL signature hash of a Simplicity spend.
//
// The transaction is read as a PSET when it decodes as one and as hex
// otherwise.  With a secret key the hash is signed, and with a public key
// and a signature the signature is verified.  A secret key whose public key
// differs from an explicit public key is an error and nothing is signed.
func (h *Handler) Sighash(cmd *simjson.SimplicitySighashCmd) (*simjson.SimplicitySighashResult, error) {
	if h.cfg.Engine == nil {
		return nil, txenv.MakeError(txenv.ErrNoEngine,
			"sighash is unavailable", simplicity.ErrNoEngine)
	}

	// A transaction that does not decode as a PSET is read as hex, and a
	// failure is reported against the hex.
	var tx *transaction.Transaction
	p, err := psetv2.NewPsetFromBase64(cmd.Tx)
	if err == nil {
		tx, err = txenv.ExtractTx(p)
		if err != nil {
			return nil, err
		}
	} else {
		p = nil
		tx, err = transaction.NewTxFromHex(cmd.Tx)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrTxDecode,
				"invalid transaction", err)
		}
	}

	cmr, err := simplicity.ParseCMR(cmd.CMR)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidCMR, "invalid CMR", err)
	}
	cb, err := sighashControlBlock(cmd, p, cmr)
	if err != nil {
		return nil, err
	}
	utxos, err := sighashUtxos(cmd, p)
	if err != nil {
		return nil, err
	}
	if len(utxos) != len(tx.Inputs) {
		return nil, txenv.Errorf(txenv.ErrInputUtxoCountMismatch,
			"expected %d input UTXOs but got %d", len(tx.Inputs),
			len(utxos))
	}
	genesis, err := txenv.ParseGenesisHash(cmd.GenesisHash)
	if err != nil {
		return nil, err
	}

	env, err := simplicity.NewElementsEnv(tx, utxos, cmd.InputIndex, cmr,
		cb, genesis)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInputIndexOutOfRange,
			"invalid environment", err)
	}

	var pubKey *btcec.PublicKey
	var sig *schnorr.Signature
	if cmd.Signature != nil && cmd.PublicKey == nil {
		return nil, txenv.Errorf(txenv.ErrSignatureWithoutPublicKey,
			"if signature is provided, public-key must be provided "+
				"as well")
	}
	if cmd.PublicKey != nil {
		pubKey, err = simplicity.ParseXOnlyKey(*cmd.PublicKey)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid public key", err)
		}
	}
	if cmd.Signature != nil {
		raw, err := hex.DecodeString(*cmd.Signature)
		if err == nil {
			sig, err = schnorr.ParseSignature(raw)
		}
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidSignature,
				"invalid signature", err)
		}
	}

	sighash, err := h.cfg.Engine.SighashAll(env)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrSighash,
			"failed to compute sighash", err)
	}
	result := &simjson.SimplicitySighashResult{
		Sighash: hex.EncodeToString(sighash[:]),
	}

	if cmd.SecretKey != nil {
		priv, err := parseSecretKey(*cmd.SecretKey)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid secret key", err)
		}
		derived := schnorr.SerializePubKey(priv.PubKey())
		if pubKey != nil {
			provided := schnorr.SerializePubKey(pubKey)
			if !bytes.Equal(derived, provided) {
				return nil, txenv.Errorf(txenv.ErrPublicKeyMismatch,
					"secret key had public key %x, but was passed "+
						"explicit public key %x", derived, provided)
			}
		}

		signature, err := schnorr.Sign(priv, sighash[:])
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrSighash,
				"failed to sign sighash", err)
		}
		sigHex := hex.EncodeToString(signature.Serialize())
		result.Signature = &sigHex
	}

	if pubKey != nil && sig != nil {
		valid := sig.Verify(sighash[:], pubKey)
		result.ValidSignature = &valid
	}

	log.Debugf("Computed sighash %s for input %d of %s", result.Sighash,
		cmd.InputIndex, tx.TxHash())
	return result, nil
}
