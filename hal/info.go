// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/address"
)

// ProgramAddress returns the unconfidential address of the taptree whose
// internal key is the BIP-0341 unspendable key and whose only leaf is the
// program with the given CMR, next to an optional hidden state leaf.
func ProgramAddress(cmr simplicity.CMR, state *[32]byte,
	net *chaincfg.Params) (string, error) {

	info, err := simplicity.NewSpendInfo(simplicity.UnspendableKey(), cmr,
		state)
	if err != nil {
		return "", err
	}
	return address.ToBech32(&address.Bech32{
		Prefix:  net.Net.Bech32,
		Version: 1,
		Program: schnorr.SerializePubKey(info.OutputKey),
	})
}

// Info decodes a program and reports its commitment, its addresses and,
// when a witness is given, its redeem form.
func (h *Handler) Info(cmd *simjson.SimplicityInfoCmd) (*simjson.SimplicityInfoResult, error) {
	prog, err := h.parseProgram(cmd.Program, cmd.Witness)
	if err != nil {
		return nil, err
	}

	var state *[32]byte
	if cmd.State != nil {
		parsed, err := simplicity.ParseState(*cmd.State)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"failed to parse state (32-byte hex)", err)
		}
		state = &parsed
	}

	cmr := prog.CMR()
	liquid, err := ProgramAddress(cmr, state, &chaincfg.LiquidParams)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidKey,
			"failed to compute address", err)
	}
	testnet, err := ProgramAddress(cmr, state, &chaincfg.LiquidTestNetParams)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidKey,
			"failed to compute address", err)
	}

	commit := prog.Commit()
	result := &simjson.SimplicityInfoResult{
		Jets:                       "core",
		CommitBase64:               base64.StdEncoding.EncodeToString(commit.Encode()),
		CommitDecode:               commit.Expr(),
		TypeArrow:                  commit.TypeArrow(),
		CMR:                        cmr.String(),
		LiquidAddressUnconf:        liquid,
		LiquidTestnetAddressUnconf: testnet,
	}

	if cmd.Network != nil {
		net, err := h.network(cmd.Network)
		if err != nil {
			return nil, err
		}
		result.AddressUnconf, err = ProgramAddress(cmr, state, net)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"failed to compute address", err)
		}
	}

	if redeem := prog.Redeem(); redeem != nil {
		progBytes, witness := redeem.Encode()
		result.IsRedeem = true
		result.RedeemInfoResult = &simjson.RedeemInfoResult{
			RedeemBase64: base64.StdEncoding.EncodeToString(progBytes),
			WitnessHex:   hex.EncodeToString(witness),
			AMR:          redeem.AMR().String(),
			IHR:          redeem.IHR().String(),
		}
	}
	return result, nil
}

// GenerateKeypair returns a random secret key with its x-only public key and
// the parity of the full public key.
func (h *Handler) GenerateKeypair(*simjson.KeypairGenerateCmd) (*simjson.KeypairResult, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidKey,
			"failed to generate key", err)
	}

	pub := priv.PubKey()
	var parity uint8
	if pub.SerializeCompressed()[0] == secp256k1.PubKeyFormatCompressedOdd {
		parity = 1
	}
	return &simjson.KeypairResult{
		Secret: hex.EncodeToString(priv.Serialize()),
		XOnly:  hex.EncodeToString(schnorr.SerializePubKey(pub)),
		Parity: parity,
	}, nil
}
