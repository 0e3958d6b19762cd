// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/address"
)

// errUnknownAddressNet is returned for addresses whose prefix belongs to no
// registered network.
var errUnknownAddressNet = errors.New("address prefix does not belong to " +
	"a known network")

func p2shAddress(script []byte, net *chaincfg.Params) string {
	return address.ToBase58(&address.Base58{
		Version: net.Net.ScriptHash,
		Data:    btcutil.Hash160(script),
	})
}

func segwitAddress(version byte, program []byte, net *chaincfg.Params) (string, error) {
	return address.ToBech32(&address.Bech32{
		Prefix:  net.Net.Bech32,
		Version: version,
		Program: program,
	})
}

// witnessScript returns the scriptPubKey of a segwit output.
func witnessScript(version byte, program []byte) ([]byte, error) {
	op := byte(txscript.OP_0)
	if version > 0 {
		op = txscript.OP_1 + version - 1
	}
	return txscript.NewScriptBuilder().AddOp(op).AddData(program).Script()
}

// pubKeyAddresses returns the P2PKH, P2WPKH and P2SH-P2WPKH addresses of a
// public key given in its serialized form.
func pubKeyAddresses(serialized []byte, pubKey *btcec.PublicKey,
	net *chaincfg.Params) (*simjson.AddressesResult, error) {

	p2pkh := address.ToBase58(&address.Base58{
		Version: net.Net.PubKeyHash,
		Data:    btcutil.Hash160(serialized),
	})
	keyHash := btcutil.Hash160(pubKey.SerializeCompressed())
	p2wpkh, err := segwitAddress(0, keyHash, net)
	if err != nil {
		return nil, err
	}
	redeemScript, err := witnessScript(0, keyHash)
	if err != nil {
		return nil, err
	}

	return &simjson.AddressesResult{
		P2PKH:    p2pkh,
		P2WPKH:   p2wpkh,
		P2SHWPKH: p2shAddress(redeemScript, net),
	}, nil
}

// CreateAddress returns the unconfidential addresses paying to a public key
// or to a script.
func (h *Handler) CreateAddress(cmd *simjson.AddressCreateCmd) (*simjson.AddressesResult, error) {
	net, err := h.network(cmd.Network)
	if err != nil {
		return nil, err
	}
	if cmd.Blinder != nil {
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"confidential addresses are not yet supported")
	}

	switch {
	case cmd.PubKey != nil:
		serialized, err := hex.DecodeString(*cmd.PubKey)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid pubkey", err)
		}
		pubKey, err := btcec.ParsePubKey(serialized)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid pubkey", err)
		}
		result, err := pubKeyAddresses(serialized, pubKey, net)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid pubkey", err)
		}
		return result, nil

	case cmd.Script != nil:
		script, err := hex.DecodeString(*cmd.Script)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid script hex", err)
		}
		scriptHash := sha256.Sum256(script)
		p2wsh, err := segwitAddress(0, scriptHash[:], net)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid script", err)
		}
		return &simjson.AddressesResult{
			P2SH:  p2shAddress(script, net),
			P2WSH: p2wsh,
		}, nil
	}

	return nil, txenv.Errorf(txenv.ErrInvalidParameter,
		"either pubkey or script must be provided")
}

// inspectSegwit fills info for a segwit address.
func inspectSegwit(info *simjson.AddressInfoResult, decoded *address.Bech32) ([]byte, error) {
	net, ok := chaincfg.ParamsForBech32HRP(decoded.Prefix)
	if !ok {
		return nil, errUnknownAddressNet
	}
	info.Network = net.Name

	version := int(decoded.Version)
	info.WitnessProgramVersion = &version
	program := decoded.Program
	switch {
	case version != 0:
		info.Type = "unknown-witness-program-version"
	case len(program) == 20:
		info.Type = "p2wpkh"
		info.WitnessPubKeyHash = hex.EncodeToString(program)
	case len(program) == 32:
		info.Type = "p2wsh"
		info.WitnessScriptHash = hex.EncodeToString(program)
	default:
		info.Type = "invalid-witness-program"
	}
	return witnessScript(decoded.Version, program)
}

// inspectBase58 fills info for a legacy address.
func inspectBase58(info *simjson.AddressInfoResult, decoded *address.Base58) ([]byte, error) {
	net, ok := chaincfg.ParamsForBase58ID(decoded.Version)
	if !ok {
		return nil, errUnknownAddressNet
	}
	if len(decoded.Data) != 20 {
		return nil, fmt.Errorf("address payload must be 20 bytes, got %d",
			len(decoded.Data))
	}
	info.Network = net.Name

	if decoded.Version == net.Net.PubKeyHash {
		info.Type = "p2pkh"
		info.PubKeyHash = hex.EncodeToString(decoded.Data)
		return txscript.NewScriptBuilder().
			AddOp(txscript.OP_DUP).
			AddOp(txscript.OP_HASH160).
			AddData(decoded.Data).
			AddOp(txscript.OP_EQUALVERIFY).
			AddOp(txscript.OP_CHECKSIG).
			Script()
	}
	info.Type = "p2sh"
	info.ScriptHash = hex.EncodeToString(decoded.Data)
	return txscript.NewScriptBuilder().
		AddOp(txscript.OP_HASH160).
		AddData(decoded.Data).
		AddOp(txscript.OP_EQUAL).
		Script()
}

// InspectAddress decodes an unconfidential address.
func (h *Handler) InspectAddress(cmd *simjson.AddressInspectCmd) (*simjson.AddressInfoResult, error) {
	info := &simjson.AddressInfoResult{}

	var script []byte
	segwit, err := address.FromBech32(cmd.Address)
	if err == nil {
		script, err = inspectSegwit(info, segwit)
	} else {
		var legacy *address.Base58
		legacy, err = address.FromBase58(cmd.Address)
		if err == nil {
			script, err = inspectBase58(info, legacy)
		}
	}
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid address format", err)
	}

	// An error means the script did not parse and there is no additional
	// information about it anyways.
	asm, _ := txscript.DisasmString(script)
	info.ScriptPubKey = simjson.ScriptResult{
		Hex: hex.EncodeToString(script),
		Asm: asm,
	}
	return info, nil
}
