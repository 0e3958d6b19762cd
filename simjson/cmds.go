// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// a halsimd server.

package simjson

import (
	"github.com/btcsuite/btcd/btcjson"
)

// AddressCreateCmd defines the address_create JSON-RPC command.
type AddressCreateCmd struct {
	Network *string `json:"network,omitempty" jsonrpcusage:"\"liquid|liquidtestnet|elementsregtest\""`
	PubKey  *string `json:"pubkey,omitempty"`
	Script  *string `json:"script,omitempty"`
	Blinder *string `json:"blinder,omitempty"`
}

// NewAddressCreateCmd returns a new instance which can be used to issue an
// address_create JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewAddressCreateCmd(network, pubKey, script, blinder *string) *AddressCreateCmd {
	return &AddressCreateCmd{
		Network: network,
		PubKey:  pubKey,
		Script:  script,
		Blinder: blinder,
	}
}

// AddressInspectCmd defines the address_inspect JSON-RPC command.
type AddressInspectCmd struct {
	Address string `json:"address"`
}

// NewAddressInspectCmd returns a new instance which can be used to issue an
// address_inspect JSON-RPC command.
func NewAddressInspectCmd(address string) *AddressInspectCmd {
	return &AddressInspectCmd{Address: address}
}

// TxDecodeCmd defines the tx_decode JSON-RPC command.
type TxDecodeCmd struct {
	RawTx   string  `json:"raw_tx"`
	Network *string `json:"network,omitempty"`
}

// NewTxDecodeCmd returns a new instance which can be used to issue a
// tx_decode JSON-RPC command.
func NewTxDecodeCmd(rawTx string, network *string) *TxDecodeCmd {
	return &TxDecodeCmd{RawTx: rawTx, Network: network}
}

// TxCreateCmd defines the tx_create JSON-RPC command.  TxInfo is a JSON
// transaction description in the format returned by tx_decode.
type TxCreateCmd struct {
	TxInfo string `json:"tx_info"`
}

// NewTxCreateCmd returns a new instance which can be used to issue a
// tx_create JSON-RPC command.
func NewTxCreateCmd(txInfo string) *TxCreateCmd {
	return &TxCreateCmd{TxInfo: txInfo}
}

// KeypairGenerateCmd defines the keypair_generate JSON-RPC command.
type KeypairGenerateCmd struct{}

// NewKeypairGenerateCmd returns a new instance which can be used to issue a
// keypair_generate JSON-RPC command.
func NewKeypairGenerateCmd() *KeypairGenerateCmd {
	return &KeypairGenerateCmd{}
}

// SimplicityInfoCmd defines the simplicity_info JSON-RPC command.
type SimplicityInfoCmd struct {
	Program string  `json:"program"`
	Witness *string `json:"witness,omitempty"`
	State   *string `json:"state,omitempty"`
	Network *string `json:"network,omitempty"`
}

// NewSimplicityInfoCmd returns a new instance which can be used to issue a
// simplicity_info JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewSimplicityInfoCmd(program string, witness, state, network *string) *SimplicityInfoCmd {
	return &SimplicityInfoCmd{
		Program: program,
		Witness: witness,
		State:   state,
		Network: network,
	}
}

// SimplicitySighashCmd defines the simplicity_sighash JSON-RPC command.
type SimplicitySighashCmd struct {
	Tx           string    `json:"tx"`
	InputIndex   uint32    `json:"input_index"`
	CMR          string    `json:"cmr"`
	ControlBlock *string   `json:"control_block,omitempty"`
	GenesisHash  *string   `json:"genesis_hash,omitempty"`
	SecretKey    *string   `json:"secret_key,omitempty"`
	PublicKey    *string   `json:"public_key,omitempty"`
	Signature    *string   `json:"signature,omitempty"`
	InputUtxos   *[]string `json:"input_utxos,omitempty"`
}

// NewSimplicitySighashCmd returns a new instance which can be used to issue a
// simplicity_sighash JSON-RPC command.
//
// The parameters which are pointers indicate they are optional.  Passing nil
// for optional parameters will use the default value.
func NewSimplicitySighashCmd(tx string, inputIndex uint32, cmr string,
	controlBlock, genesisHash, secretKey, publicKey, signature *string,
	inputUtxos *[]string) *SimplicitySighashCmd {

	return &SimplicitySighashCmd{
		Tx:           tx,
		InputIndex:   inputIndex,
		CMR:          cmr,
		ControlBlock: controlBlock,
		GenesisHash:  genesisHash,
		SecretKey:    secretKey,
		PublicKey:    publicKey,
		Signature:    signature,
		InputUtxos:   inputUtxos,
	}
}

// PsetCreateCmd defines the pset_create JSON-RPC command.  Inputs and
// Outputs are JSON arrays passed as strings.
type PsetCreateCmd struct {
	Inputs  string  `json:"inputs"`
	Outputs string  `json:"outputs"`
	Network *string `json:"network,omitempty"`
}

// NewPsetCreateCmd returns a new instance which can be used to issue a
// pset_create JSON-RPC command.
func NewPsetCreateCmd(inputs, outputs string, network *string) *PsetCreateCmd {
	return &PsetCreateCmd{
		Inputs:  inputs,
		Outputs: outputs,
		Network: network,
	}
}

// PsetExtractCmd defines the pset_extract JSON-RPC command.
type PsetExtractCmd struct {
	Pset string `json:"pset"`
}

// NewPsetExtractCmd returns a new instance which can be used to issue a
// pset_extract JSON-RPC command.
func NewPsetExtractCmd(pset string) *PsetExtractCmd {
	return &PsetExtractCmd{Pset: pset}
}

// PsetFinalizeCmd defines the pset_finalize JSON-RPC command.
type PsetFinalizeCmd struct {
	Pset        string  `json:"pset"`
	InputIndex  uint32  `json:"input_index"`
	Program     string  `json:"program"`
	Witness     string  `json:"witness"`
	GenesisHash *string `json:"genesis_hash,omitempty"`
}

// NewPsetFinalizeCmd returns a new instance which can be used to issue a
// pset_finalize JSON-RPC command.
func NewPsetFinalizeCmd(pset string, inputIndex uint32, program,
	witness string, genesisHash *string) *PsetFinalizeCmd {

	return &PsetFinalizeCmd{
		Pset:        pset,
		InputIndex:  inputIndex,
		Program:     program,
		Witness:     witness,
		GenesisHash: genesisHash,
	}
}

// PsetRunCmd defines the pset_run JSON-RPC command.
type PsetRunCmd struct {
	Pset        string  `json:"pset"`
	InputIndex  uint32  `json:"input_index"`
	Program     string  `json:"program"`
	Witness     string  `json:"witness"`
	GenesisHash *string `json:"genesis_hash,omitempty"`
}

// NewPsetRunCmd returns a new instance which can be used to issue a pset_run
// JSON-RPC command.
func NewPsetRunCmd(pset string, inputIndex uint32, program, witness string,
	genesisHash *string) *PsetRunCmd {

	return &PsetRunCmd{
		Pset:        pset,
		InputIndex:  inputIndex,
		Program:     program,
		Witness:     witness,
		GenesisHash: genesisHash,
	}
}

// PsetUpdateInputCmd defines the pset_update_input JSON-RPC command.
type PsetUpdateInputCmd struct {
	Pset        string  `json:"pset"`
	InputIndex  uint32  `json:"input_index"`
	InputUtxo   string  `json:"input_utxo" jsonrpcusage:"\"<scriptPubKey>:<asset>:<value>\""`
	InternalKey *string `json:"internal_key,omitempty"`
	CMR         *string `json:"cmr,omitempty"`
	State       *string `json:"state,omitempty"`
}

// NewPsetUpdateInputCmd returns a new instance which can be used to issue a
// pset_update_input JSON-RPC command.
func NewPsetUpdateInputCmd(pset string, inputIndex uint32, inputUtxo string,
	internalKey, cmr, state *string) *PsetUpdateInputCmd {

	return &PsetUpdateInputCmd{
		Pset:        pset,
		InputIndex:  inputIndex,
		InputUtxo:   inputUtxo,
		InternalKey: internalKey,
		CMR:         cmr,
		State:       state,
	}
}

// methods maps every method name to a constructor of its zero command, used
// when decoding named parameters.
var methods = map[string]func() interface{}{
	"address_create":     func() interface{} { return new(AddressCreateCmd) },
	"address_inspect":    func() interface{} { return new(AddressInspectCmd) },
	"tx_create":          func() interface{} { return new(TxCreateCmd) },
	"tx_decode":          func() interface{} { return new(TxDecodeCmd) },
	"keypair_generate":   func() interface{} { return new(KeypairGenerateCmd) },
	"simplicity_info":    func() interface{} { return new(SimplicityInfoCmd) },
	"simplicity_sighash": func() interface{} { return new(SimplicitySighashCmd) },
	"pset_create":        func() interface{} { return new(PsetCreateCmd) },
	"pset_extract":       func() interface{} { return new(PsetExtractCmd) },
	"pset_finalize":      func() interface{} { return new(PsetFinalizeCmd) },
	"pset_run":           func() interface{} { return new(PsetRunCmd) },
	"pset_update_input":  func() interface{} { return new(PsetUpdateInputCmd) },
}

func init() {
	// No special flags for commands in this file.
	flags := btcjson.UsageFlag(0)

	btcjson.MustRegisterCmd("address_create", (*AddressCreateCmd)(nil), flags)
	btcjson.MustRegisterCmd("address_inspect", (*AddressInspectCmd)(nil), flags)
	btcjson.MustRegisterCmd("tx_create", (*TxCreateCmd)(nil), flags)
	btcjson.MustRegisterCmd("tx_decode", (*TxDecodeCmd)(nil), flags)
	btcjson.MustRegisterCmd("keypair_generate", (*KeypairGenerateCmd)(nil), flags)
	btcjson.MustRegisterCmd("simplicity_info", (*SimplicityInfoCmd)(nil), flags)
	btcjson.MustRegisterCmd("simplicity_sighash", (*SimplicitySighashCmd)(nil), flags)
	btcjson.MustRegisterCmd("pset_create", (*PsetCreateCmd)(nil), flags)
	btcjson.MustRegisterCmd("pset_extract", (*PsetExtractCmd)(nil), flags)
	btcjson.MustRegisterCmd("pset_finalize", (*PsetFinalizeCmd)(nil), flags)
	btcjson.MustRegisterCmd("pset_run", (*PsetRunCmd)(nil), flags)
	btcjson.MustRegisterCmd("pset_update_input", (*PsetUpdateInputCmd)(nil), flags)
}
