// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simjson

import (
	"github.com/halsimplicity/halsimd/simplicity"
)

// UpdatedPsetResult models the data returned by every command that modifies
// a PSET.  UpdatedValues names the PSET fields the command wrote, in order.
type UpdatedPsetResult struct {
	Pset          string   `json:"pset"`
	UpdatedValues []string `json:"updated_values"`
}

// TxCreateResult models the data from the tx_create command.
type TxCreateResult struct {
	RawTx string `json:"raw_tx"`
}

// PsetExtractResult models the data from the pset_extract command.
type PsetExtractResult struct {
	RawTx string `json:"raw_tx"`
}

// PsetRunResult models the data from the pset_run command.
type PsetRunResult struct {
	Success bool                 `json:"success"`
	Jets    []simplicity.JetCall `json:"jets"`
}

// SimplicitySighashResult models the data from the simplicity_sighash
// command.
type SimplicitySighashResult struct {
	Sighash        string  `json:"sighash"`
	Signature      *string `json:"signature"`
	ValidSignature *bool   `json:"valid_signature"`
}

// RedeemInfoResult models the witness-dependent part of simplicity_info.
type RedeemInfoResult struct {
	RedeemBase64 string `json:"redeem_base64"`
	WitnessHex   string `json:"witness_hex"`
	AMR          string `json:"amr"`
	IHR          string `json:"ihr"`
}

// SimplicityInfoResult models the data from the simplicity_info command.  The
// redeem fields are only present when a witness was given, and AddressUnconf
// only when a network was named.
type SimplicityInfoResult struct {
	Jets                       string `json:"jets"`
	CommitBase64               string `json:"commit_base64"`
	CommitDecode               string `json:"commit_decode"`
	TypeArrow                  string `json:"type_arrow"`
	CMR                        string `json:"cmr"`
	LiquidAddressUnconf        string `json:"liquid_address_unconf"`
	LiquidTestnetAddressUnconf string `json:"liquid_testnet_address_unconf"`
	AddressUnconf              string `json:"address_unconf,omitempty"`
	IsRedeem                   bool   `json:"is_redeem"`
	*RedeemInfoResult
}

// KeypairResult models the data from the keypair_generate command.
type KeypairResult struct {
	Secret string `json:"secret"`
	XOnly  string `json:"x_only"`
	Parity uint8  `json:"parity"`
}

// AddressesResult models the data from the address_create command.  Only
// the address types that apply to the input are set.
type AddressesResult struct {
	P2PKH    string `json:"p2pkh,omitempty"`
	P2WPKH   string `json:"p2wpkh,omitempty"`
	P2SHWPKH string `json:"p2shwpkh,omitempty"`
	P2SH     string `json:"p2sh,omitempty"`
	P2WSH    string `json:"p2wsh,omitempty"`
}

// ScriptResult models a script in decoded form.
type ScriptResult struct {
	Hex     string `json:"hex"`
	Asm     string `json:"asm"`
	Type    string `json:"type,omitempty"`
	Address string `json:"address,omitempty"`
}

// AddressInfoResult models the data from the address_inspect command.
type AddressInfoResult struct {
	Network               string       `json:"network"`
	ScriptPubKey          ScriptResult `json:"script_pub_key"`
	Type                  string       `json:"type"`
	PubKeyHash            string       `json:"pubkey_hash,omitempty"`
	ScriptHash            string       `json:"script_hash,omitempty"`
	WitnessPubKeyHash     string       `json:"witness_pubkey_hash,omitempty"`
	WitnessScriptHash     string       `json:"witness_script_hash,omitempty"`
	WitnessProgramVersion *int         `json:"witness_program_version,omitempty"`
}

// ConfidentialResult models a confidential asset, value or nonce.  Type is
// "null", "explicit" or "confidential".
type ConfidentialResult struct {
	Type       string  `json:"type"`
	Asset      string  `json:"asset,omitempty"`
	Value      *uint64 `json:"value,omitempty"`
	Nonce      string  `json:"nonce,omitempty"`
	Commitment string  `json:"commitment,omitempty"`
}

// IssuanceResult models an asset issuance of a decoded input.
type IssuanceResult struct {
	AssetBlindingNonce string              `json:"asset_blinding_nonce"`
	AssetEntropy       string              `json:"asset_entropy"`
	IsReissuance       bool                `json:"is_reissuance"`
	Amount             *ConfidentialResult `json:"amount,omitempty"`
	InflationKeys      *ConfidentialResult `json:"inflation_keys,omitempty"`
}

// TxInWitnessResult models the witness of a decoded input.
type TxInWitnessResult struct {
	AmountRangeproof        string   `json:"amount_rangeproof,omitempty"`
	InflationKeysRangeproof string   `json:"inflation_keys_rangeproof,omitempty"`
	ScriptWitness           []string `json:"script_witness,omitempty"`
	PeginWitness            []string `json:"pegin_witness,omitempty"`
}

// TxInResult models a decoded transaction input.
type TxInResult struct {
	Prevout   string             `json:"prevout"`
	Txid      string             `json:"txid"`
	Vout      uint32             `json:"vout"`
	ScriptSig ScriptResult       `json:"script_sig"`
	Sequence  uint32             `json:"sequence"`
	IsPegin   bool               `json:"is_pegin"`
	Issuance  *IssuanceResult    `json:"asset_issuance,omitempty"`
	Witness   *TxInWitnessResult `json:"witness,omitempty"`
}

// TxOutWitnessResult models the witness of a decoded output.
type TxOutWitnessResult struct {
	SurjectionProof string `json:"surjection_proof,omitempty"`
	RangeProof      string `json:"rangeproof,omitempty"`
}

// TxOutResult models a decoded transaction output.
type TxOutResult struct {
	ScriptPubKey ScriptResult        `json:"script_pub_key"`
	Asset        ConfidentialResult  `json:"asset"`
	Value        ConfidentialResult  `json:"value"`
	Nonce        ConfidentialResult  `json:"nonce"`
	Witness      *TxOutWitnessResult `json:"witness,omitempty"`
	IsFee        bool                `json:"is_fee"`
}

// TxDecodeResult models the data from the tx_decode command.
type TxDecodeResult struct {
	Txid     string        `json:"txid"`
	Wtxid    string        `json:"wtxid"`
	Size     int           `json:"size"`
	Weight   int           `json:"weight"`
	VSize    int           `json:"vsize"`
	Version  int32         `json:"version"`
	Locktime uint32        `json:"locktime"`
	Inputs   []TxInResult  `json:"inputs"`
	Outputs  []TxOutResult `json:"outputs"`
}
