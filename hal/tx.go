// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/address"
	"github.com/vulpemventures/go-elements/elementsutil"
	"github.com/vulpemventures/go-elements/transaction"
)

// Names of the three confidential encodings.
const (
	confidentialNull     = "null"
	confidentialExplicit = "explicit"
	confidentialBlinded  = "confidential"
)

// explicitNonceSize is the size of an explicit nonce without its prefix.
const explicitNonceSize = 32

func hexStack(stack [][]byte) []string {
	if len(stack) == 0 {
		return nil
	}
	items := make([]string, len(stack))
	for i, item := range stack {
		items[i] = hex.EncodeToString(item)
	}
	return items
}

// confidentialKind returns the encoding of a serialized confidential asset,
// value or nonce from its prefix byte.
func confidentialKind(b []byte) string {
	switch {
	case len(b) == 0 || b[0] == simplicity.PrefixNull:
		return confidentialNull
	case b[0] == simplicity.PrefixExplicit:
		return confidentialExplicit
	}
	return confidentialBlinded
}

// scriptAddress returns the unconfidential address paying to pkScript on
// net, or the empty string for scripts without one.
func scriptAddress(pkScript []byte, net *chaincfg.Params) string {
	switch txscript.GetScriptClass(pkScript) {
	case txscript.PubKeyHashTy:
		return address.ToBase58(&address.Base58{
			Version: net.Net.PubKeyHash,
			Data:    pkScript[3:23],
		})
	case txscript.ScriptHashTy:
		return address.ToBase58(&address.Base58{
			Version: net.Net.ScriptHash,
			Data:    pkScript[2:22],
		})
	case txscript.WitnessV0PubKeyHashTy, txscript.WitnessV0ScriptHashTy,
		txscript.WitnessV1TaprootTy, txscript.WitnessUnknownTy:

		// Version opcode, program push, program.
		version := pkScript[0]
		if version != txscript.OP_0 {
			version -= txscript.OP_1 - 1
		}
		addr, err := segwitAddress(version, pkScript[2:], net)
		if err != nil {
			return ""
		}
		return addr
	}
	return ""
}

func scriptResult(script []byte, net *chaincfg.Params, output bool) simjson.ScriptResult {
	// Ignore the error here since an error means the script couldn't parse
	// and there is no additional information about it anyways.
	asm, _ := txscript.DisasmString(script)
	result := simjson.ScriptResult{
		Hex: hex.EncodeToString(script),
		Asm: asm,
	}
	if output {
		if len(script) == 0 {
			result.Type = "fee"
		} else {
			result.Type = txscript.GetScriptClass(script).String()
			result.Address = scriptAddress(script, net)
		}
	}
	return result
}

func confidentialValue(v []byte) *simjson.ConfidentialResult {
	result := &simjson.ConfidentialResult{Type: confidentialKind(v)}
	switch result.Type {
	case confidentialExplicit:
		amount, err := elementsutil.ValueFromBytes(v)
		if err != nil {
			result.Commitment = hex.EncodeToString(v)
			break
		}
		result.Value = &amount
	case confidentialBlinded:
		result.Commitment = hex.EncodeToString(v)
	}
	return result
}

func confidentialAsset(a []byte) simjson.ConfidentialResult {
	result := simjson.ConfidentialResult{Type: confidentialKind(a)}
	switch result.Type {
	case confidentialExplicit:
		result.Asset = elementsutil.AssetHashFromBytes(a)
	case confidentialBlinded:
		result.Commitment = hex.EncodeToString(a)
	}
	return result
}

func confidentialNonce(n []byte) simjson.ConfidentialResult {
	result := simjson.ConfidentialResult{Type: confidentialKind(n)}
	switch result.Type {
	case confidentialExplicit:
		result.Nonce = hex.EncodeToString(n[1:])
	case confidentialBlinded:
		result.Commitment = hex.EncodeToString(n)
	}
	return result
}

func isNullIssuanceValue(v []byte) bool {
	return confidentialKind(v) == confidentialNull
}

// createVinList returns the decoded inputs of tx.
func createVinList(tx *transaction.Transaction) []simjson.TxInResult {
	vinList := make([]simjson.TxInResult, len(tx.Inputs))
	for i, txIn := range tx.Inputs {
		vin := &vinList[i]
		vin.Txid = elementsutil.TxIDFromBytes(txIn.Hash)
		vin.Vout = txIn.Index
		vin.Prevout = fmt.Sprintf("%s:%d", vin.Txid, vin.Vout)
		vin.ScriptSig = scriptResult(txIn.Script, nil, false)
		vin.Sequence = txIn.Sequence
		vin.IsPegin = txIn.IsPegin

		if is := txIn.Issuance; is != nil {
			vin.Issuance = &simjson.IssuanceResult{
				AssetBlindingNonce: hex.EncodeToString(is.AssetBlindingNonce),
				AssetEntropy:       hex.EncodeToString(is.AssetEntropy),
				IsReissuance: len(is.AssetBlindingNonce) != 0 &&
					!bytes.Equal(is.AssetBlindingNonce,
						make([]byte, len(is.AssetBlindingNonce))),
			}
			if !isNullIssuanceValue(is.AssetAmount) {
				vin.Issuance.Amount = confidentialValue(is.AssetAmount)
			}
			if !isNullIssuanceValue(is.TokenAmount) {
				vin.Issuance.InflationKeys = confidentialValue(is.TokenAmount)
			}
		}

		if len(txIn.Witness) != 0 || len(txIn.PeginWitness) != 0 ||
			len(txIn.IssuanceRangeProof) != 0 ||
			len(txIn.InflationRangeProof) != 0 {

			vin.Witness = &simjson.TxInWitnessResult{
				AmountRangeproof:        hex.EncodeToString(txIn.IssuanceRangeProof),
				InflationKeysRangeproof: hex.EncodeToString(txIn.InflationRangeProof),
				ScriptWitness:           hexStack(txIn.Witness),
				PeginWitness:            hexStack(txIn.PeginWitness),
			}
		}
	}
	return vinList
}

// createVoutList returns the decoded outputs of tx.  Addresses are encoded
// for net.
func createVoutList(tx *transaction.Transaction, net *chaincfg.Params) []simjson.TxOutResult {
	voutList := make([]simjson.TxOutResult, len(tx.Outputs))
	for i, txOut := range tx.Outputs {
		vout := &voutList[i]
		vout.ScriptPubKey = scriptResult(txOut.Script, net, true)
		vout.Asset = confidentialAsset(txOut.Asset)
		vout.Value = *confidentialValue(txOut.Value)
		vout.Nonce = confidentialNonce(txOut.Nonce)
		vout.IsFee = len(txOut.Script) == 0
		if len(txOut.SurjectionProof) != 0 || len(txOut.RangeProof) != 0 {
			vout.Witness = &simjson.TxOutWitnessResult{
				SurjectionProof: hex.EncodeToString(txOut.SurjectionProof),
				RangeProof:      hex.EncodeToString(txOut.RangeProof),
			}
		}
	}
	return voutList
}

// DecodeTx decodes a raw Elements transaction.
func (h *Handler) DecodeTx(cmd *simjson.TxDecodeCmd) (*simjson.TxDecodeResult, error) {
	net, err := h.network(cmd.Network)
	if err != nil {
		return nil, err
	}
	if _, err := hex.DecodeString(cmd.RawTx); err != nil {
		return nil, txenv.MakeError(txenv.ErrTxDecode, "TX decode failed", err)
	}
	tx, err := transaction.NewTxFromHex(cmd.RawTx)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrTxDecode, "TX decode failed", err)
	}

	return &simjson.TxDecodeResult{
		Txid:     tx.TxHash().String(),
		Wtxid:    tx.WitnessHash().String(),
		Size:     len(cmd.RawTx) / 2,
		Weight:   tx.Weight(),
		VSize:    tx.VirtualSize(),
		Version:  tx.Version,
		Locktime: tx.Locktime,
		Inputs:   createVinList(tx),
		Outputs:  createVoutList(tx, net),
	}, nil
}

// The tx_create argument mirrors the tx_decode result.  Pointer fields tell
// an absent field from a zero one.
type (
	confidentialInfo struct {
		Type       string  `json:"type"`
		Asset      *string `json:"asset"`
		Value      *uint64 `json:"value"`
		Nonce      *string `json:"nonce"`
		Commitment *string `json:"commitment"`
	}

	scriptInfo struct {
		Hex     *string `json:"hex"`
		Asm     *string `json:"asm"`
		Address *string `json:"address"`
	}

	issuanceInfo struct {
		AssetBlindingNonce *string           `json:"asset_blinding_nonce"`
		AssetEntropy       *string           `json:"asset_entropy"`
		Amount             *confidentialInfo `json:"amount"`
		InflationKeys      *confidentialInfo `json:"inflation_keys"`
	}

	txInWitnessInfo struct {
		AmountRangeproof        *string  `json:"amount_rangeproof"`
		InflationKeysRangeproof *string  `json:"inflation_keys_rangeproof"`
		ScriptWitness           []string `json:"script_witness"`
		PeginWitness            []string `json:"pegin_witness"`
	}

	txInInfo struct {
		Prevout   *string          `json:"prevout"`
		Txid      *string          `json:"txid"`
		Vout      *uint32          `json:"vout"`
		ScriptSig *scriptInfo      `json:"script_sig"`
		Sequence  *uint32          `json:"sequence"`
		IsPegin   *bool            `json:"is_pegin"`
		Issuance  *issuanceInfo    `json:"asset_issuance"`
		Witness   *txInWitnessInfo `json:"witness"`
	}

	txOutWitnessInfo struct {
		SurjectionProof *string `json:"surjection_proof"`
		RangeProof      *string `json:"rangeproof"`
	}

	txOutInfo struct {
		ScriptPubKey *scriptInfo       `json:"script_pub_key"`
		Asset        *confidentialInfo `json:"asset"`
		Value        *confidentialInfo `json:"value"`
		Nonce        *confidentialInfo `json:"nonce"`
		Witness      *txOutWitnessInfo `json:"witness"`
	}

	txInfo struct {
		Version  *int32      `json:"version"`
		Locktime *uint32     `json:"locktime"`
		Inputs   []txInInfo  `json:"inputs"`
		Outputs  []txOutInfo `json:"outputs"`
	}
)

func missingField(field string) error {
	return txenv.Errorf(txenv.ErrInvalidParameter, "%s is required", field)
}

func decodeHexField(s *string, field string) ([]byte, error) {
	if s == nil {
		return nil, missingField(field)
	}
	b, err := hex.DecodeString(*s)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidEncoding,
			fmt.Sprintf("invalid %s hex", field), err)
	}
	return b, nil
}

func optionalHex(s *string, field string) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return decodeHexField(s, field)
}

func decodeStack(items []string, field string) ([][]byte, error) {
	if len(items) == 0 {
		return nil, nil
	}
	stack := make([][]byte, len(items))
	for i := range items {
		item, err := decodeHexField(&items[i], field)
		if err != nil {
			return nil, err
		}
		stack[i] = item
	}
	return stack, nil
}

func blindedField(info *confidentialInfo, validate func([]byte) error) ([]byte, error) {
	b, err := decodeHexField(info.Commitment, "commitment")
	if err != nil {
		return nil, err
	}
	if err := validate(b); err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid confidential commitment", err)
	}
	return b, nil
}

func unknownConfidentialType(t string) error {
	return txenv.Errorf(txenv.ErrInvalidParameter,
		"unknown confidential type %q", t)
}

// createValue returns the serialized confidential value described by info.
func createValue(info *confidentialInfo) ([]byte, error) {
	switch info.Type {
	case confidentialNull:
		return []byte{simplicity.PrefixNull}, nil
	case confidentialExplicit:
		if info.Value == nil {
			return nil, missingField("value")
		}
		b, err := elementsutil.ValueToBytes(*info.Value)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid value", err)
		}
		return b, nil
	case confidentialBlinded:
		return blindedField(info, simplicity.ValidateValueCommitment)
	}
	return nil, unknownConfidentialType(info.Type)
}

// createAsset returns the serialized confidential asset described by info.
func createAsset(info *confidentialInfo) ([]byte, error) {
	switch info.Type {
	case confidentialNull:
		return []byte{simplicity.PrefixNull}, nil
	case confidentialExplicit:
		if info.Asset == nil {
			return nil, missingField("asset")
		}
		id, err := parseAssetID(*info.Asset)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid asset id", err)
		}
		b, err := elementsutil.AssetHashToBytes(id)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid asset id", err)
		}
		return b, nil
	case confidentialBlinded:
		return blindedField(info, simplicity.ValidateAssetCommitment)
	}
	return nil, unknownConfidentialType(info.Type)
}

// createNonce returns the serialized nonce described by info, the null
// nonce when info is nil.
func createNonce(info *confidentialInfo) ([]byte, error) {
	if info == nil {
		return []byte{simplicity.PrefixNull}, nil
	}
	switch info.Type {
	case confidentialNull:
		return []byte{simplicity.PrefixNull}, nil
	case confidentialExplicit:
		b, err := decodeHexField(info.Nonce, "nonce")
		if err != nil {
			return nil, err
		}
		if len(b) != explicitNonceSize {
			return nil, txenv.Errorf(txenv.ErrInvalidParameter,
				"wrong size of nonce field")
		}
		return append([]byte{simplicity.PrefixExplicit}, b...), nil
	case confidentialBlinded:
		b, err := decodeHexField(info.Commitment, "commitment")
		if err != nil {
			return nil, err
		}
		if len(b) != simplicity.CommitmentSize || (b[0] != 0x02 && b[0] != 0x03) {
			return nil, txenv.Errorf(txenv.ErrInvalidParameter,
				"invalid confidential public key")
		}
		return b, nil
	}
	return nil, unknownConfidentialType(info.Type)
}

// outpoint returns the previous output of an input given either as prevout,
// as txid and vout, or as both when they agree.
func outpoint(in *txInInfo) (string, uint32, error) {
	var (
		txid    string
		vout    uint32
		hasPrev bool
	)
	if in.Prevout != nil {
		i := strings.LastIndexByte(*in.Prevout, ':')
		if i < 0 {
			return "", 0, txenv.Errorf(txenv.ErrInvalidParameter,
				"invalid prevout format %q", *in.Prevout)
		}
		n, err := strconv.ParseUint((*in.Prevout)[i+1:], 10, 32)
		if err != nil {
			return "", 0, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid prevout format", err)
		}
		txid, vout, hasPrev = (*in.Prevout)[:i], uint32(n), true
	}
	switch {
	case in.Txid == nil && !hasPrev:
		return "", 0, txenv.Errorf(txenv.ErrInvalidParameter,
			"no previous output provided")
	case in.Txid == nil:
	case in.Vout == nil:
		return "", 0, txenv.Errorf(txenv.ErrInvalidParameter,
			"txid field given without vout field")
	case hasPrev && (*in.Txid != txid || *in.Vout != vout):
		return "", 0, txenv.Errorf(txenv.ErrInvalidParameter,
			"conflicting prevout information")
	default:
		txid, vout = *in.Txid, *in.Vout
	}
	return txid, vout, nil
}

func createScript(info *scriptInfo, field string) ([]byte, error) {
	switch {
	case info.Hex != nil:
		return decodeHexField(info.Hex, field)
	case info.Asm != nil:
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"decoding script assembly is not yet supported")
	case info.Address != nil && field == "script_pub_key":
		return outputScript(*info.Address)
	}
	return nil, txenv.Errorf(txenv.ErrInvalidParameter,
		"no %s info provided", field)
}

func createIssuance(info *issuanceInfo) (*transaction.TxIssuance, error) {
	nonce, err := decodeHexField(info.AssetBlindingNonce, "asset_blinding_nonce")
	if err != nil {
		return nil, err
	}
	if len(nonce) != 32 {
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"invalid size of asset_blinding_nonce")
	}
	entropy, err := decodeHexField(info.AssetEntropy, "asset_entropy")
	if err != nil {
		return nil, err
	}
	if len(entropy) != 32 {
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"invalid size of asset_entropy")
	}
	if info.Amount == nil {
		return nil, missingField("amount")
	}
	amount, err := createValue(info.Amount)
	if err != nil {
		return nil, err
	}
	if info.InflationKeys == nil {
		return nil, missingField("inflation_keys")
	}
	keys, err := createValue(info.InflationKeys)
	if err != nil {
		return nil, err
	}
	return &transaction.TxIssuance{
		AssetBlindingNonce: nonce,
		AssetEntropy:       entropy,
		AssetAmount:        amount,
		TokenAmount:        keys,
	}, nil
}

func createInput(info *txInInfo) (*transaction.TxInput, error) {
	txid, vout, err := outpoint(info)
	if err != nil {
		return nil, err
	}
	hash, err := elementsutil.TxIDToBytes(txid)
	if err != nil || len(hash) != 32 {
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"invalid prevout txid %q", txid)
	}

	in := transaction.NewTxInput(hash, vout)
	in.Sequence = 0
	if info.Sequence != nil {
		in.Sequence = *info.Sequence
	}
	if info.ScriptSig != nil {
		if in.Script, err = createScript(info.ScriptSig, "script_sig"); err != nil {
			return nil, err
		}
	}
	if info.IsPegin != nil {
		in.IsPegin = *info.IsPegin
	}
	if info.Issuance != nil {
		if in.Issuance, err = createIssuance(info.Issuance); err != nil {
			return nil, err
		}
	}

	if w := info.Witness; w != nil {
		if in.IssuanceRangeProof, err = optionalHex(w.AmountRangeproof,
			"amount_rangeproof"); err != nil {
			return nil, err
		}
		if in.InflationRangeProof, err = optionalHex(w.InflationKeysRangeproof,
			"inflation_keys_rangeproof"); err != nil {
			return nil, err
		}
		if in.Witness, err = decodeStack(w.ScriptWitness,
			"script_witness"); err != nil {
			return nil, err
		}
		if in.PeginWitness, err = decodeStack(w.PeginWitness,
			"pegin_witness"); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func createOutput(info *txOutInfo) (*transaction.TxOutput, error) {
	if info.Value == nil {
		return nil, missingField("value")
	}
	value, err := createValue(info.Value)
	if err != nil {
		return nil, err
	}
	if info.Asset == nil {
		return nil, missingField("asset")
	}
	asset, err := createAsset(info.Asset)
	if err != nil {
		return nil, err
	}

	var script []byte
	if info.ScriptPubKey != nil {
		if script, err = createScript(info.ScriptPubKey, "script_pub_key"); err != nil {
			return nil, err
		}
	}

	out := transaction.NewTxOutput(asset, value, script)
	if out.Nonce, err = createNonce(info.Nonce); err != nil {
		return nil, err
	}
	if w := info.Witness; w != nil {
		if out.SurjectionProof, err = optionalHex(w.SurjectionProof,
			"surjection_proof"); err != nil {
			return nil, err
		}
		if out.RangeProof, err = optionalHex(w.RangeProof,
			"rangeproof"); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CreateTx builds a raw transaction from its description in the tx_decode
// format.  Derived fields such as txid, size and is_fee are ignored.
func (h *Handler) CreateTx(cmd *simjson.TxCreateCmd) (*simjson.TxCreateResult, error) {
	var info txInfo
	if err := json.Unmarshal([]byte(cmd.TxInfo), &info); err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"failed to parse transaction info JSON", err)
	}
	if info.Version == nil {
		return nil, missingField("version")
	}
	if info.Locktime == nil {
		return nil, missingField("locktime")
	}
	if info.Inputs == nil {
		return nil, missingField("inputs")
	}
	if info.Outputs == nil {
		return nil, missingField("outputs")
	}

	tx := transaction.NewTx(*info.Version)
	tx.Locktime = *info.Locktime
	for i := range info.Inputs {
		in, err := createInput(&info.Inputs[i])
		if err != nil {
			return nil, err
		}
		tx.AddInput(in)
	}
	for i := range info.Outputs {
		out, err := createOutput(&info.Outputs[i])
		if err != nil {
			return nil, err
		}
		tx.AddOutput(out)
	}

	rawTx, err := tx.ToHex()
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"TX encode failed", err)
	}
	return &simjson.TxCreateResult{RawTx: rawTx}, nil
}
