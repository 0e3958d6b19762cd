// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hal

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/address"
	"github.com/vulpemventures/go-elements/psetv2"
	"github.com/vulpemventures/go-elements/taproot"
)

// DefaultOutputAsset is the asset of outputs given in the address to amount
// map form when no network is named.  It is the Liquid testnet L-BTC.
const DefaultOutputAsset = "144c654344aa716d6f3abcc1ca90e5641e4e2a7f633bc09fe3baf64585819a49"

// Names of the PSET input fields reported in updated_values.
const (
	FieldFinalScriptWitness = "final_script_witness"
	FieldTapInternalKey     = "tap_internal_key"
	FieldTapMerkleRoot      = "tap_merkle_root"
	FieldTapScripts         = "tap_scripts"
	FieldWitnessUtxo        = "witness_utxo"
)

// defaultSequence is the sequence of pset_create inputs that do not set one.
const defaultSequence = 0xffffffff

const missingInternalKeyFmt = "internal key must be present if CMR is; " +
	"PSET requires a control block for each CMR, which in turn requires " +
	"the internal key. If you don't know the internal key, good chance it " +
	"is the BIP-0341 'unspendable key' %s or the web IDE's 'unspendable " +
	"key' (highly discouraged for use in production) of %s"

// Finalize prunes a program against the environment of a PSET input and
// writes the resulting witness stack to the input's final script witness.
func (h *Handler) Finalize(cmd *simjson.PsetFinalizeCmd) (*simjson.UpdatedPsetResult, error) {
	p, err := decodePset(cmd.Pset)
	if err != nil {
		return nil, err
	}
	prog, err := h.parseProgram(cmd.Program, &cmd.Witness)
	if err != nil {
		return nil, err
	}

	env, err := txenv.BuildEnvironment(p, cmd.InputIndex, prog.CMR(),
		cmd.GenesisHash)
	if err != nil {
		return nil, err
	}
	redeem := prog.Redeem()
	if redeem == nil {
		return nil, txenv.Errorf(txenv.ErrNoRedeemNode,
			"program does not have a redeem node")
	}
	pruned, err := redeem.Prune(env.Env)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrProgramPrune,
			"failed to prune program", err)
	}
	progBytes, witness := pruned.Encode()

	// BuildEnvironment checked the index.
	p.Inputs[cmd.InputIndex].FinalScriptWitness = txenv.SerializeWitness(
		[][]byte{witness, progBytes, env.LeafScript, env.RawControlBlock})
	log.Debugf("Finalized input %d with program %s", cmd.InputIndex,
		prog.CMR())

	return updatedPset(p, []string{FieldFinalScriptWitness})
}

// Run executes a program in the environment of a PSET input and returns
// every jet call it made.  A failing program is not an error: the result
// reports success as false.
func (h *Handler) Run(cmd *simjson.PsetRunCmd) (*simjson.PsetRunResult, error) {
	p, err := decodePset(cmd.Pset)
	if err != nil {
		return nil, err
	}
	prog, err := h.parseProgram(cmd.Program, &cmd.Witness)
	if err != nil {
		return nil, err
	}

	env, err := txenv.BuildEnvironment(p, cmd.InputIndex, prog.CMR(),
		cmd.GenesisHash)
	if err != nil {
		return nil, err
	}

	redeem := prog.Redeem()
	if redeem == nil {
		return nil, txenv.Errorf(txenv.ErrNoRedeemNode,
			"program does not have a redeem node")
	}
	machine, err := prog.Engine().NewBitMachine(redeem)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrBitMachineConstruction,
			"failed to construct bit machine", err)
	}

	tracer := simplicity.NewJetTracer()
	err = machine.ExecWithTracker(redeem, env.Env, tracer)
	if err != nil {
		log.Debugf("Program %s failed on input %d: %v", prog.CMR(),
			cmd.InputIndex, err)
	}

	return &simjson.PsetRunResult{
		Success: err == nil,
		Jets:    tracer.Calls(),
	}, nil
}

// UpdateInput attaches UTXO data to a PSET input.  With an internal key the
// input gets its taproot internal key, and with a CMR as well the input gets
// a single-leaf taptree committing to the program.
func (h *Handler) UpdateInput(cmd *simjson.PsetUpdateInputCmd) (*simjson.UpdatedPsetResult, error) {
	p, err := decodePset(cmd.Pset)
	if err != nil {
		return nil, err
	}
	utxo, err := simplicity.ParseElementsUtxo(cmd.InputUtxo)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidUtxo,
			"invalid elements UTXO", err)
	}

	total := len(p.Inputs)
	if int(cmd.InputIndex) >= total {
		return nil, txenv.Errorf(txenv.ErrInputIndexOutOfRange,
			"input index %d out-of-range for PSET with %d inputs",
			cmd.InputIndex, total)
	}

	var cmr *simplicity.CMR
	if cmd.CMR != nil {
		parsed, err := simplicity.ParseCMR(*cmd.CMR)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidCMR,
				"invalid CMR", err)
		}
		cmr = &parsed
	}
	var internalKey *btcec.PublicKey
	if cmd.InternalKey != nil {
		internalKey, err = simplicity.ParseXOnlyKey(*cmd.InternalKey)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidKey,
				"invalid internal key", err)
		}
	}
	if cmr != nil && internalKey == nil {
		return nil, txenv.Errorf(txenv.ErrMissingInternalKey,
			missingInternalKeyFmt, simplicity.UnspendableKeyHex,
			simplicity.WebIDEKeyHex)
	}
	if !simplicity.IsPayToTaproot(utxo.ScriptPubKey) {
		return nil, txenv.Errorf(txenv.ErrNotTaprootOutput,
			"input UTXO does not appear to be a Taproot output")
	}

	var state *[32]byte
	if cmd.State != nil {
		parsed, err := simplicity.ParseState(*cmd.State)
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid state commitment", err)
		}
		state = &parsed
	}

	i := cmd.InputIndex
	updated := make([]string, 0, 4)
	if internalKey != nil {
		p.Inputs[i].TapInternalKey = schnorr.SerializePubKey(internalKey)
		updated = append(updated, FieldTapInternalKey)

		if cmr != nil {
			// The program is assumed to be the only leaf, which is how
			// the web IDE and simplicity_info build addresses.
			info, err := simplicity.NewSpendInfo(internalKey, *cmr, state)
			if err != nil {
				return nil, txenv.MakeError(txenv.ErrInvalidKey,
					"failed to compute taproot spend info", err)
			}
			outputKey := schnorr.SerializePubKey(info.OutputKey)
			if !bytes.Equal(outputKey, utxo.ScriptPubKey[2:]) {
				return nil, txenv.Errorf(txenv.ErrOutputKeyMismatch,
					"CMR and internal key imply output key %x, which "+
						"does not match input scriptPubKey %x",
					outputKey, utxo.ScriptPubKey)
			}

			p.Inputs[i].TapMerkleRoot = append([]byte(nil), info.MerkleRoot[:]...)
			p.Inputs[i].TapLeafScript = []psetv2.TapLeafScript{{
				TapElementsLeaf: taproot.TapElementsLeaf{
					TapLeaf: txscript.NewTapLeaf(simplicity.LeafVersion,
						info.LeafScript),
				},
				ControlBlock: *info.ControlBlock,
			}}
			updated = append(updated, FieldTapMerkleRoot, FieldTapScripts)
		}
	}

	// The nonce and output witness are not part of the UTXO set.
	p.Inputs[i].WitnessUtxo = utxo.TxOutput()
	updated = append(updated, FieldWitnessUtxo)

	return updatedPset(p, updated)
}

// inputSpec is one element of the pset_create inputs array.
type inputSpec struct {
	Txid     string  `json:"txid"`
	Vout     uint32  `json:"vout"`
	Sequence *uint32 `json:"sequence"`
}

// outputSpec is one element of the pset_create outputs array in its explicit
// form.
type outputSpec struct {
	Address *string  `json:"address"`
	Asset   *string  `json:"asset"`
	Amount  *float64 `json:"amount"`
}

type flatOutput struct {
	address string
	asset   string
	amount  btcutil.Amount
}

// parseAssetID checks that s is a 64 character hex asset id in display order.
func parseAssetID(s string) (string, error) {
	if len(s) != chainhash.MaxHashStringSize {
		return "", errors.New("asset id must be 64 hex characters")
	}
	if _, err := chainhash.NewHashFromStr(s); err != nil {
		return "", err
	}
	return s, nil
}

// flattenOutputs decodes the pset_create outputs array.  An element is either
// an explicit {address, asset, amount} object or a map of addresses to
// amounts paying defaultAsset.  Map entries are taken in address order.
func flattenOutputs(outputsJSON string, defaultAsset string) ([]flatOutput, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(outputsJSON), &raw); err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid outputs JSON", err)
	}

	var outputs []flatOutput
	for _, elem := range raw {
		var spec outputSpec
		dec := json.NewDecoder(bytes.NewReader(elem))
		dec.DisallowUnknownFields()
		if dec.Decode(&spec) == nil && spec.Address != nil &&
			spec.Asset != nil && spec.Amount != nil {

			asset, err := parseAssetID(*spec.Asset)
			if err != nil {
				return nil, txenv.MakeError(txenv.ErrInvalidParameter,
					"invalid outputs JSON", err)
			}
			amount, err := parseOutputAmount(*spec.Amount)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, flatOutput{
				address: *spec.Address,
				asset:   asset,
				amount:  amount,
			})
			continue
		}

		var m map[string]float64
		if err := json.Unmarshal(elem, &m); err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid outputs JSON", err)
		}
		addrs := make([]string, 0, len(m))
		for addr := range m {
			addrs = append(addrs, addr)
		}
		sort.Strings(addrs)
		for _, addr := range addrs {
			amount, err := parseOutputAmount(m[addr])
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, flatOutput{
				address: addr,
				asset:   defaultAsset,
				amount:  amount,
			})
		}
	}
	return outputs, nil
}

func parseOutputAmount(btc float64) (btcutil.Amount, error) {
	amount, err := btcutil.NewAmount(btc)
	if err == nil && (amount < 0 || amount > btcutil.MaxSatoshi) {
		err = errors.New("amount out of range")
	}
	if err != nil {
		return 0, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid amount", err)
	}
	return amount, nil
}

// outputScript returns the scriptPubKey for a pset_create output address.
// "fee" is the empty fee script and "data:HEX" an OP_RETURN.
func outputScript(addr string) ([]byte, error) {
	switch {
	case addr == "fee":
		return nil, nil

	case strings.HasPrefix(addr, "data:"):
		data, err := hex.DecodeString(addr[len("data:"):])
		if err != nil {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid OP_RETURN hex data", err)
		}
		return txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).
			AddData(data).Script()
	}

	blinded, err := address.IsConfidential(addr)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid address", err)
	}
	if blinded {
		return nil, txenv.Errorf(txenv.ErrInvalidParameter,
			"confidential addresses are not yet supported")
	}
	script, err := address.ToOutputScript(addr)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid address", err)
	}
	return script, nil
}

// CreatePset creates a version 2 PSET with the given inputs and explicit
// outputs and no locktime.
func (h *Handler) CreatePset(cmd *simjson.PsetCreateCmd) (*simjson.UpdatedPsetResult, error) {
	var inputs []inputSpec
	if err := json.Unmarshal([]byte(cmd.Inputs), &inputs); err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid inputs JSON", err)
	}

	defaultAsset := DefaultOutputAsset
	if cmd.Network != nil {
		net, err := h.network(cmd.Network)
		if err != nil {
			return nil, err
		}
		defaultAsset = net.PolicyAsset()
	}
	outputs, err := flattenOutputs(cmd.Outputs, defaultAsset)
	if err != nil {
		return nil, err
	}

	ins := make([]psetv2.InputArgs, 0, len(inputs))
	for _, spec := range inputs {
		_, err := chainhash.NewHashFromStr(spec.Txid)
		if err != nil || len(spec.Txid) != chainhash.MaxHashStringSize {
			return nil, txenv.MakeError(txenv.ErrInvalidParameter,
				"invalid inputs JSON: bad txid "+spec.Txid, err)
		}
		ins = append(ins, psetv2.InputArgs{
			Txid:    spec.Txid,
			TxIndex: spec.Vout,
		})
	}
	outs := make([]psetv2.OutputArgs, 0, len(outputs))
	for _, out := range outputs {
		script, err := outputScript(out.address)
		if err != nil {
			return nil, err
		}
		outs = append(outs, psetv2.OutputArgs{
			Asset:  out.asset,
			Amount: uint64(out.amount),
			Script: script,
		})
	}

	p, err := psetv2.New(ins, outs, nil)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"failed to create PSET", err)
	}
	for i, spec := range inputs {
		p.Inputs[i].Sequence = defaultSequence
		if spec.Sequence != nil {
			p.Inputs[i].Sequence = *spec.Sequence
		}
	}
	return updatedPset(p, []string{})
}

// ExtractPset extracts the transaction of a PSET as hex.  Inputs that are not
// finalized are extracted with empty witnesses.
func (h *Handler) ExtractPset(cmd *simjson.PsetExtractCmd) (*simjson.PsetExtractResult, error) {
	p, err := decodePset(cmd.Pset)
	if err != nil {
		return nil, err
	}
	tx, err := txenv.ExtractTx(p)
	if err != nil {
		return nil, err
	}
	raw, err := tx.ToHex()
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrPsetExtract,
			"failed to serialize transaction", err)
	}
	return &simjson.PsetExtractResult{RawTx: raw}, nil
}
