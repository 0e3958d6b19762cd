// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package txenv builds the transaction environment a Simplicity program is
// evaluated in from a PSET input.
package txenv

import (
	"bytes"
	"sort"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/vulpemventures/go-elements/psetv2"
	"github.com/vulpemventures/go-elements/taproot"
	"github.com/vulpemventures/go-elements/transaction"
)

// FindSimplicityLeaf returns the leaf among leaves that commits to cmr under
// the Simplicity leaf version, or nil.  Leaves are scanned in control block
// order and a later match replaces an earlier one.  The returned pointer
// refers into leaves.
func FindSimplicityLeaf(leaves []psetv2.TapLeafScript,
	cmr simplicity.CMR) *psetv2.TapLeafScript {

	type keyed struct {
		index int
		cb    []byte
	}
	sorted := make([]keyed, 0, len(leaves))
	for i := range leaves {
		cb, err := leaves[i].ControlBlock.ToBytes()
		if err != nil {
			continue
		}
		sorted = append(sorted, keyed{index: i, cb: cb})
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].cb, sorted[j].cb) < 0
	})

	var found *psetv2.TapLeafScript
	for _, k := range sorted {
		leaf := &leaves[k.index]
		if leaf.LeafVersion == simplicity.LeafVersion &&
			bytes.Equal(leaf.Script, cmr[:]) {

			found = leaf
		}
	}
	return found
}

// ParseGenesisHash resolves an optional genesis hash argument, falling back
// to chaincfg.DefaultGenesisHash.
func ParseGenesisHash(genesisHash *string) (chainhash.Hash, error) {
	hash, err := chaincfg.ResolveGenesisHash(genesisHash)
	if err != nil {
		return hash, MakeError(ErrInvalidGenesisHash,
			"failed to parse genesis hash", err)
	}
	return hash, nil
}

// WitnessUtxos converts the witness UTXO of every input of p.  Every input is
// required, not only the one being spent.
func WitnessUtxos(p *psetv2.Pset) ([]simplicity.ElementsUtxo, error) {
	utxos := make([]simplicity.ElementsUtxo, 0, len(p.Inputs))
	for i := range p.Inputs {
		txOut := p.Inputs[i].WitnessUtxo
		if txOut == nil {
			return nil, Errorf(ErrMissingWitnessUtxo, "witness_utxo "+
				"field not populated for input %d", i)
		}
		utxos = append(utxos, simplicity.UtxoFromTxOutput(txOut))
	}
	return utxos, nil
}

// ExtractTx returns the transaction p describes with whatever final scripts
// its inputs carry.  Unlike psetv2.Extract it does not require the inputs to
// be finalized, so partially signed packets can be inspected.
func ExtractTx(p *psetv2.Pset) (*transaction.Transaction, error) {
	tx, err := p.UnsignedTx()
	if err != nil {
		return nil, MakeError(ErrPsetExtract,
			"failed to extract transaction from PSET", err)
	}
	for i := range p.Inputs {
		if sig := p.Inputs[i].FinalScriptSig; len(sig) > 0 {
			tx.Inputs[i].Script = sig
		}
		if wit := p.Inputs[i].FinalScriptWitness; len(wit) > 0 {
			stack, err := ParseWitness(wit)
			if err != nil {
				return nil, MakeError(ErrPsetExtract, "invalid "+
					"final_script_witness", err)
			}
			tx.Inputs[i].Witness = stack
		}
	}
	return tx, nil
}

// Environment is the result of BuildEnvironment.
type Environment struct {
	Env          *simplicity.ElementsEnv
	ControlBlock *taproot.ControlBlock

	// RawControlBlock is the serialized control block of the leaf.
	RawControlBlock []byte

	// LeafScript is the leaf script, which is the CMR.
	LeafScript []byte
}

// BuildEnvironment builds the environment for spending input inputIndex of p
// with the program identified by cmr.  The packet is not modified.
func BuildEnvironment(p *psetv2.Pset, inputIndex uint32, cmr simplicity.CMR,
	genesisHash *string) (*Environment, error) {

	total := len(p.Inputs)
	if int(inputIndex) >= total {
		return nil, Errorf(ErrInputIndexOutOfRange, "input index %d "+
			"out-of-range for PSET with %d inputs", inputIndex, total)
	}

	genesis, err := ParseGenesisHash(genesisHash)
	if err != nil {
		return nil, err
	}

	leaf := FindSimplicityLeaf(p.Inputs[inputIndex].TapLeafScript, cmr)
	if leaf == nil {
		return nil, Errorf(ErrMissingSimplicityLeaf, "could not find "+
			"Simplicity leaf in PSET taptree with CMR %s", cmr)
	}
	rawControlBlock, err := leaf.ControlBlock.ToBytes()
	if err != nil {
		return nil, MakeError(ErrInvalidControlBlock,
			"invalid control block in PSET", err)
	}
	controlBlock, err := taproot.ParseControlBlock(rawControlBlock)
	if err != nil {
		return nil, MakeError(ErrInvalidControlBlock,
			"invalid control block in PSET", err)
	}

	tx, err := ExtractTx(p)
	if err != nil {
		return nil, err
	}

	utxos, err := WitnessUtxos(p)
	if err != nil {
		return nil, err
	}

	env, err := simplicity.NewElementsEnv(tx, utxos, inputIndex, cmr,
		controlBlock, genesis)
	if err != nil {
		return nil, MakeError(ErrInputUtxoCountMismatch,
			"inconsistent environment", err)
	}

	log.Debugf("Built environment for input %d of %d, CMR %s, genesis %s",
		inputIndex, total, cmr, genesis)

	return &Environment{
		Env:             env,
		ControlBlock:    controlBlock,
		RawControlBlock: rawControlBlock,
		LeafScript:      leaf.Script,
	}, nil
}
