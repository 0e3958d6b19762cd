// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package simtest implements a deterministic Simplicity engine for tests.
//
// Programs are newline separated text.  Each line is one of:
//
//	unit                       accepts without calling any jet
//	jet <name> <in> <out>      calls a jet that succeeds
//	fail <name> <in>           calls a jet that fails, aborting execution
//	hidden <text>              a branch that is never taken
//	pruned <hash>              a hidden branch after pruning
//	fail-prune                 pruning fails
//	huge                       the bit machine cannot be allocated
//
// Jet inputs and outputs are hex, a multiple of 16 characters, or "-" for an
// empty frame.  Hashes are tagged SHA-256 digests, so the CMR of a program is
// unchanged by pruning exactly as with a real engine.
package simtest

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/halsimplicity/halsimd/simplicity"
)

// EngineName is the name the engine registers under.
const EngineName = "simtest"

var (
	tagCMR     = []byte("Simtest/CMR")
	tagAMR     = []byte("Simtest/AMR")
	tagIHR     = []byte("Simtest/IHR")
	tagSighash = []byte("Simtest/SighashAll")
)

var (
	// ErrJetFailed is returned by the bit machine when a fail line runs.
	ErrJetFailed = errors.New("jet failed")

	// ErrLimit is returned by NewBitMachine for huge programs.
	ErrLimit = errors.New("program exceeds bit machine memory limit")

	// ErrPrune is returned by Prune for programs containing fail-prune.
	ErrPrune = errors.New("witness is inconsistent with program")
)

func init() {
	if err := simplicity.RegisterEngine(Engine{}); err != nil {
		panic(fmt.Sprintf("failed to register engine %q: %v",
			EngineName, err))
	}
}

type opKind int

const (
	opUnit opKind = iota
	opJet
	opFail
	opHidden
	opPruned
	opFailPrune
	opHuge
)

type line struct {
	kind   opKind
	text   string
	name   string
	input  []uint64
	output []uint64
	hash   chainhash.Hash
}

// commitment returns the hash the line contributes to the CMR.
func (l *line) commitment() chainhash.Hash {
	if l.kind == opPruned {
		return l.hash
	}
	return chainhash.HashH([]byte(l.text))
}

// parseWords decodes a frame so that simplicity.WordsHex gives back s.
func parseWords(s string) ([]uint64, error) {
	if s == "-" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("frame %q is not a whole number of words", s)
	}
	words := make([]uint64, len(b)/8)
	for i := range words {
		words[len(words)-1-i] = binary.BigEndian.Uint64(b[8*i:])
	}
	return words, nil
}

func parseLine(text string) (*line, error) {
	fields := strings.Fields(text)
	l := &line{text: text}
	var err error
	switch fields[0] {
	case "unit":
		l.kind = opUnit
	case "jet":
		if len(fields) != 4 {
			return nil, fmt.Errorf("malformed jet line %q", text)
		}
		l.kind, l.name = opJet, fields[1]
		if l.input, err = parseWords(fields[2]); err != nil {
			return nil, err
		}
		if l.output, err = parseWords(fields[3]); err != nil {
			return nil, err
		}
	case "fail":
		if len(fields) != 3 {
			return nil, fmt.Errorf("malformed fail line %q", text)
		}
		l.kind, l.name = opFail, fields[1]
		if l.input, err = parseWords(fields[2]); err != nil {
			return nil, err
		}
	case "hidden":
		l.kind = opHidden
	case "pruned":
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed pruned line %q", text)
		}
		hash, err := hex.DecodeString(fields[1])
		if err != nil || len(hash) != chainhash.HashSize {
			return nil, fmt.Errorf("malformed pruned hash %q", fields[1])
		}
		l.kind = opPruned
		copy(l.hash[:], hash)
	case "fail-prune":
		l.kind = opFailPrune
	case "huge":
		l.kind = opHuge
	default:
		return nil, fmt.Errorf("unknown combinator %q", fields[0])
	}
	return l, nil
}

func decode(program []byte) ([]*line, error) {
	var lines []*line
	for _, text := range strings.Split(string(program), "\n") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		l, err := parseLine(text)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	if len(lines) == 0 {
		return nil, errors.New("empty program")
	}
	return lines, nil
}

func encode(lines []*line) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l.text)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func cmrOf(lines []*line) simplicity.CMR {
	msg := make([]byte, 0, len(lines)*chainhash.HashSize)
	for _, l := range lines {
		c := l.commitment()
		msg = append(msg, c[:]...)
	}
	return simplicity.CMR(*chainhash.TaggedHash(tagCMR, msg))
}

// Program encodes the given lines as a program.
func Program(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n") + "\n")
}

// Engine is the simtest Simplicity engine.
type Engine struct{}

// Ensure Engine implements the simplicity.Engine interface.
var _ simplicity.Engine = Engine{}

// Name returns EngineName.
func (Engine) Name() string { return EngineName }

// DecodeCommit decodes a commitment-time program.
func (Engine) DecodeCommit(program []byte) (simplicity.CommitNode, error) {
	lines, err := decode(program)
	if err != nil {
		return nil, err
	}
	return &commitNode{lines: lines}, nil
}

// DecodeRedeem decodes a program together with its witness.
func (Engine) DecodeRedeem(program, witness []byte) (simplicity.RedeemNode, error) {
	lines, err := decode(program)
	if err != nil {
		return nil, err
	}
	return &redeemNode{lines: lines, witness: witness}, nil
}

// NewBitMachine returns a bit machine unless the program is huge.
func (Engine) NewBitMachine(node simplicity.RedeemNode) (simplicity.BitMachine, error) {
	rn, ok := node.(*redeemNode)
	if !ok {
		return nil, fmt.Errorf("foreign redeem node %T", node)
	}
	for _, l := range rn.lines {
		if l.kind == opHuge {
			return nil, ErrLimit
		}
	}
	return bitMachine{}, nil
}

// SighashAll hashes everything the environment commits to.
func (Engine) SighashAll(env *simplicity.ElementsEnv) (chainhash.Hash, error) {
	var buf bytes.Buffer
	txHash := env.Tx.TxHash()
	buf.Write(txHash[:])
	for _, utxo := range env.Utxos {
		buf.Write(chainhash.HashB(utxo.ScriptPubKey))
		buf.Write(utxo.Asset)
		buf.Write(utxo.Value)
	}
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], env.InputIndex)
	buf.Write(idx[:])
	buf.Write(env.CMR[:])
	if env.ControlBlock != nil {
		cb, err := env.ControlBlock.ToBytes()
		if err != nil {
			return chainhash.Hash{}, err
		}
		buf.Write(cb)
	}
	buf.Write(env.GenesisHash[:])
	return *chainhash.TaggedHash(tagSighash, buf.Bytes()), nil
}

type commitNode struct {
	lines []*line
}

func (n *commitNode) CMR() simplicity.CMR { return cmrOf(n.lines) }

func (n *commitNode) Encode() []byte { return encode(n.lines) }

func (n *commitNode) Expr() string {
	texts := make([]string, len(n.lines))
	for i, l := range n.lines {
		texts[i] = l.text
	}
	return strings.Join(texts, "; ")
}

func (n *commitNode) TypeArrow() string { return "1 -> 1" }

type redeemNode struct {
	lines   []*line
	witness []byte
}

func (n *redeemNode) CMR() simplicity.CMR { return cmrOf(n.lines) }

func (n *redeemNode) AMR() simplicity.AMR {
	cmr := n.CMR()
	return simplicity.AMR(*chainhash.TaggedHash(tagAMR, cmr[:],
		encode(n.lines)))
}

func (n *redeemNode) IHR() simplicity.IHR {
	cmr := n.CMR()
	return simplicity.IHR(*chainhash.TaggedHash(tagIHR, cmr[:], n.witness))
}

func (n *redeemNode) Encode() ([]byte, []byte) {
	return encode(n.lines), n.witness
}

// Prune replaces every hidden line with its commitment.
func (n *redeemNode) Prune(env *simplicity.ElementsEnv) (simplicity.RedeemNode, error) {
	pruned := make([]*line, 0, len(n.lines))
	for _, l := range n.lines {
		switch l.kind {
		case opFailPrune:
			return nil, ErrPrune
		case opHidden:
			c := l.commitment()
			pruned = append(pruned, &line{
				kind: opPruned,
				text: "pruned " + hex.EncodeToString(c[:]),
				hash: c,
			})
		default:
			pruned = append(pruned, l)
		}
	}
	return &redeemNode{lines: pruned, witness: n.witness}, nil
}

type bitMachine struct{}

// typeOf names the type of a frame of the given number of words.
func typeOf(words []uint64) string {
	if len(words) == 0 {
		return "1"
	}
	return fmt.Sprintf("2^%d", 64*len(words))
}

func (bitMachine) ExecWithTracker(node simplicity.RedeemNode,
	env *simplicity.ElementsEnv, tracker simplicity.Tracker) error {

	rn, ok := node.(*redeemNode)
	if !ok {
		return fmt.Errorf("foreign redeem node %T", node)
	}
	for _, l := range rn.lines {
		switch l.kind {
		case opJet:
			tracker.VisitJet(&simplicity.JetFrame{
				Name:       l.name,
				SourceType: typeOf(l.input),
				TargetType: typeOf(l.output),
				Success:    true,
				Input:      l.input,
				Output:     l.output,
			})
		case opFail:
			tracker.VisitJet(&simplicity.JetFrame{
				Name:       l.name,
				SourceType: typeOf(l.input),
				TargetType: "1",
				Success:    false,
				Input:      l.input,
			})
			return fmt.Errorf("%w: %s", ErrJetFailed, l.name)
		}
	}
	return nil
}
