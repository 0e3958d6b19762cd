// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

var (
	// ErrNoEngine is returned when a program-dependent operation is
	// attempted without a Simplicity engine.
	ErrNoEngine = errors.New("no Simplicity engine selected")

	// ErrDuplicateEngine is returned by RegisterEngine for a name that is
	// already taken.
	ErrDuplicateEngine = errors.New("duplicate Simplicity engine")

	// ErrUnknownEngine is returned by EngineByName for a name nobody
	// registered.
	ErrUnknownEngine = errors.New("unknown Simplicity engine")
)

// CommitNode is a commitment-time program: its structure without witness
// data.  Decoding a program as a commitment always succeeds for well-formed
// encodings, even when the program is pruned or carries hidden branches.
type CommitNode interface {
	// CMR returns the commitment Merkle root of the program.
	CMR() CMR

	// Encode returns the canonical bit encoding of the program.
	Encode() []byte

	// Expr returns a human-readable rendering of the program.
	Expr() string

	// TypeArrow returns the source and target type of the program, for
	// example "1 -> 1".
	TypeArrow() string
}

// RedeemNode is a redemption-time program bound to its witness data.
type RedeemNode interface {
	CMR() CMR
	AMR() AMR
	IHR() IHR

	// Encode returns the bit encodings of the program and its witness.
	Encode() (program, witness []byte)

	// Prune removes the branches that are not taken when the program
	// runs in env.
	Prune(env *ElementsEnv) (RedeemNode, error)
}

// BitMachine executes a redeem node.
type BitMachine interface {
	// ExecWithTracker runs the program, calling tracker at every jet
	// boundary.  A nil error means the program accepted.
	ExecWithTracker(node RedeemNode, env *ElementsEnv, tracker Tracker) error
}

// Engine is the capability set of a Simplicity implementation.  Hashing,
// decoding, pruning and the bit machine itself all live behind it.
type Engine interface {
	// Name returns the name the engine registers under.
	Name() string

	// DecodeCommit decodes a commitment-time program.
	DecodeCommit(program []byte) (CommitNode, error)

	// DecodeRedeem decodes a program together with its witness.
	DecodeRedeem(program, witness []byte) (RedeemNode, error)

	// NewBitMachine allocates a machine sized for node.  It fails when the
	// program needs more memory than the engine allows.
	NewBitMachine(node RedeemNode) (BitMachine, error)

	// SighashAll computes the SIGHASH_ALL signature hash of env.
	SighashAll(env *ElementsEnv) (chainhash.Hash, error)
}

var (
	enginesMtx sync.RWMutex
	engines    = make(map[string]Engine)
)

// RegisterEngine adds an engine to the list of available engines.  It
// returns ErrDuplicateEngine if the name is already registered.  Engines
// normally register themselves from an init function.
func RegisterEngine(engine Engine) error {
	enginesMtx.Lock()
	defer enginesMtx.Unlock()

	if _, exists := engines[engine.Name()]; exists {
		str := fmt.Sprintf("engine %q is already registered",
			engine.Name())
		return fmt.Errorf("%w: %s", ErrDuplicateEngine, str)
	}

	engines[engine.Name()] = engine
	log.Debugf("Registered Simplicity engine %q", engine.Name())
	return nil
}

// SupportedEngines returns a sorted slice of strings that represent the
// engines that have been registered.
func SupportedEngines() []string {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	supported := make([]string, 0, len(engines))
	for name := range engines {
		supported = append(supported, name)
	}
	sort.Strings(supported)
	return supported
}

// EngineByName returns the registered engine with the given name.  An empty
// name selects the only registered engine, and fails with ErrNoEngine when
// there is none or more than one.
func EngineByName(name string) (Engine, error) {
	enginesMtx.RLock()
	defer enginesMtx.RUnlock()

	if name == "" {
		switch len(engines) {
		case 0:
			return nil, ErrNoEngine
		case 1:
			for _, engine := range engines {
				return engine, nil
			}
		}
		return nil, fmt.Errorf("%w: %d engines are registered",
			ErrNoEngine, len(engines))
	}

	engine, ok := engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return engine, nil
}
