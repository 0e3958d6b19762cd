// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simplicity

import (
	"fmt"
)

// Program is a decoded Simplicity program.  The commitment form is always
// present.  The redeem form is only present when the program was decoded
// together with its witness.
type Program struct {
	engine Engine
	commit CommitNode
	redeem RedeemNode
}

// ParseProgram decodes a base64 or hex encoded program without witness data.
func ParseProgram(engine Engine, program string) (*Program, error) {
	return parseProgram(engine, program, nil)
}

// ParseProgramWithWitness decodes a program and binds it to its witness.
func ParseProgramWithWitness(engine Engine, program, witness string) (*Program, error) {
	return parseProgram(engine, program, &witness)
}

// NewProgram decodes a program, binding it to witness when one is given.
func NewProgram(engine Engine, program string, witness *string) (*Program, error) {
	return parseProgram(engine, program, witness)
}

func parseProgram(engine Engine, program string, witness *string) (*Program, error) {
	if engine == nil {
		return nil, ErrNoEngine
	}

	progBytes, err := HexOrBase64(program)
	if err != nil {
		return nil, fmt.Errorf("invalid program encoding: %w", err)
	}
	commit, err := engine.DecodeCommit(progBytes)
	if err != nil {
		return nil, err
	}

	p := &Program{engine: engine, commit: commit}
	if witness == nil {
		return p, nil
	}

	witBytes, err := HexOrBase64(*witness)
	if err != nil {
		return nil, fmt.Errorf("invalid witness encoding: %w", err)
	}
	p.redeem, err = engine.DecodeRedeem(progBytes, witBytes)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Engine returns the engine that decoded the program.
func (p *Program) Engine() Engine {
	return p.engine
}

// CMR returns the commitment Merkle root of the program.
func (p *Program) CMR() CMR {
	return p.commit.CMR()
}

// Commit returns the commitment form of the program.
func (p *Program) Commit() CommitNode {
	return p.commit
}

// Redeem returns the redeem form of the program, or nil if the program was
// decoded without a witness.
func (p *Program) Redeem() RedeemNode {
	return p.redeem
}
