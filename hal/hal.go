// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hal implements the halsimd operations on PSETs, Simplicity
// programs, addresses, keys and transactions.
//
// Every operation takes the command type registered in the simjson package
// and returns the matching result type, so the same Handler serves both the
// JSON-RPC server and the offline command line tool.  Operations never keep
// state between calls: each one decodes its own PSET, builds its own
// environment and returns a freshly encoded PSET.
//
// Errors are txenv.Error values.  Use errors.Is with a txenv.ErrorKind to
// tell caller mistakes from unprepared PSETs.
package hal

import (
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/vulpemventures/go-elements/psetv2"
)

// Config houses the dependencies of a Handler.
type Config struct {
	// Engine is the Simplicity engine used by the program-dependent
	// operations.  Those fail with txenv.ErrNoEngine when it is nil.
	Engine simplicity.Engine

	// Net is the network used by operations whose network parameter is
	// omitted.  It defaults to Elements regtest.
	Net *chaincfg.Params
}

// Handler executes halsimd commands.  It is safe for concurrent use.
type Handler struct {
	cfg Config
}

// New returns a Handler for the given configuration.
func New(cfg *Config) *Handler {
	h := &Handler{cfg: *cfg}
	if h.cfg.Net == nil {
		h.cfg.Net = &chaincfg.ElementsRegTestParams
	}
	return h
}

// Engine returns the Simplicity engine of the handler, which may be nil.
func (h *Handler) Engine() simplicity.Engine {
	return h.cfg.Engine
}

// network resolves an optional network name.
func (h *Handler) network(name *string) (*chaincfg.Params, error) {
	if name == nil {
		return h.cfg.Net, nil
	}
	net, err := chaincfg.ParamsByName(*name)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrInvalidParameter,
			"invalid network "+*name, err)
	}
	return net, nil
}

// parseProgram decodes a program with the handler's engine.
func (h *Handler) parseProgram(program string, witness *string) (*simplicity.Program, error) {
	if h.cfg.Engine == nil {
		return nil, txenv.MakeError(txenv.ErrNoEngine,
			"program operations are unavailable", simplicity.ErrNoEngine)
	}
	prog, err := simplicity.NewProgram(h.cfg.Engine, program, witness)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrProgramParse,
			"invalid program", err)
	}
	return prog, nil
}

func decodePset(s string) (*psetv2.Pset, error) {
	p, err := psetv2.NewPsetFromBase64(s)
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrPsetDecode, "invalid PSET", err)
	}
	return p, nil
}

func updatedPset(p *psetv2.Pset, updated []string) (*simjson.UpdatedPsetResult, error) {
	encoded, err := p.ToBase64()
	if err != nil {
		return nil, txenv.MakeError(txenv.ErrPsetDecode,
			"failed to encode PSET", err)
	}
	return &simjson.UpdatedPsetResult{
		Pset:          encoded,
		UpdatedValues: updated,
	}, nil
}
