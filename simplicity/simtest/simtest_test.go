// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simtest

import (
	"encoding/base64"
	"testing"

	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	engine, err := simplicity.EngineByName(EngineName)
	require.NoError(t, err)
	require.Equal(t, EngineName, engine.Name())
	require.Contains(t, simplicity.SupportedEngines(), EngineName)

	err = simplicity.RegisterEngine(Engine{})
	require.ErrorIs(t, err, simplicity.ErrDuplicateEngine)
}

func TestPruneKeepsCMR(t *testing.T) {
	prog := Program("jet verify 0000000000000001 -", "hidden other branch")
	p, err := simplicity.ParseProgramWithWitness(Engine{},
		base64.StdEncoding.EncodeToString(prog), "")
	require.NoError(t, err)

	pruned, err := p.Redeem().Prune(nil)
	require.NoError(t, err)
	require.Equal(t, p.CMR(), pruned.CMR())

	progBytes, witBytes := pruned.Encode()
	require.Empty(t, witBytes)
	require.NotEqual(t, prog, progBytes)

	// The pruned program decodes to the same commitment.
	again, err := Engine{}.DecodeCommit(progBytes)
	require.NoError(t, err)
	require.Equal(t, p.CMR(), again.CMR())
}

func TestExec(t *testing.T) {
	prog := Program(
		"jet eq_64 00000000000000090000000000000007 -",
		"fail verify 0000000000000000",
		"jet never 0000000000000000 -",
	)
	node, err := Engine{}.DecodeRedeem(prog, nil)
	require.NoError(t, err)

	mac, err := Engine{}.NewBitMachine(node)
	require.NoError(t, err)

	tracer := simplicity.NewJetTracer()
	err = mac.ExecWithTracker(node, nil, tracer)
	require.ErrorIs(t, err, ErrJetFailed)

	calls := tracer.Calls()
	require.Len(t, calls, 2)
	require.Equal(t, "00000000000000090000000000000007", calls[0].InputHex)
	require.Equal(t, "2^128", calls[0].SourceType)
	require.Equal(t, "1", calls[0].TargetType)
	require.False(t, calls[1].Success)
}

func TestLimitsAndFailures(t *testing.T) {
	node, err := Engine{}.DecodeRedeem(Program("unit", "huge"), nil)
	require.NoError(t, err)
	_, err = Engine{}.NewBitMachine(node)
	require.ErrorIs(t, err, ErrLimit)

	node, err = Engine{}.DecodeRedeem(Program("fail-prune"), nil)
	require.NoError(t, err)
	_, err = node.Prune(nil)
	require.ErrorIs(t, err, ErrPrune)

	_, err = Engine{}.DecodeCommit([]byte("\n"))
	require.Error(t, err)
	_, err = Engine{}.DecodeCommit([]byte("bogus"))
	require.Error(t, err)
	_, err = Engine{}.DecodeCommit(Program("jet x 0102 -"))
	require.Error(t, err)
}

func TestRedeemHashes(t *testing.T) {
	prog := Program("unit")
	a, err := Engine{}.DecodeRedeem(prog, []byte{1})
	require.NoError(t, err)
	b, err := Engine{}.DecodeRedeem(prog, []byte{2})
	require.NoError(t, err)

	require.Equal(t, a.CMR(), b.CMR())
	require.Equal(t, a.AMR(), b.AMR())
	require.NotEqual(t, a.IHR(), b.IHR())
}
