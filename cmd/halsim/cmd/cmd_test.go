// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/simplicity/simtest"
	"github.com/stretchr/testify/require"
)

const (
	testLbtc = "144c654344aa716d6f3abcc1ca90e5641e4e2a7f633bc09fe3baf64585819a49"
	testTxid = "8f3b5e7c2a1d9e0f4b6c8a2e1d3f5a7b9c0e2d4f6a8b1c3e5d7f9a0b2c4e6d8f"

	// testUtxo is a taproot output to the generator point.
	testUtxo = "5120" +
		"79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798" +
		":" + testLbtc + ":0.5"
)

func testProgram(lines ...string) string {
	return base64.StdEncoding.EncodeToString(simtest.Program(lines...))
}

// runHalsim runs the command line tool and returns its output.
func runHalsim(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return out.String(), err
}

func TestKeypairGenerate(t *testing.T) {
	out, err := runHalsim(t, "keypair", "generate")
	require.NoError(t, err)

	var kp simjson.KeypairResult
	require.NoError(t, json.Unmarshal([]byte(out), &kp))
	require.Len(t, kp.Secret, 64)
	require.Len(t, kp.XOnly, 64)
}

func TestSimplicityInfo(t *testing.T) {
	out, err := runHalsim(t, "--engine", simtest.EngineName, "simplicity",
		"info", testProgram("unit"), "--network", "liquid")
	require.NoError(t, err)

	var info simjson.SimplicityInfoResult
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	require.Len(t, info.CMR, 64)
	require.Equal(t, info.LiquidAddressUnconf, info.AddressUnconf)

	yamlOut, err := runHalsim(t, "--engine", simtest.EngineName, "-y",
		"simplicity", "info", testProgram("unit"))
	require.NoError(t, err)
	require.Contains(t, yamlOut, "cmr: "+info.CMR+"\n")
	require.NotContains(t, yamlOut, "{")
}

func TestPsetCommands(t *testing.T) {
	out, err := runHalsim(t, "simplicity", "pset", "create",
		`[{"txid":"`+testTxid+`","vout":0}]`,
		`[{"address":"data:cafe","asset":"`+testLbtc+`","amount":0}]`)
	require.NoError(t, err)

	var created simjson.UpdatedPsetResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.Pset)

	// Errors are printed as output and fail the command.
	out, err = runHalsim(t, "simplicity", "pset", "update-input",
		created.Pset, "1", "-i", testUtxo)
	require.ErrorIs(t, err, errReported)
	var reported errorOutput
	require.NoError(t, json.Unmarshal([]byte(out), &reported))
	require.Contains(t, reported.Error, "out-of-range")

	out, err = runHalsim(t, "simplicity", "pset", "update-input",
		created.Pset, "0", "-i", testUtxo)
	require.NoError(t, err, out)
	var updated simjson.UpdatedPsetResult
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	require.NotEqual(t, created.Pset, updated.Pset)
	require.NotEmpty(t, updated.UpdatedValues)

	_, err = runHalsim(t, "simplicity", "pset", "update-input",
		created.Pset, "0")
	require.Error(t, err)
	require.NotErrorIs(t, err, errReported)

	out, err = runHalsim(t, "simplicity", "pset", "run", created.Pset,
		"x", testProgram("unit"), "00")
	require.ErrorIs(t, err, errReported)
	require.Contains(t, out, "invalid input index")

	out, err = runHalsim(t, "simplicity", "pset", "extract", "bm90IGEgcHNldA==")
	require.ErrorIs(t, err, errReported)
	require.Contains(t, out, "error")
}

func TestAddressAndTx(t *testing.T) {
	out, err := runHalsim(t, "address", "create", "--script", "51",
		"-n", "liquidtestnet")
	require.NoError(t, err)
	var addrs simjson.AddressesResult
	require.NoError(t, json.Unmarshal([]byte(out), &addrs))
	require.Regexp(t, "^tex1q", addrs.P2WSH)

	out, err = runHalsim(t, "address", "inspect", addrs.P2WSH)
	require.NoError(t, err)
	require.Contains(t, out, `"p2wsh"`)

	_, err = runHalsim(t, "tx", "decode", "0200")
	require.ErrorIs(t, err, errReported)

	out, err = runHalsim(t, "tx", "create", `{"version":2,"locktime":0,`+
		`"inputs":[{"prevout":"`+testTxid+`:1"}],"outputs":[{"asset":`+
		`{"type":"explicit","asset":"`+testLbtc+`"},"value":`+
		`{"type":"explicit","value":1000}}]}`)
	require.NoError(t, err, out)
	var created simjson.TxCreateResult
	require.NoError(t, json.Unmarshal([]byte(out), &created))

	out, err = runHalsim(t, "tx", "decode", created.RawTx)
	require.NoError(t, err, out)
	var decoded simjson.TxDecodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Inputs, 1)
	require.Equal(t, testTxid+":1", decoded.Inputs[0].Prevout)
	require.True(t, decoded.Outputs[0].IsFee)

	out, err = runHalsim(t, "tx", "create", `{"version":2}`)
	require.ErrorIs(t, err, errReported)
	require.Contains(t, out, "locktime is required")
}

func TestRootFlags(t *testing.T) {
	saved := chaincfg.DefaultGenesisHash
	defer func() { chaincfg.DefaultGenesisHash = saved }()

	_, err := runHalsim(t, "--genesis", "bitcoin", "keypair", "generate")
	require.NoError(t, err)
	require.Equal(t, chaincfg.BitcoinGenesisHash, chaincfg.DefaultGenesisHash)

	_, err = runHalsim(t, "--genesis", "abcd", "keypair", "generate")
	require.Error(t, err)

	_, err = runHalsim(t, "-d", "loud", "keypair", "generate")
	require.ErrorContains(t, err, "invalid debug level")

	_, err = runHalsim(t, "--engine", "nope", "keypair", "generate")
	require.ErrorIs(t, err, simplicity.ErrUnknownEngine)

	// Without a name the only registered engine is used.
	out, err := runHalsim(t, "simplicity", "info", testProgram("unit"))
	require.NoError(t, err, out)
}

func TestMarshalOutputYAML(t *testing.T) {
	v := struct {
		B int      `json:"b"`
		A []string `json:"a"`
	}{B: 1, A: []string{"x"}}

	out, err := marshalOutput(v, true)
	require.NoError(t, err)
	require.Equal(t, "b: 1\na:\n    - x\n", string(out))

	out, err = marshalOutput(v, false)
	require.NoError(t, err)
	require.JSONEq(t, `{"b":1,"a":["x"]}`, string(out))
}
