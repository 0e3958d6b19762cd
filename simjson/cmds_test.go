// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package simjson_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/davecgh/go-spew/spew"
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/stretchr/testify/require"
)

// TestCmds tests all of the halsimd commands marshal and unmarshal into valid
// results including handling of optional fields being omitted in the
// marshalled command.
func TestCmds(t *testing.T) {
	t.Parallel()

	testID := 1
	tests := []struct {
		name         string
		newCmd       func() (interface{}, error)
		staticCmd    func() interface{}
		marshalled   string
		unmarshalled interface{}
	}{
		{
			name: "pset_finalize",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("pset_finalize", "cHNldP8=", 1,
					"dW5pdAo=", "00")
			},
			staticCmd: func() interface{} {
				return simjson.NewPsetFinalizeCmd("cHNldP8=", 1,
					"dW5pdAo=", "00", nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"pset_finalize","params":["cHNldP8=",1,"dW5pdAo=","00"],"id":1}`,
			unmarshalled: &simjson.PsetFinalizeCmd{
				Pset:       "cHNldP8=",
				InputIndex: 1,
				Program:    "dW5pdAo=",
				Witness:    "00",
			},
		},
		{
			name: "pset_run optional",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("pset_run", "cHNldP8=", 0,
					"dW5pdAo=", "", "bitcoin")
			},
			staticCmd: func() interface{} {
				return simjson.NewPsetRunCmd("cHNldP8=", 0, "dW5pdAo=",
					"", btcjson.String("bitcoin"))
			},
			marshalled: `{"jsonrpc":"1.0","method":"pset_run","params":["cHNldP8=",0,"dW5pdAo=","","bitcoin"],"id":1}`,
			unmarshalled: &simjson.PsetRunCmd{
				Pset:        "cHNldP8=",
				Program:     "dW5pdAo=",
				GenesisHash: btcjson.String("bitcoin"),
			},
		},
		{
			name: "simplicity_sighash",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("simplicity_sighash", "0200", 0,
					"abcd")
			},
			staticCmd: func() interface{} {
				return simjson.NewSimplicitySighashCmd("0200", 0, "abcd",
					nil, nil, nil, nil, nil, nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"simplicity_sighash","params":["0200",0,"abcd"],"id":1}`,
			unmarshalled: &simjson.SimplicitySighashCmd{
				Tx:  "0200",
				CMR: "abcd",
			},
		},
		{
			name: "simplicity_sighash utxos",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("simplicity_sighash", "0200", 2,
					"abcd", "c0", "webide", "01", "79be", "00",
					[]string{"51:aa:1"})
			},
			staticCmd: func() interface{} {
				return simjson.NewSimplicitySighashCmd("0200", 2, "abcd",
					btcjson.String("c0"), btcjson.String("webide"),
					btcjson.String("01"), btcjson.String("79be"),
					btcjson.String("00"), &[]string{"51:aa:1"})
			},
			marshalled: `{"jsonrpc":"1.0","method":"simplicity_sighash","params":["0200",2,"abcd","c0","webide","01","79be","00",["51:aa:1"]],"id":1}`,
			unmarshalled: &simjson.SimplicitySighashCmd{
				Tx:           "0200",
				InputIndex:   2,
				CMR:          "abcd",
				ControlBlock: btcjson.String("c0"),
				GenesisHash:  btcjson.String("webide"),
				SecretKey:    btcjson.String("01"),
				PublicKey:    btcjson.String("79be"),
				Signature:    btcjson.String("00"),
				InputUtxos:   &[]string{"51:aa:1"},
			},
		},
		{
			name: "pset_update_input",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("pset_update_input", "cHNldP8=", 0,
					"51:aa:1", "50929b74")
			},
			staticCmd: func() interface{} {
				return simjson.NewPsetUpdateInputCmd("cHNldP8=", 0,
					"51:aa:1", btcjson.String("50929b74"), nil, nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"pset_update_input","params":["cHNldP8=",0,"51:aa:1","50929b74"],"id":1}`,
			unmarshalled: &simjson.PsetUpdateInputCmd{
				Pset:        "cHNldP8=",
				InputUtxo:   "51:aa:1",
				InternalKey: btcjson.String("50929b74"),
			},
		},
		{
			name: "pset_create",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("pset_create", "[]", `[{"fee":1}]`)
			},
			staticCmd: func() interface{} {
				return simjson.NewPsetCreateCmd("[]", `[{"fee":1}]`, nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"pset_create","params":["[]","[{\"fee\":1}]"],"id":1}`,
			unmarshalled: &simjson.PsetCreateCmd{
				Inputs:  "[]",
				Outputs: `[{"fee":1}]`,
			},
		},
		{
			name: "pset_extract",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("pset_extract", "cHNldP8=")
			},
			staticCmd: func() interface{} {
				return simjson.NewPsetExtractCmd("cHNldP8=")
			},
			marshalled:   `{"jsonrpc":"1.0","method":"pset_extract","params":["cHNldP8="],"id":1}`,
			unmarshalled: &simjson.PsetExtractCmd{Pset: "cHNldP8="},
		},
		{
			name: "simplicity_info",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("simplicity_info", "dW5pdAo=", "00")
			},
			staticCmd: func() interface{} {
				return simjson.NewSimplicityInfoCmd("dW5pdAo=",
					btcjson.String("00"), nil, nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"simplicity_info","params":["dW5pdAo=","00"],"id":1}`,
			unmarshalled: &simjson.SimplicityInfoCmd{
				Program: "dW5pdAo=",
				Witness: btcjson.String("00"),
			},
		},
		{
			name: "keypair_generate",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("keypair_generate")
			},
			staticCmd: func() interface{} {
				return simjson.NewKeypairGenerateCmd()
			},
			marshalled:   `{"jsonrpc":"1.0","method":"keypair_generate","params":[],"id":1}`,
			unmarshalled: &simjson.KeypairGenerateCmd{},
		},
		{
			name: "address_create",
			newCmd: func() (interface{}, error) {
				return simjson.NewAddressCreateCmd(btcjson.String("liquid"),
					nil, btcjson.String("51"), nil), nil
			},
			staticCmd: func() interface{} {
				return simjson.NewAddressCreateCmd(btcjson.String("liquid"),
					nil, btcjson.String("51"), nil)
			},
			marshalled: `{"jsonrpc":"1.0","method":"address_create","params":["liquid",null,"51"],"id":1}`,
			unmarshalled: &simjson.AddressCreateCmd{
				Network: btcjson.String("liquid"),
				Script:  btcjson.String("51"),
			},
		},
		{
			name: "address_inspect",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("address_inspect", "ex1qabc")
			},
			staticCmd: func() interface{} {
				return simjson.NewAddressInspectCmd("ex1qabc")
			},
			marshalled:   `{"jsonrpc":"1.0","method":"address_inspect","params":["ex1qabc"],"id":1}`,
			unmarshalled: &simjson.AddressInspectCmd{Address: "ex1qabc"},
		},
		{
			name: "tx_decode",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("tx_decode", "0200")
			},
			staticCmd: func() interface{} {
				return simjson.NewTxDecodeCmd("0200", nil)
			},
			marshalled:   `{"jsonrpc":"1.0","method":"tx_decode","params":["0200"],"id":1}`,
			unmarshalled: &simjson.TxDecodeCmd{RawTx: "0200"},
		},
		{
			name: "tx_create",
			newCmd: func() (interface{}, error) {
				return btcjson.NewCmd("tx_create", `{"version":2}`)
			},
			staticCmd: func() interface{} {
				return simjson.NewTxCreateCmd(`{"version":2}`)
			},
			marshalled:   `{"jsonrpc":"1.0","method":"tx_create","params":["{\"version\":2}"],"id":1}`,
			unmarshalled: &simjson.TxCreateCmd{TxInfo: `{"version":2}`},
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Marshal the command as created by the new static command
		// creation function.
		marshalled, err := btcjson.MarshalCmd(btcjson.RpcVersion1, testID,
			test.staticCmd())
		require.NoError(t, err, "Test #%d (%s)", i, test.name)
		require.Equal(t, test.marshalled, string(marshalled),
			"Test #%d (%s)", i, test.name)

		// Ensure the command is created without error via the generic
		// new command creation function.
		cmd, err := test.newCmd()
		require.NoError(t, err, "Test #%d (%s)", i, test.name)

		marshalled, err = btcjson.MarshalCmd(btcjson.RpcVersion1, testID,
			cmd)
		require.NoError(t, err, "Test #%d (%s)", i, test.name)
		require.Equal(t, test.marshalled, string(marshalled),
			"Test #%d (%s)", i, test.name)

		var request btcjson.Request
		err = json.Unmarshal(marshalled, &request)
		require.NoError(t, err, "Test #%d (%s)", i, test.name)

		cmd, err = btcjson.UnmarshalCmd(&request)
		require.NoError(t, err, "Test #%d (%s)", i, test.name)
		require.Equal(t, test.unmarshalled, cmd, "Test #%d (%s)\n%s", i,
			test.name, spew.Sdump(cmd))

		// The named form decodes to the same command.
		named, err := simjson.MarshalNamedCmd(cmd)
		require.NoError(t, err, "Test #%d (%s)", i, test.name)
		require.True(t, simjson.IsNamedParams(named))

		method, err := btcjson.CmdMethod(cmd)
		require.NoError(t, err)
		require.Equal(t, test.name[:len(method)], method)

		namedCmd, err := simjson.UnmarshalNamedCmd(method, named)
		require.NoError(t, err, "Test #%d (%s)", i, test.name)
		require.Equal(t, test.unmarshalled, namedCmd, "Test #%d (%s)", i,
			test.name)
	}
}

// TestUnmarshalNamedCmdErrors ensures named parameters are checked against
// the command they are decoded into.
func TestUnmarshalNamedCmdErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		method string
		params string
		code   btcjson.ErrorCode
	}{
		{
			name:   "unregistered method",
			method: "getblock",
			params: `{}`,
			code:   btcjson.ErrUnregisteredMethod,
		},
		{
			name:   "missing required parameter",
			method: "pset_finalize",
			params: `{"pset":"cHNldP8=","input_index":0,"program":"AA=="}`,
			code:   btcjson.ErrNumParams,
		},
		{
			name:   "unknown parameter",
			method: "pset_extract",
			params: `{"pset":"cHNldP8=","psbt":"cHNidP8="}`,
			code:   btcjson.ErrInvalidType,
		},
		{
			name:   "wrong type",
			method: "pset_run",
			params: `{"pset":"cHNldP8=","input_index":"0","program":"AA==","witness":""}`,
			code:   btcjson.ErrInvalidType,
		},
		{
			name:   "array",
			method: "pset_extract",
			params: `["cHNldP8="]`,
			code:   btcjson.ErrInvalidType,
		},
	}

	for _, test := range tests {
		_, err := simjson.UnmarshalNamedCmd(test.method,
			json.RawMessage(test.params))
		var jerr btcjson.Error
		require.True(t, errors.As(err, &jerr), test.name)
		require.Equal(t, test.code, jerr.ErrorCode, test.name)
	}
}

// TestNamedOptionalParams ensures optional parameters may be omitted or
// given as null.
func TestNamedOptionalParams(t *testing.T) {
	t.Parallel()

	cmd, err := simjson.UnmarshalNamedCmd("simplicity_sighash", json.RawMessage(
		`{"tx":"0200","input_index":1,"cmr":"abcd","secret_key":null,`+
			`"input_utxos":["51:aa:1","52:aa:2"]}`))
	require.NoError(t, err)
	require.Equal(t, &simjson.SimplicitySighashCmd{
		Tx:         "0200",
		InputIndex: 1,
		CMR:        "abcd",
		InputUtxos: &[]string{"51:aa:1", "52:aa:2"},
	}, cmd)
}

func TestIsNamedParams(t *testing.T) {
	t.Parallel()

	require.True(t, simjson.IsNamedParams(json.RawMessage(` {"a":1}`)))
	require.False(t, simjson.IsNamedParams(json.RawMessage(`[1]`)))
	require.False(t, simjson.IsNamedParams(nil))
}

func TestMethods(t *testing.T) {
	t.Parallel()

	methods := simjson.Methods()
	require.Contains(t, methods, "pset_finalize")
	require.Contains(t, methods, "pset_run")
	require.Contains(t, methods, "simplicity_sighash")
	for _, method := range methods {
		_, err := btcjson.MethodUsageText(method)
		require.NoError(t, err, method)
	}
}

// TestSimplicityInfoResult ensures the redeem fields are flattened into the
// info result and omitted without a witness.
func TestSimplicityInfoResult(t *testing.T) {
	t.Parallel()

	result := simjson.SimplicityInfoResult{
		Jets: "core",
		CMR:  "00",
	}
	marshalled, err := json.Marshal(&result)
	require.NoError(t, err)
	require.False(t, bytes.Contains(marshalled, []byte("witness_hex")))
	require.False(t, bytes.Contains(marshalled, []byte(`"address_unconf"`)))
	require.True(t, bytes.Contains(marshalled, []byte(`"is_redeem":false`)))

	result.IsRedeem = true
	result.RedeemInfoResult = &simjson.RedeemInfoResult{
		RedeemBase64: "AA==",
		WitnessHex:   "00",
	}
	marshalled, err = json.Marshal(&result)
	require.NoError(t, err)
	require.True(t, bytes.Contains(marshalled, []byte(`"witness_hex":"00"`)))
	require.True(t, bytes.Contains(marshalled, []byte(`"is_redeem":true`)))
}

func TestSighashResultNulls(t *testing.T) {
	t.Parallel()

	marshalled, err := json.Marshal(&simjson.SimplicitySighashResult{
		Sighash: "ab",
	})
	require.NoError(t, err)
	require.Equal(t,
		`{"sighash":"ab","signature":null,"valid_signature":null}`,
		string(marshalled))
}
