// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParamsByName(t *testing.T) {
	tests := []struct {
		name string
		want *Params
	}{
		{"liquid", &LiquidParams},
		{"Liquid", &LiquidParams},
		{"liquidtestnet", &LiquidTestNetParams},
		{"testnet", &LiquidTestNetParams},
		{"elementsregtest", &ElementsRegTestParams},
		{"regtest", &ElementsRegTestParams},
	}
	for _, test := range tests {
		got, err := ParamsByName(test.name)
		require.NoError(t, err, test.name)
		require.Same(t, test.want, got, test.name)
	}

	_, err := ParamsByName("bitcoin")
	require.ErrorIs(t, err, ErrUnknownNet)
}

func TestRegisterDuplicate(t *testing.T) {
	dup := LiquidParams
	require.ErrorIs(t, Register(&dup), ErrDuplicateNet)

	alias := Params{Name: "fresh", Aliases: []string{"testnet"}}
	require.ErrorIs(t, Register(&alias), ErrDuplicateNet)

	// A failed registration must not leave the primary name behind.
	_, err := ParamsByName("fresh")
	require.ErrorIs(t, err, ErrUnknownNet)
}

func TestAddressPrefixLookups(t *testing.T) {
	params, ok := ParamsForBech32HRP("tex")
	require.True(t, ok)
	require.Same(t, &LiquidTestNetParams, params)

	params, ok = ParamsForBase58ID(57)
	require.True(t, ok)
	require.Same(t, &LiquidParams, params)

	params, ok = ParamsForBech32HRP("ERT")
	require.True(t, ok)
	require.Same(t, &ElementsRegTestParams, params)

	// Confidential prefixes are not registered.
	_, ok = ParamsForBech32HRP("lq")
	require.False(t, ok)
	_, ok = ParamsForBase58ID(12)
	require.False(t, ok)
}

func TestPolicyAsset(t *testing.T) {
	require.Equal(t,
		"6f0279e9ed041c3d710a9f57d0c02928416460c4b722ae3457a11eec381c526d",
		LiquidParams.PolicyAsset())
	require.Equal(t,
		"144c654344aa716d6f3abcc1ca90e5641e4e2a7f633bc09fe3baf64585819a49",
		LiquidTestNetParams.PolicyAsset())
}

func TestGenesisHashes(t *testing.T) {
	// The web IDE constant is the Liquid testnet genesis in internal order.
	require.Equal(t, *LiquidTestNetParams.GenesisHash, WebIDEGenesisHash)
	require.Equal(t, WebIDEGenesisHash, DefaultGenesisHash)

	require.Equal(t, byte(0x00), BitcoinGenesisHash[0])
	require.Equal(t, byte(0x6f), BitcoinGenesisHash[31])

	got, err := ParseGenesisHash("webide")
	require.NoError(t, err)
	require.Equal(t, WebIDEGenesisHash, got)

	got, err = ParseGenesisHash("BITCOIN")
	require.NoError(t, err)
	require.Equal(t, BitcoinGenesisHash, got)

	got, err = ParseGenesisHash("a771da8e52ee6ad581ed1e9a99825e5b3b7992225534eaa2ae23244fe26ab1c1")
	require.NoError(t, err)
	require.Equal(t, WebIDEGenesisHash, got)

	_, err = ParseGenesisHash("a771")
	require.Error(t, err)
	_, err = ParseGenesisHash("zz71da8e52ee6ad581ed1e9a99825e5b3b7992225534eaa2ae23244fe26ab1c1")
	require.Error(t, err)

	got, err = ResolveGenesisHash(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultGenesisHash, got)
}
