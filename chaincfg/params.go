// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/vulpemventures/go-elements/network"
)

// Params names an Elements network and binds it to the address encoding
// magics go-elements defines for it.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Aliases are additional names accepted when looking the network up
	// by name.
	Aliases []string

	// GenesisHash is the hash of the first block of the chain in internal
	// byte order.  It is nil for networks whose genesis block depends on
	// local chain parameters, such as regtest.
	GenesisHash *chainhash.Hash

	// Net holds the address prefixes and the policy asset.
	Net *network.Network
}

// PolicyAsset returns the asset id of the network's native asset (L-BTC) in
// display order.
func (p *Params) PolicyAsset() string {
	return p.Net.AssetID
}

// LiquidParams defines the network parameters for the Liquid network.
var LiquidParams = Params{
	Name:        "liquid",
	GenesisHash: newHashFromStr("1466275836220db2944ca059a3a10ef6fd2ea684b0688d2c379296888a206003"),
	Net:         &network.Liquid,
}

// LiquidTestNetParams defines the network parameters for the Liquid test
// network.
var LiquidTestNetParams = Params{
	Name:        "liquidtestnet",
	Aliases:     []string{"liquid-testnet", "testnet"},
	GenesisHash: newHashFromStr("a771da8e52ee6ad581ed1e9a99825e5b3b7992225534eaa2ae23244fe26ab1c1"),
	Net:         &network.Testnet,
}

// ElementsRegTestParams defines the network parameters for a default
// Elements regression test chain.
var ElementsRegTestParams = Params{
	Name:    "elementsregtest",
	Aliases: []string{"elements-regtest", "regtest"},
	Net:     &network.Regtest,
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered into this package.
	ErrDuplicateNet = errors.New("duplicate Elements network")

	// ErrUnknownNet describes an error where a network name is neither a
	// default network nor one registered with Register.
	ErrUnknownNet = errors.New("unknown Elements network")
)

var (
	registeredNets = make(map[string]*Params)
	bech32HRPs     = make(map[string]*Params)
	base58IDs      = make(map[byte]*Params)
)

// Register registers the network parameters for an Elements network.  This
// may error with ErrDuplicateNet if the network or any of its aliases is
// already registered.
//
// Network parameters should be registered into this package by a main package
// as early as possible.  Then, library packages may lookup networks or network
// parameters based on inputs and work regardless of the network being standard
// or not.
func Register(params *Params) error {
	names := append([]string{params.Name}, params.Aliases...)
	for _, name := range names {
		if _, ok := registeredNets[strings.ToLower(name)]; ok {
			return ErrDuplicateNet
		}
	}
	for _, name := range names {
		registeredNets[strings.ToLower(name)] = params
	}
	if params.Net != nil {
		bech32HRPs[params.Net.Bech32] = params
		base58IDs[params.Net.PubKeyHash] = params
		base58IDs[params.Net.ScriptHash] = params
	}
	return nil
}

// mustRegister performs the same function as Register except it panics if there
// is an error.  This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ParamsByName returns the registered network with the given name or alias.
// Names are matched case-insensitively.
func ParamsByName(name string) (*Params, error) {
	params, ok := registeredNets[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownNet
	}
	return params, nil
}

// ParamsForBech32HRP returns the network whose unconfidential segwit
// addresses use hrp, and whether one was found.
func ParamsForBech32HRP(hrp string) (*Params, bool) {
	params, ok := bech32HRPs[strings.ToLower(hrp)]
	return params, ok
}

// ParamsForBase58ID returns the network that uses id as a P2PKH or P2SH
// version byte, and whether one was found.  When two networks share an id
// the one registered last wins.
func ParamsForBase58ID(id byte) (*Params, bool) {
	params, ok := base58IDs[id]
	return params, ok
}

// newHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash.  It only differs from the one available in chainhash in that
// it panics on an error since it will only (and must only) be called with
// hard-coded, and therefore known good, hashes.
func newHashFromStr(hexStr string) *chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		// Only reachable with a bad hard-coded hash.
		panic(err)
	}
	return hash
}

func init() {
	mustRegister(&LiquidParams)
	mustRegister(&LiquidTestNetParams)
	mustRegister(&ElementsRegTestParams)
}
