// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/halsimplicity/halsimd/simjson"
)

// helpDescsEnUS defines the English descriptions used for the help strings.
var helpDescsEnUS = map[string]string{
	// AddressCreateCmd help.
	"address_create--synopsis": "Creates the unconfidential addresses paying to a public key or a script.\n" +
		"A public key yields p2pkh, p2wpkh and p2shwpkh addresses, a script yields p2sh and p2wsh addresses.",
	"address_create-network": "Network to encode the addresses for (default: the server network)",
	"address_create-pubkey":  "Hex-encoded compressed public key",
	"address_create-script":  "Hex-encoded script",
	"address_create-blinder": "Blinding public key (confidential addresses are not supported)",

	// AddressesResult help.
	"addressesresult-p2pkh":    "Pay-to-pubkey-hash address",
	"addressesresult-p2wpkh":   "Pay-to-witness-pubkey-hash address",
	"addressesresult-p2shwpkh": "Pay-to-witness-pubkey-hash address nested in pay-to-script-hash",
	"addressesresult-p2sh":     "Pay-to-script-hash address",
	"addressesresult-p2wsh":    "Pay-to-witness-script-hash address",

	// AddressInspectCmd help.
	"address_inspect--synopsis": "Returns information about an unconfidential Elements address.",
	"address_inspect-address":   "The address to inspect",

	// AddressInfoResult help.
	"addressinforesult-network":                 "The network the address belongs to",
	"addressinforesult-script_pub_key":          "The script the address pays to",
	"addressinforesult-type":                    "The address type",
	"addressinforesult-pubkey_hash":             "The public key hash of a p2pkh address",
	"addressinforesult-script_hash":             "The script hash of a p2sh address",
	"addressinforesult-witness_pubkey_hash":     "The public key hash of a p2wpkh address",
	"addressinforesult-witness_script_hash":     "The script hash of a p2wsh address",
	"addressinforesult-witness_program_version": "The witness version of a segwit address",

	// ScriptResult help.
	"scriptresult-hex":     "Hex-encoded script",
	"scriptresult-asm":     "Disassembly of the script",
	"scriptresult-type":    "The type of an output script",
	"scriptresult-address": "The address an output script pays to, if any",

	// TxCreateCmd help.
	"tx_create--synopsis": "Builds a raw Elements transaction from a JSON description in the tx_decode format.",
	"tx_create-txinfo":    "JSON transaction description",

	// TxCreateResult help.
	"txcreateresult-raw_tx": "The hex-encoded transaction",

	// TxDecodeCmd help.
	"tx_decode--synopsis": "Returns a JSON object representing a raw Elements transaction.",
	"tx_decode-rawtx":     "Hex-encoded transaction",
	"tx_decode-network":   "Network to encode output addresses for (default: the server network)",

	// TxDecodeResult help.
	"txdecoderesult-txid":     "The hash of the transaction without witness data",
	"txdecoderesult-wtxid":    "The hash of the transaction including witness data",
	"txdecoderesult-size":     "The serialized size of the transaction in bytes",
	"txdecoderesult-weight":   "The weight of the transaction",
	"txdecoderesult-vsize":    "The virtual size of the transaction",
	"txdecoderesult-version":  "The transaction version",
	"txdecoderesult-locktime": "The transaction lock time",
	"txdecoderesult-inputs":   "The transaction inputs as JSON objects",
	"txdecoderesult-outputs":  "The transaction outputs as JSON objects",

	// TxInResult help.
	"txinresult-prevout":        "The previous outpoint as txid:vout",
	"txinresult-txid":           "The hash of the previous transaction",
	"txinresult-vout":           "The index of the previous output",
	"txinresult-script_sig":     "The signature script",
	"txinresult-sequence":       "The script sequence number",
	"txinresult-is_pegin":       "Whether the input is a peg-in",
	"txinresult-asset_issuance": "The asset issuance of the input, if any",
	"txinresult-witness":        "The input witness, if any",

	// IssuanceResult help.
	"issuanceresult-asset_blinding_nonce": "The asset blinding nonce",
	"issuanceresult-asset_entropy":        "The asset entropy",
	"issuanceresult-is_reissuance":        "Whether the issuance is a reissuance",
	"issuanceresult-amount":               "The issued amount",
	"issuanceresult-inflation_keys":       "The issued inflation keys",

	// TxInWitnessResult help.
	"txinwitnessresult-amount_rangeproof":         "The issuance amount range proof",
	"txinwitnessresult-inflation_keys_rangeproof": "The inflation keys range proof",
	"txinwitnessresult-script_witness":            "The script witness stack",
	"txinwitnessresult-pegin_witness":             "The peg-in witness stack",

	// TxOutResult help.
	"txoutresult-script_pub_key": "The output script",
	"txoutresult-asset":          "The output asset",
	"txoutresult-value":          "The output value",
	"txoutresult-nonce":          "The output nonce",
	"txoutresult-witness":        "The output witness, if any",
	"txoutresult-is_fee":         "Whether the output is a fee output",

	// TxOutWitnessResult help.
	"txoutwitnessresult-surjection_proof": "The asset surjection proof",
	"txoutwitnessresult-rangeproof":       "The value range proof",

	// ConfidentialResult help.
	"confidentialresult-type":       "Whether the value is null, explicit or a commitment",
	"confidentialresult-asset":      "The explicit asset id",
	"confidentialresult-value":      "The explicit value in satoshi",
	"confidentialresult-nonce":      "The explicit nonce",
	"confidentialresult-commitment": "The commitment",

	// KeypairGenerateCmd help.
	"keypair_generate--synopsis": "Generates a random secp256k1 key pair.",

	// KeypairResult help.
	"keypairresult-secret": "Hex-encoded secret key",
	"keypairresult-x_only": "Hex-encoded x-only public key",
	"keypairresult-parity": "Parity of the full public key",

	// SimplicityInfoCmd help.
	"simplicity_info--synopsis": "Parses a Simplicity program and returns its commitment data and addresses.",
	"simplicity_info-program":   "Hex or base64 encoded program",
	"simplicity_info-witness":   "Hex or base64 encoded witness",
	"simplicity_info-state":     "Hex-encoded 32-byte state committed in a hidden leaf",
	"simplicity_info-network":   "Network to also return the address for",

	// SimplicityInfoResult help.
	"simplicityinforesult-jets":                          "The jets used by the program",
	"simplicityinforesult-commit_base64":                 "The base64-encoded commitment program",
	"simplicityinforesult-commit_decode":                 "The decoded commitment program",
	"simplicityinforesult-type_arrow":                    "The source and target types of the program",
	"simplicityinforesult-cmr":                           "The commitment Merkle root",
	"simplicityinforesult-liquid_address_unconf":         "The unconfidential Liquid address of the program",
	"simplicityinforesult-liquid_testnet_address_unconf": "The unconfidential Liquid testnet address of the program",
	"simplicityinforesult-address_unconf":                "The unconfidential address on the requested network",
	"simplicityinforesult-is_redeem":                     "Whether a witness was given",
	"simplicityinforesult-redeeminforesult":              "The redeem program information",

	// RedeemInfoResult help.
	"redeeminforesult-redeem_base64": "The base64-encoded redeem program",
	"redeeminforesult-witness_hex":   "The hex-encoded witness data",
	"redeeminforesult-amr":           "The annotated Merkle root",
	"redeeminforesult-ihr":           "The identity hash root",

	// SimplicitySighashCmd help.
	"simplicity_sighash--synopsis":    "Computes the Simplicity sighash_all of an input and optionally signs it or verifies a signature.",
	"simplicity_sighash-tx":           "Base64 PSET or hex transaction",
	"simplicity_sighash-inputindex":   "The index of the spending input",
	"simplicity_sighash-cmr":          "The hex-encoded commitment Merkle root of the program",
	"simplicity_sighash-controlblock": "The hex-encoded control block, required for a raw transaction",
	"simplicity_sighash-genesishash":  "Genesis hash: webide, bitcoin or 64 hex characters (default: the server genesis)",
	"simplicity_sighash-secretkey":    "Hex-encoded secret key to sign with",
	"simplicity_sighash-publickey":    "Hex-encoded x-only public key to verify with",
	"simplicity_sighash-signature":    "Hex-encoded signature to verify",
	"simplicity_sighash-inpututxos":   "The spent outputs as <scriptPubKey>:<asset>:<value>, required for a raw transaction",

	// SimplicitySighashResult help.
	"simplicitysighashresult-sighash":         "The hex-encoded sighash",
	"simplicitysighashresult-signature":       "The signature, if a secret key was given",
	"simplicitysighashresult-valid_signature": "Whether the signature verifies, if one was given",

	// PsetCreateCmd help.
	"pset_create--synopsis": "Creates an unsigned PSET spending the given inputs to the given outputs.",
	"pset_create-inputs":    "JSON array of {txid, vout, sequence} objects",
	"pset_create-outputs":   "JSON array of {address, asset, amount} objects or {address: amount} maps",
	"pset_create-network":   "Network whose policy asset is used for map outputs",

	// UpdatedPsetResult help.
	"updatedpsetresult-pset":           "The base64-encoded PSET",
	"updatedpsetresult-updated_values": "The PSET fields that were set",

	// PsetExtractCmd help.
	"pset_extract--synopsis": "Extracts the raw transaction from a finalized PSET.",
	"pset_extract-pset":      "Base64-encoded PSET",

	// PsetExtractResult help.
	"psetextractresult-raw_tx": "The hex-encoded transaction",

	// PsetFinalizeCmd help.
	"pset_finalize--synopsis":   "Attaches a pruned Simplicity program and witness to a PSET input.",
	"pset_finalize-pset":        "Base64-encoded PSET",
	"pset_finalize-inputindex":  "The index of the input to finalize",
	"pset_finalize-program":     "Hex or base64 encoded program",
	"pset_finalize-witness":     "Hex or base64 encoded witness",
	"pset_finalize-genesishash": "Genesis hash: webide, bitcoin or 64 hex characters (default: the server genesis)",

	// PsetRunCmd help.
	"pset_run--synopsis":   "Executes a Simplicity program against a PSET input and traces its jet calls.",
	"pset_run-pset":        "Base64-encoded PSET",
	"pset_run-inputindex":  "The index of the input to run",
	"pset_run-program":     "Hex or base64 encoded program",
	"pset_run-witness":     "Hex or base64 encoded witness",
	"pset_run-genesishash": "Genesis hash: webide, bitcoin or 64 hex characters (default: the server genesis)",

	// PsetRunResult help.
	"psetrunresult-success": "Whether the program executed successfully",
	"psetrunresult-jets":    "The jet calls in execution order",

	// JetCall help.
	"jetcall-jet":            "The jet name",
	"jetcall-source_ty":      "The source type of the jet",
	"jetcall-target_ty":      "The target type of the jet",
	"jetcall-success":        "Whether the jet succeeded",
	"jetcall-input_hex":      "The jet input as hex",
	"jetcall-output_hex":     "The jet output as hex",
	"jetcall-equality_check": "The compared values of an equality jet",

	// PsetUpdateInputCmd help.
	"pset_update_input--synopsis":   "Attaches the UTXO and taproot data of a Simplicity spend to a PSET input.",
	"pset_update_input-pset":        "Base64-encoded PSET",
	"pset_update_input-inputindex":  "The index of the input to update",
	"pset_update_input-inpututxo":   "The spent output as <scriptPubKey>:<asset>:<value>",
	"pset_update_input-internalkey": "The hex-encoded x-only taproot internal key",
	"pset_update_input-cmr":         "The hex-encoded commitment Merkle root of the program",
	"pset_update_input-state":       "Hex-encoded 32-byte state committed in a hidden leaf",

	// HelpCmd help.
	"help--synopsis":   "Returns a list of all commands or help for a specified command.",
	"help-command":     "The command to retrieve help for",
	"help--condition0": "no command provided",
	"help--condition1": "command specified",
	"help--result0":    "List of commands",
	"help--result1":    "Help for specified command",

	// StopCmd help.
	"stop--synopsis": "Shutdown halsimd.",
	"stop--result0":  "The string 'halsimd stopping.'",
}

// rpcResultTypes specifies the result types that each RPC command can return.
// This information is used to generate the help.  Each result type must be a
// pointer to the type (or nil to indicate no return value).
var rpcResultTypes = map[string][]interface{}{
	"address_create":     {(*simjson.AddressesResult)(nil)},
	"address_inspect":    {(*simjson.AddressInfoResult)(nil)},
	"tx_create":          {(*simjson.TxCreateResult)(nil)},
	"tx_decode":          {(*simjson.TxDecodeResult)(nil)},
	"keypair_generate":   {(*simjson.KeypairResult)(nil)},
	"simplicity_info":    {(*simjson.SimplicityInfoResult)(nil)},
	"simplicity_sighash": {(*simjson.SimplicitySighashResult)(nil)},
	"pset_create":        {(*simjson.UpdatedPsetResult)(nil)},
	"pset_extract":       {(*simjson.PsetExtractResult)(nil)},
	"pset_finalize":      {(*simjson.UpdatedPsetResult)(nil)},
	"pset_run":           {(*simjson.PsetRunResult)(nil)},
	"pset_update_input":  {(*simjson.UpdatedPsetResult)(nil)},
	"help":               {(*string)(nil), (*string)(nil)},
	"stop":               {(*string)(nil)},
}

// helpCacher provides a concurrent safe type that provides help and usage for
// the RPC server commands and caches the results for future calls.
type helpCacher struct {
	sync.Mutex
	usage      string
	methodHelp map[string]string
}

// rpcMethodHelp returns an RPC help string for the provided method.
//
// This function is safe for concurrent access.
func (c *helpCacher) rpcMethodHelp(method string) (string, error) {
	c.Lock()
	defer c.Unlock()

	// Return the cached method help if it exists.
	if help, exists := c.methodHelp[method]; exists {
		return help, nil
	}

	// Look up the result types for the method.
	resultTypes, ok := rpcResultTypes[method]
	if !ok {
		return "", errors.New("no result types specified for method " +
			method)
	}

	// Generate, cache, and return the help.
	help, err := btcjson.GenerateHelp(method, helpDescsEnUS, resultTypes...)
	if err != nil {
		return "", err
	}
	c.methodHelp[method] = help
	return help, nil
}

// rpcUsage returns one-line usage for all supported RPC commands.
//
// This function is safe for concurrent access.
func (c *helpCacher) rpcUsage() (string, error) {
	c.Lock()
	defer c.Unlock()

	// Return the cached usage if it is available.
	if c.usage != "" {
		return c.usage, nil
	}

	// Generate a list of one-line usage for every command.
	usageTexts := make([]string, 0, len(rpcHandlers))
	for k := range rpcHandlers {
		usage, err := btcjson.MethodUsageText(k)
		if err != nil {
			return "", err
		}
		usageTexts = append(usageTexts, usage)
	}

	sort.Strings(usageTexts)
	c.usage = strings.Join(usageTexts, "\n")
	return c.usage, nil
}

// newHelpCacher returns a new instance of a help cacher which provides help and
// usage for the RPC server commands and caches the results for future calls.
func newHelpCacher() *helpCacher {
	return &helpCacher{
		methodHelp: make(map[string]string),
	}
}
