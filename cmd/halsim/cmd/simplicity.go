// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/spf13/cobra"
)

func newSimplicityCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simplicity",
		Short: "Simplicity program commands",
	}

	cmd.AddCommand(newSimplicityInfoCommand(a))
	cmd.AddCommand(newSimplicitySighashCommand(a))
	cmd.AddCommand(newPsetCommands(a))

	return cmd
}

func newSimplicityInfoCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <program> [witness]",
		Short: "Parse a base64-encoded Simplicity program and decode it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := &simjson.SimplicityInfoCmd{
				Program: args[0],
				State:   optString(cmd, "state"),
				Network: a.networkParam(),
			}
			if len(args) > 1 {
				info.Witness = &args[1]
			}
			result, err := a.handler.Info(info)
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().StringP("state", "s", "",
		"32-byte state commitment to put alongside the program when generating addresses (hex)")

	return cmd
}

func newSimplicitySighashCommand(a *app) *cobra.Command {
	var inputUtxos []string

	cmd := &cobra.Command{
		Use:   "sighash <tx> <input-index> <cmr> [control-block]",
		Short: "Compute signature hashes or signatures for use with Simplicity",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputIndex, err := parseInputIndex(args[1])
			if err != nil {
				return a.printOutput(cmd, nil, err)
			}
			sighash := &simjson.SimplicitySighashCmd{
				Tx:          args[0],
				InputIndex:  inputIndex,
				CMR:         args[2],
				GenesisHash: optString(cmd, "genesis-hash"),
				SecretKey:   optString(cmd, "secret-key"),
				PublicKey:   optString(cmd, "public-key"),
				Signature:   optString(cmd, "signature"),
			}
			if len(args) > 3 {
				sighash.ControlBlock = &args[3]
			}
			if cmd.Flags().Changed("input-utxo") {
				sighash.InputUtxos = &inputUtxos
			}
			result, err := a.handler.Sighash(sighash)
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().StringP("genesis-hash", "g", "",
		"genesis hash of the blockchain the transaction belongs to (hex)")
	cmd.Flags().StringP("secret-key", "x", "",
		"secret key to sign the transaction with (hex)")
	cmd.Flags().StringP("public-key", "p", "",
		"public key checked against secret-key and signature (hex)")
	cmd.Flags().StringP("signature", "s", "",
		"signature to validate, requires public-key (hex)")
	cmd.Flags().StringArrayVarP(&inputUtxos, "input-utxo", "i", nil,
		"an input UTXO as <scriptPubKey>:<asset>:<value>, once per transaction input")

	return cmd
}
