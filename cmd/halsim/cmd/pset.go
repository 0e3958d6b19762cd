// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/spf13/cobra"
)

func newPsetCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pset",
		Short: "Manipulate PSETs for spending from Simplicity programs",
	}

	cmd.AddCommand(newPsetCreateCommand(a))
	cmd.AddCommand(newPsetExtractCommand(a))
	cmd.AddCommand(newPsetFinalizeCommand(a))
	cmd.AddCommand(newPsetRunCommand(a))
	cmd.AddCommand(newPsetUpdateInputCommand(a))

	return cmd
}

func newPsetCreateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create <inputs> <outputs>",
		Short: "Create a PSET from JSON inputs and outputs",
		Long: "Create a PSET.  Inputs are a JSON array of objects with txid, " +
			"vout and an optional sequence.  Outputs are a JSON array of " +
			"objects with address, asset and amount, or a JSON map of " +
			"address to amount.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.CreatePset(&simjson.PsetCreateCmd{
				Inputs:  args[0],
				Outputs: args[1],
				Network: a.networkParam(),
			})
			return a.printOutput(cmd, result, err)
		},
	}
}

func newPsetExtractCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <pset>",
		Short: "Extract a raw transaction from a completed PSET",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.ExtractPset(&simjson.PsetExtractCmd{
				Pset: args[0],
			})
			return a.printOutput(cmd, result, err)
		},
	}
}

func newPsetFinalizeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finalize <pset> <input-index> <program> <witness>",
		Short: "Attach a Simplicity program and witness to a PSET input",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputIndex, err := parseInputIndex(args[1])
			if err != nil {
				return a.printOutput(cmd, nil, err)
			}
			result, err := a.handler.Finalize(&simjson.PsetFinalizeCmd{
				Pset:        args[0],
				InputIndex:  inputIndex,
				Program:     args[2],
				Witness:     args[3],
				GenesisHash: optString(cmd, "genesis-hash"),
			})
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().StringP("genesis-hash", "g", "",
		"genesis hash of the blockchain the transaction belongs to (hex)")

	return cmd
}

func newPsetRunCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <pset> <input-index> <program> <witness>",
		Short: "Run a Simplicity program in the context of a PSET input",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputIndex, err := parseInputIndex(args[1])
			if err != nil {
				return a.printOutput(cmd, nil, err)
			}
			result, err := a.handler.Run(&simjson.PsetRunCmd{
				Pset:        args[0],
				InputIndex:  inputIndex,
				Program:     args[2],
				Witness:     args[3],
				GenesisHash: optString(cmd, "genesis-hash"),
			})
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().StringP("genesis-hash", "g", "",
		"genesis hash of the blockchain the transaction belongs to (hex)")

	return cmd
}

func newPsetUpdateInputCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update-input <pset> <input-index>",
		Short: "Attach UTXO data to a PSET input",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputIndex, err := parseInputIndex(args[1])
			if err != nil {
				return a.printOutput(cmd, nil, err)
			}
			inputUtxo, _ := cmd.Flags().GetString("input-utxo")
			result, err := a.handler.UpdateInput(&simjson.PsetUpdateInputCmd{
				Pset:        args[0],
				InputIndex:  inputIndex,
				InputUtxo:   inputUtxo,
				InternalKey: optString(cmd, "internal-key"),
				CMR:         optString(cmd, "cmr"),
				State:       optString(cmd, "state"),
			})
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().StringP("input-utxo", "i", "",
		"the input's UTXO as <scriptPubKey>:<asset>:<value>")
	cmd.Flags().StringP("internal-key", "p", "", "internal public key (hex)")
	cmd.Flags().StringP("cmr", "c", "", "CMR of the Simplicity program (hex)")
	cmd.Flags().StringP("state", "s", "",
		"32-byte state commitment of the Simplicity leaf (hex)")
	_ = cmd.MarkFlagRequired("input-utxo")

	return cmd
}
