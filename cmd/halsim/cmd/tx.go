// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/spf13/cobra"
)

func newTxCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manipulate transactions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "decode <raw-tx>",
		Short: "Decode a raw transaction to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.DecodeTx(&simjson.TxDecodeCmd{
				RawTx:   args[0],
				Network: a.networkParam(),
			})
			return a.printOutput(cmd, result, err)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <tx-info>",
		Short: "Create a raw transaction from JSON in the decode format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.CreateTx(&simjson.TxCreateCmd{
				TxInfo: args[0],
			})
			return a.printOutput(cmd, result, err)
		},
	})

	return cmd
}
