// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/spf13/cobra"
)

func newAddressCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Work with addresses",
	}

	cmd.AddCommand(newAddressCreateCommand(a))
	cmd.AddCommand(newAddressInspectCommand(a))

	return cmd
}

func newAddressCreateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create addresses paying to a public key or a script",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.CreateAddress(&simjson.AddressCreateCmd{
				Network: a.networkParam(),
				PubKey:  optString(cmd, "pubkey"),
				Script:  optString(cmd, "script"),
				Blinder: optString(cmd, "blinder"),
			})
			return a.printOutput(cmd, result, err)
		},
	}

	cmd.Flags().String("pubkey", "", "a public key in hex")
	cmd.Flags().String("script", "", "a script in hex")
	cmd.Flags().String("blinder", "", "a blinding pubkey in hex")

	return cmd
}

func newAddressInspectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <address>",
		Short: "Inspect an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.InspectAddress(&simjson.AddressInspectCmd{
				Address: args[0],
			})
			return a.printOutput(cmd, result, err)
		},
	}
}
