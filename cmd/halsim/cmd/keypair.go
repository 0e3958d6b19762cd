// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"github.com/halsimplicity/halsimd/simjson"
	"github.com/spf13/cobra"
)

func newKeypairCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keypair",
		Short: "Manipulate private and public keys",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate a random private/public keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.handler.GenerateKeypair(&simjson.KeypairGenerateCmd{})
			return a.printOutput(cmd, result, err)
		},
	})

	return cmd
}
