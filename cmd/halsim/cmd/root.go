// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package cmd implements the halsim command line tool, which runs the halsimd
// operations locally without a server.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/btcsuite/btclog"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/hal"
	"github.com/halsimplicity/halsimd/internal/version"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/halsimplicity/halsimd/txenv"
	"github.com/spf13/cobra"
)

// errReported is returned once a command error has been written as output.
var errReported = errors.New("error reported")

// app holds the state shared by every halsim command.
type app struct {
	engineName string
	genesis    string
	network    string
	debugLevel string
	yaml       bool

	log     btclog.Logger
	handler *hal.Handler
}

// setup configures logging and creates the handler from the persistent flags.
func (a *app) setup(cmd *cobra.Command) error {
	level, ok := btclog.LevelFromString(a.debugLevel)
	if !ok {
		return fmt.Errorf("invalid debug level %q", a.debugLevel)
	}
	backend := btclog.NewBackend(cmd.ErrOrStderr())
	a.log = backend.Logger("HALS")
	a.log.SetLevel(level)
	for tag, use := range map[string]func(btclog.Logger){
		"HAL":  hal.UseLogger,
		"TXEV": txenv.UseLogger,
		"SIMP": simplicity.UseLogger,
	} {
		logger := backend.Logger(tag)
		logger.SetLevel(level)
		use(logger)
	}

	if a.genesis != "" {
		genesis, err := chaincfg.ParseGenesisHash(a.genesis)
		if err != nil {
			return err
		}
		chaincfg.DefaultGenesisHash = genesis
	}

	engine, err := simplicity.EngineByName(a.engineName)
	if err != nil && (a.engineName != "" || !errors.Is(err, simplicity.ErrNoEngine)) {
		return err
	}
	if engine != nil {
		a.log.Debugf("Using Simplicity engine %s", engine.Name())
	}
	a.handler = hal.New(&hal.Config{Engine: engine})
	return nil
}

// networkParam returns the --network flag as an optional command parameter.
func (a *app) networkParam() *string {
	if a.network == "" {
		return nil
	}
	return &a.network
}

// optString returns the value of the named flag, or nil when it was not set.
func optString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		return nil
	}
	return &v
}

// parseInputIndex parses a decimal input index argument.
func parseInputIndex(s string) (uint32, error) {
	index, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, txenv.MakeError(txenv.ErrInvalidParameter,
			fmt.Sprintf("invalid input index %q", s), err)
	}
	return uint32(index), nil
}

// NewRootCommand returns the halsim command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "halsim",
		Short:         "Simplicity PSET and program tool",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			os.Stdout.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.engineName, "engine", "",
		"Simplicity engine to use (default: the only registered engine)")
	cmd.PersistentFlags().StringVar(&a.genesis, "genesis", "",
		"Default genesis hash, a preset (webide, bitcoin) or hex")
	cmd.PersistentFlags().StringVarP(&a.network, "network", "n", "",
		"Network: liquid, liquidtestnet or elementsregtest (default elementsregtest)")
	cmd.PersistentFlags().StringVarP(&a.debugLevel, "debuglevel", "d", "warn",
		"Logging level {trace, debug, info, warn, error, critical}")
	cmd.PersistentFlags().BoolVarP(&a.yaml, "yaml", "y", false,
		"Print output in YAML instead of JSON")

	cmd.AddCommand(newSimplicityCommands(a))
	cmd.AddCommand(newAddressCommands(a))
	cmd.AddCommand(newKeypairCommands(a))
	cmd.AddCommand(newTxCommands(a))

	return cmd
}

// Execute runs halsim with the given arguments.
func Execute(args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	err := root.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}
