// Copyright (c) 2015 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/halsimplicity/halsimd/simjson"
)

// TestHelp ensures the help is reasonably accurate by checking that every
// command specified also has result types defined and the one-line usage and
// help text can be generated for them.
func TestHelp(t *testing.T) {
	// Ensure there are result types specified for every handler.
	for k := range rpcHandlers {
		if _, ok := rpcResultTypes[k]; !ok {
			t.Errorf("RPC handler defined for method '%v' without "+
				"also specifying result types", k)
			continue
		}
	}

	// Ensure every halsimd command is served.
	for _, method := range simjson.Methods() {
		if _, ok := rpcHandlers[method]; !ok {
			t.Errorf("command '%v' is registered but has no handler",
				method)
		}
	}

	// Ensure the usage for every command can be generated without errors.
	helpCacher := newHelpCacher()
	if _, err := helpCacher.rpcUsage(); err != nil {
		t.Fatalf("Failed to generate one-line usage: %v", err)
	}
	if _, err := helpCacher.rpcUsage(); err != nil {
		t.Fatalf("Failed to generate one-line usage (cached): %v", err)
	}

	// Ensure the help for every command can be generated without errors.
	for k := range rpcHandlers {
		if _, err := helpCacher.rpcMethodHelp(k); err != nil {
			t.Errorf("Failed to generate help for method '%v': %v",
				k, err)
			continue
		}
		if _, err := helpCacher.rpcMethodHelp(k); err != nil {
			t.Errorf("Failed to generate help for method '%v'"+
				"(cached): %v", k, err)
			continue
		}
	}

	// Ensure the usage of a command documents its parameters.
	usage, err := btcjson.MethodUsageText("pset_update_input")
	if err != nil {
		t.Fatalf("Failed to generate usage: %v", err)
	}
	want := `pset_update_input "pset" inputindex "<scriptPubKey>:<asset>:<value>" ("internalkey" "cmr" "state")`
	if usage != want {
		t.Errorf("unexpected usage -- got %q, want %q", usage, want)
	}
}
