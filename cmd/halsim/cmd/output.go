// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errorOutput is printed in place of a result when an operation fails.
type errorOutput struct {
	Error string `json:"error"`
}

// blockStyle clears the flow style JSON input leaves on every node.
func blockStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		blockStyle(child)
	}
}

// marshalOutput encodes v as indented JSON, or as YAML with the same keys
// and key order when asYAML is set.
func marshalOutput(v interface{}, asYAML bool) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil || !asYAML {
		return out, err
	}

	// JSON is valid YAML, so decoding it into a node keeps the field order
	// of the result types.
	var node yaml.Node
	if err := yaml.Unmarshal(out, &node); err != nil {
		return nil, err
	}
	blockStyle(&node)
	return yaml.Marshal(&node)
}

// printOutput writes the result of an operation, or its error, to the
// command's output.  Errors are reported as an object with an error field and
// errReported is returned so the process exits non-zero.
func (a *app) printOutput(cmd *cobra.Command, result interface{}, err error) error {
	if err != nil {
		a.log.Debugf("%s failed: %v", cmd.CommandPath(), err)
		result = &errorOutput{Error: err.Error()}
	}
	out, merr := marshalOutput(result, a.yaml)
	if merr != nil {
		return merr
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	if err != nil {
		return errReported
	}
	return nil
}
