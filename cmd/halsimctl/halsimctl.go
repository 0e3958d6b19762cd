// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/halsimplicity/halsimd/simjson"
)

const (
	showHelpMessage = "Specify -h to show available options"
	listCmdMessage  = "Specify -l to list available commands"
)

// requestID is the id of the most recent request.
var requestID uint64

// commandUsage display the usage for a specific command.
func commandUsage(w io.Writer, method string) {
	usage, err := btcjson.MethodUsageText(method)
	if err != nil {
		// This should never happen since the method was already checked
		// before calling this function, but be safe.
		fmt.Fprintln(w, "Failed to obtain command usage:", err)
		return
	}

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", usage)
}

// usage displays the general usage when the help flag is not displayed and
// and an invalid command was specified.  The commandUsage function is used
// instead when a valid command was specified.
func usage(errorMessage string) {
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	fmt.Fprintln(os.Stderr, errorMessage)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintf(os.Stderr, "  %s [OPTIONS] <command> <args...>\n\n",
		appName)
	fmt.Fprintln(os.Stderr, showHelpMessage)
	fmt.Fprintln(os.Stderr, listCmdMessage)
}

// commandError is an error creating a command from user arguments.  The
// usage of the command is shown along with it.
type commandError struct {
	method string
	err    error
}

func (e *commandError) Error() string {
	var jerr btcjson.Error
	if errors.As(e.err, &jerr) {
		return fmt.Sprintf("%s command: %v (code: %s)", e.method, e.err,
			jerr.ErrorCode)
	}
	return fmt.Sprintf("%s command: %v", e.method, e.err)
}

func (e *commandError) Unwrap() error {
	return e.err
}

// readParams converts command line args to the parameters passed to the
// command creation function.
//
// Since some parameters, such as PSETs, can be too large for the Operating
// System to allow as a normal command line parameter, '-' reads the
// parameter from the next line of stdin.
func readParams(args []string, stdin *bufio.Reader) ([]interface{}, error) {
	params := make([]interface{}, 0, len(args))
	for _, arg := range args {
		if arg != "-" {
			params = append(params, arg)
			continue
		}

		param, err := stdin.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read data from stdin: %w", err)
		}
		if errors.Is(err, io.EOF) && len(param) == 0 {
			return nil, errors.New("not enough lines provided on stdin")
		}
		param = strings.TrimRight(param, "\r\n")
		params = append(params, param)
	}
	return params, nil
}

// namedRequest is a JSON-RPC request whose params are keyed by name.
type namedRequest struct {
	Jsonrpc btcjson.RPCVersion `json:"jsonrpc"`
	Method  string             `json:"method"`
	Params  json.RawMessage    `json:"params"`
	ID      uint64             `json:"id"`
}

// marshalRequest creates the command for method from args and marshals it
// into a JSON-RPC request.  Parameters are sent by name when named is set.
func marshalRequest(method string, args []string, stdin *bufio.Reader, named bool) ([]byte, error) {
	if !isServedMethod(method) {
		return nil, fmt.Errorf("unrecognized command '%s'", method)
	}

	params, err := readParams(args, stdin)
	if err != nil {
		return nil, err
	}

	// Attempt to create the appropriate command using the arguments
	// provided by the user.
	cmd, err := btcjson.NewCmd(method, params...)
	if err != nil {
		return nil, &commandError{method: method, err: err}
	}

	// help and stop only take positional parameters.
	id := atomic.AddUint64(&requestID, 1)
	if !named || method == "help" || method == "stop" {
		return btcjson.MarshalCmd(btcjson.RpcVersion1, id, cmd)
	}

	namedParams, err := simjson.MarshalNamedCmd(cmd)
	if err != nil {
		return nil, &commandError{method: method, err: err}
	}
	return json.Marshal(&namedRequest{
		Jsonrpc: btcjson.RpcVersion1,
		Method:  method,
		Params:  namedParams,
		ID:      id,
	})
}

// formatResult chooses how to display the result based on its type.  Objects
// and arrays are indented, strings are unquoted and null is not shown.
func formatResult(result []byte) (string, error) {
	strResult := string(result)
	switch {
	case strings.HasPrefix(strResult, "{") || strings.HasPrefix(strResult, "["):
		var dst bytes.Buffer
		if err := json.Indent(&dst, result, "", "  "); err != nil {
			return "", fmt.Errorf("failed to format result: %w", err)
		}
		return dst.String(), nil

	case strings.HasPrefix(strResult, `"`):
		var str string
		if err := json.Unmarshal(result, &str); err != nil {
			return "", fmt.Errorf("failed to unmarshal result: %w", err)
		}
		return str, nil

	case strResult == "null" || strResult == "":
		return "", nil
	}
	return strResult, nil
}

// runCommand sends method with args to the server and writes the formatted
// result to w.
func runCommand(cfg *config, method string, args []string, stdin *bufio.Reader, w io.Writer) error {
	marshalledJSON, err := marshalRequest(method, args, stdin, cfg.Named)
	if err != nil {
		return err
	}

	// Send the JSON-RPC request to the server using the user-specified
	// connection configuration.
	result, err := sendPostRequest(marshalledJSON, cfg)
	if err != nil {
		return err
	}

	str, err := formatResult(result)
	if err != nil {
		return err
	}
	if str != "" {
		fmt.Fprintln(w, str)
	}
	return nil
}

func main() {
	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}

	if cfg.Terminal {
		startTerminal(cfg)
		return
	}

	if len(args) < 1 {
		usage("No command specified")
		os.Exit(1)
	}

	method := args[0]
	err = runCommand(cfg, method, args[1:], bufio.NewReader(os.Stdin),
		os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var cerr *commandError
		switch {
		case errors.As(err, &cerr):
			commandUsage(os.Stderr, method)
		case !isServedMethod(method):
			fmt.Fprintln(os.Stderr, listCmdMessage)
		}
		os.Exit(1)
	}
}
