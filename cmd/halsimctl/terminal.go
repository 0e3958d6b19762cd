// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

// execute runs one line entered in terminal mode and reports whether the
// terminal should exit.
func execute(protected *bool, cfg *config, line string, clear *bool, w io.Writer) bool {
	switch strings.TrimSpace(line) {
	case "h", "help":
		fmt.Fprintf(w, "[h]elp          print this message\n")
		fmt.Fprintf(w, "[l]ist          list all available commands\n")
		fmt.Fprintf(w, "[p]rotect       toggle protected mode (for secrets)\n")
		fmt.Fprintf(w, "[c]lear         clear command history\n")
		fmt.Fprintf(w, "[q]uit/ctrl+d   exit\n")
		fmt.Fprintf(w, "Enter commands with arguments to execute them.\n")
	case "l", "list":
		listCommands()
	case "q", "quit":
		return true
	case "p", "protect":
		*protected = !*protected
	case "c", "clear":
		*clear = true
	case "":
	default:
		args := strings.Fields(line)
		method := args[0]

		// Parameters are never read from stdin since it belongs to the
		// terminal.
		stdin := bufio.NewReader(strings.NewReader(""))
		err := runCommand(cfg, method, args[1:], stdin, w)
		if err != nil {
			fmt.Fprintln(w, err)
			var cerr *commandError
			switch {
			case errors.As(err, &cerr):
				commandUsage(w, method)
			case !isServedMethod(method):
				fmt.Fprintln(w, "Enter [l]ist to list commands")
			}
		}
	}
	return false
}

func startTerminal(c *config) {
	var clear, protected bool

	fmt.Println("Starting terminal mode.")
	fmt.Println("Enter h for [h]elp.")
	fmt.Println("Enter l for [l]ist of commands.")
	fmt.Println("Enter q for [q]uit.")

	fd := int(os.Stdin.Fd())
	termState, err := terminal.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set raw mode on STDIN: %v\n",
			err)
		return
	}
	n := terminal.NewTerminal(os.Stdin, "> ")
	for {
		var ln string
		var err error
		if !protected {
			ln, err = n.ReadLine()
		} else {
			ln, err = n.ReadPassword(">*")
		}
		terminal.Restore(fd, termState)
		if err != nil {
			break
		}

		quit := execute(&protected, c, ln, &clear, os.Stdout)
		if quit {
			break
		}

		termState, err = terminal.MakeRaw(fd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to set raw mode on "+
				"STDIN: %v\n", err)
			break
		}
		if clear {
			fmt.Println("Clearing history...")
			n = terminal.NewTerminal(os.Stdin, "> ")
			clear = false
		}
	}
	fmt.Println("exiting...")
}
