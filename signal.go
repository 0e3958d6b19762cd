// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
)

// shutdownRequestChannel is used to initiate shutdown from one of the
// subsystems using the same code paths as when an interrupt signal is received.
var shutdownRequestChannel = make(chan struct{})

// interruptSignals defines the default signals to catch in order to do a proper
// shutdown.  This may be modified during init depending on the platform.
var interruptSignals = []os.Signal{os.Interrupt}

// interruptListener returns a copy of parent that is canceled when a SIGINT
// (Ctrl+C) is received or a shutdown is requested on
// shutdownRequestChannel.  Further signals after the first are logged so the
// user knows shutdown is already underway.
func interruptListener(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		interruptChannel := make(chan os.Signal, 1)
		signal.Notify(interruptChannel, interruptSignals...)
		defer signal.Stop(interruptChannel)

		select {
		case sig := <-interruptChannel:
			hsmdLog.Infof("Received signal (%s).  Shutting down...", sig)
		case <-shutdownRequestChannel:
			hsmdLog.Info("Shutdown requested.  Shutting down...")
		case <-ctx.Done():
			return
		}
		cancel()

		// Listen for repeated signals and display a message so the user
		// knows the shutdown is in progress and the process is not
		// hung.
		for {
			select {
			case sig := <-interruptChannel:
				hsmdLog.Infof("Received signal (%s).  Already "+
					"shutting down...", sig)
			case <-shutdownRequestChannel:
				hsmdLog.Info("Shutdown requested.  Already " +
					"shutting down...")
			case <-parent.Done():
				return
			}
		}
	}()

	return ctx, cancel
}

// interruptRequested returns true when the context returned by
// interruptListener was canceled.  This simplifies early shutdown slightly
// since the caller can just use an if statement instead of a select.
func interruptRequested(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
