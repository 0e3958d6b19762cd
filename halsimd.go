// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/hal"
	"github.com/halsimplicity/halsimd/internal/limits"
	"github.com/halsimplicity/halsimd/internal/log"
	"github.com/halsimplicity/halsimd/internal/version"
)

var (
	cfg     *config
	hsmdLog = log.HsmdLog
)

// winServiceMain is only invoked on Windows.  It detects when halsimd is
// running as a service and reacts accordingly.
var winServiceMain func() (bool, error)

// setupRPCListeners returns a slice of listeners that are configured for use
// with the RPC server depending on the configuration settings for listen
// addresses and TLS.
func setupRPCListeners() ([]net.Listener, error) {
	// Setup TLS if not disabled.
	listenFunc := net.Listen
	if !cfg.DisableTLS {
		// Generate the TLS cert and key file if both don't already
		// exist.
		if !fileExists(cfg.RPCKey) && !fileExists(cfg.RPCCert) {
			err := os.MkdirAll(filepath.Dir(cfg.RPCCert), 0700)
			if err != nil {
				return nil, err
			}
			if err := genCertPair(cfg.RPCCert, cfg.RPCKey); err != nil {
				return nil, err
			}
		}
		keypair, err := tls.LoadX509KeyPair(cfg.RPCCert, cfg.RPCKey)
		if err != nil {
			return nil, err
		}

		tlsConfig := tls.Config{
			Certificates: []tls.Certificate{keypair},
			MinVersion:   tls.VersionTLS12,
		}

		// Change the standard net.Listen function to the tls one.
		listenFunc = func(net string, laddr string) (net.Listener, error) {
			return tls.Listen(net, laddr, &tlsConfig)
		}
	}

	listeners := make([]net.Listener, 0, len(cfg.RPCListeners))
	for _, addr := range cfg.RPCListeners {
		listener, err := listenFunc("tcp", addr)
		if err != nil {
			hsmdLog.Warnf("Can't listen on %s: %v", addr, err)
			continue
		}
		listeners = append(listeners, listener)
	}
	if len(listeners) == 0 {
		return nil, errors.New("RPCS: No valid listen address")
	}
	return listeners, nil
}

// serveMetrics serves the Prometheus collectors of server on addr until ctx
// is done.
func serveMetrics(ctx context.Context, addr string, server *rpcServer) {
	metricsServer := &http.Server{
		Addr:              addr,
		Handler:           server.metrics.handler(),
		ReadHeaderTimeout: time.Second * rpcAuthTimeoutSeconds,
	}
	go func() {
		<-ctx.Done()
		metricsServer.Close()
	}()

	hsmdLog.Infof("Metrics server listening on %s", addr)
	err := metricsServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		hsmdLog.Errorf("Metrics server: %v", err)
	}
}

// halsimdMain is the real main function for halsimd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
// The optional serverChan parameter is mainly used by the service code to be
// notified with the server once it is setup so it can gracefully stop it when
// requested from the service control manager.
func halsimdMain(serverChan chan<- *rpcServer) error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	tcfg, _, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	cfg = tcfg

	err = log.InitLogRotator(filepath.Join(cfg.LogDir, defaultLogFilename))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	// Get a context that will be canceled when an interrupt signal has
	// been received or a shutdown has been requested.
	ctx, cancel := interruptListener(context.Background())
	defer cancel()

	// Show version at startup.
	hsmdLog.Infof("Version %s", version.String())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		go func() {
			listenAddr := net.JoinHostPort("", cfg.Profile)
			hsmdLog.Infof("Profile server listening on %s", listenAddr)
			profileRedirect := http.RedirectHandler("/debug/pprof",
				http.StatusSeeOther)
			http.Handle("/", profileRedirect)
			hsmdLog.Errorf("%v", http.ListenAndServe(listenAddr, nil))
		}()
	}

	// The genesis hash is only written here, before any request is
	// served.
	chaincfg.DefaultGenesisHash, _ = chaincfg.ParseGenesisHash(cfg.genesisHash)
	hsmdLog.Infof("Default network %s, default genesis hash %v",
		cfg.netParams.Name, chaincfg.DefaultGenesisHash)

	if cfg.engine == nil {
		hsmdLog.Warnf("No Simplicity engine selected -- program " +
			"operations are disabled")
	} else {
		hsmdLog.Infof("Using Simplicity engine %s", cfg.engine.Name())
	}
	handler := hal.New(&hal.Config{
		Engine: cfg.engine,
		Net:    cfg.netParams,
	})

	// Return now if an interrupt signal was triggered.
	if interruptRequested(ctx) {
		return nil
	}

	listeners, err := setupRPCListeners()
	if err != nil {
		hsmdLog.Errorf("Unable to setup RPC listeners: %v", err)
		return err
	}
	server, err := newRPCServer(&rpcserverConfig{
		Listeners:         listeners,
		Handler:           handler,
		RPCUser:           cfg.RPCUser,
		RPCPass:           cfg.RPCPass,
		MaxClients:        cfg.RPCMaxClients,
		MaxWebsockets:     cfg.RPCMaxWebsockets,
		MaxConcurrentReqs: cfg.RPCMaxConcurrentReqs,
	})
	if err != nil {
		hsmdLog.Errorf("Unable to create RPC server: %v", err)
		return err
	}
	if serverChan != nil {
		serverChan <- server
	}

	if cfg.MetricsListen != "" {
		go serveMetrics(ctx, cfg.MetricsListen, server)
	}

	go func() {
		select {
		case <-server.RequestedProcessShutdown():
			hsmdLog.Infof("Shutdown requested over RPC")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Serve until the context is canceled, then shut down gracefully.
	server.Run(ctx)
	hsmdLog.Info("Shutdown complete")
	return nil
}

func main() {
	// Up some limits.
	if err := limits.SetLimits(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to set limits: %v\n", err)
		os.Exit(1)
	}

	// Call serviceMain on Windows to handle running as a service.  When
	// the return isService flag is true, exit now since we ran as a
	// service.  Otherwise, just fall through to normal operation.
	if runtime.GOOS == "windows" && winServiceMain != nil {
		isService, err := winServiceMain()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if isService {
			os.Exit(0)
		}
	}

	// Work around defer not working after os.Exit()
	if err := halsimdMain(nil); err != nil {
		os.Exit(1)
	}
}
