// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/halsimplicity/halsimd/chaincfg"
	"github.com/halsimplicity/halsimd/internal/log"
	"github.com/halsimplicity/halsimd/internal/version"
	"github.com/halsimplicity/halsimd/sampleconfig"
	"github.com/halsimplicity/halsimd/simplicity"
	"github.com/jessevdk/go-flags"
)

const (
	defaultConfigFilename       = "halsimd.conf"
	defaultLogLevel             = "info"
	defaultLogDirname           = "logs"
	defaultLogFilename          = "halsimd.log"
	defaultRPCListener          = "localhost:28579"
	defaultMaxRPCClients        = 10
	defaultMaxRPCWebsockets     = 25
	defaultMaxRPCConcurrentReqs = 20
	defaultNetwork              = "liquidtestnet"
	defaultGenesis              = "webide"
)

var (
	defaultHomeDir     = btcutil.AppDataDir("halsimd", false)
	defaultConfigFile  = filepath.Join(defaultHomeDir, defaultConfigFilename)
	defaultRPCKeyFile  = filepath.Join(defaultHomeDir, "rpc.key")
	defaultRPCCertFile = filepath.Join(defaultHomeDir, "rpc.cert")
	defaultLogDir      = filepath.Join(defaultHomeDir, defaultLogDirname)
)

// runServiceCommand is only set to a real function on Windows.  It is used
// to parse and execute service commands specified via the -s flag.
var runServiceCommand func(string) error

// config defines the configuration options for halsimd.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion          bool     `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile           string   `short:"C" long:"configfile" description:"Path to configuration file"`
	LogDir               string   `long:"logdir" description:"Directory to log output"`
	DebugLevel           string   `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	RPCListeners         []string `long:"rpclisten" description:"Add an interface/port to listen for RPC connections (default localhost:28579)"`
	RPCUser              string   `short:"u" long:"rpcuser" description:"Username for RPC connections"`
	RPCPass              string   `short:"P" long:"rpcpass" default-mask:"-" description:"Password for RPC connections"`
	RPCCert              string   `long:"rpccert" description:"File containing the certificate file"`
	RPCKey               string   `long:"rpckey" description:"File containing the certificate key"`
	DisableTLS           bool     `long:"notls" description:"Disable TLS for the RPC server -- only allowed when listening on localhost (default)"`
	EnableTLS            bool     `long:"tls" description:"Enable TLS for the RPC server, overriding notls"`
	RPCMaxClients        int      `long:"rpcmaxclients" description:"Max number of RPC clients for standard connections"`
	RPCMaxWebsockets     int      `long:"rpcmaxwebsockets" description:"Max number of RPC websocket connections"`
	RPCMaxConcurrentReqs int      `long:"rpcmaxconcurrentreqs" description:"Max number of RPC requests that may be processed concurrently"`
	MetricsListen        string   `long:"metricslisten" description:"Interface/port to serve Prometheus metrics on (disabled when empty)"`
	Network              string   `long:"network" description:"Default network for addresses {liquid, liquidtestnet, elementsregtest}"`
	Genesis              string   `long:"genesis" description:"Default genesis hash for sighash computation: webide, bitcoin or 64 hex characters"`
	Engine               string   `long:"engine" description:"Name of the registered Simplicity engine to use"`
	Profile              string   `long:"profile" description:"Enable HTTP profiling on given port -- NOTE port must be between 1024 and 65536"`
	ServiceCommand       string   `short:"s" long:"service" description:"Service command {install, remove, start, stop}"`

	netParams   *chaincfg.Params
	engine      simplicity.Engine
	genesisHash string
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// Expand initial ~ to OS specific home directory.
	if strings.HasPrefix(path, "~") {
		homeDir := filepath.Dir(defaultHomeDir)
		path = strings.Replace(path, "~", homeDir, 1)
	}

	// NOTE: The os.ExpandEnv doesn't work with Windows-style %VARIABLE%,
	// but they variables can still be expanded via POSIX-style $VARIABLE.
	return filepath.Clean(os.ExpandEnv(path))
}

// normalizeAddress returns addr with the passed default port appended if
// there is not already a port specified.
func normalizeAddress(addr, defaultPort string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultPort)
	}
	return addr
}

// normalizeAddresses returns a new slice with all the passed addresses
// normalized with the given default port and all duplicates removed.
func normalizeAddresses(addrs []string, defaultPort string) []string {
	result := make([]string, 0, len(addrs))
	seen := make(map[string]struct{}, len(addrs))
	for _, addr := range addrs {
		addr = normalizeAddress(addr, defaultPort)
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		result = append(result, addr)
	}
	return result
}

// randomCredential returns a base64 encoded string of n random bytes.
func randomCredential(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// createDefaultConfigFile writes the sample config to destinationPath with a
// randomly generated rpcuser and rpcpass filled in.
func createDefaultConfigFile(destinationPath string) error {
	rpcUser, err := randomCredential(12)
	if err != nil {
		return err
	}
	rpcPass, err := randomCredential(24)
	if err != nil {
		return err
	}

	rpcUserLine := regexp.MustCompile(`(?m)^;\s*rpcuser=[^\s]*$`)
	rpcPassLine := regexp.MustCompile(`(?m)^;\s*rpcpass=[^\s]*$`)
	contents := rpcUserLine.ReplaceAllLiteralString(sampleconfig.FileContents,
		"rpcuser="+rpcUser)
	contents = rpcPassLine.ReplaceAllLiteralString(contents, "rpcpass="+rpcPass)

	err = os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return err
	}
	return os.WriteFile(destinationPath, []byte(contents), 0600)
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// newConfigParser returns a new command line flags parser.
func newConfigParser(cfg *config, options flags.Options) *flags.Parser {
	parser := flags.NewParser(cfg, options)
	if runServiceCommand == nil {
		parser.FindOptionByLongName("service").Hidden = true
	}
	return parser
}

// loadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in halsimd functioning properly without any config
// settings while still allowing the user to override settings with config
// files and command line options.  Command line options always take
// precedence.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile:           defaultConfigFile,
		DebugLevel:           defaultLogLevel,
		LogDir:               defaultLogDir,
		RPCKey:               defaultRPCKeyFile,
		RPCCert:              defaultRPCCertFile,
		DisableTLS:           true,
		RPCMaxClients:        defaultMaxRPCClients,
		RPCMaxWebsockets:     defaultMaxRPCWebsockets,
		RPCMaxConcurrentReqs: defaultMaxRPCConcurrentReqs,
		Network:              defaultNetwork,
		Genesis:              defaultGenesis,
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.  Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfg
	preParser := newConfigParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show usage", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Perform service command and exit if specified.  Invalid service
	// commands show an appropriate error.  Only runs on Windows since
	// the runServiceCommand function will be nil when not on Windows.
	if preCfg.ServiceCommand != "" && runServiceCommand != nil {
		err := runServiceCommand(preCfg.ServiceCommand)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(0)
	}

	// Create a default config file with generated RPC credentials when
	// none exists at the default path.
	if preCfg.ConfigFile == defaultConfigFile && !fileExists(defaultConfigFile) {
		err := createDefaultConfigFile(defaultConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config "+
				"file: %v\n", err)
		}
	}

	// Load additional config from file.
	var configFileError error
	parser := newConfigParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n", err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if !errors.As(err, &e) || e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, usageMessage)
		}
		return nil, nil, err
	}

	funcName := "loadConfig"
	fail := func(err error) (*config, []string, error) {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usageMessage)
		return nil, nil, err
	}

	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)
	cfg.RPCKey = cleanAndExpandPath(cfg.RPCKey)
	cfg.RPCCert = cleanAndExpandPath(cfg.RPCCert)

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", log.SupportedSubsystems())
		os.Exit(0)
	}

	// Parse, validate, and set debug log level(s).
	if err := log.ParseAndSetDebugLevels(cfg.DebugLevel); err != nil {
		return fail(fmt.Errorf("%s: %w", funcName, err))
	}

	cfg.netParams, err = chaincfg.ParamsByName(cfg.Network)
	if err != nil {
		return fail(fmt.Errorf("%s: invalid network %q: %w", funcName,
			cfg.Network, err))
	}

	if _, err := chaincfg.ParseGenesisHash(cfg.Genesis); err != nil {
		return fail(fmt.Errorf("%s: invalid genesis %q: %w", funcName,
			cfg.Genesis, err))
	}
	cfg.genesisHash = cfg.Genesis

	// Without an engine option the server still starts when no single
	// engine is registered, and program commands report ErrNoEngine.
	cfg.engine, err = simplicity.EngineByName(cfg.Engine)
	if err != nil && (cfg.Engine != "" || !errors.Is(err, simplicity.ErrNoEngine)) {
		return fail(fmt.Errorf("%s: %w -- supported engines %v", funcName,
			err, simplicity.SupportedEngines()))
	}

	if cfg.RPCMaxClients < 1 || cfg.RPCMaxConcurrentReqs < 1 {
		return fail(fmt.Errorf("%s: the rpcmaxclients and "+
			"rpcmaxconcurrentreqs options must be positive", funcName))
	}
	if cfg.RPCMaxWebsockets < 0 {
		return fail(fmt.Errorf("%s: the rpcmaxwebsockets option may "+
			"not be negative", funcName))
	}

	// Validate profile port number.
	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return fail(fmt.Errorf("%s: the profile port must be "+
				"between 1024 and 65535", funcName))
		}
	}

	// Check to make sure username and password pairs are complete.
	if (cfg.RPCUser == "") != (cfg.RPCPass == "") {
		return fail(fmt.Errorf("%s: --rpcuser and --rpcpass must be "+
			"given together", funcName))
	}

	// Default RPC to listen on localhost only.
	if len(cfg.RPCListeners) == 0 {
		cfg.RPCListeners = []string{defaultRPCListener}
	}
	_, defaultPort, _ := net.SplitHostPort(defaultRPCListener)
	cfg.RPCListeners = normalizeAddresses(cfg.RPCListeners, defaultPort)

	if cfg.EnableTLS {
		cfg.DisableTLS = false
	}

	// Only allow TLS to be disabled if the RPC is bound to localhost
	// addresses.
	if cfg.DisableTLS {
		allowedTLSListeners := map[string]struct{}{
			"localhost": {},
			"127.0.0.1": {},
			"::1":       {},
		}
		for _, addr := range cfg.RPCListeners {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return fail(fmt.Errorf("%s: RPC listen interface '%s' "+
					"is invalid: %w", funcName, addr, err))
			}
			if _, ok := allowedTLSListeners[host]; !ok {
				return fail(fmt.Errorf("%s: the --notls option may not "+
					"be used when binding RPC to non localhost "+
					"addresses: %s", funcName, addr))
			}
		}
	}

	// Warn about missing config file only after all other configuration is
	// done.  This prevents the warning on help messages and invalid
	// options.  Note this should go directly before the return.
	if configFileError != nil {
		log.HsmdLog.Warnf("%v", configFileError)
	}

	return &cfg, remainingArgs, nil
}
