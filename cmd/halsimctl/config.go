// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/halsimplicity/halsimd/internal/version"
	"github.com/halsimplicity/halsimd/simjson"
	flags "github.com/jessevdk/go-flags"
	"golang.org/x/crypto/ssh/terminal"
)

const (
	defaultRPCPort = "28579"
	defaultTimeout = 30 * time.Second

	// passwordPrompt is the password value that asks for the password on
	// the terminal instead.
	passwordPrompt = "-"
)

var (
	halsimdHomeDir     = btcutil.AppDataDir("halsimd", false)
	halsimctlHomeDir   = btcutil.AppDataDir("halsimctl", false)
	defaultConfigFile  = filepath.Join(halsimctlHomeDir, "halsimctl.conf")
	defaultRPCServer   = "localhost"
	defaultRPCCertFile = filepath.Join(halsimdHomeDir, "rpc.cert")
)

// servedMethods returns the sorted methods halsimd serves.
func servedMethods() []string {
	methods := append(simjson.Methods(), "help", "stop")
	sort.Strings(methods)
	return methods
}

// isServedMethod returns whether halsimd serves method.
func isServedMethod(method string) bool {
	for _, m := range servedMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// listCommands lists all of the usable commands along with their one-line
// usage.
func listCommands() {
	fmt.Println("Commands:")
	for _, method := range servedMethods() {
		usage, err := btcjson.MethodUsageText(method)
		if err != nil {
			// This should never happen since the method was just
			// returned from the package, but be safe.
			continue
		}
		fmt.Println(usage)
	}
}

// config defines the configuration options for halsimctl.
//
// See loadConfig for details on the configuration load process.
type config struct {
	ShowVersion   bool          `short:"V" long:"version" description:"Display version information and exit"`
	ListCommands  bool          `short:"l" long:"listcommands" description:"List all of the supported commands and exit"`
	ConfigFile    string        `short:"C" long:"configfile" description:"Path to configuration file"`
	RPCUser       string        `short:"u" long:"rpcuser" description:"RPC username"`
	RPCPassword   string        `short:"P" long:"rpcpass" default-mask:"-" description:"RPC password (- to prompt)"`
	RPCServer     string        `short:"s" long:"rpcserver" description:"RPC server to connect to"`
	RPCCert       string        `short:"c" long:"rpccert" description:"RPC server certificate chain for validation"`
	PrintJSON     bool          `short:"j" long:"json" description:"Print json messages sent and received"`
	Named         bool          `short:"n" long:"named" description:"Send parameters as an object keyed by name"`
	Terminal      bool          `short:"t" long:"terminal" description:"Start an interactive terminal"`
	TLS           bool          `long:"tls" description:"Enable TLS"`
	Proxy         string        `long:"proxy" description:"Connect via SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser     string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass     string        `long:"proxypass" default-mask:"-" description:"Password for proxy server (- to prompt)"`
	TLSSkipVerify bool          `long:"skipverify" description:"Do not verify tls certificates (not recommended!)"`
	Timeout       time.Duration `long:"timeout" description:"Timeout for each request"`
}

// normalizeAddress returns addr with the default halsimd RPC port appended if
// there is not already a port specified.
func normalizeAddress(addr string) string {
	_, _, err := net.SplitHostPort(addr)
	if err != nil {
		return net.JoinHostPort(addr, defaultRPCPort)
	}
	return addr
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	// NOTE: The os.ExpandEnv doesn't work with Windows cmd.exe-style
	// %VARIABLE%, but the variables can still be expanded via POSIX-style
	// $VARIABLE.
	path = os.ExpandEnv(path)

	if !strings.HasPrefix(path, "~") {
		return filepath.Clean(path)
	}

	// Expand initial ~ to the current user's home directory, or ~otheruser
	// to otheruser's home directory.  On Windows, both forward and backward
	// slashes can be used.
	path = path[1:]

	var pathSeparators string
	if runtime.GOOS == "windows" {
		pathSeparators = string(os.PathSeparator) + "/"
	} else {
		pathSeparators = string(os.PathSeparator)
	}

	userName := ""
	if i := strings.IndexAny(path, pathSeparators); i != -1 {
		userName = path[:i]
		path = path[i:]
	}

	homeDir := ""
	var u *user.User
	var err error
	if userName == "" {
		u, err = user.Current()
	} else {
		u, err = user.Lookup(userName)
	}
	if err == nil {
		homeDir = u.HomeDir
	}
	// Fallback to CWD if user lookup fails or user has no home directory.
	if homeDir == "" {
		homeDir = "."
	}

	return filepath.Join(homeDir, path)
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

// promptSecret reads a secret from the terminal without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := terminal.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprint(os.Stderr, "\n")
	if err != nil {
		return "", fmt.Errorf("unable to read secret: %w", err)
	}
	return string(secret), nil
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in functioning properly without any config settings
// while still allowing the user to override settings with config files and
// command line options.  Command line options always take precedence.
func loadConfig(args []string) (*config, []string, error) {
	// Default config.
	cfg := config{
		ConfigFile: defaultConfigFile,
		RPCServer:  defaultRPCServer,
		RPCCert:    defaultRPCCertFile,
		Timeout:    defaultTimeout,
	}

	// Pre-parse the command line options to see if an alternative config
	// file, the version flag, or the list commands flag was specified.  Any
	// errors aside from the help message error can be ignored here since
	// they will be caught by the final parse below.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag)
	_, err := preParser.ParseArgs(args)
	if err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type != flags.ErrHelp {
			fmt.Fprintln(os.Stderr, err)
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "The special parameter `-` "+
				"indicates that a parameter should be read "+
				"from the\nnext unread line from standard input.")
			return nil, nil, err
		} else if errors.As(err, &e) && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			fmt.Fprintln(os.Stdout, "")
			fmt.Fprintln(os.Stdout, "The special parameter `-` "+
				"indicates that a parameter should be read "+
				"from the\nnext unread line from standard input.")
			os.Exit(0)
		}
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	usageMessage := fmt.Sprintf("Use %s -h to show options", appName)
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.String())
		os.Exit(0)
	}

	// Show the available commands and exit if the associated flag was
	// specified.
	if preCfg.ListCommands {
		listCommands()
		os.Exit(0)
	}

	if preCfg.ConfigFile == defaultConfigFile && !fileExists(preCfg.ConfigFile) {
		daemonConfig := filepath.Join(halsimdHomeDir, "halsimd.conf")
		err := createDefaultConfigFile(preCfg.ConfigFile, daemonConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating a default config file: %v\n", err)
		}
	}

	// Load additional config from file.
	parser := flags.NewParser(&cfg, flags.Default)
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			fmt.Fprintf(os.Stderr, "Error parsing config file: %v\n",
				err)
			fmt.Fprintln(os.Stderr, usageMessage)
			return nil, nil, err
		}
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

	if cfg.Timeout <= 0 {
		err := fmt.Errorf("loadConfig: the timeout must be positive, "+
			"got %v", cfg.Timeout)
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}

	if cfg.RPCPassword == passwordPrompt {
		cfg.RPCPassword, err = promptSecret("RPC password: ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}
	if cfg.ProxyPass == passwordPrompt {
		cfg.ProxyPass, err = promptSecret("Proxy password: ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return nil, nil, err
		}
	}

	// Handle environment variable expansion in the RPC certificate path.
	cfg.RPCCert = cleanAndExpandPath(cfg.RPCCert)

	// Add default port to RPC server if needed.
	cfg.RPCServer = normalizeAddress(cfg.RPCServer)

	return &cfg, remainingArgs, nil
}

// createDefaultConfigFile creates a basic config file at the given destination
// path.  For this it reads the halsimd config file at daemonConfigPath and
// copies the RPC user and password from it.
func createDefaultConfigFile(destinationPath, daemonConfigPath string) error {
	// Nothing to do when there is no halsimd conf file to extract the
	// details from.
	if !fileExists(daemonConfigPath) {
		return nil
	}
	content, err := os.ReadFile(daemonConfigPath)
	if err != nil {
		return err
	}

	// Extract the rpcuser
	rpcUserRegexp := regexp.MustCompile(`(?m)^\s*rpcuser=([^\s]+)`)
	userSubmatches := rpcUserRegexp.FindSubmatch(content)
	if userSubmatches == nil {
		// No user found, nothing to do
		return nil
	}

	// Extract the rpcpass
	rpcPassRegexp := regexp.MustCompile(`(?m)^\s*rpcpass=([^\s]+)`)
	passSubmatches := rpcPassRegexp.FindSubmatch(content)
	if passSubmatches == nil {
		// No password found, nothing to do
		return nil
	}

	// Create the destination directory if it does not exists
	err = os.MkdirAll(filepath.Dir(destinationPath), 0700)
	if err != nil {
		return err
	}

	contents := fmt.Sprintf("rpcuser=%s\nrpcpass=%s\n",
		userSubmatches[1], passSubmatches[1])
	return os.WriteFile(destinationPath, []byte(contents), 0600)
}
