// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/halsimplicity/halsimd/internal/log"
	"github.com/halsimplicity/halsimd/simplicity/simtest"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	defer log.SetLogLevels(defaultLogLevel)

	missing := filepath.Join(t.TempDir(), "missing.conf")
	cfg, remaining, err := loadConfig([]string{"-C", missing})
	require.NoError(t, err)
	require.Empty(t, remaining)

	require.Equal(t, []string{defaultRPCListener}, cfg.RPCListeners)
	require.True(t, cfg.DisableTLS)
	require.Equal(t, "liquidtestnet", cfg.netParams.Name)
	require.Equal(t, defaultGenesis, cfg.genesisHash)
	require.Equal(t, defaultMaxRPCClients, cfg.RPCMaxClients)
	require.NotNil(t, cfg.engine)
	require.Equal(t, simtest.EngineName, cfg.engine.Name())
}

func TestLoadConfigFile(t *testing.T) {
	defer log.SetLogLevels(defaultLogLevel)

	dir := t.TempDir()
	configFile := filepath.Join(dir, "halsimd.conf")
	contents := "[Application Options]\n" +
		"network=elementsregtest\n" +
		"rpcuser=user\n" +
		"rpcpass=pass\n" +
		"rpclisten=127.0.0.1\n"
	require.NoError(t, os.WriteFile(configFile, []byte(contents), 0600))

	// Command line options take precedence over the file.
	cfg, _, err := loadConfig([]string{"-C", configFile, "--network=liquid",
		"--genesis=bitcoin", "--engine=simtest"})
	require.NoError(t, err)
	require.Equal(t, "liquid", cfg.netParams.Name)
	require.Equal(t, "user", cfg.RPCUser)
	require.Equal(t, "pass", cfg.RPCPass)
	require.Equal(t, []string{"127.0.0.1:28579"}, cfg.RPCListeners)
	require.Equal(t, "bitcoin", cfg.genesisHash)
}

func TestLoadConfigErrors(t *testing.T) {
	defer log.SetLogLevels(defaultLogLevel)

	missing := filepath.Join(t.TempDir(), "missing.conf")
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "notls on a public interface",
			args:    []string{"--rpclisten=0.0.0.0:28579"},
			wantErr: "--notls option may not be used",
		},
		{
			name:    "bad network",
			args:    []string{"--network=bitcoin"},
			wantErr: "invalid network",
		},
		{
			name:    "bad genesis",
			args:    []string{"--genesis=abcd"},
			wantErr: "invalid genesis",
		},
		{
			name:    "bad debug level",
			args:    []string{"--debuglevel=loud"},
			wantErr: "[loud] is invalid",
		},
		{
			name:    "user without password",
			args:    []string{"--rpcuser=user"},
			wantErr: "must be given together",
		},
		{
			name:    "privileged profile port",
			args:    []string{"--profile=80"},
			wantErr: "profile port",
		},
		{
			name:    "unknown engine",
			args:    []string{"--engine=nope"},
			wantErr: "supported engines",
		},
		{
			name:    "no concurrent requests",
			args:    []string{"--rpcmaxconcurrentreqs=0"},
			wantErr: "must be positive",
		},
	}
	for _, test := range tests {
		args := append([]string{"-C", missing}, test.args...)
		_, _, err := loadConfig(args)
		require.ErrorContains(t, err, test.wantErr, test.name)
	}

	// TLS may listen on any interface.
	dir := t.TempDir()
	cfg, _, err := loadConfig([]string{"-C", missing, "--tls",
		"--rpclisten=0.0.0.0:28579", "--rpccert=" + filepath.Join(dir, "c"),
		"--rpckey=" + filepath.Join(dir, "k")})
	require.NoError(t, err)
	require.False(t, cfg.DisableTLS)
}

func TestSetupRPCListenersTLS(t *testing.T) {
	defer func(saved *config) { cfg = saved }(cfg)

	dir := t.TempDir()
	cfg = &config{
		RPCListeners: []string{"127.0.0.1:0"},
		RPCCert:      filepath.Join(dir, "certs", "rpc.cert"),
		RPCKey:       filepath.Join(dir, "certs", "rpc.key"),
	}
	listeners, err := setupRPCListeners()
	require.NoError(t, err)
	require.Len(t, listeners, 1)
	for _, l := range listeners {
		l.Close()
	}
	require.FileExists(t, cfg.RPCCert)
	require.FileExists(t, cfg.RPCKey)
}

func TestNormalizeAddresses(t *testing.T) {
	got := normalizeAddresses([]string{"localhost", "localhost:28579",
		"[::1]:1", "::1"}, "28579")
	require.Equal(t, []string{"localhost:28579", "[::1]:1", "[::1]:28579"}, got)
}

var (
	rpcuserRegexp = regexp.MustCompile("(?m)^rpcuser=.+$")
	rpcpassRegexp = regexp.MustCompile("(?m)^rpcpass=.+$")
)

func TestCreateDefaultConfigFile(t *testing.T) {
	defer log.SetLogLevels(defaultLogLevel)

	testpath := filepath.Join(t.TempDir(), "conf", "test.conf")
	require.NoError(t, createDefaultConfigFile(testpath))

	content, err := os.ReadFile(testpath)
	require.NoError(t, err)
	require.Regexp(t, rpcuserRegexp, string(content))
	require.Regexp(t, rpcpassRegexp, string(content))

	// The generated file parses and enables authentication.
	cfg, _, err := loadConfig([]string{"-C", testpath})
	require.NoError(t, err)
	require.NotEmpty(t, cfg.RPCUser)
	require.NotEmpty(t, cfg.RPCPass)
	require.NotEqual(t, cfg.RPCUser, cfg.RPCPass)
	require.Equal(t, []string{defaultRPCListener}, cfg.RPCListeners)
}
