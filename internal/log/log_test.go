// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package log

import (
	"path/filepath"
	"testing"

	"github.com/btcsuite/btclog"
	"github.com/stretchr/testify/require"
)

func TestParseAndSetDebugLevels(t *testing.T) {
	defer SetLogLevels("info")

	tests := []struct {
		name    string
		level   string
		wantErr string
		check   map[string]btclog.Level
	}{
		{
			name:  "global",
			level: "debug",
			check: map[string]btclog.Level{
				"HSMD": btclog.LevelDebug,
				"SIMP": btclog.LevelDebug,
			},
		},
		{
			name:  "pairs",
			level: "RPCS=trace,HAL=warn",
			check: map[string]btclog.Level{
				"RPCS": btclog.LevelTrace,
				"HAL":  btclog.LevelWarn,
			},
		},
		{
			name:    "bad level",
			level:   "loud",
			wantErr: "[loud] is invalid",
		},
		{
			name:    "bad subsystem",
			level:   "BTCD=info",
			wantErr: "subsystem [BTCD] is invalid",
		},
		{
			name:    "missing pair",
			level:   "HAL=info,trace",
			wantErr: "invalid subsystem/level pair [trace]",
		},
	}
	for _, test := range tests {
		SetLogLevels("info")
		err := ParseAndSetDebugLevels(test.level)
		if test.wantErr != "" {
			require.ErrorContains(t, err, test.wantErr, test.name)
			continue
		}
		require.NoError(t, err, test.name)
		for subsys, level := range test.check {
			require.Equal(t, level, SubsystemLoggers[subsys].Level(),
				"%s: %s", test.name, subsys)
		}
	}
}

func TestSupportedSubsystems(t *testing.T) {
	require.Equal(t, []string{"HAL", "HSMD", "RPCS", "SIMP", "TXEV"},
		SupportedSubsystems())
}

func TestInitLogRotator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogRotator(filepath.Join(dir, "logs", "halsimd.log")))
	defer func() {
		LogRotator.Close()
		LogRotator = nil
	}()
	HsmdLog.Info("rotator started")
}

func TestLogClosure(t *testing.T) {
	calls := 0
	c := NewLogClosure(func() string {
		calls++
		return "dump"
	})
	require.Zero(t, calls)
	require.Equal(t, "dump", c.String())
	require.Equal(t, 1, calls)
}
