// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build !windows && !plan9

// Package limits raises process resource limits so the RPC server can hold
// many client connections open at once.
package limits

import (
	"fmt"

	"golang.org/x/sys/unix"
)

const (
	fileLimitWant = 4096
	fileLimitMin  = 512
)

// SetLimits raises the open file limit towards fileLimitWant.  It fails when
// the hard limit is below fileLimitMin.
func SetLimits() error {
	var rLimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		return err
	}
	if rLimit.Cur >= fileLimitWant {
		return nil
	}
	if rLimit.Max < fileLimitMin {
		return fmt.Errorf("need at least %v file descriptors, hard "+
			"limit is %v", fileLimitMin, rLimit.Max)
	}

	rLimit.Cur = min(rLimit.Max, fileLimitWant)
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit); err != nil {
		rLimit.Cur = fileLimitMin
		return unix.Setrlimit(unix.RLIMIT_NOFILE, &rLimit)
	}
	return nil
}
