// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build windows || plan9

// Package limits raises process resource limits so the RPC server can hold
// many client connections open at once.
package limits

// SetLimits is a no-op on Windows and Plan 9.
func SetLimits() error {
	return nil
}
