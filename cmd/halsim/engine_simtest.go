// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build simtest

package main

import (
	// Registers the test engine.
	_ "github.com/halsimplicity/halsimd/simplicity/simtest"
)
