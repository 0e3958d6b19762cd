// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

//go:build simtest

package main

// Builds tagged simtest register the deterministic test engine, so a local
// daemon can serve program operations without a production engine.
import _ "github.com/halsimplicity/halsimd/simplicity/simtest"
