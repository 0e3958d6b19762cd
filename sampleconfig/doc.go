// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package sampleconfig provides a single constant that contains the contents of
the sample configuration file for halsimd.  halsimd writes it, with generated
RPC credentials filled in, when started without a configuration file.
*/
package sampleconfig
