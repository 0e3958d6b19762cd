// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The halsimd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version houses the version information shared by halsimd,
// halsimctl and halsim.
package version

import (
	"fmt"
	"strings"
)

// These constants define the application version and follow the semantic
// versioning 2.0.0 spec (http://semver.org/).
const (
	Major uint = 0
	Minor uint = 3
	Patch uint = 0
)

const (
	preReleaseAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-"
	buildAlphabet      = preReleaseAlphabet + "."
)

var (
	// PreRelease may be overridden at link time with
	// '-ldflags "-X github.com/halsimplicity/halsimd/internal/version.PreRelease=rc1"'.
	PreRelease = "beta"

	// BuildMetadata may be overridden at link time in the same way as
	// PreRelease.
	BuildMetadata = ""
)

// String returns the application version as a semantic version string.
// Characters outside the allowed alphabets are dropped from the pre-release
// and build parts.
func String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", Major, Minor, Patch)
	if pre := filter(PreRelease, preReleaseAlphabet); pre != "" {
		b.WriteString("-" + pre)
	}
	if build := filter(BuildMetadata, buildAlphabet); build != "" {
		b.WriteString("+" + build)
	}
	return b.String()
}

// UserAgent returns the name and version of an application, as sent by the
// RPC client and logged by the server.
func UserAgent(app string) string {
	return app + "/" + String()
}

func filter(s, alphabet string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(alphabet, r) {
			return r
		}
		return -1
	}, s)
}
