// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import "fmt"

const (
	versionMajor = 0
	versionMinor = 1
	versionPatch = 0
)

// VersionString returns the application version as a string.
func VersionString() string {
	return fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionPatch)
}
