// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

// Serializable is implemented by all types that can round-trip
// through their wire representation.
type Serializable interface {
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}
