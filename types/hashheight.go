// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import "fmt"

// HashHeight is the (block hash, height) pair naming the top of the
// locally stored chain.
type HashHeight struct {
	Hash   ID
	Height uint32
}

// NewHashHeight returns a HashHeight for the given hash and height.
func NewHashHeight(hash ID, height uint32) *HashHeight {
	return &HashHeight{
		Hash:   hash,
		Height: height,
	}
}

func (hh *HashHeight) String() string {
	return fmt.Sprintf("%s:%d", hh.Hash, hh.Height)
}
