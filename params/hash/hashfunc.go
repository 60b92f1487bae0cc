// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package hash

import (
	"golang.org/x/crypto/blake2s"
)

// HashSize is the size in bytes of the digest produced by HashFunc.
const HashSize = 32

// HashFunc computes the blake2s-256 digest of data.
func HashFunc(data []byte) []byte {
	h := blake2s.Sum256(data)
	return h[:]
}

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the hash of their concatenation.
func HashMerkleBranches(left []byte, right []byte) []byte {
	var h [HashSize * 2]byte
	copy(h[:HashSize], left)
	copy(h[HashSize:], right)

	return HashFunc(h[:])
}
