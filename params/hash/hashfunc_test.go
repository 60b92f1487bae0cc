// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashFunc(t *testing.T) {
	h1 := HashFunc([]byte("ember"))
	h2 := HashFunc([]byte("ember"))

	assert.Len(t, h1, HashSize)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, HashFunc([]byte("embers")))
}

func TestHashMerkleBranches(t *testing.T) {
	left := HashFunc([]byte("left"))
	right := HashFunc([]byte("right"))

	h := HashMerkleBranches(left, right)
	assert.Len(t, h, HashSize)
	assert.NotEqual(t, h, HashMerkleBranches(right, left))
}
