// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"encoding/hex"
	"fmt"

	"github.com/emberchain/emberd/params/hash"
)

var ErrIDStrSize = fmt.Errorf("max ID string length is %v bytes", hash.HashSize*2)

// ID is the hash identity of a block or transaction.
type ID [hash.HashSize]byte

// Compare returns 1 if id > target, -1 if id < target and
// 0 if id == target.
func (id ID) Compare(target ID) int {
	for i := 0; i < len(id); i++ {
		a := id[i]
		b := target[i]
		if a > b {
			return 1
		}
		if a < b {
			return -1
		}
	}
	return 0
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ID) Bytes() []byte {
	return id[:]
}

func (id *ID) SetBytes(data []byte) {
	copy(id[:], data)
}

func NewID(digest []byte) ID {
	var sh ID
	sh.SetBytes(digest)
	return sh
}

func NewIDFromString(id string) (ID, error) {
	if len(id) > hash.HashSize*2 {
		return ID{}, ErrIDStrSize
	}
	ret, err := hex.DecodeString(id)
	if err != nil {
		return ID{}, err
	}
	var newID ID
	newID.SetBytes(ret)
	return newID, nil
}

func NewIDFromData(data []byte) ID {
	var id ID
	digest := hash.HashFunc(data)
	id.SetBytes(digest)
	return id
}
