// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package types

import (
	"testing"
)

const (
	testSerializedID = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
)

func TestNewIDFromString(t *testing.T) {
	id, err := NewIDFromString(testSerializedID)
	if err != nil {
		t.Error(err)
	}

	if id.String() != testSerializedID {
		t.Errorf("Expected %s, got %s", testSerializedID, id.String())
	}
}

func TestIDCompare(t *testing.T) {
	a, err := NewIDFromString(testSerializedID)
	if err != nil {
		t.Error(err)
	}
	b := a
	if a.Compare(b) != 0 {
		t.Error("Expected equal IDs to compare to 0")
	}
	b[31]++
	if a.Compare(b) != -1 {
		t.Error("Expected smaller ID to compare to -1")
	}
	if b.Compare(a) != 1 {
		t.Error("Expected larger ID to compare to 1")
	}
}
