// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blocks

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/emberchain/emberd/types"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomID() types.ID {
	r := make([]byte, 32)
	rand.Read(r)
	return types.NewID(r)
}

func TestBlockSerialization(t *testing.T) {
	blk := &Block{
		Header: &BlockHeader{
			Version:   1,
			Height:    42,
			Parent:    randomID(),
			Timestamp: time.Now().Unix(),
			TxRoot:    randomID(),
		},
		Transactions: []*Transaction{
			{Version: 1, Payload: []byte("alpha")},
			{Version: 1, Payload: []byte{}},
			{Version: 2, Payload: []byte("gamma")},
		},
	}

	ser, err := blk.Serialize()
	require.NoError(t, err)

	blk2 := &Block{}
	require.NoError(t, blk2.Deserialize(ser))

	if diff := deep.Equal(blk, blk2); diff != nil {
		t.Error(diff)
	}
	assert.Equal(t, blk.ID(), blk2.ID())
}

func TestBlockIDIsHeaderID(t *testing.T) {
	header := &BlockHeader{
		Version:   1,
		Height:    7,
		Parent:    randomID(),
		Timestamp: 1700000000,
		TxRoot:    randomID(),
	}
	blk := &Block{
		Header:       header,
		Transactions: []*Transaction{{Version: 1, Payload: []byte("tx")}},
	}
	assert.Equal(t, header.ID(), blk.ID())
}

func TestTransactionSerialization(t *testing.T) {
	tx := &Transaction{Version: 3, Payload: []byte("payload bytes")}

	ser, err := tx.Serialize()
	require.NoError(t, err)

	tx2 := &Transaction{}
	require.NoError(t, tx2.Deserialize(ser))

	assert.Equal(t, tx.Version, tx2.Version)
	assert.Equal(t, tx.Payload, tx2.Payload)
	assert.Equal(t, tx.ID(), tx2.ID())
}

func TestDeserializeGarbage(t *testing.T) {
	assert.Error(t, (&Block{}).Deserialize([]byte("not a block")))
	assert.Error(t, (&Transaction{}).Deserialize([]byte{0x01}))
	assert.Error(t, (&BlockHeader{}).Deserialize(make([]byte, 10)))
}

func TestTxids(t *testing.T) {
	blk := &Block{
		Header: &BlockHeader{Version: 1, Height: 1},
		Transactions: []*Transaction{
			{Version: 1, Payload: []byte("a")},
			{Version: 1, Payload: []byte("b")},
		},
	}
	txids := blk.Txids()
	require.Len(t, txids, 2)
	assert.Equal(t, blk.Transactions[0].ID(), txids[0])
	assert.Equal(t, blk.Transactions[1].ID(), txids[1])
}
