// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"context"
	"testing"

	"github.com/emberchain/emberd/params"
	"github.com/emberchain/emberd/repo"
	"github.com/emberchain/emberd/types"
	"github.com/emberchain/emberd/types/blocks"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxIndexLookups(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	chain := testChain(3, 3)
	newTip := types.NewHashHeight(chain[2].ID(), 3)
	require.NoError(t, r.PutBlocks(newTip, chain))

	for _, blk := range chain {
		for _, tx := range blk.Transactions {
			blockID, err := r.GetBlockIDByTransactionID(tx.ID())
			require.NoError(t, err)
			require.NotNil(t, blockID)
			assert.Equal(t, blk.ID(), *blockID)

			got, err := r.GetTransactionByID(tx.ID())
			require.NoError(t, err)
			require.NotNil(t, got)
			if diff := deep.Equal(tx, got); diff != nil {
				t.Error(diff)
			}
		}
	}

	// Unknown ids are a miss, not an error.
	got, err := r.GetTransactionByID(randomID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTxIndexDisabled(t *testing.T) {
	r, ds := newTestRepo(t)

	chain := testChain(2, 2)
	newTip := types.NewHashHeight(chain[1].ID(), 2)
	require.NoError(t, r.PutBlocks(newTip, chain))

	// No transaction rows may be written while the flag is off.
	assert.Equal(t, 0, countTableRows(t, ds, repo.TransactionTablePrefix))

	tx := chain[0].Transactions[0]
	got, err := r.GetTransactionByID(tx.ID())
	require.NoError(t, err)
	assert.Nil(t, got)

	blockID, err := r.GetBlockIDByTransactionID(tx.ID())
	require.NoError(t, err)
	assert.Nil(t, blockID)

	txs, err := r.GetTransactionsByIDs(context.Background(), []types.ID{tx.ID()})
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestGetTransactionsByIDs(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	chain := testChain(2, 2)
	newTip := types.NewHashHeight(chain[1].ID(), 2)
	require.NoError(t, r.PutBlocks(newTip, chain))

	txids := []types.ID{
		chain[0].Transactions[0].ID(),
		chain[1].Transactions[1].ID(),
		chain[0].Transactions[1].ID(),
	}
	txs, err := r.GetTransactionsByIDs(context.Background(), txids)
	require.NoError(t, err)
	require.Len(t, txs, len(txids))
	for i, txid := range txids {
		assert.Equal(t, txid, txs[i].ID())
	}

	// The batch form is all-or-nothing: one unknown id voids the call.
	txs, err = r.GetTransactionsByIDs(context.Background(), append(txids, randomID()))
	require.NoError(t, err)
	assert.Nil(t, txs)
}

func TestGetTransactionsByIDsCancellation(t *testing.T) {
	r, _ := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	chain := testChain(1, 2)
	require.NoError(t, r.PutBlocks(types.NewHashHeight(chain[0].ID(), 1), chain))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.GetTransactionsByIDs(ctx, []types.ID{chain[0].Transactions[0].ID()})
	assert.Equal(t, context.Canceled, err)
}

func TestGenesisTransactions(t *testing.T) {
	r, _ := newTestRepo(t)

	genesisTx := params.RegtestGenesisBlock.Transactions[0]

	// Indexing disabled: even genesis transactions are unresolvable.
	got, err := r.GetTransactionByID(genesisTx.ID())
	require.NoError(t, err)
	assert.Nil(t, got)

	// Indexing enabled: genesis transactions resolve from memory with
	// no store access, and no index row exists for them.
	require.NoError(t, r.SetTxIndex(true))

	got, err = r.GetTransactionByID(genesisTx.ID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, genesisTx.ID(), got.ID())

	blockID, err := r.GetBlockIDByTransactionID(genesisTx.ID())
	require.NoError(t, err)
	require.NotNil(t, blockID)
	assert.Equal(t, r.GenesisHash(), *blockID)
}

func TestDeleteBlocksDeindexes(t *testing.T) {
	r, ds := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	// Insert a genesis successor with one transaction, then delete it.
	blk := testBlock(1, r.GenesisHash(), 1)
	tx1 := blk.Transactions[0]
	newTip := types.NewHashHeight(blk.ID(), 1)
	require.NoError(t, r.PutBlocks(newTip, []*blocks.Block{blk}))

	exists, err := r.Exist(blk.ID())
	require.NoError(t, err)
	assert.True(t, exists)

	blockID, err := r.GetBlockIDByTransactionID(tx1.ID())
	require.NoError(t, err)
	require.NotNil(t, blockID)
	assert.Equal(t, blk.ID(), *blockID)

	require.NoError(t, r.DeleteBlocks([]types.ID{blk.ID()}))

	exists, err = r.Exist(blk.ID())
	require.NoError(t, err)
	assert.False(t, exists)

	blockID, err = r.GetBlockIDByTransactionID(tx1.ID())
	require.NoError(t, err)
	assert.Nil(t, blockID)
	assert.Equal(t, 0, countTableRows(t, ds, repo.TransactionTablePrefix))

	tip, err := r.TipHashAndHeight()
	require.NoError(t, err)
	assert.Equal(t, newTip, tip)
}

func TestReIndexBuild(t *testing.T) {
	r, _ := newTestRepo(t)

	// History written with indexing off.
	chain := testChain(5, 2)
	newTip := types.NewHashHeight(chain[4].ID(), 5)
	require.NoError(t, r.PutBlocks(newTip, chain))

	require.NoError(t, r.SetTxIndex(true))

	// The flag alone does not backfill the index.
	tx := chain[0].Transactions[0]
	got, err := r.GetTransactionByID(tx.ID())
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.ReIndex())

	for _, blk := range chain {
		for _, tx := range blk.Transactions {
			blockID, err := r.GetBlockIDByTransactionID(tx.ID())
			require.NoError(t, err)
			require.NotNil(t, blockID)
			assert.Equal(t, blk.ID(), *blockID)
		}
	}
}

func TestReIndexClear(t *testing.T) {
	r, ds := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	chain := testChain(4, 2)
	newTip := types.NewHashHeight(chain[3].ID(), 4)
	require.NoError(t, r.PutBlocks(newTip, chain))
	require.NotZero(t, countTableRows(t, ds, repo.TransactionTablePrefix))

	require.NoError(t, r.SetTxIndex(false))
	require.NoError(t, r.ReIndex())

	assert.Equal(t, 0, countTableRows(t, ds, repo.TransactionTablePrefix))

	got, err := r.GetTransactionByID(chain[0].Transactions[0].ID())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTxIndexFlagPersists(t *testing.T) {
	r, ds := newTestRepo(t)
	require.NoError(t, r.SetTxIndex(true))

	r2, err := NewBlockRepository(&Config{
		Params:    &params.RegtestParams,
		Datastore: ds,
	})
	require.NoError(t, err)
	require.NoError(t, r2.Initialize())

	chain := testChain(1, 1)
	require.NoError(t, r2.PutBlocks(types.NewHashHeight(chain[0].ID(), 1), chain))

	blockID, err := r2.GetBlockIDByTransactionID(chain[0].Transactions[0].ID())
	require.NoError(t, err)
	require.NotNil(t, blockID)
}
