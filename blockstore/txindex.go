// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"sort"

	"github.com/emberchain/emberd/params/hash"
	"github.com/emberchain/emberd/repo"
	"github.com/emberchain/emberd/types"
	"github.com/emberchain/emberd/types/blocks"
	"github.com/syndtr/goleveldb/leveldb"
)

// reindexBatchSize is the number of blocks whose index rows are flushed
// per atomic batch during a rebuild. Progress is logged at the same
// cadence.
const reindexBatchSize = 1000

type txBlockPair struct {
	txid    types.ID
	blockID types.ID
}

func collectTxPairs(blks []*blocks.Block) []txBlockPair {
	var pairs []txBlockPair
	for _, blk := range blks {
		blockID := blk.ID()
		for _, tx := range blk.Transactions {
			pairs = append(pairs, txBlockPair{txid: tx.ID(), blockID: blockID})
		}
	}
	return pairs
}

// dsIndexTransactions writes txid to owning-block-hash rows for every
// transaction in blks as one atomic batch. Rows are written in
// ascending key order for the same seek-cost reason blocks are.
func (r *BlockRepository) dsIndexTransactions(blks []*blocks.Block) error {
	pairs := collectTxPairs(blks)
	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i].txid.Compare(pairs[j].txid) < 0
	})

	batch := new(leveldb.Batch)
	for _, pair := range pairs {
		batch.Put(txKey(pair.txid), pair.blockID.Bytes())
	}
	return r.ds.Write(batch)
}

// dsDeindexTransactions deletes the index rows for every transaction in
// blks. Absent rows are skipped by the engine.
func (r *BlockRepository) dsDeindexTransactions(blks []*blocks.Block) error {
	batch := new(leveldb.Batch)
	for _, pair := range collectTxPairs(blks) {
		batch.Delete(txKey(pair.txid))
	}
	return r.ds.Write(batch)
}

// dsLookupBlockIDForTx returns the hash of the block owning txid, or
// nil when the transaction is not indexed.
func (r *BlockRepository) dsLookupBlockIDForTx(txid types.ID) (*types.ID, error) {
	ser, err := r.ds.Get(txKey(txid))
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(ser) != hash.HashSize {
		return nil, corruptionError("tx index row "+txid.String(), nil)
	}
	blockID := types.NewID(ser)
	return &blockID, nil
}

// dsLookupTransaction resolves the owning block for txid and scans its
// transaction list. Transactions are not stored individually, so a
// lookup is always one index read plus one block fetch plus an
// in-memory scan. A stale index row pointing at a removed block yields
// a miss rather than an error.
func (r *BlockRepository) dsLookupTransaction(txid types.ID) (*blocks.Transaction, error) {
	blockID, err := r.dsLookupBlockIDForTx(txid)
	if err != nil {
		return nil, err
	}
	if blockID == nil {
		return nil, nil
	}

	ser, err := r.ds.Get(blockKey(*blockID))
	if err == repo.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blk, err := r.codec.DeserializeBlock(ser)
	if err != nil {
		return nil, corruptionError("block "+blockID.String(), err)
	}

	for _, tx := range blk.Transactions {
		if tx.ID() == txid {
			return tx, nil
		}
	}
	return nil, nil
}

// dsRebuildTxIndex scans every row of the block table in key order and
// re-emits index rows for all transactions, flushing one atomic batch
// per reindexBatchSize blocks. It can run for the entire chain; the
// caller holds the gate for the whole duration.
func (r *BlockRepository) dsRebuildTxIndex() error {
	iter := r.ds.NewIterator(repo.TablePrefix(repo.BlockTablePrefix))
	defer iter.Release()

	batch := new(leveldb.Batch)
	var blockCount, txCount int
	for iter.Next() {
		blk, err := r.codec.DeserializeBlock(iter.Value())
		if err != nil {
			blockID := types.NewID(iter.Key()[1:])
			return corruptionError("block "+blockID.String(), err)
		}
		blockID := blk.ID()
		for _, tx := range blk.Transactions {
			batch.Put(txKey(tx.ID()), blockID.Bytes())
			txCount++
		}
		blockCount++
		if blockCount%reindexBatchSize == 0 {
			if err := r.ds.Write(batch); err != nil {
				return err
			}
			batch.Reset()
			log.Infof("reindex: processed %d blocks, %d transactions", blockCount, txCount)
		}
	}
	if err := iter.Error(); err != nil {
		return err
	}
	if err := r.ds.Write(batch); err != nil {
		return err
	}
	log.Infof("reindex: finished, %d blocks, %d transactions", blockCount, txCount)
	return nil
}

// dsClearTxIndex removes every row of the transaction table via ordered
// iteration and per-key deletes. This is a destructive maintenance path
// executed under the exclusive gate, so it does not need to be a single
// atomic batch.
func (r *BlockRepository) dsClearTxIndex() error {
	iter := r.ds.NewIterator(repo.TablePrefix(repo.TransactionTablePrefix))
	defer iter.Release()

	var rowCount int
	for iter.Next() {
		if err := r.ds.Delete(iter.Key()); err != nil {
			return err
		}
		rowCount++
	}
	if err := iter.Error(); err != nil {
		return err
	}
	log.Infof("reindex: cleared %d transaction index rows", rowCount)
	return nil
}
