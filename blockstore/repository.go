// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"context"
	"sync"

	"github.com/emberchain/emberd/params"
	"github.com/emberchain/emberd/repo"
	"github.com/emberchain/emberd/types"
	"github.com/emberchain/emberd/types/blocks"
)

// Config specifies the block repository configuration.
type Config struct {
	// Params identifies which chain parameters the repository is
	// associated with. The genesis block and its transactions are
	// taken from here.
	//
	// This field is required.
	Params *params.NetworkParams

	// Datastore is the embedded key-value engine holding all tables.
	// The repository owns the handle and closes it on Close.
	//
	// This field is required.
	Datastore repo.Datastore

	// Codec serializes blocks and tip markers. Defaults to WireCodec.
	Codec Codec
}

// BlockRepository is the persistent block and transaction store of a
// full node. It sits beneath consensus and chain selection: those
// layers decide which blocks belong to the canonical chain, this one
// guarantees accepted blocks are never lost, are retrievable by hash,
// and that the recorded tip always matches what has been committed.
//
// Every operation is serialized through one exclusive mutex, reads and
// writes alike. This trades read parallelism for a consistency model
// that is trivial to reason about: no read ever observes a partially
// written batch and no writer races another writer.
type BlockRepository struct {
	params      *params.NetworkParams
	ds          repo.Datastore
	codec       Codec
	genesisHash types.ID

	// genesisTxs is built once at construction. Genesis transactions
	// and the genesis block itself are never stored on disk; they are
	// synthesized from here on every lookup.
	genesisTxs map[types.ID]*blocks.Transaction

	// mtx is the coarse gate serializing every public operation.
	mtx           sync.Mutex
	tip           *types.HashHeight
	tipLoaded     bool
	txIndex       bool
	txIndexLoaded bool
	closed        bool
}

// ChainedHeader is the minimal view of a chain index entry needed by
// the repository: the hash of the block it names. *blocks.BlockHeader
// satisfies it.
type ChainedHeader interface {
	ID() types.ID
}

// NewBlockRepository returns a block repository over the given
// datastore. It performs no store access; call Initialize before use.
func NewBlockRepository(cfg *Config) (*BlockRepository, error) {
	if cfg == nil {
		return nil, AssertError("NewBlockRepository: config cannot be nil")
	}
	if cfg.Params == nil {
		return nil, AssertError("NewBlockRepository: params cannot be nil")
	}
	if cfg.Datastore == nil {
		return nil, AssertError("NewBlockRepository: datastore cannot be nil")
	}
	codec := cfg.Codec
	if codec == nil {
		codec = WireCodec{}
	}

	genesis := cfg.Params.GenesisBlock
	genesisTxs := make(map[types.ID]*blocks.Transaction, len(genesis.Transactions))
	for _, tx := range genesis.Transactions {
		genesisTxs[tx.ID()] = tx
	}

	return &BlockRepository{
		params:      cfg.Params,
		ds:          cfg.Datastore,
		codec:       codec,
		genesisHash: genesis.ID(),
		genesisTxs:  genesisTxs,
	}, nil
}

// Initialize defaults the tip to (genesis hash, 0) and the indexing
// flag to false if either has never been persisted. It is idempotent
// and safe to call on every startup.
func (r *BlockRepository) Initialize() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("Initialize: repository is closed")
	}

	tip, err := r.dsLoadTip()
	if err != nil {
		return err
	}
	if tip == nil {
		if err := r.dsSaveTip(types.NewHashHeight(r.genesisHash, 0)); err != nil {
			return err
		}
	}

	_, found, err := r.dsLoadTxIndexFlag()
	if err != nil {
		return err
	}
	if !found {
		if err := r.dsSaveTxIndexFlag(false); err != nil {
			return err
		}
	}
	return nil
}

// PutBlocks inserts the blocks, indexes their transactions when
// indexing is enabled, and finally overwrites the tip, all under one
// gate acquisition. Blocks are deduplicated by hash and the genesis
// block is never written.
func (r *BlockRepository) PutBlocks(newTip *types.HashHeight, blks []*blocks.Block) error {
	if newTip == nil {
		return AssertError("PutBlocks: newTip cannot be nil")
	}
	if blks == nil {
		return AssertError("PutBlocks: blocks cannot be nil")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("PutBlocks: repository is closed")
	}

	stored := r.prepareBlocks(blks)
	if err := r.dsPutBlocks(stored); err != nil {
		return err
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return err
	}
	if enabled {
		if err := r.dsIndexTransactions(stored); err != nil {
			return err
		}
	}

	return r.dsSaveTip(newTip)
}

// Delete removes the named blocks and their index rows, then
// overwrites the tip. Hashes with no stored block are silently skipped.
func (r *BlockRepository) Delete(newTip *types.HashHeight, blockIDs []types.ID) error {
	if newTip == nil {
		return AssertError("Delete: newTip cannot be nil")
	}
	if blockIDs == nil {
		return AssertError("Delete: blockIDs cannot be nil")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("Delete: repository is closed")
	}

	if err := r.deleteBlocks(blockIDs); err != nil {
		return err
	}
	return r.dsSaveTip(newTip)
}

// DeleteBlocks removes the named blocks and their index rows without
// touching the tip.
func (r *BlockRepository) DeleteBlocks(blockIDs []types.ID) error {
	if blockIDs == nil {
		return AssertError("DeleteBlocks: blockIDs cannot be nil")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("DeleteBlocks: repository is closed")
	}

	return r.deleteBlocks(blockIDs)
}

// deleteBlocks resolves the hashes to stored blocks so their
// transactions can be deindexed, then removes index and block rows.
// Deletion only tombstones the logical rows; physical space recovery
// is left to the engine's own compaction.
func (r *BlockRepository) deleteBlocks(blockIDs []types.ID) error {
	resolved, err := r.dsFetchBlocks(blockIDs, false)
	if err != nil {
		return err
	}
	found := make([]*blocks.Block, 0, len(resolved))
	for _, blk := range resolved {
		if blk != nil {
			found = append(found, blk)
		}
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return err
	}
	if enabled {
		if err := r.dsDeindexTransactions(found); err != nil {
			return err
		}
	}

	foundIDs := make([]types.ID, 0, len(found))
	for _, blk := range found {
		foundIDs = append(foundIDs, blk.ID())
	}
	return r.dsRemoveBlocks(foundIDs)
}

// GetBlock returns the block with the given hash, or nil if it is not
// stored. The genesis block is always returned from memory.
func (r *BlockRepository) GetBlock(blockID types.ID) (*blocks.Block, error) {
	blks, err := r.GetBlocks([]types.ID{blockID})
	if err != nil {
		return nil, err
	}
	return blks[0], nil
}

// GetBlocks returns one entry per requested hash, aligned positionally
// with the input, with nil marking absent blocks. Duplicate hashes
// resolve to the same value without extra store accesses.
func (r *BlockRepository) GetBlocks(blockIDs []types.ID) ([]*blocks.Block, error) {
	if blockIDs == nil {
		return nil, AssertError("GetBlocks: blockIDs cannot be nil")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil, AssertError("GetBlocks: repository is closed")
	}

	return r.dsFetchBlocks(blockIDs, true)
}

// GetBlocksByHeaders returns the blocks named by an ordered list of
// chain headers, aligned positionally with the input.
func (r *BlockRepository) GetBlocksByHeaders(headers []ChainedHeader) ([]*blocks.Block, error) {
	if headers == nil {
		return nil, AssertError("GetBlocksByHeaders: headers cannot be nil")
	}
	blockIDs := make([]types.ID, 0, len(headers))
	for _, header := range headers {
		blockIDs = append(blockIDs, header.ID())
	}
	return r.GetBlocks(blockIDs)
}

// Exist reports whether a block row is stored for the given hash. The
// genesis block has no row and reports false.
func (r *BlockRepository) Exist(blockID types.ID) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return false, AssertError("Exist: repository is closed")
	}

	return r.dsBlockExists(blockID)
}

// GetBlockIDByTransactionID returns the hash of the block owning the
// transaction, or nil when indexing is disabled or the id is unknown.
// Genesis transactions short-circuit to the genesis hash.
func (r *BlockRepository) GetBlockIDByTransactionID(txid types.ID) (*types.ID, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil, AssertError("GetBlockIDByTransactionID: repository is closed")
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}
	if _, ok := r.genesisTxs[txid]; ok {
		genesisHash := r.genesisHash
		return &genesisHash, nil
	}
	return r.dsLookupBlockIDForTx(txid)
}

// GetTransactionByID returns the transaction with the given id, or nil
// when indexing is disabled or the id is unknown.
func (r *BlockRepository) GetTransactionByID(txid types.ID) (*blocks.Transaction, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil, AssertError("GetTransactionByID: repository is closed")
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}
	if tx, ok := r.genesisTxs[txid]; ok {
		return tx, nil
	}
	return r.dsLookupTransaction(txid)
}

// GetTransactionsByIDs returns the transactions for all the ids, or nil
// if indexing is disabled or any single id cannot be resolved: the
// batch form is all-or-nothing rather than partial. Cancellation is
// checked once per input element; the call is a pure read so aborting
// mutates nothing.
func (r *BlockRepository) GetTransactionsByIDs(ctx context.Context, txids []types.ID) ([]*blocks.Transaction, error) {
	if txids == nil {
		return nil, AssertError("GetTransactionsByIDs: txids cannot be nil")
	}
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil, AssertError("GetTransactionsByIDs: repository is closed")
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	txs := make([]*blocks.Transaction, 0, len(txids))
	for _, txid := range txids {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var tx *blocks.Transaction
		if gtx, ok := r.genesisTxs[txid]; ok {
			tx = gtx
		} else {
			tx, err = r.dsLookupTransaction(txid)
			if err != nil {
				return nil, err
			}
		}
		if tx == nil {
			return nil, nil
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// SetTxIndex persists the indexing flag. It never rebuilds or clears
// the index; callers must invoke ReIndex to make the table match the
// flag.
func (r *BlockRepository) SetTxIndex(enabled bool) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("SetTxIndex: repository is closed")
	}

	return r.dsSaveTxIndexFlag(enabled)
}

// ReIndex rebuilds the transaction index from every stored block when
// indexing is enabled, or clears the transaction table when it is
// disabled. It may hold the gate for a full-chain scan; this is an
// operator-triggered maintenance event, not a steady-state cost.
func (r *BlockRepository) ReIndex() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return AssertError("ReIndex: repository is closed")
	}

	enabled, err := r.txIndexEnabled()
	if err != nil {
		return err
	}
	if enabled {
		return r.dsRebuildTxIndex()
	}
	return r.dsClearTxIndex()
}

// TipHashAndHeight returns the repository's current tip, lazily loaded
// and cached after the first read. It is nil only before the first
// Initialize.
func (r *BlockRepository) TipHashAndHeight() (*types.HashHeight, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil, AssertError("TipHashAndHeight: repository is closed")
	}

	return r.dsLoadTip()
}

// GenesisHash returns the hash of the network's genesis block.
func (r *BlockRepository) GenesisHash() types.ID {
	return r.genesisHash
}

// Close flushes and releases the datastore handle. The repository owns
// the handle for its whole lifetime and releases it exactly once; no
// operation is valid afterwards.
func (r *BlockRepository) Close() error {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.ds.Close()
}
