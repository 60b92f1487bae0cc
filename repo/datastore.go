// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// ErrNotFound is returned by Get when no row exists for the key.
var ErrNotFound = leveldb.ErrNotFound

// Datastore is the embedded ordered key-value engine consumed by the
// storage layer: point reads and writes, atomic batch writes, and
// ordered iteration over a key prefix. The engine's on-disk format is
// its own concern.
type Datastore interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Has reports whether a row exists for key without reading the value.
	Has(key []byte) (bool, error)

	// Put writes a single row.
	Put(key, value []byte) error

	// Delete removes a single row. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Write applies the batch atomically: readers observe either none
	// or all of its mutations.
	Write(batch *leveldb.Batch) error

	// NewIterator iterates all rows whose keys begin with prefix, in
	// ascending key order. The caller must release the iterator.
	NewIterator(prefix []byte) iterator.Iterator

	// Close flushes and releases the store. No methods may be called
	// afterwards.
	Close() error
}
