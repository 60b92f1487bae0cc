// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

func TestDatastoreBasicOps(t *testing.T) {
	ds := NewMemDatastore()
	defer ds.Close()

	key := TableKey(BlockTablePrefix, []byte("abc"))

	_, err := ds.Get(key)
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, ds.Put(key, []byte("value")))

	has, err := ds.Has(key)
	require.NoError(t, err)
	assert.True(t, has)

	val, err := ds.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	require.NoError(t, ds.Delete(key))
	has, err = ds.Has(key)
	require.NoError(t, err)
	assert.False(t, has)

	// Deleting an absent key is not an error.
	require.NoError(t, ds.Delete(key))
}

func TestDatastoreBatchWrite(t *testing.T) {
	ds := NewMemDatastore()
	defer ds.Close()

	batch := new(leveldb.Batch)
	batch.Put(TableKey(BlockTablePrefix, []byte("a")), []byte("1"))
	batch.Put(TableKey(BlockTablePrefix, []byte("b")), []byte("2"))
	batch.Delete(TableKey(BlockTablePrefix, []byte("c")))
	require.NoError(t, ds.Write(batch))

	val, err := ds.Get(TableKey(BlockTablePrefix, []byte("a")))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), val)

	val, err = ds.Get(TableKey(BlockTablePrefix, []byte("b")))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestDatastoreIteratorIsolatesTables(t *testing.T) {
	ds := NewMemDatastore()
	defer ds.Close()

	require.NoError(t, ds.Put(TableKey(BlockTablePrefix, []byte("b1")), []byte("x")))
	require.NoError(t, ds.Put(TableKey(CommonTablePrefix, TipKey), []byte("y")))
	require.NoError(t, ds.Put(TableKey(TransactionTablePrefix, []byte("t1")), []byte("z")))
	require.NoError(t, ds.Put(TableKey(TransactionTablePrefix, []byte("t0")), []byte("w")))

	iter := ds.NewIterator(TablePrefix(TransactionTablePrefix))
	defer iter.Release()

	var keys [][]byte
	for iter.Next() {
		k := make([]byte, len(iter.Key()))
		copy(k, iter.Key())
		keys = append(keys, k)
	}
	require.NoError(t, iter.Error())

	// Only transaction-table rows, in ascending key order.
	require.Len(t, keys, 2)
	assert.Equal(t, TableKey(TransactionTablePrefix, []byte("t0")), keys[0])
	assert.Equal(t, TableKey(TransactionTablePrefix, []byte("t1")), keys[1])
}

func TestTableKeyLayout(t *testing.T) {
	// These byte layouts are part of the on-disk format contract.
	assert.Equal(t, []byte{1, 'k'}, TableKey(BlockTablePrefix, []byte("k")))
	assert.Equal(t, []byte{2}, TableKey(CommonTablePrefix, TipKey))
	assert.Equal(t, []byte{2, 0}, TableKey(CommonTablePrefix, TxIndexFlagKey))
	assert.Equal(t, []byte{3, 'k'}, TableKey(TransactionTablePrefix, []byte("k")))
}

func TestDatastoreOnDisk(t *testing.T) {
	dir := t.TempDir()

	ds, err := NewDatastore(dir)
	require.NoError(t, err)

	key := TableKey(CommonTablePrefix, TipKey)
	require.NoError(t, ds.Put(key, []byte("tip")))
	require.NoError(t, ds.Close())

	// Reopen and verify the row survived.
	ds, err = NewDatastore(dir)
	require.NoError(t, err)
	defer ds.Close()

	val, err := ds.Get(key)
	require.NoError(t, err)
	assert.Equal(t, []byte("tip"), val)
}
