// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var _ Datastore = (*levelDatastore)(nil)

type levelDatastore struct {
	db *leveldb.DB
}

// NewDatastore opens (creating if missing) a leveldb-backed datastore
// in the given directory.
func NewDatastore(dir string) (Datastore, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		OpenFilesCacheCapacity: 256,
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("opened datastore at %s", dir)
	return &levelDatastore{db: db}, nil
}

// NewMemDatastore returns a datastore backed by in-memory storage.
// Used in tests and by tools that must not touch the data directory.
func NewMemDatastore() Datastore {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// Opening memory storage can only fail on programmer error.
		panic(err)
	}
	return &levelDatastore{db: db}
}

func (ds *levelDatastore) Get(key []byte) ([]byte, error) {
	return ds.db.Get(key, nil)
}

func (ds *levelDatastore) Has(key []byte) (bool, error) {
	return ds.db.Has(key, nil)
}

func (ds *levelDatastore) Put(key, value []byte) error {
	return ds.db.Put(key, value, nil)
}

func (ds *levelDatastore) Delete(key []byte) error {
	return ds.db.Delete(key, nil)
}

func (ds *levelDatastore) Write(batch *leveldb.Batch) error {
	return ds.db.Write(batch, nil)
}

func (ds *levelDatastore) NewIterator(prefix []byte) iterator.Iterator {
	return ds.db.NewIterator(util.BytesPrefix(prefix), nil)
}

func (ds *levelDatastore) Close() error {
	return ds.db.Close()
}
