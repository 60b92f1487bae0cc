// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package repo

// Table prefixes partition the flat keyspace of the datastore. Every
// stored key is the one-byte table id followed by the raw logical key,
// so no two tables can collide and iterating the datastore in key order
// yields each table as a contiguous run.
//
// These constants, together with the two metadata keys below, are part
// of the on-disk format. Changing any of them breaks existing data
// directories.
const (
	// BlockTablePrefix keys full serialized blocks by block hash.
	BlockTablePrefix byte = 1

	// CommonTablePrefix keys repository metadata: the chain tip and
	// the transaction index flag.
	CommonTablePrefix byte = 2

	// TransactionTablePrefix keys transaction hash to owning block hash.
	TransactionTablePrefix byte = 3
)

var (
	// TipKey is the logical key of the repository tip in the common table.
	TipKey = []byte{}

	// TxIndexFlagKey is the logical key of the transaction indexing flag
	// in the common table.
	TxIndexFlagKey = []byte{0}
)

// TableKey returns the flat datastore key for a logical key within a table.
func TableKey(table byte, key []byte) []byte {
	k := make([]byte, 0, len(key)+1)
	k = append(k, table)
	return append(k, key...)
}

// TablePrefix returns the one-byte iteration prefix covering an
// entire table.
func TablePrefix(table byte) []byte {
	return []byte{table}
}
