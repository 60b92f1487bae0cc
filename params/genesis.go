// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package params

import (
	"encoding/hex"

	"github.com/emberchain/emberd/types"
	"github.com/emberchain/emberd/types/blocks"
)

// MainnetGenesisBlock is the genesis block for the mainnet.
//
// The genesis block is hard-coded into every node and is never written to
// the block table. The storage layer synthesizes it from memory on every
// lookup, so changing any byte here is a hard fork.
var MainnetGenesisBlock = &blocks.Block{
	Header: &blocks.BlockHeader{
		Version:   1,
		Height:    0,
		Parent:    types.ID{},
		Timestamp: 1706745600,
		TxRoot:    types.NewID(mustDecodeHex("8c3f9a0d1be24b5fa7c6d80e93112f64705c8ba2de619c37f05e48a9b12d73c0")),
	},
	Transactions: []*blocks.Transaction{
		{
			Version: 1,
			// "Embers rise from the ashes"
			Payload: mustDecodeHex("456d6265727320726973652066726f6d20746865206173686573"),
		},
		{
			Version: 1,
			Payload: mustDecodeHex("0000000000000001"),
		},
	},
}

// RegtestGenesisBlock is the genesis block used in regression testing mode.
var RegtestGenesisBlock = &blocks.Block{
	Header: &blocks.BlockHeader{
		Version:   1,
		Height:    0,
		Parent:    types.ID{},
		Timestamp: 0,
		TxRoot:    types.ID{},
	},
	Transactions: []*blocks.Transaction{
		{
			Version: 1,
			Payload: mustDecodeHex("7265677465737420636f696e62617365"),
		},
	},
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
