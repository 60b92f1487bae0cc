// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package params

import (
	"github.com/emberchain/emberd/types/blocks"
)

const (
	networkMainnet = "mainnet"
	networkRegtest = "regtest"
)

// NetworkParams identifies which network a node is associated with and
// carries the constants that differ between networks.
type NetworkParams struct {
	// Name is a human-readable string to identify the params.
	Name string

	// GenesisBlock defines the first block in the network. It is
	// hard-coded and never persisted by the storage layer.
	GenesisBlock *blocks.Block
}

var MainnetParams = NetworkParams{
	Name:         networkMainnet,
	GenesisBlock: MainnetGenesisBlock,
}

var RegtestParams = NetworkParams{
	Name:         networkRegtest,
	GenesisBlock: RegtestGenesisBlock,
}
