// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blockstore

import (
	"encoding/binary"
	"fmt"

	"github.com/emberchain/emberd/params/hash"
	"github.com/emberchain/emberd/types"
	"github.com/emberchain/emberd/types/blocks"
)

// Codec is the (de)serialization capability injected into the repository.
// The repository commits whatever bytes the codec produces; bit-exact
// compatibility with the rest of the network is the codec's obligation.
type Codec interface {
	SerializeBlock(blk *blocks.Block) ([]byte, error)
	DeserializeBlock(ser []byte) (*blocks.Block, error)
	SerializeTip(tip *types.HashHeight) ([]byte, error)
	DeserializeTip(ser []byte) (*types.HashHeight, error)
}

var _ Codec = (*WireCodec)(nil)

// WireCodec is the production codec. Blocks use their own wire
// serialization; tips are the 32-byte hash followed by the big-endian
// height.
type WireCodec struct{}

func (WireCodec) SerializeBlock(blk *blocks.Block) ([]byte, error) {
	return blk.Serialize()
}

func (WireCodec) DeserializeBlock(ser []byte) (*blocks.Block, error) {
	blk := &blocks.Block{}
	if err := blk.Deserialize(ser); err != nil {
		return nil, err
	}
	return blk, nil
}

func (WireCodec) SerializeTip(tip *types.HashHeight) ([]byte, error) {
	ser := make([]byte, hash.HashSize+4)
	copy(ser[:hash.HashSize], tip.Hash[:])
	binary.BigEndian.PutUint32(ser[hash.HashSize:], tip.Height)
	return ser, nil
}

func (WireCodec) DeserializeTip(ser []byte) (*types.HashHeight, error) {
	if len(ser) != hash.HashSize+4 {
		return nil, fmt.Errorf("invalid tip length %d", len(ser))
	}
	return &types.HashHeight{
		Hash:   types.NewID(ser[:hash.HashSize]),
		Height: binary.BigEndian.Uint32(ser[hash.HashSize:]),
	}, nil
}
