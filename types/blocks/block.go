// Copyright (c) 2024 The ember developers
// Use of this source code is governed by an MIT
// license that can be found in the LICENSE file.

package blocks

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/emberchain/emberd/params/hash"
	"github.com/emberchain/emberd/types"
)

var _ types.Serializable = (*BlockHeader)(nil)
var _ types.Serializable = (*Block)(nil)
var _ types.Serializable = (*Transaction)(nil)

// headerSerializedSize is the fixed wire size of a serialized BlockHeader:
// version (4) + height (4) + parent (32) + timestamp (8) + tx root (32).
const headerSerializedSize = 4 + 4 + hash.HashSize + 8 + hash.HashSize

// maxPayloadSize caps transaction payloads so a corrupt length prefix
// cannot trigger a huge allocation during deserialization.
const maxPayloadSize = 1 << 24 // 16 MiB

// BlockHeader is the fixed-size summary chained to the parent block.
type BlockHeader struct {
	Version   uint32
	Height    uint32
	Parent    types.ID
	Timestamp int64
	TxRoot    types.ID
}

// ID returns the hash of the serialized header.
func (h *BlockHeader) ID() types.ID {
	ser, _ := h.Serialize()
	return types.NewIDFromData(ser)
}

func (h *BlockHeader) Serialize() ([]byte, error) {
	ser := make([]byte, headerSerializedSize)
	binary.BigEndian.PutUint32(ser[0:4], h.Version)
	binary.BigEndian.PutUint32(ser[4:8], h.Height)
	copy(ser[8:40], h.Parent[:])
	binary.BigEndian.PutUint64(ser[40:48], uint64(h.Timestamp))
	copy(ser[48:80], h.TxRoot[:])
	return ser, nil
}

func (h *BlockHeader) Deserialize(data []byte) error {
	if len(data) != headerSerializedSize {
		return fmt.Errorf("invalid header length %d", len(data))
	}
	h.Version = binary.BigEndian.Uint32(data[0:4])
	h.Height = binary.BigEndian.Uint32(data[4:8])
	h.Parent = types.NewID(data[8:40])
	h.Timestamp = int64(binary.BigEndian.Uint64(data[40:48]))
	h.TxRoot = types.NewID(data[48:80])
	return nil
}

// Transaction carries an opaque payload. The storage layer never
// interprets payloads; identity is the hash of the serialized bytes.
type Transaction struct {
	Version uint32
	Payload []byte
}

// ID returns the hash of the serialized transaction.
func (tx *Transaction) ID() types.ID {
	ser, _ := tx.Serialize()
	return types.NewIDFromData(ser)
}

func (tx *Transaction) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte

	binary.BigEndian.PutUint32(scratch[:4], tx.Version)
	buf.Write(scratch[:4])

	n := binary.PutUvarint(scratch[:], uint64(len(tx.Payload)))
	buf.Write(scratch[:n])
	buf.Write(tx.Payload)
	return buf.Bytes(), nil
}

func (tx *Transaction) Deserialize(data []byte) error {
	if len(data) < 4 {
		return errors.New("transaction too short")
	}
	version := binary.BigEndian.Uint32(data[:4])
	r := bytes.NewReader(data[4:])
	payload, err := readBytes(r)
	if err != nil {
		return err
	}
	if r.Len() != 0 {
		return errors.New("trailing bytes after transaction")
	}
	tx.Version = version
	tx.Payload = payload
	return nil
}

// Block is the fundamental chained unit: a header plus an ordered
// transaction list.
type Block struct {
	Header       *BlockHeader
	Transactions []*Transaction
}

// ID returns the block's hash, which is the hash of its header.
func (b *Block) ID() types.ID {
	return b.Header.ID()
}

// Txids returns the IDs of the block's transactions in block order.
func (b *Block) Txids() []types.ID {
	txids := make([]types.ID, 0, len(b.Transactions))
	for _, tx := range b.Transactions {
		txids = append(txids, tx.ID())
	}
	return txids
}

func (b *Block) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	var scratch [binary.MaxVarintLen64]byte

	serHeader, err := b.Header.Serialize()
	if err != nil {
		return nil, err
	}
	buf.Write(serHeader)

	n := binary.PutUvarint(scratch[:], uint64(len(b.Transactions)))
	buf.Write(scratch[:n])

	for _, tx := range b.Transactions {
		serTx, err := tx.Serialize()
		if err != nil {
			return nil, err
		}
		n = binary.PutUvarint(scratch[:], uint64(len(serTx)))
		buf.Write(scratch[:n])
		buf.Write(serTx)
	}
	return buf.Bytes(), nil
}

func (b *Block) Deserialize(data []byte) error {
	if len(data) < headerSerializedSize {
		return errors.New("block too short")
	}
	header := &BlockHeader{}
	if err := header.Deserialize(data[:headerSerializedSize]); err != nil {
		return err
	}

	r := bytes.NewReader(data[headerSerializedSize:])
	count, err := binary.ReadUvarint(r)
	if err != nil {
		return err
	}
	if count > uint64(r.Len()) {
		return errors.New("transaction count exceeds remaining bytes")
	}
	txs := make([]*Transaction, 0, count)
	for i := uint64(0); i < count; i++ {
		serTx, err := readBytes(r)
		if err != nil {
			return err
		}
		tx := &Transaction{}
		if err := tx.Deserialize(serTx); err != nil {
			return err
		}
		txs = append(txs, tx)
	}
	if r.Len() != 0 {
		return errors.New("trailing bytes after block")
	}

	b.Header = header
	b.Transactions = txs
	return nil
}

// readBytes reads a uvarint length prefix followed by that many bytes.
func readBytes(r *bytes.Reader) ([]byte, error) {
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, err
	}
	if l > maxPayloadSize {
		return nil, fmt.Errorf("length prefix %d exceeds maximum", l)
	}
	if l > uint64(r.Len()) {
		return nil, errors.New("length prefix exceeds remaining bytes")
	}
	b := make([]byte, l)
	if _, err := r.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
