// Copyright (c) 2015-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"

	"github.com/corelyone/bitcoin-cored/logger"
	"github.com/corelyone/bitcoin-cored/wire"
)

// blockIndexKeyPrefix is the prefix under which block headers are stored.
// Keys are the prefix followed by the big-endian block height so that
// iterating the prefix yields headers in chain order.
var blockIndexKeyPrefix = []byte("block-index-")

func blockIndexKey(height int32) []byte {
	key := make([]byte, len(blockIndexKeyPrefix)+4)
	copy(key, blockIndexKeyPrefix)
	binary.BigEndian.PutUint32(key[len(blockIndexKeyPrefix):], uint32(height))
	return key
}

// storeBlockNode persists the header of the passed block node.
func (b *BlockChain) storeBlockNode(node *blockNode) error {
	header := node.Header()
	buf := bytes.NewBuffer(make([]byte, 0, wire.MaxBlockHeaderPayload))
	if err := header.Serialize(buf); err != nil {
		return err
	}
	return b.db.Put(blockIndexKey(node.height), buf.Bytes())
}

// loadBlockIndex reads all persisted headers in height order and extends the
// in-memory chain with them. The stored headers were validated when they
// were first accepted, so they are only checked for connectivity here.
func (b *BlockChain) loadBlockIndex() error {
	defer logger.LogAndMeasureExecutionTime(log, "loadBlockIndex")()

	cursor := b.db.Cursor(blockIndexKeyPrefix)
	defer cursor.Close()

	loaded := 0
	for cursor.Next() {
		key, err := cursor.Key()
		if err != nil {
			return err
		}
		value, err := cursor.Value()
		if err != nil {
			return err
		}

		var header wire.BlockHeader
		if err := header.Deserialize(bytes.NewReader(value)); err != nil {
			return errors.Wrapf(err, "malformed stored header at key %x", key)
		}

		// The first stored header is the genesis header, which is
		// already in the index.
		if header.BlockHash() == b.tip.hash {
			continue
		}

		if header.PrevBlock != b.tip.hash {
			return AssertError(fmt.Sprintf("stored header at key %x does "+
				"not connect to the chain tip %s", key, b.tip.hash))
		}

		node := newBlockNode(&header, b.tip)
		b.index[node.hash] = node
		b.tip = node
		loaded++
	}

	if loaded > 0 {
		log.Infof("Loaded %d headers from the database", loaded)
	}

	return nil
}
