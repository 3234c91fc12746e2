// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/corelyone/bitcoin-cored/util/chainhash"
	"github.com/corelyone/bitcoin-cored/wire"
)

// genesisMerkleRoot is the hash of the first transaction in the genesis block
// for the main network.
var genesisMerkleRoot = chainhash.Hash([chainhash.HashSize]byte{
	0x3b, 0xa3, 0xed, 0xfd, 0x7a, 0x7b, 0x12, 0xb2,
	0x7a, 0xc7, 0x2c, 0x3e, 0x67, 0x76, 0x8f, 0x61,
	0x7f, 0xc8, 0x1b, 0xc3, 0x88, 0x8a, 0x51, 0x32,
	0x3a, 0x9f, 0xb8, 0xaa, 0x4b, 0x1e, 0x5e, 0x4a,
})

// genesisBlockHeader defines the header of the genesis block for the main
// network.
var genesisBlockHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{}, // All zero.
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1517443200, 0), // February 1, 2018 UTC
	Bits:       0x1d00ffff,
	Nonce:      0x7c2bac1d,
}

// genesisHash is the hash of the first block in the block chain for the main
// network (genesis block).
var genesisHash = genesisBlockHeader.BlockHash()

// testnetGenesisBlockHeader defines the header of the genesis block for the
// test network. It differs from the genesis block for the main network in
// its timestamp and nonce.
var testnetGenesisBlockHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{}, // All zero.
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1517529600, 0), // February 2, 2018 UTC
	Bits:       0x1d00ffff,
	Nonce:      0x18aea41a,
}

// testnetGenesisHash is the hash of the first block in the block chain for
// the test network.
var testnetGenesisHash = testnetGenesisBlockHeader.BlockHash()

// regtestGenesisBlockHeader defines the header of the genesis block for the
// regression test network.
var regtestGenesisBlockHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{}, // All zero.
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1517443200, 0), // February 1, 2018 UTC
	Bits:       0x207fffff,
	Nonce:      2,
}

// regtestGenesisHash is the hash of the first block in the block chain for
// the regression test network.
var regtestGenesisHash = regtestGenesisBlockHeader.BlockHash()

// simnetGenesisBlockHeader defines the header of the genesis block for the
// simulation test network.
var simnetGenesisBlockHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{}, // All zero.
	MerkleRoot: genesisMerkleRoot,
	Timestamp:  time.Unix(1517529600, 0), // February 2, 2018 UTC
	Bits:       0x207fffff,
	Nonce:      3,
}

// simnetGenesisHash is the hash of the first block in the block chain for the
// simulation test network.
var simnetGenesisHash = simnetGenesisBlockHeader.BlockHash()
