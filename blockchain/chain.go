// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"

	"github.com/corelyone/bitcoin-cored/chaincfg"
	"github.com/corelyone/bitcoin-cored/database"
	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/util/chainhash"
	"github.com/corelyone/bitcoin-cored/wire"
)

// BlockChain provides functions for working with a chain of block headers.
// It accepts headers one at a time, validates their claimed difficulty
// against the retarget rules and their proof of work, and maintains the
// cumulative work of the chain tip.
type BlockChain struct {
	chainParams *chaincfg.Params
	db          *database.DB

	// chainLock protects the chain state below.
	chainLock sync.RWMutex
	index     map[chainhash.Hash]*blockNode
	tip       *blockNode
}

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// DB defines the database which houses the block headers. It may be
	// nil in which case headers are kept in memory only.
	DB *database.DB

	// ChainParams identifies which chain parameters the chain is
	// associated with.
	//
	// This field is required.
	ChainParams *chaincfg.Params
}

// New returns a BlockChain instance using the provided configuration
// details. The chain is initialized with the genesis block of the configured
// network, followed by any headers persisted in the configured database.
func New(config *Config) (*BlockChain, error) {
	if config.ChainParams == nil {
		return nil, AssertError("blockchain.New chain parameters nil")
	}

	b := &BlockChain{
		chainParams: config.ChainParams,
		db:          config.DB,
		index:       make(map[chainhash.Hash]*blockNode),
	}

	genesisNode := newBlockNode(config.ChainParams.GenesisHeader, nil)
	if genesisNode.hash != *config.ChainParams.GenesisHash {
		return nil, AssertError(fmt.Sprintf("genesis header hashes to %s, "+
			"want %s", genesisNode.hash, config.ChainParams.GenesisHash))
	}
	b.index[genesisNode.hash] = genesisNode
	b.tip = genesisNode

	if b.db != nil {
		if err := b.loadBlockIndex(); err != nil {
			return nil, err
		}
	}

	log.Infof("Chain state (height %d, hash %s, work %s)", b.tip.height,
		b.tip.hash, b.tip.workSum)

	return b, nil
}

// ProcessHeader validates the passed header against the chain tip and, if it
// passes all checks, extends the chain with it. The header must connect to
// the current tip, claim exactly the difficulty the retarget rules require,
// satisfy its claimed proof of work, and carry a timestamp strictly after
// the median time of the last several blocks.
//
// This function is safe for concurrent access.
func (b *BlockChain) ProcessHeader(header *wire.BlockHeader) error {
	b.chainLock.Lock()
	defer b.chainLock.Unlock()

	blockHash := header.BlockHash()
	if _, exists := b.index[blockHash]; exists {
		str := fmt.Sprintf("already have block %s", blockHash)
		return ruleError(ErrDuplicateBlock, str)
	}

	prevNode, exists := b.index[header.PrevBlock]
	if !exists || prevNode != b.tip {
		str := fmt.Sprintf("previous block %s is not the current chain "+
			"tip", header.PrevBlock)
		return ruleError(ErrMissingParent, str)
	}

	// Ensure the difficulty specified in the header matches the
	// calculated difficulty based on the previous block and retarget
	// rules.
	expectedBits := b.calcNextRequiredDifficulty(prevNode, header)
	if header.Bits != expectedBits {
		str := fmt.Sprintf("block difficulty of %08x is not the expected "+
			"value of %08x", header.Bits, expectedBits)
		return ruleError(ErrUnexpectedDifficulty, str)
	}

	if !CheckProofOfWork(&blockHash, header.Bits, b.chainParams) {
		str := fmt.Sprintf("block hash of %s does not satisfy the "+
			"required difficulty of %08x", blockHash, header.Bits)
		return ruleError(ErrHighHash, str)
	}

	// Ensure the timestamp for the block header is after the median time
	// of the last several blocks (medianTimeBlocks).
	medianTime := prevNode.CalcPastMedianTime()
	if !header.Timestamp.After(medianTime) {
		str := fmt.Sprintf("block timestamp of %v is not after expected "+
			"%v", header.Timestamp, medianTime)
		return ruleError(ErrTimeTooOld, str)
	}

	node := newBlockNode(header, prevNode)
	b.index[node.hash] = node
	b.tip = node

	if b.db != nil {
		if err := b.storeBlockNode(node); err != nil {
			return err
		}
	}

	log.Debugf("Accepted block %s (height %d, bits %08x)", node.hash,
		node.height, node.bits)

	return nil
}

// BestSnapshot returns state information about the current chain tip.
//
// This function is safe for concurrent access.
func (b *BlockChain) BestSnapshot() *BestState {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return &BestState{
		Hash:       b.tip.hash,
		Height:     b.tip.height,
		Bits:       b.tip.bits,
		WorkSum:    b.tip.workSum.Clone(),
		MedianTime: b.tip.CalcPastMedianTime(),
	}
}

// BestState houses information about the current chain tip.
type BestState struct {
	Hash       chainhash.Hash
	Height     int32
	Bits       uint32
	WorkSum    *uint256.Int
	MedianTime time.Time
}

// TipHeader returns the header of the current chain tip.
//
// This function is safe for concurrent access.
func (b *BlockChain) TipHeader() wire.BlockHeader {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return b.tip.Header()
}

// DifficultyRatio returns the proof-of-work difficulty of the current chain
// tip as a multiple of the minimum difficulty of the network.
//
// This function is safe for concurrent access.
func (b *BlockChain) DifficultyRatio() float64 {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return util.DifficultyRatio(b.tip.bits, b.chainParams.PowLimitBits)
}
