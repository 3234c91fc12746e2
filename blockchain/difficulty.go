// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/corelyone/bitcoin-cored/chaincfg"
	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/util/chainhash"
	"github.com/corelyone/bitcoin-cored/wire"
)

const (
	// testnetMinDifficultyBits is the fixed difficulty returned for the
	// first early blocks on networks with the reduced minimum difficulty
	// rules enabled.
	testnetMinDifficultyBits = 0x201fffff

	// testnetMinDifficultyHeight is the last height for which
	// testnetMinDifficultyBits is returned unconditionally on networks
	// with the reduced minimum difficulty rules enabled.
	testnetMinDifficultyHeight = 150

	// edaTriggerTimespan is the span, in seconds, of median-time-past
	// over the trailing 6 blocks at or above which the emergency
	// difficulty adjustment engages.
	edaTriggerTimespan = 12 * 3600
)

// CheckProofOfWork returns whether the given block hash satisfies the proof
// of work requirement claimed in bits. The target difficulty must be larger
// than zero and must not exceed the proof of work limit of the given network,
// and the hash, treated as a little-endian 256-bit number, must be less than
// or equal to the target encoded by bits.
func CheckProofOfWork(hash *chainhash.Hash, bits uint32, chainParams *chaincfg.Params) bool {
	target, negative, overflow := util.CompactToTarget(bits)

	// Check range.
	if negative || overflow || target.IsZero() ||
		target.Cmp(chainParams.PowLimit) > 0 {

		return false
	}

	// Check proof of work matches claimed amount.
	return util.HashToUint256(hash).Cmp(target) <= 0
}

// getSuitableBlock locates the block the difficulty computation is based on
// for a given chain tip. To reduce the impact of timestamp manipulation, the
// median-by-timestamp of the passed node and its two immediate predecessors
// is selected, so that a single very skewed timestamp cannot have too much
// influence on the derived target.
//
// The passed node must be at height 2 or more so that both predecessors
// exist.
func getSuitableBlock(node *blockNode) *blockNode {
	if node.height < 2 {
		panic(AssertError(fmt.Sprintf("getSuitableBlock called for height "+
			"%d which has fewer than two predecessors", node.height)))
	}

	blocks := [3]*blockNode{}
	blocks[2] = node
	blocks[1] = node.parent
	blocks[0] = blocks[1].parent

	// Sorting network for exactly three elements. The same fixed
	// compare-and-swap sequence runs for every input including ties, so
	// every node derives an identical result.
	if blocks[0].timestamp > blocks[2].timestamp {
		blocks[0], blocks[2] = blocks[2], blocks[0]
	}
	if blocks[0].timestamp > blocks[1].timestamp {
		blocks[0], blocks[1] = blocks[1], blocks[0]
	}
	if blocks[1].timestamp > blocks[2].timestamp {
		blocks[1], blocks[2] = blocks[2], blocks[1]
	}

	// The candidate is in the middle now.
	return blocks[1]
}

// computeTarget computes a target based on the work done between two blocks
// and the time required to produce that work.
//
// The work performed in the window, scaled by the target spacing and divided
// by the actual timespan, estimates how much work the next block should be
// expected to take. The target is then T = (2^256 / W) - 1. Since 2^256 does
// not fit in 256 bits, 1 is expressed as W / W which yields
// (2^256 - W) / W, and 2^256 - W is the two's complement negation of W at a
// fixed 256-bit width. The computation must stay inside the 256-bit width
// for consensus compatibility; promoting it to a wider type would change
// results.
func (b *BlockChain) computeTarget(firstNode, lastNode *blockNode) *uint256.Int {
	if lastNode.height <= firstNode.height {
		panic(AssertError(fmt.Sprintf("computeTarget anchor heights are "+
			"out of order: first %d, last %d", firstNode.height,
			lastNode.height)))
	}
	if lastNode.timestamp <= firstNode.timestamp {
		panic(AssertError(fmt.Sprintf("computeTarget anchor timestamps "+
			"are out of order: first %d, last %d", firstNode.timestamp,
			lastNode.timestamp)))
	}

	work := new(uint256.Int).Sub(lastNode.workSum, firstNode.workSum)
	actualTimespan := lastNode.timestamp - firstNode.timestamp

	chainParams := b.chainParams
	if lastNode.height < chainParams.OneMinuteForkHeight {
		targetSpacing := int64(chainParams.TargetTimePerBlock / time.Second)
		work.Mul(work, uint256.NewInt(uint64(targetSpacing)))

		// In order to avoid difficulty cliffs, the amplitude of the
		// adjustment is bounded.
		if actualTimespan > 288*targetSpacing {
			actualTimespan = 288 * targetSpacing
		} else if actualTimespan < 72*targetSpacing {
			actualTimespan = 72 * targetSpacing
		}
	} else {
		// From the one-minute fork onward the window is not dampened.
		// Instead, a short 5-block sub-window ending at the last
		// anchor nudges the effective spacing when blocks arrive much
		// slower or much faster than expected.
		node5 := lastNode.Ancestor(lastNode.height - 5)
		if node5 == nil {
			panic(AssertError(fmt.Sprintf("computeTarget unable to "+
				"locate the block 5 before height %d", lastNode.height)))
		}
		actualTimespan5 := lastNode.timestamp - node5.timestamp
		targetSpacing := int64(chainParams.TargetTimePerBlockOneMinute / time.Second)
		adjustedSpacing := targetSpacing

		if actualTimespan5 >= 5*3*targetSpacing {
			// The last 5 blocks took 15 minutes or more; target 20%
			// faster blocks.
			adjustedSpacing /= 2
			log.Debugf("5-block window took %d seconds or more, halving "+
				"effective spacing to %d", 5*3*targetSpacing, adjustedSpacing)
		} else if actualTimespan5 <= 5/3*targetSpacing {
			// The integer division 5/3 truncates to 1. This matches
			// the deployed consensus rule and must be kept as is
			// even though the threshold is far smaller than the
			// comment in the reference client suggests.
			adjustedSpacing *= 2
			log.Debugf("5-block window took %d seconds or less, doubling "+
				"effective spacing to %d", 5/3*targetSpacing, adjustedSpacing)
		}

		work.Mul(work, uint256.NewInt(uint64(adjustedSpacing)))
	}

	work.Div(work, uint256.NewInt(uint64(actualTimespan)))

	// T = (2^256 - W) / W, with 2^256 - W computed as the 256-bit
	// wraparound negation of W.
	return new(uint256.Int).Div(new(uint256.Int).Neg(work), work)
}

// calcNextRetarget computes the required difficulty for the block after the
// passed previous block node based on the legacy periodic retargeting rules,
// given the timestamp of the first block of the adjustment interval.
func (b *BlockChain) calcNextRetarget(prevNode *blockNode, firstBlockTime int64) uint32 {
	chainParams := b.chainParams
	if chainParams.NoRetargeting {
		return prevNode.bits
	}

	// Limit the amount of adjustment that can occur to the previous
	// difficulty.
	actualTimespan := prevNode.timestamp - firstBlockTime
	targetTimespan := int64(chainParams.TargetTimespan / time.Second)
	adjustmentFactor := chainParams.RetargetAdjustmentFactor
	if actualTimespan < targetTimespan/adjustmentFactor {
		actualTimespan = targetTimespan / adjustmentFactor
	}
	if actualTimespan > targetTimespan*adjustmentFactor {
		actualTimespan = targetTimespan * adjustmentFactor
	}

	// Calculate new target difficulty as:
	//  currentDifficulty * (adjustedTimespan / targetTimespan)
	// The result uses integer division which means it will be slightly
	// rounded down. The multiplication is performed first to preserve
	// precision.
	newTarget, _, _ := util.CompactToTarget(prevNode.bits)
	newTarget.Mul(newTarget, uint256.NewInt(uint64(actualTimespan)))
	newTarget.Div(newTarget, uint256.NewInt(uint64(targetTimespan)))

	// Limit new value to the proof of work limit.
	if newTarget.Cmp(chainParams.PowLimit) > 0 {
		newTarget.Set(chainParams.PowLimit)
	}

	return util.TargetToCompact(newTarget)
}

// calcNextEDARequiredDifficulty computes the required difficulty for the
// block after the passed previous block node using the legacy periodic
// difficulty adjustment plus the emergency difficulty adjustment (EDA).
func (b *BlockChain) calcNextEDARequiredDifficulty(prevNode *blockNode,
	header *wire.BlockHeader) uint32 {

	chainParams := b.chainParams
	interval := chainParams.DifficultyAdjustmentInterval()

	// The difficulty only changes once per difficulty adjustment
	// interval.
	height := prevNode.height + 1
	if int64(height)%interval == 0 {
		// Go back by what should be two weeks worth of blocks.
		firstNode := prevNode.Ancestor(height - int32(interval))
		if firstNode == nil {
			panic(AssertError(fmt.Sprintf("unable to obtain previous "+
				"retarget block for height %d", height)))
		}

		return b.calcNextRetarget(prevNode, firstNode.timestamp)
	}

	powLimitBits := util.TargetToCompact(chainParams.PowLimit)

	if chainParams.ReduceMinDifficulty {
		// Special difficulty rule for testnet: if the new block's
		// timestamp is more than twice the target spacing after the
		// previous block, a minimum-difficulty block may be mined.
		targetSpacing := int64(chainParams.TargetTimePerBlock / time.Second)
		if header.Timestamp.Unix() > prevNode.timestamp+2*targetSpacing {
			return powLimitBits
		}

		// Return the difficulty of the last block that does not have
		// the special minimum-difficulty rule applied.
		node := prevNode
		for node.parent != nil &&
			int64(node.height)%interval != 0 &&
			node.bits == powLimitBits {

			node = node.parent
		}

		return node.bits
	}

	// The difficulty cannot go below the minimum, so early bail.
	bits := prevNode.bits
	if bits == powLimitBits {
		return powLimitBits
	}

	// If producing the last 6 blocks took less than 12h, keep the same
	// difficulty. Median-time-past is used on both ends of the span so a
	// single manipulated timestamp cannot trigger the adjustment.
	node6 := prevNode.Ancestor(height - 7)
	if node6 == nil {
		panic(AssertError(fmt.Sprintf("unable to obtain the block 6 "+
			"before height %d", height)))
	}
	mtp6Blocks := prevNode.CalcPastMedianTime().Unix() - node6.CalcPastMedianTime().Unix()
	if mtp6Blocks < edaTriggerTimespan {
		return bits
	}

	// If producing the last 6 blocks took 12h or more, increase the
	// target by 1/4 (which reduces the difficulty by 20%). This ensures
	// the chain does not get stuck in case hashrate is abruptly lost.
	target, _, _ := util.CompactToTarget(bits)
	target.Add(target, new(uint256.Int).Rsh(target, 2))

	// Make sure it does not go above the allowed minimum difficulty.
	if target.Cmp(chainParams.PowLimit) > 0 {
		target.Set(chainParams.PowLimit)
	}

	return util.TargetToCompact(target)
}

// calcNextDAARequiredDifficulty computes the required difficulty for the
// block after the passed previous block node using a 144-block or 72-block
// weighted average of the estimated hashrate per block.
//
// Using a weighted average ensures that the timestamp parameter cancels out
// in most of the calculation, except for the timestamp of the first and last
// block of the window. Because timestamps are the least trustworthy
// information available as input, this makes the algorithm more resistant to
// malicious inputs.
func (b *BlockChain) calcNextDAARequiredDifficulty(prevNode *blockNode,
	header *wire.BlockHeader) uint32 {

	chainParams := b.chainParams

	// Select the target spacing and window length for the adjustment
	// based on whether the one-minute fork is in effect.
	height := prevNode.height
	targetSpacing := int64(chainParams.TargetTimePerBlock / time.Second)
	daaWindow := int32(144)
	if height > chainParams.OneMinuteForkHeight {
		targetSpacing = int64(chainParams.TargetTimePerBlockOneMinute / time.Second)
		daaWindow = 72
	}

	// Get the last suitable block of the difficulty interval.
	lastNode := getSuitableBlock(prevNode)

	// Get the first suitable block of the difficulty interval.
	firstAnchor := prevNode.Ancestor(height - daaWindow)
	if firstAnchor == nil {
		panic(AssertError(fmt.Sprintf("unable to obtain the block %d "+
			"before height %d", daaWindow, height)))
	}
	firstNode := getSuitableBlock(firstAnchor)

	// Special difficulty rule for testnet: if the window took far longer
	// than expected, allow mining of a minimum-difficulty block. Note
	// that the deployed rule compares the window duration against the
	// last anchor's timestamp plus a duration rather than against a
	// plain duration threshold. That comparison is preserved exactly for
	// compatibility.
	actualWindowDuration := lastNode.timestamp - firstNode.timestamp
	if chainParams.ReduceMinDifficulty &&
		actualWindowDuration > lastNode.timestamp+240*targetSpacing {

		return util.TargetToCompact(chainParams.PowLimit)
	}

	// Compute the target based on time and work done during the
	// interval.
	nextTarget := b.computeTarget(firstNode, lastNode)

	if chainParams.ReduceMinDifficulty {
		count := lastNode.height - firstNode.height
		actualLastBlock := prevNode.timestamp - lastNode.timestamp
		log.Debugf("difficulty window first=%d last=%d prev=%d: %d "+
			"seconds for %d blocks, avg=%d, last=%d", firstNode.height,
			lastNode.height, prevNode.height, actualWindowDuration, count,
			actualWindowDuration/int64(count), actualLastBlock)
	}

	if nextTarget.Cmp(chainParams.PowLimit) > 0 {
		return util.TargetToCompact(chainParams.PowLimit)
	}

	return util.TargetToCompact(nextTarget)
}

// calcNextRequiredDifficulty calculates the required difficulty for the
// block after the passed previous block node based on the difficulty
// retarget rules active for that block.
func (b *BlockChain) calcNextRequiredDifficulty(prevNode *blockNode,
	header *wire.BlockHeader) uint32 {

	chainParams := b.chainParams

	// Genesis block.
	if prevNode == nil {
		return util.TargetToCompact(chainParams.PowLimit)
	}

	// Special rule for testnet: minimum difficulty for the first 150
	// blocks, unconditionally. This and the genesis check above must
	// short-circuit before any windowed computation since early blocks
	// lack the required ancestors.
	if chainParams.ReduceMinDifficulty && prevNode.height <= testnetMinDifficultyHeight {
		return testnetMinDifficultyBits
	}

	// Special rule for regtest: the difficulty never retargets.
	if chainParams.NoRetargeting {
		return prevNode.bits
	}

	if prevNode.CalcPastMedianTime().Unix() >= chainParams.DAAForkActivationTime {
		return b.calcNextDAARequiredDifficulty(prevNode, header)
	}

	return b.calcNextEDARequiredDifficulty(prevNode, header)
}

// CalcNextRequiredDifficulty calculates the required difficulty for the
// block after the current chain tip based on the difficulty retarget rules.
// Only the timestamp of the passed header is consulted.
//
// This function is safe for concurrent access.
func (b *BlockChain) CalcNextRequiredDifficulty(header *wire.BlockHeader) uint32 {
	b.chainLock.RLock()
	defer b.chainLock.RUnlock()

	return b.calcNextRequiredDifficulty(b.tip, header)
}
