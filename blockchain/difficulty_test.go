// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/corelyone/bitcoin-cored/chaincfg"
	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/util/chainhash"
	"github.com/corelyone/bitcoin-cored/wire"
)

// newHashFromStr converts the passed big-endian hex string into a hash and
// fails the test on malformed input.
func newHashFromStr(t *testing.T, hexStr string) *chainhash.Hash {
	t.Helper()
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		t.Fatalf("invalid hash %q: %v", hexStr, err)
	}
	return hash
}

// testNetParams returns chain parameters with a very permissive proof of work
// limit (2^255 - 1, compact 0x207fffff) so that difficulty transitions can be
// exercised with hand-computed work values. The DAA is active from the start
// and the one-minute fork is far in the future unless a test overrides them.
func testNetParams() chaincfg.Params {
	powLimit := new(uint256.Int).Sub(
		new(uint256.Int).Lsh(uint256.NewInt(1), 255), uint256.NewInt(1))
	return chaincfg.Params{
		Name:                        "difficultytest",
		PowLimit:                    powLimit,
		PowLimitBits:                0x207fffff,
		DAAForkActivationTime:       0,
		OneMinuteForkHeight:         1 << 30,
		TargetTimespan:              time.Hour * 24 * 14,
		TargetTimePerBlock:          time.Minute * 10,
		TargetTimePerBlockOneMinute: time.Minute,
		RetargetAdjustmentFactor:    4,
	}
}

// newTestNode builds a block node on top of the given parent with the
// provided timestamp and difficulty bits. It does not serialize a real
// header, so the node hash is left at its zero value aside from a height
// marker to keep hashes distinct.
func newTestNode(parent *blockNode, timestamp int64, bits uint32) *blockNode {
	header := &wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(timestamp, 0),
		Bits:      bits,
	}
	if parent != nil {
		header.PrevBlock = parent.hash
	}
	return newBlockNode(header, parent)
}

// chainedNodes builds a chain of numNodes block nodes on top of parent where
// each node's timestamp is spacing seconds after its parent's and every node
// claims the given difficulty bits. It returns the tip.
func chainedNodes(parent *blockNode, numNodes int, spacing int64, bits uint32) *blockNode {
	tip := parent
	for i := 0; i < numNodes; i++ {
		tip = newTestNode(tip, tip.timestamp+spacing, bits)
	}
	return tip
}

func TestCheckProofOfWork(t *testing.T) {
	params := testNetParams()

	zeroHash := newHashFromStr(t, "00")
	highHash := newHashFromStr(t, "ff00000000000000000000000000000000000000000000000000000000000000")

	tests := []struct {
		name string
		hash *chainhash.Hash
		bits uint32
		want bool
	}{
		{"zero hash meets limit", zeroHash, 0x207fffff, true},
		{"hash above target", highHash, 0x207fffff, false},
		{"negative target", zeroHash, 0x01810000, false},
		{"overflowing target", zeroHash, 0xff00ffff, false},
		{"zero target", zeroHash, 0x00000000, false},
		{"target above pow limit", zeroHash, 0x2100ffff, false},
	}
	for _, test := range tests {
		got := CheckProofOfWork(test.hash, test.bits, &params)
		if got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

func TestGetSuitableBlock(t *testing.T) {
	// Each test is a triple of timestamps for blocks at heights 0, 1, and 2
	// along with the height of the node holding the median timestamp under
	// the fixed sorting network. Ties must resolve deterministically.
	tests := []struct {
		timestamps [3]int64
		wantHeight int32
	}{
		{[3]int64{1, 2, 3}, 1},
		{[3]int64{1, 3, 2}, 2},
		{[3]int64{2, 1, 3}, 0},
		{[3]int64{2, 3, 1}, 0},
		{[3]int64{3, 1, 2}, 2},
		{[3]int64{3, 2, 1}, 1},
		{[3]int64{2, 2, 2}, 1},
		{[3]int64{1, 2, 2}, 1},
		{[3]int64{2, 2, 1}, 1},
		{[3]int64{2, 1, 2}, 0},
	}
	for i, test := range tests {
		node := newTestNode(nil, test.timestamps[0], 0x207fffff)
		node = newTestNode(node, test.timestamps[1], 0x207fffff)
		node = newTestNode(node, test.timestamps[2], 0x207fffff)

		got := getSuitableBlock(node)
		if got.height != test.wantHeight {
			t.Errorf("#%d: timestamps %v: got height %d, want %d", i,
				test.timestamps, got.height, test.wantHeight)
		}
	}
}

// TestCalcDAADifficulty exercises the weighted difficulty adjustment in the
// original 144-block regime with 10 minute spacing. Every block in the window
// claims bits 0x2003ffff which carries a work value of exactly 64, so a window
// of 144 blocks represents 9216 units of work.
func TestCalcDAADifficulty(t *testing.T) {
	params := testNetParams()
	b := &BlockChain{chainParams: &params}

	tests := []struct {
		name    string
		spacing int64
		want    uint32
	}{
		// 144 intervals at the target spacing keeps the difficulty.
		{"steady hashrate", 600, 0x2003ffff},
		// Twice as fast, right at the lower dampening bound: the work
		// estimate doubles to 128 and the target becomes 2^249 - 1.
		{"hashrate doubled", 300, 0x2001ffff},
		// Far too fast: dampened to the same result as twice as fast.
		{"dampening floor", 100, 0x2001ffff},
		// Four times too slow: dampened to twice the window, halving
		// the work estimate to 32 and yielding a target of 2^251 - 1.
		{"dampening ceiling", 2400, 0x2007ffff},
	}
	for _, test := range tests {
		genesis := newTestNode(nil, 1000000, 0x2003ffff)
		tip := chainedNodes(genesis, 150, test.spacing, 0x2003ffff)

		header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+test.spacing, 0)}
		got := b.calcNextRequiredDifficulty(tip, header)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

// TestCalcDAADifficultyOneMinute exercises the 72-block regime that activates
// after the one-minute fork, including the short window spacing adjustments.
func TestCalcDAADifficultyOneMinute(t *testing.T) {
	params := testNetParams()
	params.OneMinuteForkHeight = 0
	b := &BlockChain{chainParams: &params}

	tests := []struct {
		name    string
		spacing int64
		want    uint32
	}{
		// 72 intervals at one minute each keeps the difficulty.
		{"steady hashrate", 60, 0x2003ffff},
		// The last 5 blocks took 20 minutes, beyond the 15 minute
		// threshold, so the effective spacing halves on top of the
		// slow window and the target grows to 2^253 - 1.
		{"slow window eases further", 240, 0x201fffff},
		// Four times too fast, but the last 5 blocks span 75 seconds
		// which is above the doubling threshold, so only the window
		// itself raises the work estimate to 256.
		{"fast window", 15, 0x2000ffff},
		// The last 5 blocks span exactly 60 seconds, at the (integer
		// truncated) doubling threshold, so the effective spacing
		// doubles and the work estimate reaches 640.
		{"fast window doubles spacing", 12, 0x1f666666},
	}
	for _, test := range tests {
		genesis := newTestNode(nil, 1000000, 0x2003ffff)
		tip := chainedNodes(genesis, 100, test.spacing, 0x2003ffff)

		header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+test.spacing, 0)}
		got := b.calcNextRequiredDifficulty(tip, header)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

// TestCalcDAATestnetMinDifficulty covers the reduced minimum difficulty rule
// inside the weighted adjustment. The deployed rule compares the window
// duration against the last suitable block's timestamp plus 240 target
// spacings, so whether it fires depends on the absolute timestamps rather
// than just the window duration.
func TestCalcDAATestnetMinDifficulty(t *testing.T) {
	params := testNetParams()
	params.ReduceMinDifficulty = true
	params.DAAForkActivationTime = -(1 << 62)
	b := &BlockChain{chainParams: &params}

	tests := []struct {
		name      string
		genesisTS int64
		want      uint32
	}{
		// With the chain far enough in the "past" the comparison
		// fires and the minimum difficulty is allowed.
		{"rule fires for negative timestamps", -150000, 0x207fffff},
		// The identical chain shape anchored at zero does not fire
		// and the normal weighted computation runs instead.
		{"rule dormant for ordinary timestamps", 0, 0x2003ffff},
	}
	for _, test := range tests {
		genesis := newTestNode(nil, test.genesisTS, 0x2003ffff)
		tip := chainedNodes(genesis, 151, 600, 0x2003ffff)

		header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+600, 0)}
		got := b.calcNextRequiredDifficulty(tip, header)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

// TestCalcEDADifficulty exercises the emergency difficulty adjustment between
// retarget boundaries. With uniform spacing s the median-time-past span of
// the trailing six blocks is exactly 6*s, so a spacing of 7200 sits right at
// the 12 hour trigger.
func TestCalcEDADifficulty(t *testing.T) {
	params := testNetParams()
	params.DAAForkActivationTime = 1 << 62
	b := &BlockChain{chainParams: &params}

	tests := []struct {
		name    string
		spacing int64
		bits    uint32
		want    uint32
	}{
		// Just under 12 hours: difficulty is unchanged.
		{"below trigger", 7199, 0x2003ffff, 0x2003ffff},
		// Exactly 12 hours: the trigger is inclusive and the target
		// grows by a quarter of itself.
		{"at trigger", 7200, 0x2003ffff, 0x2004fffe},
		// Already at the minimum difficulty: nothing to ease.
		{"at pow limit", 7200, 0x207fffff, 0x207fffff},
	}
	for _, test := range tests {
		genesis := newTestNode(nil, 1000000, test.bits)
		tip := chainedNodes(genesis, 30, test.spacing, test.bits)

		header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+test.spacing, 0)}
		got := b.calcNextRequiredDifficulty(tip, header)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

// TestCalcEDARetarget exercises the periodic retarget at a difficulty
// adjustment interval boundary, including both clamps on the measured
// timespan.
func TestCalcEDARetarget(t *testing.T) {
	params := testNetParams()
	params.DAAForkActivationTime = 1 << 62
	b := &BlockChain{chainParams: &params}

	const genesisTS = 1000000
	targetTimespan := int64(params.TargetTimespan / time.Second)

	tests := []struct {
		name    string
		elapsed int64
		want    uint32
	}{
		// Exactly two weeks: difficulty is unchanged.
		{"exact timespan", targetTimespan, 0x2003ffff},
		// No time at all: clamped to a quarter of the target
		// timespan, so the target shrinks by a factor of four.
		{"clamped fast", 0, 0x2000ffff},
		// Years of elapsed time: clamped to four times the target
		// timespan, so the target grows by a factor of four.
		{"clamped slow", 100 * targetTimespan, 0x200ffffc},
	}
	for _, test := range tests {
		genesis := newTestNode(nil, genesisTS, 0x2003ffff)
		tip := chainedNodes(genesis, 2015, 600, 0x2003ffff)

		// Pin the tip timestamp so the measured timespan is exact.
		tip.timestamp = genesisTS + test.elapsed

		header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+600, 0)}
		got := b.calcNextRequiredDifficulty(tip, header)
		if got != test.want {
			t.Errorf("%s: got %08x, want %08x", test.name, got, test.want)
		}
	}
}

// TestCalcEDATestnetRules covers the reduced minimum difficulty behavior of
// the legacy adjustment: a block arriving long after its parent may claim the
// minimum difficulty, and otherwise the difficulty of the last block that was
// not mined under the special rule applies.
func TestCalcEDATestnetRules(t *testing.T) {
	params := testNetParams()
	params.DAAForkActivationTime = 1 << 62
	params.ReduceMinDifficulty = true
	b := &BlockChain{chainParams: &params}

	// 160 normally mined blocks followed by 3 minimum difficulty blocks.
	genesis := newTestNode(nil, 1000000, 0x2003ffff)
	tip := chainedNodes(genesis, 160, 600, 0x2003ffff)
	tip = chainedNodes(tip, 3, 600, 0x207fffff)

	// A block more than twice the target spacing after its parent may be
	// mined at the minimum difficulty.
	header := &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+1201, 0)}
	if got := b.calcNextRequiredDifficulty(tip, header); got != 0x207fffff {
		t.Errorf("lagging block: got %08x, want %08x", got, 0x207fffff)
	}

	// A timely block walks back past the minimum difficulty blocks and
	// inherits the difficulty of the last normally mined block.
	header = &wire.BlockHeader{Timestamp: time.Unix(tip.timestamp+600, 0)}
	if got := b.calcNextRequiredDifficulty(tip, header); got != 0x2003ffff {
		t.Errorf("timely block: got %08x, want %08x", got, 0x2003ffff)
	}
}

// TestCalcNextRequiredDifficultySpecialRules covers the dispatcher level
// short circuits that run before any windowed computation.
func TestCalcNextRequiredDifficultySpecialRules(t *testing.T) {
	header := &wire.BlockHeader{Timestamp: time.Unix(1000600, 0)}

	// Genesis: no previous block means the minimum difficulty.
	params := testNetParams()
	b := &BlockChain{chainParams: &params}
	if got := b.calcNextRequiredDifficulty(nil, header); got != 0x207fffff {
		t.Errorf("genesis: got %08x, want %08x", got, 0x207fffff)
	}

	// The first 150 blocks of a reduced minimum difficulty network use a
	// fixed difficulty regardless of everything else.
	reducedParams := testNetParams()
	reducedParams.ReduceMinDifficulty = true
	b = &BlockChain{chainParams: &reducedParams}
	genesis := newTestNode(nil, 1000000, 0x2003ffff)
	tip := chainedNodes(genesis, 150, 600, 0x2003ffff)
	if got := b.calcNextRequiredDifficulty(tip, header); got != 0x201fffff {
		t.Errorf("first 150 blocks: got %08x, want %08x", got, 0x201fffff)
	}

	// Networks without retargeting carry the previous difficulty forward.
	noRetargetParams := testNetParams()
	noRetargetParams.NoRetargeting = true
	b = &BlockChain{chainParams: &noRetargetParams}
	genesis = newTestNode(nil, 1000000, 0x2003ffff)
	tip = chainedNodes(genesis, 5, 600, 0x2003ffff)
	if got := b.calcNextRequiredDifficulty(tip, header); got != 0x2003ffff {
		t.Errorf("no retargeting: got %08x, want %08x", got, 0x2003ffff)
	}
}

// TestComputeTargetWraparound verifies that the final target division runs at
// a fixed 256-bit width. A window whose work estimate is a single unit must
// produce the saturated target 2^256 - 1, which only falls out correctly when
// 2^256 - W is computed as the two's complement negation of W rather than in
// a wider integer type.
func TestComputeTargetWraparound(t *testing.T) {
	params := testNetParams()
	b := &BlockChain{chainParams: &params}

	// 144 blocks carrying 2 units of work each, spaced 1200 seconds apart.
	// The work estimate is 288 * 600 / 172800 = 1, and the timespan sits
	// exactly at the dampening ceiling so no clamping applies.
	first := newTestNode(nil, 1000000, 0x207fffff)
	last := chainedNodes(first, 144, 1200, 0x207fffff)

	got := b.computeTarget(first, last)

	want := new(uint256.Int).Not(new(uint256.Int))
	if !got.Eq(want) {
		t.Fatalf("saturated window: got %v, want %v", got, want)
	}
	if compact := util.TargetToCompact(got); compact != 0x2100ffff {
		t.Fatalf("saturated window compact: got %08x, want %08x",
			compact, 0x2100ffff)
	}
}
