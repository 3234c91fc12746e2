// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/corelyone/bitcoin-cored/util/chainhash"
	"github.com/corelyone/bitcoin-cored/wire"
)

// These variables are the chain proof-of-work limit parameters for each
// default network.
var (
	// bigOne is 1 represented as a uint256. It is defined here to avoid
	// the overhead of creating it multiple times.
	bigOne = uint256.NewInt(1)

	// mainPowLimit is the highest proof of work value a block can have for
	// the main network. It is the value 2^224 - 1.
	mainPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 224), bigOne)

	// testnetPowLimit is the highest proof of work value a block can have
	// for the test network. It is the value 2^224 - 1.
	testnetPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 224), bigOne)

	// regressionPowLimit is the highest proof of work value a block can
	// have for the regression test network. It is the value 2^255 - 1.
	regressionPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 255), bigOne)

	// simnetPowLimit is the highest proof of work value a block can have
	// for the simulation test network. It is the value 2^255 - 1.
	simnetPowLimit = new(uint256.Int).Sub(new(uint256.Int).Lsh(bigOne, 255), bigOne)
)

// Params defines a network by its parameters. These parameters may be used by
// applications to differentiate networks as well as addresses and keys for
// one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net wire.BitcoinNet

	// DefaultPort defines the default peer-to-peer port for the network.
	DefaultPort string

	// DNSSeeds defines a list of DNS seeds for the network that are used
	// as one method to discover peers.
	DNSSeeds []string

	// GenesisHeader defines the header of the first block of the chain.
	GenesisHeader *wire.BlockHeader

	// GenesisHash is the starting block hash.
	GenesisHash *chainhash.Hash

	// PowLimit defines the highest allowed proof of work value for a
	// block as a uint256.
	PowLimit *uint256.Int

	// PowLimitBits defines the highest allowed proof of work value for a
	// block in compact form.
	PowLimitBits uint32

	// ReduceMinDifficulty defines whether the network should reduce the
	// minimum required difficulty after a long enough period of time has
	// passed without finding a block. This is really only useful for test
	// networks and should not be set on a main network.
	ReduceMinDifficulty bool

	// NoRetargeting defines whether the network has difficulty
	// retargeting disabled. This is really only useful for regression and
	// private test networks.
	NoRetargeting bool

	// DAAForkActivationTime is the median-time-past after which the
	// per-block weighted difficulty adjustment algorithm activates in
	// place of the legacy periodic retarget and its emergency adjustment.
	DAAForkActivationTime int64

	// OneMinuteForkHeight is the height at which the network switches
	// from the legacy block spacing to one-minute block spacing, which
	// also shortens the weighted difficulty adjustment window.
	OneMinuteForkHeight int32

	// TargetTimespan is the desired amount of time that should elapse
	// before the block difficulty requirement is examined by the legacy
	// retarget to determine how it should be changed in order to maintain
	// the desired block generation rate.
	TargetTimespan time.Duration

	// TargetTimePerBlock is the desired amount of time to generate each
	// block before the one-minute fork.
	TargetTimePerBlock time.Duration

	// TargetTimePerBlockOneMinute is the desired amount of time to
	// generate each block from the one-minute fork onward.
	TargetTimePerBlockOneMinute time.Duration

	// RetargetAdjustmentFactor is the adjustment factor used to limit the
	// minimum and maximum amount of adjustment that the legacy retarget
	// can make in a single interval.
	RetargetAdjustmentFactor int64
}

// DifficultyAdjustmentInterval is the number of blocks between each legacy
// difficulty retarget. It is calculated based on the target block generation
// rate and the desired retarget timespan.
func (p *Params) DifficultyAdjustmentInterval() int64 {
	return int64(p.TargetTimespan / p.TargetTimePerBlock)
}

// MainnetParams defines the network parameters for the main network.
var MainnetParams = Params{
	Name:        "mainnet",
	Net:         wire.Mainnet,
	DefaultPort: "8333",
	DNSSeeds: []string{
		"seed.bitcoincore.zone",
		"dnsseed.bitcoincore.zone",
	},

	// Chain parameters
	GenesisHeader:               &genesisBlockHeader,
	GenesisHash:                 &genesisHash,
	PowLimit:                    mainPowLimit,
	PowLimitBits:                0x1d00ffff,
	ReduceMinDifficulty:         false,
	NoRetargeting:               false,
	DAAForkActivationTime:       1542300000, // November 15, 2018 UTC
	OneMinuteForkHeight:         655200,
	TargetTimespan:              time.Hour * 24 * 14, // 14 days
	TargetTimePerBlock:          time.Minute * 10,    // 10 minutes
	TargetTimePerBlockOneMinute: time.Minute,         // 1 minute
	RetargetAdjustmentFactor:    4,                   // 25% less, 400% more
}

// TestnetParams defines the network parameters for the test network.
var TestnetParams = Params{
	Name:        "testnet",
	Net:         wire.Testnet,
	DefaultPort: "18333",
	DNSSeeds: []string{
		"testnet-seed.bitcoincore.zone",
	},

	// Chain parameters
	GenesisHeader:               &testnetGenesisBlockHeader,
	GenesisHash:                 &testnetGenesisHash,
	PowLimit:                    testnetPowLimit,
	PowLimitBits:                0x1d00ffff,
	ReduceMinDifficulty:         true,
	NoRetargeting:               false,
	DAAForkActivationTime:       1535587200, // August 30, 2018 UTC
	OneMinuteForkHeight:         3000,
	TargetTimespan:              time.Hour * 24 * 14, // 14 days
	TargetTimePerBlock:          time.Minute * 10,    // 10 minutes
	TargetTimePerBlockOneMinute: time.Minute,         // 1 minute
	RetargetAdjustmentFactor:    4,                   // 25% less, 400% more
}

// RegressionNetParams defines the network parameters for the regression test
// network. Not to be confused with the test network, this network is
// sometimes simply called "testnet".
var RegressionNetParams = Params{
	Name:        "regtest",
	Net:         wire.Regtest,
	DefaultPort: "18444",
	DNSSeeds:    []string{},

	// Chain parameters
	GenesisHeader:               &regtestGenesisBlockHeader,
	GenesisHash:                 &regtestGenesisHash,
	PowLimit:                    regressionPowLimit,
	PowLimitBits:                0x207fffff,
	ReduceMinDifficulty:         true,
	NoRetargeting:               true,
	DAAForkActivationTime:       0,
	OneMinuteForkHeight:         0,
	TargetTimespan:              time.Hour * 24 * 14, // 14 days
	TargetTimePerBlock:          time.Minute * 10,    // 10 minutes
	TargetTimePerBlockOneMinute: time.Minute,         // 1 minute
	RetargetAdjustmentFactor:    4,                   // 25% less, 400% more
}

// SimnetParams defines the network parameters for the simulation test
// network. This network is similar to the normal test network except it is
// intended for private use within a group of individuals doing simulation
// testing. The functionality is intended to differ in that the only nodes
// which are specifically specified are used to create the network rather
// than following normal discovery rules.
var SimnetParams = Params{
	Name:        "simnet",
	Net:         wire.Simnet,
	DefaultPort: "18555",
	DNSSeeds:    []string{}, // NOTE: There must NOT be any seeds.

	// Chain parameters
	GenesisHeader:               &simnetGenesisBlockHeader,
	GenesisHash:                 &simnetGenesisHash,
	PowLimit:                    simnetPowLimit,
	PowLimitBits:                0x207fffff,
	ReduceMinDifficulty:         true,
	NoRetargeting:               false,
	DAAForkActivationTime:       0,
	OneMinuteForkHeight:         0,
	TargetTimespan:              time.Hour * 24 * 14, // 14 days
	TargetTimePerBlock:          time.Minute * 10,    // 10 minutes
	TargetTimePerBlockOneMinute: time.Minute,         // 1 minute
	RetargetAdjustmentFactor:    4,                   // 25% less, 400% more
}

var (
	// ErrDuplicateNet describes an error where the parameters for a
	// network could not be set due to the network already being a standard
	// network or previously-registered via this package.
	ErrDuplicateNet = errors.New("duplicate network")

	registeredNets = make(map[wire.BitcoinNet]struct{})
)

// Register registers the network parameters for a network. This may error
// with ErrDuplicateNet if the network is already registered (either due to a
// previous Register call, or the network being one of the default networks).
//
// Network parameters should be registered into this package by a main package
// as early as possible. Then, library packages may lookup networks by their
// parameters.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = struct{}{}

	return nil
}

// mustRegister performs the same function as Register except it panics if
// there is an error. This should only be called from package init functions.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

func init() {
	// Register all default networks when the package is initialized.
	mustRegister(&MainnetParams)
	mustRegister(&TestnetParams)
	mustRegister(&RegressionNetParams)
	mustRegister(&SimnetParams)
}
