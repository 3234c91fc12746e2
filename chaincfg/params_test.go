// Copyright (c) 2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/wire"
)

func TestRegister(t *testing.T) {
	// The default networks are registered at init time, so registering
	// any of them again must fail.
	for _, params := range []*Params{
		&MainnetParams, &TestnetParams, &RegressionNetParams, &SimnetParams,
	} {
		if err := Register(params); err != ErrDuplicateNet {
			t.Errorf("%s: got %v, want ErrDuplicateNet", params.Name, err)
		}
	}

	// A network with fresh magic bytes registers cleanly exactly once.
	custom := Params{Name: "custom", Net: wire.BitcoinNet(0xdeadbeef)}
	if err := Register(&custom); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(&custom); err != ErrDuplicateNet {
		t.Fatalf("re-Register: got %v, want ErrDuplicateNet", err)
	}
}

// TestPowLimitBits ensures the compact encoding carried in each network's
// parameters matches its full precision proof of work limit.
func TestPowLimitBits(t *testing.T) {
	for _, params := range []*Params{
		&MainnetParams, &TestnetParams, &RegressionNetParams, &SimnetParams,
	} {
		if got := util.TargetToCompact(params.PowLimit); got != params.PowLimitBits {
			t.Errorf("%s: pow limit encodes to %08x, want %08x",
				params.Name, got, params.PowLimitBits)
		}
	}
}

// TestGenesisHash ensures the cached genesis hash of every network matches
// the hash of its genesis header and that no two networks share a genesis
// block.
func TestGenesisHash(t *testing.T) {
	seen := make(map[string]string)
	for _, params := range []*Params{
		&MainnetParams, &TestnetParams, &RegressionNetParams, &SimnetParams,
	} {
		hash := params.GenesisHeader.BlockHash()
		if hash != *params.GenesisHash {
			t.Errorf("%s: genesis header hashes to %s, cached hash is %s",
				params.Name, hash, params.GenesisHash)
		}
		if prior, ok := seen[hash.String()]; ok {
			t.Errorf("%s: genesis hash collides with %s", params.Name, prior)
		}
		seen[hash.String()] = params.Name
	}
}

func TestDifficultyAdjustmentInterval(t *testing.T) {
	if got := MainnetParams.DifficultyAdjustmentInterval(); got != 2016 {
		t.Errorf("mainnet interval: got %d, want 2016", got)
	}
}
