// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/holiman/uint256"

	"github.com/corelyone/bitcoin-cored/util/chainhash"
)

// hexToUint256 converts the passed big-endian hex string into a uint256.Int.
// It panics on an error since it will only (and must only) be called with
// hard-coded, and therefore known good, hex strings. The uint256.FromHex
// function is not used directly since it rejects values with leading zero
// digits while the hard-coded strings here are fixed width.
func hexToUint256(hexStr string) *uint256.Int {
	b, err := hex.DecodeString(strings.TrimPrefix(hexStr, "0x"))
	if err != nil || len(b) > 32 {
		panic("invalid hex in source file: " + hexStr)
	}
	return new(uint256.Int).SetBytes(b)
}

func TestCompactToTarget(t *testing.T) {
	tests := []struct {
		compact  uint32
		want     *uint256.Int
		negative bool
		overflow bool
	}{
		// Zero mantissa decodes to zero regardless of the exponent or
		// sign bit.
		{0x00000000, uint256.NewInt(0), false, false},
		{0x01000000, uint256.NewInt(0), false, false},
		{0x04800000, uint256.NewInt(0), false, false},

		// Small exponents shift the mantissa down.
		{0x01123456, uint256.NewInt(0x12), false, false},
		{0x02123456, uint256.NewInt(0x1234), false, false},
		{0x03123456, uint256.NewInt(0x123456), false, false},
		{0x04123456, uint256.NewInt(0x12345600), false, false},

		// The sign bit is reported only with a non-zero mantissa.
		{0x01fedcba, uint256.NewInt(0x7e), true, false},
		{0x04923456, uint256.NewInt(0x12345600), true, false},

		// Mainnet genesis difficulty.
		{0x1d00ffff, hexToUint256("0x00000000ffff0000000000000000000000000000000000000000000000000000"), false, false},

		// Largest encodings that still fit in 256 bits for each
		// mantissa width, and the first ones that do not.
		{0x22000001, hexToUint256("0x0100000000000000000000000000000000000000000000000000000000000000"), false, false},
		{0x23000001, nil, false, true},
		{0x2100ffff, hexToUint256("0xffff000000000000000000000000000000000000000000000000000000000000"), false, false},
		{0x2200ffff, nil, false, true},
		{0x207fffff, hexToUint256("0x7fffff0000000000000000000000000000000000000000000000000000000000"), false, false},
		{0x217fffff, nil, false, true},
	}

	for i, test := range tests {
		target, negative, overflow := CompactToTarget(test.compact)
		if negative != test.negative || overflow != test.overflow {
			t.Errorf("#%d: compact %08x: got flags (%v, %v), want "+
				"(%v, %v)", i, test.compact, negative, overflow,
				test.negative, test.overflow)
			continue
		}
		if !overflow && !target.Eq(test.want) {
			t.Errorf("#%d: compact %08x: got target %v, want %v", i,
				test.compact, target, test.want)
		}
	}
}

func TestTargetToCompact(t *testing.T) {
	tests := []struct {
		target *uint256.Int
		want   uint32
	}{
		{uint256.NewInt(0), 0x00000000},
		{uint256.NewInt(0x12), 0x01120000},
		{uint256.NewInt(0x1234), 0x02123400},
		{uint256.NewInt(0x123456), 0x03123456},
		{uint256.NewInt(0x12345600), 0x04123456},

		// A leading byte with the high bit set must be pushed into the
		// next exponent so that it cannot be confused with the sign.
		{uint256.NewInt(0x80), 0x02008000},
		{uint256.NewInt(0x8000), 0x03008000},

		{hexToUint256("0x00000000ffff0000000000000000000000000000000000000000000000000000"), 0x1d00ffff},
		{hexToUint256("0x7fffff0000000000000000000000000000000000000000000000000000000000"), 0x207fffff},
	}

	for i, test := range tests {
		got := TargetToCompact(test.target)
		if got != test.want {
			t.Errorf("#%d: target %v: got %08x, want %08x", i,
				test.target, got, test.want)
		}
	}
}

// TestCompactRoundTrip ensures that re-encoding a decoded compact value is
// lossless even though decoding a full precision target is not.
func TestCompactRoundTrip(t *testing.T) {
	compacts := []uint32{
		0x1d00ffff, 0x1b0404cb, 0x207fffff, 0x201fffff, 0x2003ffff,
		0x1f666666, 0x2100ffff, 0x01120000,
	}
	for _, compact := range compacts {
		target, negative, overflow := CompactToTarget(compact)
		if negative || overflow {
			t.Errorf("compact %08x: unexpected flags", compact)
			continue
		}
		if got := TargetToCompact(target); got != compact {
			t.Errorf("compact %08x: round trip produced %08x", compact, got)
		}
	}

	// Re-encoding a target with more than 23 significant bits truncates
	// the low bits.
	fullPrecision := hexToUint256("0x0003ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	if got := TargetToCompact(fullPrecision); got != 0x2003ffff {
		t.Errorf("full precision target: got %08x, want %08x", got, 0x2003ffff)
	}
}

func TestCalcWork(t *testing.T) {
	tests := []struct {
		bits uint32
		want *uint256.Int
	}{
		// 2^256 / (target + 1) for a target of 2^256 - 1 is one unit
		// of work.
		{0x2100ffff, uint256.NewInt(1)},

		// Target 2^255 - 2^232 carries 2 units of work.
		{0x207fffff, uint256.NewInt(2)},

		// Target (2^18 - 1) * 2^232 carries 64 units of work.
		{0x2003ffff, uint256.NewInt(64)},

		// Invalid encodings carry no work at all.
		{0x00000000, uint256.NewInt(0)},
		{0x01810000, uint256.NewInt(0)},
		{0xff00ffff, uint256.NewInt(0)},
	}

	for i, test := range tests {
		got := CalcWork(test.bits)
		if !got.Eq(test.want) {
			t.Errorf("#%d: bits %08x: got %v, want %v", i, test.bits,
				got, test.want)
		}
	}
}

func TestHashToUint256(t *testing.T) {
	// Hash strings display in reversed byte order, so the value below is
	// the number 0x2000...01 even though the string begins with 01.
	hash, err := chainhash.NewHashFromStr(
		"2000000000000000000000000000000000000000000000000000000000000001")
	if err != nil {
		t.Fatalf("NewHashFromStr: %v", err)
	}

	want := hexToUint256("0x2000000000000000000000000000000000000000000000000000000000000001")
	if got := HashToUint256(hash); !got.Eq(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDifficultyRatio(t *testing.T) {
	tests := []struct {
		bits         uint32
		powLimitBits uint32
		want         float64
	}{
		// The minimum difficulty is 1 by definition.
		{0x1d00ffff, 0x1d00ffff, 1},
		{0x207fffff, 0x207fffff, 1},

		// Halving the target doubles the difficulty.
		{0x1c7fff80, 0x1d00ffff, 2},

		// One exponent step is a factor of 256.
		{0x1c00ffff, 0x1d00ffff, 256},
	}

	for i, test := range tests {
		got := DifficultyRatio(test.bits, test.powLimitBits)
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("#%d: got %v, want %v", i, got, test.want)
		}
	}
}
