// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"github.com/holiman/uint256"

	"github.com/corelyone/bitcoin-cored/util/chainhash"
)

// HashToUint256 converts a chainhash.Hash into a uint256.Int that can be used
// to perform math comparisons.
func HashToUint256(hash *chainhash.Hash) *uint256.Int {
	// A Hash is in little-endian, but the uint256 package wants the bytes
	// in big-endian, so reverse them.
	buf := *hash
	blen := len(buf)
	for i := 0; i < blen/2; i++ {
		buf[i], buf[blen-1-i] = buf[blen-1-i], buf[i]
	}

	return new(uint256.Int).SetBytes(buf[:])
}

// CompactToTarget converts a compact representation of a whole number N to a
// 256-bit target. The representation is similar to IEEE754 floating point
// numbers.
//
// Like IEEE754 floating point, there are three basic components: the sign,
// the exponent, and the mantissa. They are broken out as follows:
//
//   - the most significant 8 bits represent the unsigned base 256 exponent
//   - bit 23 (the 24th bit) represents the sign bit
//   - the least significant 23 bits represent the mantissa
//
//     -------------------------------------------------
//     |   Exponent     |    Sign    |    Mantissa     |
//     -------------------------------------------------
//     | 8 bits [31-24] | 1 bit [23] | 23 bits [22-00] |
//     -------------------------------------------------
//
// The formula to calculate N is:
//
//	N = (-1^sign) * mantissa * 256^(exponent-3)
//
// Targets are unsigned 256-bit numbers, so there is no value-level
// representation for the sign; the sign and overflow conditions are surfaced
// as flags instead so that callers can reject such encodings.
func CompactToTarget(compact uint32) (target *uint256.Int, negative, overflow bool) {
	// Extract the mantissa, sign bit, and exponent.
	mantissa := compact & 0x007fffff
	exponent := compact >> 24

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes to represent the full 256-bit number. So,
	// treat the exponent as the number of bytes and shift the mantissa
	// right or left accordingly. This is equivalent to:
	// N = mantissa * 256^(exponent-3)
	target = new(uint256.Int)
	if exponent <= 3 {
		target.SetUint64(uint64(mantissa >> (8 * (3 - exponent))))
	} else {
		target.SetUint64(uint64(mantissa))
		target.Lsh(target, uint(8*(exponent-3)))
	}

	// The sign bit is only meaningful when the mantissa is non-zero.
	negative = mantissa != 0 && compact&0x00800000 != 0

	// A non-zero mantissa shifted past the top of the 256-bit range does
	// not fit. The exponent bounds depend on how many mantissa bytes are
	// in use.
	overflow = mantissa != 0 && (exponent > 34 ||
		(mantissa > 0xff && exponent > 33) ||
		(mantissa > 0xffff && exponent > 32))

	return target, negative, overflow
}

// TargetToCompact converts a 256-bit target to its compact representation.
// The compact representation only provides 23 bits of precision, so values
// larger than (2^23 - 1) only encode the most significant digits of the
// number. See CompactToTarget for details.
func TargetToCompact(target *uint256.Int) uint32 {
	// No need to do any work if it's zero.
	if target.IsZero() {
		return 0
	}

	// Since the base for the exponent is 256, the exponent can be treated
	// as the number of bytes. So, shift the number right or left
	// accordingly. This is equivalent to:
	// mantissa = target / 256^(exponent-3)
	var mantissa uint32
	exponent := uint32(target.BitLen()+7) / 8
	if exponent <= 3 {
		mantissa = uint32(target.Uint64() << (8 * (3 - exponent)))
	} else {
		// Use a copy to avoid modifying the caller's original number.
		shifted := new(uint256.Int).Rsh(target, uint(8*(exponent-3)))
		mantissa = uint32(shifted.Uint64())
	}

	// When the mantissa already has the sign bit set, the number is too
	// large to fit into the available 23-bits, so divide the number by 256
	// and increment the exponent accordingly.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	// Pack the exponent and mantissa into an unsigned 32-bit int and
	// return it. The sign bit is never set since targets are unsigned.
	return exponent<<24 | mantissa
}

// CalcWork calculates a work value from difficulty bits. Bitcoin increases
// the difficulty for generating a block by decreasing the value which the
// generated hash must be less than. This difficulty target is stored in each
// block header using a compact representation as described in the
// documentation for CompactToTarget. The chain with the most accumulated work
// wins, and since a lower target equates to higher actual difficulty, the
// work value is the inverse of the target.
//
// The returned value is 2^256 / (target + 1), computed as
// (^target / (target + 1)) + 1 to stay within 256 bits.
func CalcWork(bits uint32) *uint256.Int {
	// Return a work value of zero if the passed difficulty bits represent
	// a negative, overflowing or zero target. Note this should not happen
	// in practice with valid blocks, but an invalid block could trigger
	// it.
	target, negative, overflow := CompactToTarget(bits)
	if negative || overflow || target.IsZero() {
		return new(uint256.Int)
	}

	work := new(uint256.Int).Not(target)
	denominator := new(uint256.Int).AddUint64(target, 1)
	work.Div(work, denominator)
	return work.AddUint64(work, 1)
}

// DifficultyRatio returns the proof-of-work difficulty as a multiple of the
// minimum difficulty using the passed bits field from the header of a block.
func DifficultyRatio(bits, powLimitBits uint32) float64 {
	shift := int(bits>>24) & 0xff
	limitShift := int(powLimitBits>>24) & 0xff
	diff := float64(powLimitBits&0x00ffffff) / float64(bits&0x00ffffff)
	for shift < limitShift {
		diff *= 256.0
		shift++
	}
	for shift > limitShift {
		diff /= 256.0
		shift--
	}
	return diff
}
