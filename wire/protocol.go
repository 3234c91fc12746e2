// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// BitcoinNet represents which bitcoin network a message belongs to.
type BitcoinNet uint32

// Constants used to indicate the message bitcoin network. They can also be
// used to seek to the next message when a stream's state is unknown.
const (
	// Mainnet represents the main bitcoin network.
	Mainnet BitcoinNet = 0xc8e5612c

	// Testnet represents the test network.
	Testnet BitcoinNet = 0xb213aa5e

	// Regtest represents the regression test network.
	Regtest BitcoinNet = 0xdab5bffa

	// Simnet represents the simulation test network.
	Simnet BitcoinNet = 0x12141c16
)

// bnStrings is a map of bitcoin networks back to their constant names for
// pretty printing.
var bnStrings = map[BitcoinNet]string{
	Mainnet: "Mainnet",
	Testnet: "Testnet",
	Regtest: "Regtest",
	Simnet:  "Simnet",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}

	return fmt.Sprintf("Unknown BitcoinNet (%d)", uint32(n))
}
