package config

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/corelyone/bitcoin-cored/chaincfg"
)

// NetworkFlags holds the network configuration, that is which network is
// selected.
type NetworkFlags struct {
	Testnet         bool `long:"testnet" description:"Use the test network"`
	RegressionTest  bool `long:"regtest" description:"Use the regression test network"`
	Simnet          bool `long:"simnet" description:"Use the simulation test network"`
	ActiveNetParams *chaincfg.Params
}

// ResolveNetwork parses the network command line arguments and sets
// ActiveNetParams accordingly. It returns an error if more than one network
// was selected.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// The default network is mainnet. Multiple networks can't be selected
	// simultaneously.
	networkFlags.ActiveNetParams = &chaincfg.MainnetParams
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &chaincfg.TestnetParams
	}
	if networkFlags.RegressionTest {
		numNets++
		networkFlags.ActiveNetParams = &chaincfg.RegressionNetParams
	}
	if networkFlags.Simnet {
		numNets++
		networkFlags.ActiveNetParams = &chaincfg.SimnetParams
	}
	if numNets > 1 {
		return errors.New("multiple network parameters (--testnet, " +
			"--regtest, --simnet) cannot be used together, please choose " +
			"only one network")
	}

	return nil
}

// NetName returns the name of the selected network.
func (networkFlags *NetworkFlags) NetName() string {
	return networkFlags.ActiveNetParams.Name
}
