// nextbits replays the stored header chain for the selected network and
// reports the proof of work requirement for the next block.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/corelyone/bitcoin-cored/blockchain"
	"github.com/corelyone/bitcoin-cored/config"
	"github.com/corelyone/bitcoin-cored/database"
	"github.com/corelyone/bitcoin-cored/logger"
	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/util/panics"
	"github.com/corelyone/bitcoin-cored/version"
	"github.com/corelyone/bitcoin-cored/wire"
)

func main() {
	defer panics.HandlePanic(log, nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.BackendLog().Close()

	err = realMain(cfg)
	if err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}

func realMain(cfg *config.Config) error {
	log.Infof("Version %s", version.Version())
	log.Infof("Loading header chain for %s from %s", cfg.NetName(), cfg.DataDir)

	db, err := database.Open(cfg.DataDir)
	if err != nil {
		return err
	}
	defer db.Close()

	chain, err := blockchain.New(&blockchain.Config{
		DB:          db,
		ChainParams: cfg.ActiveNetParams,
	})
	if err != nil {
		return err
	}

	if cfg.Generate > 0 {
		err = generateBlocks(chain, cfg)
		if err != nil {
			return err
		}
	}

	best := chain.BestSnapshot()
	tipHeader := chain.TipHeader()
	log.Debugf("Tip header: %s", spew.Sdump(tipHeader))

	// The required difficulty can depend on the timestamp of the block
	// being mined, so evaluate it for a block arriving now.
	next := &wire.BlockHeader{
		PrevBlock: best.Hash,
		Timestamp: time.Unix(time.Now().Unix(), 0),
	}
	nextBits := chain.CalcNextRequiredDifficulty(next)

	fmt.Printf("network:    %s\n", cfg.NetName())
	fmt.Printf("height:     %d\n", best.Height)
	fmt.Printf("tip:        %s\n", best.Hash)
	fmt.Printf("tip bits:   %08x\n", best.Bits)
	fmt.Printf("chain work: %s\n", best.WorkSum)
	fmt.Printf("median time: %s\n", best.MedianTime.UTC().Format(time.RFC3339))
	fmt.Printf("next bits:  %08x\n", nextBits)
	fmt.Printf("difficulty: %g\n", util.DifficultyRatio(nextBits,
		cfg.ActiveNetParams.PowLimitBits))

	return nil
}

// generateBlocks extends the chain by mining cfg.Generate blocks through the
// regular validation path, each spaced one target interval after its parent.
// Brute-forcing the nonce is only practical against the permissive proof of
// work limits of the test networks.
func generateBlocks(chain *blockchain.BlockChain, cfg *config.Config) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "generateBlocks")
	defer onEnd()

	spacing := cfg.ActiveNetParams.TargetTimePerBlock
	if chain.BestSnapshot().Height >= cfg.ActiveNetParams.OneMinuteForkHeight {
		spacing = cfg.ActiveNetParams.TargetTimePerBlockOneMinute
	}

	for i := uint32(0); i < cfg.Generate; i++ {
		tipHeader := chain.TipHeader()
		header := &wire.BlockHeader{
			Version:   1,
			PrevBlock: tipHeader.BlockHash(),
			Timestamp: tipHeader.Timestamp.Add(spacing),
		}
		header.Bits = chain.CalcNextRequiredDifficulty(header)

		for {
			hash := header.BlockHash()
			if blockchain.CheckProofOfWork(&hash, header.Bits, cfg.ActiveNetParams) {
				break
			}
			header.Nonce++
			if header.Nonce == 0 {
				return errors.Errorf("exhausted the nonce space at height %d",
					chain.BestSnapshot().Height+1)
			}
		}

		err := chain.ProcessHeader(header)
		if err != nil {
			return err
		}
	}

	return nil
}
