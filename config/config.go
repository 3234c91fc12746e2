// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/corelyone/bitcoin-cored/logger"
	"github.com/corelyone/bitcoin-cored/util"
	"github.com/corelyone/bitcoin-cored/version"
)

const (
	defaultConfigFilename = "bitcoin-cored.conf"
	defaultDataDirname    = "data"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "bitcoin-cored.log"
	defaultErrLogFilename = "bitcoin-cored_err.log"
)

var (
	// DefaultHomeDir is the default home directory for the application.
	DefaultHomeDir = util.AppDataDir("bitcoin-cored", false)

	defaultConfigFile = filepath.Join(DefaultHomeDir, defaultConfigFilename)
	defaultDataDir    = filepath.Join(DefaultHomeDir, defaultDataDirname)
)

// Flags defines the configuration options for the difficulty tool.
//
// See LoadConfig for details on the configuration load process.
type Flags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	DataDir     string `short:"b" long:"datadir" description:"Directory to store data"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	Generate    uint32 `long:"generate" description:"Extend the stored chain by mining the given number of blocks before reporting (only practical on test networks)"`
	NetworkFlags
}

// Config defines the configuration options for the difficulty tool.
type Config struct {
	*Flags
}

func defaultFlags() *Flags {
	return &Flags{
		ConfigFile: defaultConfigFile,
		DataDir:    defaultDataDir,
		DebugLevel: defaultLogLevel,
	}
}

// LoadConfig initializes and parses the config using a config file and
// command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
func LoadConfig() (*Config, error) {
	cfgFlags := defaultFlags()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified. Any errors aside from the
	// help message error can be ignored here since they will be caught by
	// the final parse below.
	preCfg := cfgFlags
	preParser := flags.NewParser(preCfg, flags.HelpFlag)
	_, err := preParser.Parse()
	if err != nil {
		var flagsErr *flags.Error
		if ok := errors.As(err, &flagsErr); ok && flagsErr.Type == flags.ErrHelp {
			return nil, err
		}
	}

	appName := filepath.Base(os.Args[0])
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	// Load additional config from file.
	parser := flags.NewParser(cfgFlags, flags.Default)
	cfg := &Config{Flags: cfgFlags}
	err = flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile)
	if err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, errors.Wrapf(err, "error parsing config file %s",
				preCfg.ConfigFile)
		}
		// A missing config file at the default location is fine; a
		// missing file that was explicitly requested is not.
		if preCfg.ConfigFile != defaultConfigFile {
			return nil, errors.Wrapf(err, "config file %s does not exist",
				preCfg.ConfigFile)
		}
	}

	// Parse command line options again to ensure they take precedence.
	_, err = parser.Parse()
	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	// All data is network specific so namespace the data and log
	// directories by network name.
	cfg.DataDir = filepath.Join(cfg.DataDir, cfg.NetName())
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(DefaultHomeDir, defaultLogDirname)
	}
	cfg.LogDir = filepath.Join(cfg.LogDir, cfg.NetName())

	// Initialize log rotation. After the log rotation has been
	// initialized, the logger variables may be used.
	err = logger.InitLog(filepath.Join(cfg.LogDir, defaultLogFilename),
		filepath.Join(cfg.LogDir, defaultErrLogFilename))
	if err != nil {
		return nil, err
	}

	// Parse, validate, and set the debug log level.
	err = logger.SetLogLevels(cfg.DebugLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
