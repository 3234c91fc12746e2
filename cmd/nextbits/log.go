package main

import (
	"github.com/corelyone/bitcoin-cored/logger"
)

var log = logger.Get("NXTB")
