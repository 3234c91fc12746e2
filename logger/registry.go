package logger

import (
	"sync"

	"github.com/pkg/errors"
)

// backendLog is the logging backend used to create all subsystem loggers.
var backendLog = NewBackend()

var (
	subsystemsMutex sync.Mutex
	subsystems      = make(map[string]*Logger)
)

// BackendLog returns the backend log that is the source of all subsystem
// loggers.
func BackendLog() *Backend {
	return backendLog
}

// Get returns the subsystem logger for the given tag, creating it on the
// backend if it wasn't requested before.
func Get(tag string) *Logger {
	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()

	log, ok := subsystems[tag]
	if !ok {
		log = backendLog.Logger(tag)
		subsystems[tag] = log
	}
	return log
}

// InitLog attaches log file and error log file to the backend log and starts
// it.
func InitLog(logFile, errLogFile string) error {
	err := backendLog.AddLogFile(logFile, LevelTrace)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator", logFile)
	}
	err = backendLog.AddLogFile(errLogFile, LevelWarn)
	if err != nil {
		return errors.Wrapf(err, "error adding log file %s as log rotator", errLogFile)
	}
	err = backendLog.Run()
	if err != nil {
		return errors.Wrap(err, "error starting the log backend")
	}
	return nil
}

// SetLogLevels sets the logging level for all of the subsystems to the passed
// level. It returns an error if the level is not valid.
func SetLogLevels(logLevel string) error {
	lvl, ok := LevelFromString(logLevel)
	if !ok {
		return errors.Errorf("invalid log level %s", logLevel)
	}

	subsystemsMutex.Lock()
	defer subsystemsMutex.Unlock()
	for _, log := range subsystems {
		log.SetLevel(lvl)
	}
	return nil
}
