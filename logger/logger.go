package logger

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger for a Backend.
type Logger struct {
	lvl       Level // atomic
	tag       string
	b         *Backend
	writeChan chan<- logEntry
}

// Trace formats message using the default formats for its operands and writes
// to log with LevelTrace.
func (l *Logger) Trace(args ...interface{}) {
	l.print(LevelTrace, args...)
}

// Tracef formats message according to format specifier and writes to log with
// LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.printf(LevelTrace, format, args...)
}

// Debug formats message using the default formats for its operands and writes
// to log with LevelDebug.
func (l *Logger) Debug(args ...interface{}) {
	l.print(LevelDebug, args...)
}

// Debugf formats message according to format specifier and writes to log with
// LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.printf(LevelDebug, format, args...)
}

// Info formats message using the default formats for its operands and writes
// to log with LevelInfo.
func (l *Logger) Info(args ...interface{}) {
	l.print(LevelInfo, args...)
}

// Infof formats message according to format specifier and writes to log with
// LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.printf(LevelInfo, format, args...)
}

// Warn formats message using the default formats for its operands and writes
// to log with LevelWarn.
func (l *Logger) Warn(args ...interface{}) {
	l.print(LevelWarn, args...)
}

// Warnf formats message according to format specifier and writes to log with
// LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.printf(LevelWarn, format, args...)
}

// Error formats message using the default formats for its operands and writes
// to log with LevelError.
func (l *Logger) Error(args ...interface{}) {
	l.print(LevelError, args...)
}

// Errorf formats message according to format specifier and writes to log with
// LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.printf(LevelError, format, args...)
}

// Critical formats message using the default formats for its operands and
// writes to log with LevelCritical.
func (l *Logger) Critical(args ...interface{}) {
	l.print(LevelCritical, args...)
}

// Criticalf formats message according to format specifier and writes to log
// with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.printf(LevelCritical, format, args...)
}

// Level returns the current logging level.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32((*uint32)(&l.lvl)))
}

// SetLevel changes the logging level to the passed level.
func (l *Logger) SetLevel(logLevel Level) {
	atomic.StoreUint32((*uint32)(&l.lvl), uint32(logLevel))
}

// Backend returns the log backend.
func (l *Logger) Backend() *Backend {
	return l.b
}

func (l *Logger) printf(lvl Level, format string, args ...interface{}) {
	if lvl < l.Level() {
		return
	}
	bytesToWrite := mkEntry(l.b.flag, l.tag, lvl, 4, fmt.Sprintf(format, args...))
	l.write(lvl, bytesToWrite)
}

func (l *Logger) print(lvl Level, args ...interface{}) {
	if lvl < l.Level() {
		return
	}
	bytesToWrite := mkEntry(l.b.flag, l.tag, lvl, 4, fmt.Sprint(args...))
	l.write(lvl, bytesToWrite)
}

func (l *Logger) write(lvl Level, bytesToWrite []byte) {
	if !l.b.IsRunning() {
		// The backend isn't running yet (or was closed); fall back to
		// stderr so messages aren't silently lost.
		_, _ = os.Stderr.Write(bytesToWrite)
		return
	}
	l.writeChan <- logEntry{log: bytesToWrite, level: lvl}
}

// mkEntry formats a log entry as:
//
//	2009-01-03 18:15:05.000 [INF] TAG: message
//
// with an optional file:line callsite according to flags.
func mkEntry(flags uint32, tag string, lvl Level, callDepth int, msg string) []byte {
	t := time.Now()

	var buf bytes.Buffer
	buf.Grow(normalLogSize)
	buf.WriteString(t.Format("2006-01-02 15:04:05.000"))
	buf.WriteString(" [")
	buf.WriteString(lvl.String())
	buf.WriteString("] ")
	buf.WriteString(tag)
	buf.WriteString(": ")

	if flags&(LogFlagShortFile|LogFlagLongFile) != 0 {
		file, line, ok := callsite(flags, callDepth)
		if ok {
			buf.WriteString(file)
			buf.WriteByte(':')
			fmt.Fprintf(&buf, "%d", line)
			buf.WriteByte(' ')
		}
	}

	buf.WriteString(msg)
	if !strings.HasSuffix(msg, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

const normalLogSize = 512

// callsite returns the file name and line number of the callsite to the
// subsystem logger.
func callsite(flag uint32, callDepth int) (string, int, bool) {
	_, file, line, ok := runtime.Caller(callDepth)
	if !ok {
		return "", 0, false
	}
	if flag&LogFlagShortFile != 0 {
		short := file
		for i := len(file) - 1; i > 0; i-- {
			if os.IsPathSeparator(file[i]) {
				short = file[i+1:]
				break
			}
		}
		file = short
	}
	return file, line, true
}
