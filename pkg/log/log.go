// Package log provides a small leveled logger for the nparty CLI and its
// internal packages.
//
// Time/date are not logged by default because nparty is almost always run
// under a supervisor (cron, a CI job, systemd) that already timestamps
// stdout/stderr; pass -logdate to the CLI to turn it back on.
package log

import (
	"fmt"
	"io"
	"log"
	"os"
)

var logDateTime bool

var (
	DebugWriter io.Writer = os.Stderr
	InfoWriter  io.Writer = os.Stderr
	WarnWriter  io.Writer = os.Stderr
	ErrWriter   io.Writer = os.Stderr
)

var (
	DebugPrefix = "[DEBUG] "
	InfoPrefix  = "[INFO]  "
	WarnPrefix  = "[WARN]  "
	ErrPrefix   = "[ERROR] "
)

var (
	debugLog = log.New(DebugWriter, DebugPrefix, 0)
	infoLog  = log.New(InfoWriter, InfoPrefix, 0)
	warnLog  = log.New(WarnWriter, WarnPrefix, log.Lshortfile)
	errLog   = log.New(ErrWriter, ErrPrefix, log.Lshortfile)

	debugTimeLog = log.New(DebugWriter, DebugPrefix, log.LstdFlags)
	infoTimeLog  = log.New(InfoWriter, InfoPrefix, log.LstdFlags)
	warnTimeLog  = log.New(WarnWriter, WarnPrefix, log.LstdFlags|log.Lshortfile)
	errTimeLog   = log.New(ErrWriter, ErrPrefix, log.LstdFlags|log.Lshortfile)
)

// SetLogLevel silences writers below lvl ("debug", "info", "warn", "err"/"fatal").
func SetLogLevel(lvl string) {
	switch lvl {
	case "err", "fatal":
		WarnWriter = io.Discard
		fallthrough
	case "warn":
		InfoWriter = io.Discard
		fallthrough
	case "info":
		DebugWriter = io.Discard
	case "debug":
		// nothing discarded
	default:
		fmt.Fprintf(os.Stderr, "log: invalid loglevel %q, using \"debug\"\n", lvl)
		SetLogLevel("debug")
		return
	}
	debugLog.SetOutput(DebugWriter)
	infoLog.SetOutput(InfoWriter)
	warnLog.SetOutput(WarnWriter)
	errLog.SetOutput(ErrWriter)
	debugTimeLog.SetOutput(DebugWriter)
	infoTimeLog.SetOutput(InfoWriter)
	warnTimeLog.SetOutput(WarnWriter)
	errTimeLog.SetOutput(ErrWriter)
}

// SetLogDateTime switches every level between date-stamped and bare output.
func SetLogDateTime(on bool) {
	logDateTime = on
}

func output(debug, timed *log.Logger, w io.Writer, s string) {
	if w == io.Discard {
		return
	}
	if logDateTime {
		timed.Output(3, s)
	} else {
		debug.Output(3, s)
	}
}

func Debug(v ...interface{})                 { output(debugLog, debugTimeLog, DebugWriter, fmt.Sprint(v...)) }
func Info(v ...interface{})                  { output(infoLog, infoTimeLog, InfoWriter, fmt.Sprint(v...)) }
func Warn(v ...interface{})                  { output(warnLog, warnTimeLog, WarnWriter, fmt.Sprint(v...)) }
func Error(v ...interface{})                 { output(errLog, errTimeLog, ErrWriter, fmt.Sprint(v...)) }
func Debugf(format string, v ...interface{}) { output(debugLog, debugTimeLog, DebugWriter, fmt.Sprintf(format, v...)) }
func Infof(format string, v ...interface{})  { output(infoLog, infoTimeLog, InfoWriter, fmt.Sprintf(format, v...)) }
func Warnf(format string, v ...interface{})  { output(warnLog, warnTimeLog, WarnWriter, fmt.Sprintf(format, v...)) }
func Errorf(format string, v ...interface{}) { output(errLog, errTimeLog, ErrWriter, fmt.Sprintf(format, v...)) }

// Fatal logs at error level and exits with status 1.
func Fatal(v ...interface{}) {
	Error(v...)
	os.Exit(1)
}

// Fatalf logs at error level and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	Errorf(format, v...)
	os.Exit(1)
}
