package log

import (
	"fmt"
	"io"
	"log"
	"log/syslog"
	"os"

	"github.com/pkg/errors"
)

// Level is a log level such a Debug or Error
type Level int

const (
	// LevelDebug enables debug logging
	LevelDebug Level = iota
	// LevelInfo enables info logging
	LevelInfo
	// LevelError enables error logging
	LevelError
)

const (
	syslogFlags = log.Lshortfile
	normalFlags = log.LUTC | log.Ldate | log.Ltime | log.Lshortfile
)

var (
	debuglog = log.New(os.Stderr, "DEBUG: ", normalFlags)
	infolog  = log.New(os.Stderr, "INFO: ", normalFlags)
	errlog   = log.New(os.Stderr, "ERROR: ", normalFlags)

	level = LevelError

	exit = os.Exit
)

// SetLevel sets the log level
func SetLevel(l Level) {
	level = l
}

// SetOutput sends all levels to w. The terminal view owns stdout, so this is
// mostly useful for tests.
func SetOutput(w io.Writer) {
	debuglog.SetOutput(w)
	infolog.SetOutput(w)
	errlog.SetOutput(w)
}

// InitSyslog initializes logging to syslog
func InitSyslog() error {
	dl, err := syslog.NewLogger(syslog.LOG_DEBUG, syslogFlags)
	if err != nil {
		return errors.Wrap(err, "failed to initialize debug logger")
	}

	il, err := syslog.NewLogger(syslog.LOG_NOTICE, syslogFlags)
	if err != nil {
		return errors.Wrap(err, "failed to initialize info logger")
	}

	el, err := syslog.NewLogger(syslog.LOG_ERR, syslogFlags)
	if err != nil {
		return errors.Wrap(err, "failed to initialize error logger")
	}

	debuglog, infolog, errlog = dl, il, el
	return nil
}

// Debug prints a debug message. If syslog is enabled then LOG_DEBUG is used
func Debug(msg string, params ...interface{}) {
	if level > LevelDebug {
		return
	}
	output(debuglog, msg, params...)
}

// Info prints an informational message. If syslog is enabled then LOG_NOTICE is used
func Info(msg string, params ...interface{}) {
	if level > LevelInfo {
		return
	}
	output(infolog, msg, params...)
}

// Error prints an error message. If syslog is enabled then LOG_ERR is used
func Error(msg string, params ...interface{}) {
	output(errlog, msg, params...)
}

// Fatal logs Error and exits 1
func Fatal(msg string, params ...interface{}) {
	output(errlog, msg, params...)
	exit(1)
}

func output(l *log.Logger, msg string, params ...interface{}) {
	// calldepth 3 reports the caller of Debug/Info/Error/Fatal
	if err := l.Output(3, fmt.Sprintf(msg, params...)); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR writing log output: %+v", err)
	}
}
