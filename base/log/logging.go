package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/tevino/abool"
)

// Severity describes a log level.
type Severity uint32

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

var (
	logLevelInt = uint32(InfoLevel)
	logLevel    = &logLevelInt

	started = abool.NewBool(false)
)

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// SetLogLevel sets a new log level.
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))
	levelVar.Set(level.toSLogLevel())
}

// Name returns the name of the log level.
func (s Severity) Name() string {
	switch s {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarningLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	default:
		return "none"
	}
}

// ParseLevel returns the level severity of a log level name.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return 1
	case "debug":
		return 2
	case "info":
		return 3
	case "warning":
		return 4
	case "error":
		return 5
	case "critical":
		return 6
	}
	return 0
}

// Start starts the logging system with the given level name. Logs are written
// to stderr. Calls after the first only change the log level.
func Start(level string) error {
	return StartWithWriter(level, nil)
}

// StartWithWriter is like Start, but writes all logs to w. A nil writer
// selects stderr.
func StartWithWriter(level string, w io.Writer) error {
	initialLogLevel := InfoLevel
	if level != "" {
		initialLogLevel = ParseLevel(level)
		if initialLogLevel == 0 {
			fmt.Fprintf(os.Stderr, "log warning: invalid log level %q, falling back to level info\n", level)
			initialLogLevel = InfoLevel
		}
	}
	SetLogLevel(initialLogLevel)
	if w == nil {
		setupSLog(stderrWriter(), isTerminal(os.Stderr))
	} else {
		setupSLog(w, false)
	}
	started.Set()

	return nil
}

// IsStarted returns whether Start has been called.
func IsStarted() bool {
	return started.IsSet()
}
