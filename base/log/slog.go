package log

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const timeFormat = "060102 15:04:05.000"

func (s Severity) toSLogLevel() slog.Level {
	// Convert to slog level.
	switch s {
	case TraceLevel:
		return slog.LevelDebug - 4
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarningLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case CriticalLevel:
		return slog.LevelError + 4
	}
	// Failed to convert, return default log level
	return slog.LevelWarn
}

// levelVar lets SetLogLevel take effect on an already installed handler.
var levelVar slog.LevelVar

func setupSLog(w io.Writer, color bool) {
	levelVar.Set(GetLogLevel().toSLogLevel())

	logHandler := tint.NewHandler(w, &tint.Options{
		AddSource:  true,
		Level:      &levelVar,
		TimeFormat: timeFormat,
		NoColor:    !color,
	})

	// Set as default logger.
	slog.SetDefault(slog.New(logHandler))
}

func stderrWriter() io.Writer {
	if runtime.GOOS == "windows" {
		return colorable.NewColorableStderr()
	}
	return os.Stderr
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
