// Package logger configures the slog handler shared by the nk2ctl commands
// and handed to the parser through types.OpenOptions.Logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init is
// called.
var L = slog.New(slog.DiscardHandler)

const (
	logPrefix     = "nk2ctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	JSON    bool       // JSON records instead of key=value text
	Level   slog.Level // Minimum log level
	Writer  io.Writer  // Destination when LogDir is empty. Default: os.Stderr

	// LogDir switches output to a dated file inside this directory. Files
	// older than 30 days are removed on Init.
	LogDir string
}

// Init configures logging. Call before any log calls. The returned closer
// releases the log file, if one was opened; it is never nil.
func Init(opts Options) (io.Closer, error) {
	if !opts.Enabled {
		L = slog.New(slog.DiscardHandler)
		return nopCloser{}, nil
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.Writer != nil {
		w = opts.Writer
	}
	if opts.LogDir != "" {
		if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
			return nil, err
		}
		cleanOldLogs(opts.LogDir, time.Now())

		name := filepath.Join(opts.LogDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}

	L = slog.New(NewHandler(w, opts.JSON, opts.Level))
	return closer, nil
}

// NewHandler returns a text or JSON handler writing to w at level.
func NewHandler(w io.Writer, json bool, level slog.Level) slog.Handler {
	ho := &slog.HandlerOptions{Level: level}
	if json {
		return slog.NewJSONHandler(w, ho)
	}
	return slog.NewTextHandler(w, ho)
}

// ParseLevel converts a level name to slog.Level. Unknown names yield
// LevelWarn, the CLI default.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// nk2ctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
