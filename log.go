package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/anca-ferro/tts/internal/config"
)

// logLevel maps the verbosity flags to a stderr log level.
func logLevel(verbose, quiet bool) log.Level {
	switch {
	case quiet:
		return log.ErrorLevel
	case verbose:
		return log.DebugLevel
	default:
		return log.WarnLevel
	}
}

// setupLog configures the default logger. Without a log file records go
// to stderr at level. With one, every record down to Debug goes to the
// file instead, rotated by lumberjack; the returned closer releases it.
func setupLog(level log.Level, cfg config.LogConfig) (func() error, error) {
	if cfg.File == "" {
		log.SetDefault(log.NewWithOptions(os.Stderr, log.Options{Level: level}))
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil { //nolint:gosec
		return nil, err
	}

	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	log.SetDefault(log.NewWithOptions(rotated, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		ReportCaller:    true,
		Formatter:       log.LogfmtFormatter,
	}))
	return rotated.Close, nil
}
