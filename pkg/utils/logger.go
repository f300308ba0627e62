package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// NewLogger returns a zap logger. When debug is true, uses development config
// (human-readable, debug level); otherwise uses production config (JSON, info level).
// When logDir is set, output also goes to <logDir>/<YYYY-MM-DD>.log.
func NewLogger(debug bool, logDir string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if logDir != "" {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		cfg.OutputPaths = append(cfg.OutputPaths, DailyLogPath(logDir, time.Now()))
	}
	return cfg.Build()
}

// NewFileLogger is like NewLogger but writes only to the daily log file, for full-screen terminal UIs.
// Without a logDir it returns a no-op logger.
func NewFileLogger(debug bool, logDir string) (*zap.Logger, error) {
	if logDir == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	cfg.OutputPaths = []string{DailyLogPath(logDir, time.Now())}
	return cfg.Build()
}

// DailyLogPath returns the log file for the given day.
func DailyLogPath(logDir string, day time.Time) string {
	return filepath.Join(logDir, day.Format("2006-01-02")+".log")
}
