package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLogger(t *testing.T) {
	t.Run("debug mode returns development logger", func(t *testing.T) {
		logger, err := NewLogger(true, "")
		if err != nil {
			t.Fatalf("NewLogger(true) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(true) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("production mode returns production logger", func(t *testing.T) {
		logger, err := NewLogger(false, "")
		if err != nil {
			t.Fatalf("NewLogger(false) error: %v", err)
		}
		if logger == nil {
			t.Fatal("NewLogger(false) returned nil logger")
		}
		_ = logger.Sync()
	})

	t.Run("log dir receives daily file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs")
		logger, err := NewLogger(false, dir)
		if err != nil {
			t.Fatal(err)
		}
		logger.Info("hello from test")
		_ = logger.Sync()
		data, err := os.ReadFile(DailyLogPath(dir, time.Now()))
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 {
			t.Error("expected log output in daily file")
		}
	})
}

func TestNewFileLogger(t *testing.T) {
	nop, err := NewFileLogger(false, "")
	if err != nil || nop == nil {
		t.Fatalf("NewFileLogger without dir: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewFileLogger(true, dir)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("file only")
	_ = logger.Sync()
	data, err := os.ReadFile(DailyLogPath(dir, time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected debug output in daily file")
	}
}

func TestDailyLogPath(t *testing.T) {
	day := time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)
	if got := DailyLogPath("/var/log/recall", day); got != filepath.Join("/var/log/recall", "2024-02-29.log") {
		t.Errorf("DailyLogPath = %s", got)
	}
}
