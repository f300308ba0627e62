// Package scraper collects recently visited pages from the browser history and saves their text
// in the format the ingester reads.
package scraper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/recall/internal/models"
)

// chromeEpochOffset is the number of microseconds between 1601-01-01 and 1970-01-01.
const chromeEpochOffset = 11644473600000000

const historyQuery = `
	SELECT url, title, last_visit_time
	FROM urls
	ORDER BY last_visit_time DESC
	LIMIT ?`

// Visit is one entry of the browser history.
type Visit struct {
	URL       string
	Title     string
	VisitTime time.Time
}

// HistorySource lists the most recent visits.
type HistorySource interface {
	Visits(ctx context.Context, limit int) ([]Visit, error)
}

// ChromeHistory reads Chrome's History SQLite database.
type ChromeHistory struct {
	Path string
}

// NewChromeHistory returns a reader for path, or for the default profile location when path is empty.
func NewChromeHistory(path string) *ChromeHistory {
	if path == "" {
		path = DefaultChromeHistoryPath()
	}
	return &ChromeHistory{Path: path}
}

// DefaultChromeHistoryPath returns the History database of Chrome's default profile for this OS.
func DefaultChromeHistoryPath() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
		return filepath.Join(base, "Google", "Chrome", "User Data", "Default", "History")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Google", "Chrome", "Default", "History")
	default:
		return filepath.Join(home, ".config", "google-chrome", "Default", "History")
	}
}

// Visits returns up to limit URLs ordered by most recent visit.
// Chrome keeps the database locked while running, so it is copied to a temporary file first.
func (c *ChromeHistory) Visits(ctx context.Context, limit int) ([]Visit, error) {
	if _, err := os.Stat(c.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: Chrome history database %s", models.ErrNotFound, c.Path)
		}
		return nil, fmt.Errorf("stat history database: %w", err)
	}
	tmp, err := copyToTemp(c.Path)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp)

	db, err := sql.Open("sqlite3", "file:"+tmp+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, historyQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query history database: %v", models.ErrParse, err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			url   string
			title sql.NullString
			ts    int64
		)
		if err := rows.Scan(&url, &title, &ts); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		visits = append(visits, Visit{URL: url, Title: title.String, VisitTime: ChromeTime(ts)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}
	return visits, nil
}

// ChromeTime converts a Chrome timestamp (microseconds since 1601-01-01 UTC) to time.Time.
func ChromeTime(micros int64) time.Time {
	if micros <= 0 {
		return time.Time{}
	}
	return time.UnixMicro(micros - chromeEpochOffset).UTC()
}

func copyToTemp(src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open history database: %w", err)
	}
	defer in.Close()
	out, err := os.CreateTemp("", "recall-history-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("create temp copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("copy history database: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("close temp copy: %w", err)
	}
	return out.Name(), nil
}
