package scraper

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/recall/internal/models"
)

func chromeMicros(t time.Time) int64 {
	return t.UnixMicro() + chromeEpochOffset
}

func createHistoryDB(t *testing.T, visits []Visit) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE urls (
		id INTEGER PRIMARY KEY,
		url LONGVARCHAR,
		title LONGVARCHAR,
		visit_count INTEGER DEFAULT 0 NOT NULL,
		last_visit_time INTEGER NOT NULL)`); err != nil {
		t.Fatal(err)
	}
	for _, v := range visits {
		if _, err := db.Exec(`INSERT INTO urls (url, title, last_visit_time) VALUES (?, ?, ?)`,
			v.URL, v.Title, chromeMicros(v.VisitTime)); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func TestChromeTime(t *testing.T) {
	want := time.Unix(1700000000, 0).UTC()
	if got := ChromeTime(13344473600000000); !got.Equal(want) {
		t.Errorf("ChromeTime() = %v, want %v", got, want)
	}
	if got := ChromeTime(0); !got.IsZero() {
		t.Errorf("ChromeTime(0) = %v, want zero", got)
	}
}

func TestChromeHistory_Visits(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	path := createHistoryDB(t, []Visit{
		{URL: "https://a.example", Title: "A", VisitTime: base},
		{URL: "https://c.example", Title: "C", VisitTime: base.Add(2 * time.Hour)},
		{URL: "https://b.example", Title: "B", VisitTime: base.Add(time.Hour)},
	})

	visits, err := NewChromeHistory(path).Visits(context.Background(), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(visits) != 2 {
		t.Fatalf("expected 2 visits, got %d", len(visits))
	}
	if visits[0].URL != "https://c.example" || visits[1].URL != "https://b.example" {
		t.Errorf("unexpected order: %v, %v", visits[0].URL, visits[1].URL)
	}
	if !visits[0].VisitTime.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("visit time = %v", visits[0].VisitTime)
	}
}

func TestChromeHistory_Missing(t *testing.T) {
	h := NewChromeHistory(filepath.Join(t.TempDir(), "History"))
	if _, err := h.Visits(context.Background(), 10); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDefaultChromeHistoryPath(t *testing.T) {
	if p := DefaultChromeHistoryPath(); filepath.Base(p) != "History" {
		t.Errorf("unexpected default path %s", p)
	}
}
