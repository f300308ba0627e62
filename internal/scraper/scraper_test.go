package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/storage"
)

type staticSource struct {
	visits []Visit
	err    error
}

func (s staticSource) Visits(_ context.Context, limit int) ([]Visit, error) {
	if s.err != nil {
		return nil, s.err
	}
	if limit < len(s.visits) {
		return s.visits[:limit], nil
	}
	return s.visits, nil
}

type mapFetcher map[string]*Page

func (m mapFetcher) Fetch(_ context.Context, url string) (*Page, error) {
	p, ok := m[url]
	if !ok {
		return nil, models.ErrExternalCapability
	}
	return p, nil
}

func TestScraper_Run(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	source := staticSource{visits: []Visit{
		{URL: "https://ok.example", Title: "OK", VisitTime: at},
		{URL: "chrome://settings", Title: "Settings", VisitTime: at},
		{URL: "https://down.example", Title: "Down", VisitTime: at},
		{URL: "https://blank.example", Title: "Blank", VisitTime: at},
		{URL: "https://untitled.example", VisitTime: at.Add(time.Second)},
	}}
	fetcher := mapFetcher{
		"https://ok.example":       {Text: "some text"},
		"https://blank.example":    {Text: ""},
		"https://untitled.example": {Title: "From Page", Text: "more text"},
	}
	dir := t.TempDir()

	report, err := New(source, fetcher, dir).Run(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if report.Visits != 5 || report.Written != 2 || report.Skipped != 2 || report.Failed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Entries[1].Title != "From Page" {
		t.Errorf("expected page title fallback, got %q", report.Entries[1].Title)
	}
	if _, err := os.Stat(filepath.Join(dir, "OK_20240203_040506.txt")); err != nil {
		t.Errorf("expected scraped file: %v", err)
	}

	var summary []SummaryEntry
	if err := storage.ReadJSON(filepath.Join(dir, SummaryFile), &summary); err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 || summary[0].URL != "https://ok.example" || summary[0].VisitTime != "2024-02-03 04:05:06" {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestScraper_SourceError(t *testing.T) {
	s := New(staticSource{err: models.ErrNotFound}, mapFetcher{}, t.TempDir())
	if _, err := s.Run(context.Background(), 10); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
