package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/hyperjump/recall/internal/progress"
	"github.com/hyperjump/recall/internal/storage"
	"go.uber.org/zap"
)

// SummaryFile is written to the output directory after every run.
const SummaryFile = "summary.json"

// SummaryEntry describes one saved page.
type SummaryEntry struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	VisitTime string `json:"visit_time"`
	TextFile  string `json:"text_file"`
}

// Report counts what a run did.
type Report struct {
	Visits  int
	Written int
	Skipped int
	Failed  int
	Entries []SummaryEntry
}

// Scraper turns recent history visits into text files for ingestion.
type Scraper struct {
	source   HistorySource
	fetcher  PageFetcher
	outDir   string
	logger   *zap.Logger
	progress progress.Reporter
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithProgress sets the progress reporter.
func WithProgress(p progress.Reporter) Option {
	return func(s *Scraper) { s.progress = p }
}

// New creates a scraper writing into outDir.
func New(source HistorySource, fetcher PageFetcher, outDir string, opts ...Option) *Scraper {
	s := &Scraper{
		source:   source,
		fetcher:  fetcher,
		outDir:   outDir,
		logger:   zap.NewNop(),
		progress: progress.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run fetches up to limit of the most recent visits. Pages that cannot be fetched or have no text
// are logged and skipped. A summary.json listing the saved files is written at the end.
func (s *Scraper) Run(ctx context.Context, limit int) (*Report, error) {
	visits, err := s.source.Visits(ctx, limit)
	if err != nil {
		return nil, err
	}
	report := &Report{Visits: len(visits), Entries: []SummaryEntry{}}
	s.logger.Info("Scraping history", zap.Int("visits", len(visits)), zap.String("out", s.outDir))

	s.progress.Start(len(visits))
	defer s.progress.Finish()
	for _, v := range visits {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		entry, err := s.scrape(ctx, v)
		s.progress.Increment()
		switch {
		case err == nil:
			report.Written++
			report.Entries = append(report.Entries, *entry)
		case errors.Is(err, errSkipped):
			report.Skipped++
			s.logger.Debug("Skipping visit", zap.String("url", v.URL), zap.Error(err))
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return report, err
		default:
			report.Failed++
			s.logger.Warn("Failed to scrape page", zap.String("url", v.URL), zap.Error(err))
		}
	}

	if err := storage.WriteJSONAtomic(filepath.Join(s.outDir, SummaryFile), report.Entries); err != nil {
		return report, fmt.Errorf("write summary: %w", err)
	}
	s.logger.Info("Scrape finished",
		zap.Int("written", report.Written),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))
	return report, nil
}

var errSkipped = errors.New("skipped")

func (s *Scraper) scrape(ctx context.Context, v Visit) (*SummaryEntry, error) {
	if !fetchable(v.URL) {
		return nil, fmt.Errorf("%w: unsupported scheme", errSkipped)
	}
	page, err := s.fetcher.Fetch(ctx, v.URL)
	if err != nil {
		return nil, err
	}
	if page.Text == "" {
		return nil, fmt.Errorf("%w: no text", errSkipped)
	}
	if v.Title == "" {
		v.Title = page.Title
	}
	path, err := WriteDocument(s.outDir, v, page.Text)
	if err != nil {
		return nil, err
	}
	return &SummaryEntry{
		URL:       v.URL,
		Title:     v.Title,
		VisitTime: v.VisitTime.Format(visitTimeLayout),
		TextFile:  path,
	}, nil
}

func fetchable(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
