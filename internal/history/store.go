// Package history keeps the log of executed searches and persists it as one JSON file.
package history

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/storage"
	"go.uber.org/zap"
)

// Store is an append-only list of search history entries.
// Every Append rewrites the whole file.
type Store struct {
	path    string
	entries []models.SearchHistoryEntry
	logger  *zap.Logger
	mu      sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets a logger for persistence diagnostics.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty store backed by path. An empty path keeps history in memory only.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:    path,
		entries: make([]models.SearchHistoryEntry, 0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory entries with the persisted ones.
// A missing file yields models.ErrNotFound. On any failure the store is left empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make([]models.SearchHistoryEntry, 0)
	if s.path == "" {
		return nil
	}
	var entries []models.SearchHistoryEntry
	if err := storage.ReadJSON(s.path, &entries); err != nil {
		return fmt.Errorf("load search history: %w", err)
	}
	if entries != nil {
		s.entries = entries
	}
	s.logger.Debug("search history loaded", zap.String("path", s.path), zap.Int("entries", len(s.entries)))
	return nil
}

// Append records entry and persists the full history.
// If persisting fails the entry stays in memory and an error wrapping models.ErrPersistence is returned.
func (s *Store) Append(entry models.SearchHistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ResultURLs == nil {
		entry.ResultURLs = []string{}
	}
	s.entries = append(s.entries, entry)
	if s.path == "" {
		return nil
	}
	if err := storage.WriteJSONAtomic(s.path, s.entries); err != nil {
		return fmt.Errorf("save search history: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. Entries with equal timestamps
// are ordered by insertion, the later-appended one first.
func (s *Store) Recent(limit int) []models.SearchHistoryEntry {
	if limit <= 0 {
		return []models.SearchHistoryEntry{}
	}
	s.mu.Lock()
	out := make([]models.SearchHistoryEntry, len(s.entries))
	for i, e := range s.entries {
		out[len(s.entries)-1-i] = e
	}
	s.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}
