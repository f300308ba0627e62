// Package search runs planned queries against the vector index and records them in the history.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hyperjump/recall/internal/embedding"
	"github.com/hyperjump/recall/internal/history"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/planner"
	"github.com/hyperjump/recall/internal/vector"
	"go.uber.org/zap"
)

// Executor performs searches. It is safe for concurrent use; the index and history store
// serialize their own state.
type Executor struct {
	index    vector.VectorIndex
	embedder embedding.Embedder
	history  *history.Store
	logger   *zap.Logger
	now      func() time.Time
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets a logger for search diagnostics.
func WithLogger(l *zap.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) ExecutorOption {
	return func(e *Executor) { e.now = now }
}

// NewExecutor creates an executor over the given index, embedder and history store.
func NewExecutor(index vector.VectorIndex, embedder embedding.Embedder, hist *history.Store, opts ...ExecutorOption) *Executor {
	e := &Executor{
		index:    index,
		embedder: embedder,
		history:  hist,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute embeds the query, finds the nearest chunks and appends a history entry.
// The entry is recorded even when nothing matched; a failure to persist it is logged, not returned.
func (e *Executor) Execute(ctx context.Context, plan planner.SearchPlan) (*models.SearchResponse, error) {
	req := plan.Request
	if err := ProcessRequest(&req); err != nil {
		return nil, err
	}
	queryVec, err := e.embedder.Embed(ctx, req.QueryText)
	if err != nil {
		if !errors.Is(err, models.ErrExternalCapability) {
			err = fmt.Errorf("%w: %v", models.ErrExternalCapability, err)
		}
		return nil, fmt.Errorf("embed query: %w", err)
	}
	hits, err := e.index.Search(ctx, queryVec, req.RequestedResultCount)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	results := make([]models.SearchResult, 0, len(hits))
	for _, h := range hits {
		results = append(results, models.SearchResult{
			URL:             h.Chunk.URL,
			Content:         h.Chunk.Text,
			SimilarityScore: h.Distance,
		})
	}
	resp := &models.SearchResponse{
		Results:             results,
		Query:               req,
		TotalChunksSearched: e.index.Size(),
	}

	entry := models.SearchHistoryEntry{
		QueryText:   req.QueryText,
		Timestamp:   e.now(),
		ResultCount: len(results),
		ResultURLs:  resp.URLs(),
	}
	if err := e.history.Append(entry); err != nil {
		e.logger.Warn("failed to persist search history", zap.String("query", req.QueryText), zap.Error(err))
	}
	e.logger.Debug("search executed",
		zap.String("query", req.QueryText),
		zap.Int("results", len(results)),
		zap.Int("chunks", resp.TotalChunksSearched))
	return resp, nil
}

// Recent returns up to limit past searches, newest first.
func (e *Executor) Recent(limit int) []models.SearchHistoryEntry {
	return e.history.Recent(limit)
}

// IndexSize returns the number of chunks currently searchable.
func (e *Executor) IndexSize() int {
	return e.index.Size()
}
