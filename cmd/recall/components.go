package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/recall/internal/config"
	"github.com/hyperjump/recall/internal/embedding"
	"github.com/hyperjump/recall/internal/history"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/search"
	"github.com/hyperjump/recall/internal/vector"
)

// Components holds the services shared by the query paths.
type Components struct {
	Embedder embedding.Embedder
	Index    *vector.FlatIndex
	History  *history.Store
	Executor *search.Executor
}

// Close releases the embedder and the index.
func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Index != nil {
		_ = c.Index.Close()
	}
}

// newEmbedder builds the configured provider, wrapped in an LRU cache when cache_size > 0.
func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	var (
		inner embedding.Embedder
		err   error
	)
	switch cfg.Embedding.Provider {
	case embedding.ProviderLocal:
		inner, err = embedding.NewONNXEmbedder(cfg.Embedding.ModelPath, cfg.Embedding.Dimensions, cfg.Embedding.MaxTokens)
	case embedding.ProviderOpenAI:
		o := cfg.Embedding.OpenAI
		inner, err = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:    o.BaseURL,
			APIKey:     o.APIKey(),
			Model:      o.Model,
			Timeout:    time.Duration(o.TimeoutSecs) * time.Second,
			MaxRetries: o.MaxRetries,
		}, embedding.WithOpenAILogger(logger))
	case embedding.ProviderMock:
		inner = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", models.ErrInvalidConfiguration, cfg.Embedding.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s embedder: %w", cfg.Embedding.Provider, err)
	}
	logger.Info("embedder initialized", zap.String("provider", cfg.Embedding.Provider), zap.Int("dimensions", inner.Dimensions()))
	if cfg.Embedding.CacheSize <= 0 {
		return inner, nil
	}
	cached, err := embedding.NewCachedEmbedder(inner, cfg.Embedding.CacheSize)
	if err != nil {
		_ = inner.Close()
		return nil, err
	}
	return cached, nil
}

// openHistory loads the history store. Load problems are logged and leave history empty.
func openHistory(cfg *config.Config, logger *zap.Logger) *history.Store {
	hist := history.NewStore(cfg.Storage.HistoryPath, history.WithLogger(logger))
	if err := hist.Load(); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			logger.Info("no search history yet", zap.String("path", cfg.Storage.HistoryPath))
		} else {
			logger.Warn("search history unreadable, starting empty", zap.Error(err))
		}
	}
	return hist
}

// initializeComponents loads the embedding store and history and wires the executor.
// A missing embedding store is an error: there is nothing to search until `recall ingest` has run.
// An unreadable store is logged and the index starts empty.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	index := vector.NewFlatIndex()
	if err := index.Load(cfg.Storage.EmbeddingsPath); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s not found, run `recall ingest` first: %w", cfg.Storage.EmbeddingsPath, err)
		}
		logger.Error("embedding store unreadable, starting with an empty index", zap.Error(err))
	} else {
		logger.Info("Successfully loaded chunks", zap.Int("chunks", index.Size()), zap.Int("dimensions", index.Dimensions()))
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}
	if d := index.Dimensions(); d != 0 && embedder.Dimensions() != 0 && d != embedder.Dimensions() {
		logger.Warn("embedder and store dimensions differ; re-run ingest with this embedder",
			zap.Int("store", d), zap.Int("embedder", embedder.Dimensions()))
	}

	hist := openHistory(cfg, logger)
	exec := search.NewExecutor(index, embedder, hist, search.WithLogger(logger))
	return &Components{
		Embedder: embedder,
		Index:    index,
		History:  hist,
		Executor: exec,
	}, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
