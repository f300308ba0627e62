package watcher

import (
	"context"
	"errors"
	"sync"

	"github.com/hyperjump/recall/internal/indexer"
	"go.uber.org/zap"
)

// FileIngester adds one scraped file to the index.
type FileIngester interface {
	IngestFile(ctx context.Context, path string) (int, error)
}

// IndexSaver persists the index.
type IndexSaver interface {
	Save(path string) error
}

// IngestHandler returns an onChange callback that ingests a new file into the live index and,
// when chunks were added, saves the embedding store to storePath. Files already in the index
// are logged and left as they are. Calls are serialized.
func IngestHandler(ctx context.Context, ing FileIngester, index IndexSaver, storePath string, logger *zap.Logger) func(path string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var mu sync.Mutex
	return func(path string) {
		mu.Lock()
		defer mu.Unlock()
		n, err := ing.IngestFile(ctx, path)
		switch {
		case errors.Is(err, indexer.ErrAlreadyIngested):
			// Chunks are never removed, so edits to an indexed page take effect on the next full ingest.
			logger.Info("file already indexed, changes apply after `recall ingest`", zap.String("path", path))
			return
		case errors.Is(err, indexer.ErrEmptyDocument):
			logger.Debug("watcher skipped empty file", zap.String("path", path))
			return
		case err != nil:
			logger.Warn("watcher failed to ingest file", zap.String("path", path), zap.Error(err))
			return
		case n == 0:
			return
		}
		if err := index.Save(storePath); err != nil {
			logger.Error("failed to save embedding store", zap.String("path", storePath), zap.Error(err))
			return
		}
		logger.Info("ingested new file", zap.String("path", path), zap.Int("chunks", n))
	}
}
