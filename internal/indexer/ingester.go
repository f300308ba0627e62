package indexer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hyperjump/recall/internal/embedding"
	"github.com/hyperjump/recall/internal/fileid"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/progress"
	"github.com/hyperjump/recall/internal/vector"
	"go.uber.org/zap"
)

// DefaultPattern matches the scraped text files directly inside the ingestion directory.
const DefaultPattern = "*.txt"

// ErrEmptyDocument is returned by IngestFile for pages whose body has no words.
var ErrEmptyDocument = errors.New("document has no content")

// ErrAlreadyIngested is returned by IngestFile when the document's chunks are already in the index.
var ErrAlreadyIngested = errors.New("document already ingested")

// Report summarizes one directory ingestion.
type Report struct {
	Files    int
	Ingested int
	Skipped  int
	Failed   int
	Chunks   int
}

// Ingester reads scraped files, chunks and embeds them, and inserts the chunks into the index.
type Ingester struct {
	index    vector.VectorIndex
	embedder embedding.Embedder
	chunker  *Chunker
	pattern  string
	logger   *zap.Logger
	progress progress.Reporter

	mu   sync.Mutex
	seen map[string]bool
}

// IngesterOption configures an Ingester.
type IngesterOption func(*Ingester)

// WithLogger sets a logger for per-file diagnostics.
func WithLogger(l *zap.Logger) IngesterOption {
	return func(i *Ingester) { i.logger = l }
}

// WithPattern sets the doublestar pattern that selects files, relative to the ingestion directory.
func WithPattern(pattern string) IngesterOption {
	return func(i *Ingester) { i.pattern = pattern }
}

// WithProgress sets a progress reporter for directory ingestion.
func WithProgress(p progress.Reporter) IngesterOption {
	return func(i *Ingester) { i.progress = p }
}

// NewIngester creates an ingester. Documents whose chunks are already in index are remembered
// so they are not inserted twice.
func NewIngester(index vector.VectorIndex, embedder embedding.Embedder, chunker *Chunker, opts ...IngesterOption) (*Ingester, error) {
	ing := &Ingester{
		index:    index,
		embedder: embedder,
		chunker:  chunker,
		pattern:  DefaultPattern,
		logger:   zap.NewNop(),
		progress: progress.Nop{},
		seen:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(ing)
	}
	if !doublestar.ValidatePattern(ing.pattern) {
		return nil, fmt.Errorf("%w: invalid ingest pattern %q", models.ErrInvalidConfiguration, ing.pattern)
	}
	for _, c := range index.Chunks() {
		ing.seen[fileid.DocIDFromChunkID(c.ChunkID)] = true
	}
	return ing, nil
}

// Matches reports whether path (relative to the ingestion directory) is selected by the pattern.
func (ing *Ingester) Matches(relPath string) bool {
	ok, err := doublestar.Match(ing.pattern, filepath.ToSlash(relPath))
	return err == nil && ok
}

// IngestDirectory ingests every matching file in dir. Failures of individual files are logged
// and counted; they never stop the batch.
func (ing *Ingester) IngestDirectory(ctx context.Context, dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: ingestion directory %s", models.ErrNotFound, dir)
		}
		return nil, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", models.ErrInvalidConfiguration, dir)
	}
	matches, err := doublestar.Glob(os.DirFS(dir), ing.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: glob %q: %v", models.ErrInvalidConfiguration, ing.pattern, err)
	}
	sort.Strings(matches)

	report := &Report{Files: len(matches)}
	ing.progress.Start(len(matches))
	defer ing.progress.Finish()
	for _, rel := range matches {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		path := filepath.Join(dir, filepath.FromSlash(rel))
		n, err := ing.IngestFile(ctx, path)
		ing.progress.Increment()
		switch {
		case err == nil:
			report.Ingested++
			report.Chunks += n
		case errors.Is(err, ErrEmptyDocument), errors.Is(err, ErrAlreadyIngested):
			report.Skipped++
			ing.logger.Debug("skipping file", zap.String("path", path), zap.Error(err))
		case errors.Is(err, models.ErrParse):
			report.Skipped++
			ing.logger.Warn("skipping file without URL header", zap.String("path", path))
		default:
			report.Failed++
			ing.logger.Error("failed to ingest file", zap.String("path", path), zap.Error(err))
		}
	}
	ing.logger.Info("ingestion finished",
		zap.String("dir", dir),
		zap.Int("files", report.Files),
		zap.Int("ingested", report.Ingested),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Int("chunks", report.Chunks))
	return report, nil
}

// IngestFile parses, chunks and embeds one scraped file and inserts its chunks.
// All chunks are embedded and their dimensions checked before the first insertion, so an embedding
// failure or a ragged batch leaves the index untouched.
func (ing *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	docID := fileid.DocID(path)
	ing.mu.Lock()
	defer ing.mu.Unlock()
	if ing.seen[docID] {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyIngested, docID)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		return 0, fmt.Errorf("read file: %w", err)
	}
	url, body, err := ParseDocument(string(content))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	texts := ing.chunker.Chunk(Preprocess(body))
	if len(texts) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyDocument, filepath.Base(path))
	}
	vectors, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks of %s: %w", filepath.Base(path), err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("%w: %d embeddings for %d chunks", models.ErrExternalCapability, len(vectors), len(texts))
	}
	dims := ing.index.Dimensions()
	if dims == 0 {
		dims = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) == 0 || len(v) != dims {
			return 0, fmt.Errorf("%w: embedding %d of %s has %d dimensions, want %d",
				models.ErrDimensionMismatch, i, filepath.Base(path), len(v), dims)
		}
	}
	for i, text := range texts {
		chunk := models.Chunk{URL: url, Text: text, ChunkID: fileid.ChunkID(docID, i)}
		if err := ing.index.Insert(ctx, chunk, vectors[i]); err != nil {
			return i, fmt.Errorf("insert chunk %s: %w", chunk.ChunkID, err)
		}
	}
	ing.seen[docID] = true
	ing.logger.Debug("file ingested", zap.String("path", path), zap.String("url", url), zap.Int("chunks", len(texts)))
	return len(texts), nil
}
