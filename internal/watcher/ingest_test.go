package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hyperjump/recall/internal/embedding"
	"github.com/hyperjump/recall/internal/indexer"
	"github.com/hyperjump/recall/internal/vector"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeIngester struct {
	chunks int
	err    error
	calls  int
}

func (f *fakeIngester) IngestFile(context.Context, string) (int, error) {
	f.calls++
	return f.chunks, f.err
}

type countingSaver struct {
	saves int
	err   error
}

func (c *countingSaver) Save(string) error {
	c.saves++
	return c.err
}

func TestIngestHandler_SavesOnlyWhenChunksAdded(t *testing.T) {
	tests := []struct {
		name      string
		ing       *fakeIngester
		wantSaves int
	}{
		{"ingested", &fakeIngester{chunks: 3}, 1},
		{"already ingested", &fakeIngester{err: fmt.Errorf("%w: doc", indexer.ErrAlreadyIngested)}, 0},
		{"empty", &fakeIngester{err: indexer.ErrEmptyDocument}, 0},
		{"failure", &fakeIngester{err: errors.New("boom")}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &countingSaver{}
			h := IngestHandler(context.Background(), tt.ing, saver, "store.json", zap.NewNop())
			h("page.txt")
			if tt.ing.calls != 1 {
				t.Errorf("expected 1 ingest call, got %d", tt.ing.calls)
			}
			if saver.saves != tt.wantSaves {
				t.Errorf("saves = %d, want %d", saver.saves, tt.wantSaves)
			}
		})
	}
}

func TestIngestHandler_LogsChangedIndexedFile(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ing := &fakeIngester{err: fmt.Errorf("%w: page", indexer.ErrAlreadyIngested)}
	h := IngestHandler(context.Background(), ing, &countingSaver{}, "store.json", zap.New(core))
	h("scraped/page.txt")

	entries := logs.FilterField(zap.String("path", "scraped/page.txt")).All()
	if len(entries) != 1 || entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("expected one info entry for the skipped file, got %v", entries)
	}

	core, logs = observer.New(zapcore.InfoLevel)
	h = IngestHandler(context.Background(), &fakeIngester{err: indexer.ErrEmptyDocument}, &countingSaver{}, "store.json", zap.New(core))
	h("scraped/empty.txt")
	if logs.Len() != 0 {
		t.Errorf("empty documents should only be logged at debug, got %d entries", logs.Len())
	}
}

func TestIngestHandler_LiveIndex(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	storePath := filepath.Join(dir, "embeddings.json")
	idx := vector.NewFlatIndex()
	chunker, err := indexer.NewChunker(50, 10)
	if err != nil {
		t.Fatal(err)
	}
	ing, err := indexer.NewIngester(idx, embedding.NewMockEmbedder(8), chunker)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "Go_20240101_000000.txt")
	if err := writeFile(path, "URL: https://go.dev\nTitle: Go\nVisit Time: 2024-01-01 00:00:00\n\nThe Go programming language"); err != nil {
		t.Fatal(err)
	}

	h := IngestHandler(ctx, ing, idx, storePath, nil)
	h(path)
	h(path)

	if idx.Size() != 1 {
		t.Fatalf("expected 1 chunk after two events, got %d", idx.Size())
	}
	reloaded := vector.NewFlatIndex()
	if err := reloaded.Load(storePath); err != nil {
		t.Fatal(err)
	}
	if reloaded.Size() != 1 || reloaded.Chunks()[0].URL != "https://go.dev" {
		t.Errorf("unexpected saved store: %+v", reloaded.Chunks())
	}
}
