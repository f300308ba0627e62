package vector

import (
	"fmt"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/storage"
)

// embeddingStore is the on-disk shape of the index: embeddings[i] belongs to metadata[i].
type embeddingStore struct {
	Embeddings [][]float32     `json:"embeddings"`
	Metadata   []models.Chunk `json:"metadata"`
}

// Save writes every entry to path, replacing the previous file atomically.
func (f *FlatIndex) Save(path string) error {
	f.mu.RLock()
	payload := embeddingStore{
		Embeddings: f.vectors,
		Metadata:   f.chunks,
	}
	err := storage.WriteJSONAtomic(path, payload)
	f.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("save embedding store: %w", err)
	}
	return nil
}

// Load replaces the index contents with the entries stored at path.
// A missing file yields models.ErrNotFound. On any failure the index is left empty.
func (f *FlatIndex) Load(path string) error {
	var payload embeddingStore
	if err := storage.ReadJSON(path, &payload); err != nil {
		f.mu.Lock()
		f.reset()
		f.mu.Unlock()
		return fmt.Errorf("load embedding store: %w", err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	if len(payload.Embeddings) != len(payload.Metadata) {
		return fmt.Errorf("load embedding store: %w: %d embeddings for %d metadata entries",
			models.ErrParse, len(payload.Embeddings), len(payload.Metadata))
	}
	dims := 0
	for i, vec := range payload.Embeddings {
		if len(vec) == 0 || (dims != 0 && len(vec) != dims) {
			f.reset()
			return fmt.Errorf("load embedding store: %w: entry %d has %d dimensions", models.ErrDimensionMismatch, i, len(vec))
		}
		dims = len(vec)
	}
	f.dimensions = dims
	f.chunks = payload.Metadata
	f.vectors = payload.Embeddings
	return nil
}
