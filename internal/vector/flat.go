package vector

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hyperjump/recall/internal/models"
)

var _ VectorIndex = (*FlatIndex)(nil)

// FlatIndex is an in-memory index using exact brute-force L2 search.
// chunks[i] is the metadata for vectors[i]; positions are never reused.
type FlatIndex struct {
	dimensions int
	chunks     []models.Chunk
	vectors    [][]float32
	mu         sync.RWMutex
}

// NewFlatIndex creates an empty index. Its dimensionality is fixed by the first insertion.
func NewFlatIndex() *FlatIndex {
	return &FlatIndex{
		chunks:  make([]models.Chunk, 0),
		vectors: make([][]float32, 0),
	}
}

// Insert appends a chunk and its embedding. Both are stored or neither is.
func (f *FlatIndex) Insert(ctx context.Context, chunk models.Chunk, vector []float32) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector for chunk %s", models.ErrDimensionMismatch, chunk.ChunkID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dimensions != 0 && len(vector) != f.dimensions {
		return fmt.Errorf("%w: got %d, expected %d", models.ErrDimensionMismatch, len(vector), f.dimensions)
	}
	vec := make([]float32, len(vector))
	copy(vec, vector)
	if f.dimensions == 0 {
		f.dimensions = len(vec)
	}
	f.chunks = append(f.chunks, chunk)
	f.vectors = append(f.vectors, vec)
	return nil
}

// Search returns up to k hits ordered by ascending distance. Equal distances keep insertion order.
// An empty index yields no hits regardless of the query.
func (f *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]*Hit, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if k <= 0 || len(f.vectors) == 0 {
		return []*Hit{}, nil
	}
	if len(query) != f.dimensions {
		return nil, fmt.Errorf("%w: query has %d, index has %d", models.ErrDimensionMismatch, len(query), f.dimensions)
	}
	type scored struct {
		pos  int
		dist float64
	}
	scores := make([]scored, len(f.vectors))
	for i, vec := range f.vectors {
		scores[i] = scored{pos: i, dist: SquaredL2(query, vec)}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].dist < scores[j].dist })
	if k > len(scores) {
		k = len(scores)
	}
	hits := make([]*Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = &Hit{Chunk: f.chunks[scores[i].pos], Distance: scores[i].dist}
	}
	return hits, nil
}

// Size returns the number of stored entries.
func (f *FlatIndex) Size() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.chunks)
}

// Dimensions returns the fixed dimensionality, or 0 while the index is empty.
func (f *FlatIndex) Dimensions() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dimensions
}

// Chunks returns a copy of the stored chunk metadata in insertion order.
func (f *FlatIndex) Chunks() []models.Chunk {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Chunk, len(f.chunks))
	copy(out, f.chunks)
	return out
}

// Close is a no-op for FlatIndex.
func (f *FlatIndex) Close() error {
	return nil
}

func (f *FlatIndex) reset() {
	f.dimensions = 0
	f.chunks = make([]models.Chunk, 0)
	f.vectors = make([][]float32, 0)
}
