// Package vector provides the flat exact nearest-neighbour index over chunk embeddings.
package vector

import (
	"context"

	"github.com/hyperjump/recall/internal/models"
)

// VectorIndex stores chunk embeddings and answers k-nearest-neighbour queries.
type VectorIndex interface {
	Insert(ctx context.Context, chunk models.Chunk, vector []float32) error
	Search(ctx context.Context, query []float32, k int) ([]*Hit, error)
	Size() int
	Dimensions() int
	Chunks() []models.Chunk
	Save(path string) error
	Load(path string) error
	Close() error
}

// Hit is a single search hit. Distance is the squared L2 distance to the query.
type Hit struct {
	Chunk    models.Chunk
	Distance float64
}
