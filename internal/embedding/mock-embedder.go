package embedding

import (
	"context"
	"math"

	"github.com/hyperjump/recall/pkg/utils"
)

const defaultMockDimensions = 384

// MockEmbedder derives a unit vector from a hash of the text. Equal texts get equal vectors;
// it carries no semantics and is meant for tests and offline runs.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a mock embedder; non-positive dimensions fall back to 384.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = defaultMockDimensions
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed never fails.
func (e *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	seed := float64(HashString(text)%100003 + 1)
	vec := make([]float32, e.dimensions)
	for i := range vec {
		vec[i] = float32(math.Sin(seed*float64(i+1)) + 0.05)
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

func (e *MockEmbedder) Dimensions() int { return e.dimensions }

func (e *MockEmbedder) Close() error { return nil }
