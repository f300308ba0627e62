// Package embedding turns text into fixed-length vectors using a local ONNX model,
// an OpenAI-compatible HTTP API, or a deterministic mock.
package embedding

import "context"

// Embedder produces vector embeddings for text.
// Implementations wrap failures with models.ErrExternalCapability.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// Provider names accepted in configuration.
const (
	ProviderLocal  = "local"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"
)

// embedEach embeds texts one at a time, stopping at the first failure.
func embedEach(ctx context.Context, texts []string, embed func(context.Context, string) ([]float32, error)) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v, err := embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
