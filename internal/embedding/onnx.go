//go:build cgo
// +build cgo

package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/pkg/utils"
	ort "github.com/yalue/onnxruntime_go"
)

// Model input names, in the order Tokenize returns them.
var onnxInputs = []string{"input_ids", "attention_mask", "token_type_ids"}

// ONNXEmbedder runs a sentence-transformer model (all-MiniLM-L6-v2 by default) through ONNX Runtime.
// It requires CGO and the onnxruntime shared library. One inference runs at a time.
type ONNXEmbedder struct {
	mu         sync.Mutex
	session    *ort.AdvancedSession
	inputs     []*ort.Tensor[int64]
	output     *ort.Tensor[float32]
	tokenizer  Tokenizer
	dimensions int
	maxTokens  int
}

// NewONNXEmbedder loads the model at modelPath, initializing the runtime on first use.
func NewONNXEmbedder(modelPath string, dimensions, maxTokens int) (*ONNXEmbedder, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("%w: embedding model path is empty", models.ErrInvalidConfiguration)
	}
	if dimensions <= 0 || maxTokens <= 1 {
		return nil, fmt.Errorf("%w: dimensions=%d max_tokens=%d", models.ErrInvalidConfiguration, dimensions, maxTokens)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("%w: initialize ONNX runtime: %v", models.ErrExternalCapability, err)
		}
	}

	e := &ONNXEmbedder{tokenizer: &SimpleTokenizer{}, dimensions: dimensions, maxTokens: maxTokens}
	shape := ort.NewShape(1, int64(maxTokens))
	bound := make([]ort.ArbitraryTensor, 0, len(onnxInputs))
	for _, name := range onnxInputs {
		t, err := ort.NewEmptyTensor[int64](shape)
		if err != nil {
			_ = e.release()
			return nil, fmt.Errorf("%w: create %s tensor: %v", models.ErrExternalCapability, name, err)
		}
		e.inputs = append(e.inputs, t)
		bound = append(bound, t)
	}
	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(dimensions)))
	if err != nil {
		_ = e.release()
		return nil, fmt.Errorf("%w: create output tensor: %v", models.ErrExternalCapability, err)
	}
	e.output = out

	e.session, err = ort.NewAdvancedSession(modelPath, onnxInputs, []string{"output"},
		bound, []ort.ArbitraryTensor{out}, nil)
	if err != nil {
		_ = e.release()
		return nil, fmt.Errorf("%w: create ONNX session for %s: %v", models.ErrExternalCapability, modelPath, err)
	}
	return e, nil
}

// Embed runs one inference and returns the unit-length embedding for text.
func (e *ONNXEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExternalCapability, err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, fmt.Errorf("%w: embedder is closed", models.ErrExternalCapability)
	}

	ids, mask, types := e.tokenizer.Tokenize(text, e.maxTokens)
	for i, data := range [][]int64{ids, mask, types} {
		copy(e.inputs[i].GetData(), data)
	}
	if err := e.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: inference failed: %v", models.ErrExternalCapability, err)
	}

	vec := make([]float32, e.dimensions)
	copy(vec, e.output.GetData())
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds texts sequentially; the session holds a single input row.
func (e *ONNXEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return embedEach(ctx, texts, e.Embed)
}

// Dimensions returns the embedding dimension.
func (e *ONNXEmbedder) Dimensions() int {
	return e.dimensions
}

// Close destroys the session and its tensors. Further Embed calls fail.
func (e *ONNXEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.release()
}

func (e *ONNXEmbedder) release() error {
	var err error
	if e.session != nil {
		err = e.session.Destroy()
		e.session = nil
	}
	for _, t := range e.inputs {
		_ = t.Destroy()
	}
	e.inputs = nil
	if e.output != nil {
		_ = e.output.Destroy()
		e.output = nil
	}
	return err
}
