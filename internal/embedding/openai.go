package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hyperjump/recall/internal/models"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "text-embedding-3-small"
	maxRetryAfter        = 30 * time.Second
)

// OpenAIConfig configures the OpenAI-compatible embeddings client.
type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Dimensions  int // 0 means learned from the first response
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
}

// OpenAIEmbedder calls POST {base}/embeddings on any OpenAI-compatible API.
// Rate limits and server errors are retried with exponential backoff, honouring Retry-After.
type OpenAIEmbedder struct {
	client      *resty.Client
	model       string
	maxRetries  uint64
	backoffBase time.Duration
	logger      *zap.Logger

	mu         sync.RWMutex
	dimensions int
}

// OpenAIOption configures an OpenAIEmbedder.
type OpenAIOption func(*OpenAIEmbedder)

// WithOpenAILogger sets a logger for retry diagnostics.
func WithOpenAILogger(l *zap.Logger) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.logger = l }
}

// NewOpenAIEmbedder creates a client. The API key is required.
func NewOpenAIEmbedder(cfg OpenAIConfig, opts ...OpenAIOption) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing embeddings API key", models.ErrInvalidConfiguration)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOpenAIBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 500 * time.Millisecond
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetAuthToken(cfg.APIKey)
	e := &OpenAIEmbedder{
		client:      client,
		model:       cfg.Model,
		maxRetries:  uint64(cfg.MaxRetries),
		backoffBase: cfg.BackoffBase,
		dimensions:  cfg.Dimensions,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed returns the embedding for a single text.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds all texts in one request.
func (e *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	backoff := retry.WithMaxRetries(e.maxRetries,
		retry.WithJitter(50*time.Millisecond, retry.WithMaxDuration(time.Minute, retry.NewExponential(e.backoffBase))))

	var parsed embeddingsResponse
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		resp, err := e.client.R().
			SetContext(ctx).
			SetBody(embeddingsRequest{Input: texts, Model: e.model}).
			Post("/embeddings")
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.logger.Debug("embeddings request failed", zap.Int("attempt", attempt), zap.Error(err))
			return retry.RetryableError(err)
		}
		code := resp.StatusCode()
		if code == http.StatusTooManyRequests || code >= 500 {
			e.logger.Debug("embeddings request throttled",
				zap.Int("attempt", attempt), zap.Int("status", code))
			if wait := retryAfter(resp.Header().Get("Retry-After")); wait > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(wait):
				}
			}
			return retry.RetryableError(fmt.Errorf("embeddings API returned %s", resp.Status()))
		}
		if code >= 300 {
			return fmt.Errorf("embeddings API returned %s: %s", resp.Status(), truncateBody(resp.String()))
		}
		parsed = embeddingsResponse{}
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return fmt.Errorf("decode embeddings response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrExternalCapability, err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("%w: expected %d embeddings, got %d", models.ErrExternalCapability, len(texts), len(parsed.Data))
	}
	sort.SliceStable(parsed.Data, func(i, j int) bool { return parsed.Data[i].Index < parsed.Data[j].Index })
	out := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", models.ErrExternalCapability, d.Index)
		}
		out[i] = d.Embedding
	}
	e.mu.Lock()
	if e.dimensions == 0 {
		e.dimensions = len(out[0])
	}
	e.mu.Unlock()
	return out, nil
}

// Dimensions returns the configured dimension, or the one observed in the first response.
func (e *OpenAIEmbedder) Dimensions() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.dimensions
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (e *OpenAIEmbedder) Close() error {
	return nil
}

func retryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}

func truncateBody(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
