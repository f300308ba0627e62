package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hyperjump/recall/internal/models"
	"golang.org/x/time/rate"
)

// Page is a fetched web page.
type Page struct {
	Title string
	Text  string
}

// PageFetcher downloads a URL and returns its text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Fetcher downloads pages over HTTP, paced by a token bucket so sites are not hammered.
type Fetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher. requestsPerSecond <= 0 disables pacing.
func NewFetcher(timeout time.Duration, requestsPerSecond float64, userAgent string) *Fetcher {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	return &Fetcher{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch GETs url and extracts its text. Non-2xx responses and transport errors wrap models.ErrExternalCapability.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", models.ErrExternalCapability, url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch %s: %s", models.ErrExternalCapability, url, resp.Status())
	}
	body := resp.String()
	return &Page{Title: ExtractTitle(body), Text: ExtractText(body)}, nil
}
