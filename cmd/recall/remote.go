package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hyperjump/recall/internal/models"
)

// remoteClient talks to a running `recall server`.
type remoteClient struct {
	client *resty.Client
}

type apiError struct {
	Error string `json:"error"`
}

func newRemoteClient(baseURL string) *remoteClient {
	return &remoteClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(60*time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// Search posts the query to /api/v1/search.
func (c *remoteClient) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	var out struct {
		Results []models.SearchResult `json:"results"`
	}
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"query": query}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/api/v1/search")
	if err := checkResponse(resp, err, &apiErr); err != nil {
		return nil, err
	}
	return &models.SearchResponse{
		Results: out.Results,
		Query:   models.SearchRequest{QueryText: query, RequestedResultCount: len(out.Results)},
	}, nil
}

// History fetches the most recent searches.
func (c *remoteClient) History(ctx context.Context, limit int) ([]models.SearchHistoryEntry, error) {
	var out struct {
		History []models.SearchHistoryEntry `json:"history"`
	}
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/v1/history")
	if err := checkResponse(resp, err, &apiErr); err != nil {
		return nil, err
	}
	return out.History, nil
}

// Status fetches /api/v1/status.
func (c *remoteClient) Status(ctx context.Context) (*statusResponse, error) {
	var out statusResponse
	var apiErr apiError
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&apiErr).
		Get("/api/v1/status")
	if err := checkResponse(resp, err, &apiErr); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkResponse(resp *resty.Response, err error, apiErr *apiError) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
