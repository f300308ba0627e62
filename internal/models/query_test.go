package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *SearchRequest
		wantErr bool
	}{
		{"empty query searched as-is", &SearchRequest{QueryText: ""}, false},
		{"valid query", &SearchRequest{QueryText: "hello", RequestedResultCount: 3}, false},
		{"zero count allowed", &SearchRequest{QueryText: "x"}, false},
		{"negative count", &SearchRequest{QueryText: "x", RequestedResultCount: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchRequest_ValidateNegativeIsConfigError(t *testing.T) {
	req := &SearchRequest{QueryText: "x", RequestedResultCount: -2}
	if err := req.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestSearchResponse_URLs(t *testing.T) {
	resp := &SearchResponse{Results: []SearchResult{
		{URL: "https://a.example"},
		{URL: "https://b.example"},
		{URL: "https://a.example"},
	}}
	urls := resp.URLs()
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %d", len(urls))
	}
	if urls[0] != "https://a.example" || urls[1] != "https://b.example" || urls[2] != "https://a.example" {
		t.Errorf("unexpected order: %v", urls)
	}
	empty := &SearchResponse{}
	if got := empty.URLs(); len(got) != 0 {
		t.Errorf("expected no urls, got %v", got)
	}
}

func TestSearchHistoryEntry_UnmarshalTimestampLayouts(t *testing.T) {
	tests := []struct {
		name string
		ts   string
		want time.Time
	}{
		{"rfc3339", "2025-03-01T12:34:56.123456Z", time.Date(2025, 3, 1, 12, 34, 56, 123456000, time.UTC)},
		{"python str", "2025-03-01 12:34:56.123456", time.Date(2025, 3, 1, 12, 34, 56, 123456000, time.Local)},
		{"python str whole seconds", "2025-03-01 12:34:56", time.Date(2025, 3, 1, 12, 34, 56, 0, time.Local)},
		{"python isoformat", "2025-03-01T12:34:56.123456", time.Date(2025, 3, 1, 12, 34, 56, 123456000, time.Local)},
		{"python str with offset", "2025-03-01 12:34:56.5+02:00", time.Date(2025, 3, 1, 10, 34, 56, 500000000, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e SearchHistoryEntry
			data := `{"query":"go generics","timestamp":"` + tt.ts + `","num_results":1,"result_urls":["https://go.dev"]}`
			if err := json.Unmarshal([]byte(data), &e); err != nil {
				t.Fatal(err)
			}
			if !e.Timestamp.Equal(tt.want) {
				t.Errorf("Timestamp = %v, want %v", e.Timestamp, tt.want)
			}
			if e.QueryText != "go generics" || e.ResultCount != 1 || len(e.ResultURLs) != 1 {
				t.Errorf("other fields not decoded: %+v", e)
			}
		})
	}
}

func TestSearchHistoryEntry_UnmarshalBadTimestamp(t *testing.T) {
	var e SearchHistoryEntry
	err := json.Unmarshal([]byte(`{"query":"x","timestamp":"yesterday"}`), &e)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"query":"x","timestamp":null}`), &e); err != nil || !e.Timestamp.IsZero() {
		t.Errorf("null timestamp: err=%v ts=%v", err, e.Timestamp)
	}
}

func TestSearchHistoryEntry_RoundTripKeepsInstant(t *testing.T) {
	in := SearchHistoryEntry{QueryText: "q", Timestamp: time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC), ResultURLs: []string{}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out SearchHistoryEntry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Timestamp.Equal(in.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", out.Timestamp, in.Timestamp)
	}
}
