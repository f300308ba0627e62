package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/recall/internal/models"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Results: []models.SearchResult{
			{URL: "https://go.dev", Content: "The Go programming language", SimilarityScore: 0.125},
			{URL: "https://pkg.go.dev", Content: strings.Repeat("word ", 40), SimilarityScore: 0.5},
		},
		Query:               models.SearchRequest{QueryText: "golang", RequestedResultCount: 3},
		TotalChunksSearched: 7,
	}
}

func TestWriteSearchResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"2 from 7 chunks", "1. URL: https://go.dev", "Content: The Go programming language", "Distance: 0.1250", "2. URL: https://pkg.go.dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	_ = WriteSearchResults(&buf, &models.SearchResponse{}, OutputText)
	if !strings.Contains(buf.String(), "No matching pages.") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteSearchResults_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "1. https://go.dev (0.1250)") {
		t.Errorf("line 1 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "...") {
		t.Errorf("long content should be truncated: %q", lines[1])
	}
}

func TestWriteSearchResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Results) != 2 || decoded.Results[0].URL != "https://go.dev" || decoded.TotalChunksSearched != 7 {
		t.Errorf("unexpected decoded response: %+v", decoded)
	}
}

func TestWriteHistory(t *testing.T) {
	entries := []models.SearchHistoryEntry{
		{QueryText: "golang", Timestamp: time.Now(), ResultCount: 2, ResultURLs: []string{"https://go.dev", "https://pkg.go.dev"}},
		{QueryText: "nothing", Timestamp: time.Now().Add(-time.Hour), ResultCount: 0, ResultURLs: []string{}},
	}
	var buf bytes.Buffer
	if err := WriteHistory(&buf, entries, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Recent Searches:", "Query: golang", "Results: 2", "  - https://pkg.go.dev", "Query: nothing", "Results: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := WriteHistory(&buf, nil, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON history = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in   string
		want SearchOutputFormat
	}{
		{"", OutputText},
		{"text", OutputText},
		{"JSON", OutputJSON},
		{" compact ", OutputCompact},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}
