// Package cli renders search results and history for the terminal and runs the interactive query loop.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/pkg/utils"
)

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact prints one line per result.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

const (
	compactContentLen = 100
	historyTimeLayout = "2006-01-02 15:04:05"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch f := SearchOutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", OutputText:
		return OutputText, nil
	case OutputCompact, OutputJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (text, compact, json)", models.ErrInvalidConfiguration, s)
	}
}

// WriteSearchResults writes search results to w in the given format.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for i, r := range response.Results {
			fmt.Fprintf(w, "%d. %s (%.4f) %s\n", i+1, r.URL, r.SimilarityScore,
				utils.Truncate(r.Content, compactContentLen))
		}
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nSearch Results (%d from %d chunks):\n", len(response.Results), response.TotalChunksSearched)
	if len(response.Results) == 0 {
		fmt.Fprintln(w, "\nNo matching pages.")
		return
	}
	for i, r := range response.Results {
		fmt.Fprintf(w, "\n%d. URL: %s\n", i+1, r.URL)
		fmt.Fprintf(w, "   Content: %s\n", r.Content)
		fmt.Fprintf(w, "   Distance: %.4f\n", r.SimilarityScore)
	}
}

// WriteHistory writes past searches, newest first as given.
func WriteHistory(w io.Writer, entries []models.SearchHistoryEntry, format SearchOutputFormat) error {
	if format == OutputJSON {
		if entries == nil {
			entries = []models.SearchHistoryEntry{}
		}
		return writeJSON(w, entries)
	}
	fmt.Fprintln(w, "\nRecent Searches:")
	if len(entries) == 0 {
		fmt.Fprintln(w, "\nNo searches yet.")
		return nil
	}
	for _, e := range entries {
		if format == OutputCompact {
			fmt.Fprintf(w, "%s  %q  %d results\n", formatTime(e.Timestamp), e.QueryText, e.ResultCount)
			continue
		}
		fmt.Fprintf(w, "\nQuery: %s\n", e.QueryText)
		fmt.Fprintf(w, "Time: %s\n", formatTime(e.Timestamp))
		fmt.Fprintf(w, "Results: %d\n", e.ResultCount)
		fmt.Fprintln(w, "URLs:")
		for _, u := range e.ResultURLs {
			fmt.Fprintf(w, "  - %s\n", u)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.Local().Format(historyTimeLayout)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
