package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// SearchIntent is the classification of a raw user query.
type SearchIntent struct {
	NormalizedQuery      string `json:"normalized_query"`
	IsHistoryRequest     bool   `json:"is_history_request"`
	RequestedResultCount int    `json:"requested_result_count"`
}

// SearchRequest is a query that will be run against the vector index.
type SearchRequest struct {
	QueryText            string    `json:"query"`
	RequestedResultCount int       `json:"requested_result_count"`
	IssuedAt             time.Time `json:"issued_at"`
}

// Validate ensures the request can be executed. An empty query text is allowed and searched as-is.
func (r *SearchRequest) Validate() error {
	if r.RequestedResultCount < 0 {
		return fmt.Errorf("%w: negative result count %d", ErrInvalidConfiguration, r.RequestedResultCount)
	}
	return nil
}

// SearchHistoryEntry records one executed search.
type SearchHistoryEntry struct {
	QueryText   string    `json:"query"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount int       `json:"num_results"`
	ResultURLs  []string  `json:"result_urls"`
}

// historyTimeLayouts are the timestamp forms found in history files: RFC 3339 as written here,
// and the str(datetime) and isoformat() forms written by the Python tool. Zoneless forms are local time.
var historyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999Z07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05.999999",
}

// ParseHistoryTime parses a history timestamp in any of the accepted layouts.
func ParseHistoryTime(s string) (time.Time, error) {
	for _, layout := range historyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognized history timestamp %q", ErrParse, s)
}

// UnmarshalJSON accepts every layout in historyTimeLayouts for the timestamp; a null or empty
// timestamp decodes to the zero time.
func (e *SearchHistoryEntry) UnmarshalJSON(data []byte) error {
	type plain SearchHistoryEntry
	aux := struct {
		*plain
		Timestamp *string `json:"timestamp"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Timestamp = time.Time{}
	if aux.Timestamp == nil || *aux.Timestamp == "" {
		return nil
	}
	ts, err := ParseHistoryTime(*aux.Timestamp)
	if err != nil {
		return err
	}
	e.Timestamp = ts
	return nil
}
