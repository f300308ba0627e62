// Package intent classifies raw user queries.
package intent

import (
	"strings"

	"github.com/hyperjump/recall/internal/models"
)

// DefaultResultCount is the number of results requested for every search.
const DefaultResultCount = 3

// historyTriggers are matched as plain substrings of the normalized query,
// so "prehistoric" counts as a history request.
var historyTriggers = []string{"history", "recent", "previous"}

// Extract lower-cases and trims raw and decides whether it asks for past searches.
func Extract(raw string) models.SearchIntent {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	return models.SearchIntent{
		NormalizedQuery:      normalized,
		IsHistoryRequest:     IsHistoryRequest(normalized),
		RequestedResultCount: DefaultResultCount,
	}
}

// IsHistoryRequest reports whether an already normalized query contains a history trigger word.
func IsHistoryRequest(normalized string) bool {
	for _, trigger := range historyTriggers {
		if strings.Contains(normalized, trigger) {
			return true
		}
	}
	return false
}
