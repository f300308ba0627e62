// Package planner turns a classified query into the action to perform.
package planner

import (
	"time"

	"github.com/hyperjump/recall/internal/models"
)

// Plan is either a HistoryPlan or a SearchPlan. Callers switch on the concrete type.
type Plan interface {
	plan()
}

// HistoryPlan asks for the recent search history instead of a search.
type HistoryPlan struct{}

// SearchPlan asks for a vector search.
type SearchPlan struct {
	Request models.SearchRequest
}

func (HistoryPlan) plan() {}
func (SearchPlan) plan() {}

// Build returns a HistoryPlan for history intents and a SearchPlan otherwise.
func Build(intent models.SearchIntent) Plan {
	return BuildAt(intent, time.Now())
}

// BuildAt is Build with an explicit issue time.
func BuildAt(intent models.SearchIntent, now time.Time) Plan {
	if intent.IsHistoryRequest {
		return HistoryPlan{}
	}
	return SearchPlan{Request: models.SearchRequest{
		QueryText:            intent.NormalizedQuery,
		RequestedResultCount: intent.RequestedResultCount,
		IssuedAt:             now,
	}}
}
