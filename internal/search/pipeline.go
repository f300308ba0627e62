package search

import (
	"context"
	"fmt"

	"github.com/hyperjump/recall/internal/intent"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/planner"
)

// DefaultHistoryLimit is how many past searches a history request shows.
const DefaultHistoryLimit = 5

// Outcome is the result of handling one raw query: either a search response or a history listing.
type Outcome struct {
	Plan     planner.Plan
	Response *models.SearchResponse
	History  []models.SearchHistoryEntry
}

// IsHistory reports whether the query was answered with the search history.
func (o *Outcome) IsHistory() bool {
	_, ok := o.Plan.(planner.HistoryPlan)
	return ok
}

// Handle runs the full query pipeline: classify, plan, then search or list history.
func (e *Executor) Handle(ctx context.Context, raw string, historyLimit int) (*Outcome, error) {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	plan := planner.Build(intent.Extract(raw))
	switch p := plan.(type) {
	case planner.HistoryPlan:
		return &Outcome{Plan: p, History: e.Recent(historyLimit)}, nil
	case planner.SearchPlan:
		resp, err := e.Execute(ctx, p)
		if err != nil {
			return nil, err
		}
		return &Outcome{Plan: p, Response: resp}, nil
	default:
		return nil, fmt.Errorf("unknown plan %T", plan)
	}
}
