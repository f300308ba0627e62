package planner

import (
	"testing"
	"time"

	"github.com/hyperjump/recall/internal/intent"
	"github.com/hyperjump/recall/internal/models"
)

func TestBuild_History(t *testing.T) {
	p := Build(intent.Extract("show recent searches"))
	if _, ok := p.(HistoryPlan); !ok {
		t.Fatalf("expected HistoryPlan, got %T", p)
	}
}

func TestBuildAt_Search(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	p := BuildAt(intent.Extract("  Go Channels "), now)
	sp, ok := p.(SearchPlan)
	if !ok {
		t.Fatalf("expected SearchPlan, got %T", p)
	}
	want := models.SearchRequest{QueryText: "go channels", RequestedResultCount: intent.DefaultResultCount, IssuedAt: now}
	if sp.Request != want {
		t.Errorf("Request = %+v, want %+v", sp.Request, want)
	}
}

func TestBuild_SetsIssuedAt(t *testing.T) {
	before := time.Now()
	sp := Build(models.SearchIntent{NormalizedQuery: "x", RequestedResultCount: 3}).(SearchPlan)
	if sp.Request.IssuedAt.Before(before) {
		t.Error("IssuedAt should be the build time")
	}
}
