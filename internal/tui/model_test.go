package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/planner"
	"github.com/hyperjump/recall/internal/search"
)

type stubHandler struct {
	outcome *search.Outcome
	err     error
	queries []string
}

func (s *stubHandler) Handle(_ context.Context, raw string, _ int) (*search.Outcome, error) {
	s.queries = append(s.queries, raw)
	return s.outcome, s.err
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func typeQuery(m Model, q string) Model {
	m.input.SetValue(q)
	return m
}

func TestModel_SearchFlow(t *testing.T) {
	h := &stubHandler{outcome: &search.Outcome{
		Plan: planner.SearchPlan{},
		Response: &models.SearchResponse{Results: []models.SearchResult{
			{URL: "https://go.dev", Content: "The Go programming language", SimilarityScore: 0.2},
		}},
	}}
	m := sized(t, New(context.Background(), h, 5, "3 chunks"))
	m = typeQuery(m, "golang")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if cmd == nil || !m.busy {
		t.Fatal("expected a query command and busy state")
	}
	msg := cmd()
	next, _ = m.Update(msg)
	m = next.(Model)

	if len(h.queries) != 1 || h.queries[0] != "golang" {
		t.Errorf("handler queries = %v", h.queries)
	}
	if m.busy || !strings.Contains(m.status, `1 results for "golang"`) {
		t.Errorf("status = %q busy=%v", m.status, m.busy)
	}
	if !strings.Contains(m.content, "https://go.dev") || !strings.Contains(m.content, "The Go programming language") {
		t.Errorf("content = %q", m.content)
	}
	if !strings.Contains(m.View(), "3 chunks") {
		t.Error("view should include the summary line")
	}
}

func TestModel_History(t *testing.T) {
	h := &stubHandler{outcome: &search.Outcome{
		Plan: planner.HistoryPlan{},
		History: []models.SearchHistoryEntry{
			{QueryText: "golang", Timestamp: time.Now(), ResultCount: 1, ResultURLs: []string{"https://go.dev"}},
		},
	}}
	m := sized(t, New(context.Background(), h, 5, ""))
	m = typeQuery(m, "show history")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(cmd())
	m = next.(Model)
	if !strings.Contains(m.content, "golang") || !strings.Contains(m.content, "- https://go.dev") {
		t.Errorf("content = %q", m.content)
	}
}

func TestModel_Error(t *testing.T) {
	h := &stubHandler{err: errors.New("embedding backend down")}
	m := sized(t, New(context.Background(), h, 5, ""))
	m = typeQuery(m, "anything")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	next, _ = next.(Model).Update(cmd())
	m = next.(Model)
	if !strings.HasPrefix(m.status, "Error: ") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_Quit(t *testing.T) {
	m := sized(t, New(context.Background(), &stubHandler{}, 5, ""))
	m = typeQuery(m, " Quit ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
