package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/recall/internal/embedding"
	"github.com/hyperjump/recall/internal/history"
	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/search"
	"github.com/hyperjump/recall/internal/vector"
	"go.uber.org/zap"
)

func newExecutor(t *testing.T) (*search.Executor, *history.Store) {
	t.Helper()
	ctx := context.Background()
	emb := embedding.NewMockEmbedder(8)
	idx := vector.NewFlatIndex()
	for i, text := range []string{"go concurrency patterns", "baking sourdough bread"} {
		vec, _ := emb.Embed(ctx, text)
		c := models.Chunk{URL: []string{"https://go.dev/blog", "https://bread.example"}[i], Text: text, ChunkID: "doc_" + string(rune('0'+i))}
		if err := idx.Insert(ctx, c, vec); err != nil {
			t.Fatal(err)
		}
	}
	hist := history.NewStore("")
	return search.NewExecutor(idx, emb, hist), hist
}

func TestRunLoop(t *testing.T) {
	exec, hist := newExecutor(t)
	in := strings.NewReader("go concurrency patterns\nshow my history\n  QUIT  \nnever read\n")
	var out bytes.Buffer
	if err := RunLoop(context.Background(), in, &out, exec, 5, zap.NewNop()); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "1. URL: https://go.dev/blog") {
		t.Errorf("missing search results:\n%s", s)
	}
	if !strings.Contains(s, "Recent Searches:") || !strings.Contains(s, "Query: go concurrency patterns") {
		t.Errorf("missing history listing:\n%s", s)
	}
	if hist.Len() != 1 {
		t.Errorf("expected 1 recorded search (history requests are not recorded), got %d", hist.Len())
	}
	if strings.Count(s, Prompt) != 3 {
		t.Errorf("expected loop to stop at quit, prompts = %d", strings.Count(s, Prompt))
	}
}

type failingHandler struct{ calls int }

func (f *failingHandler) Handle(context.Context, string, int) (*search.Outcome, error) {
	f.calls++
	return nil, errors.New("embedding backend down")
}

func TestRunLoop_ErrorsDoNotStopLoop(t *testing.T) {
	h := &failingHandler{}
	var out bytes.Buffer
	if err := RunLoop(context.Background(), strings.NewReader("one\ntwo\n"), &out, h, 5, nil); err != nil {
		t.Fatal(err)
	}
	if h.calls != 2 {
		t.Errorf("expected 2 handled queries, got %d", h.calls)
	}
	if strings.Count(out.String(), "An error occurred") != 2 {
		t.Errorf("expected two error messages:\n%s", out.String())
	}
}

func TestRunLoop_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := &failingHandler{}
	if err := RunLoop(ctx, strings.NewReader("one\n"), &bytes.Buffer{}, h, 5, nil); err != nil {
		t.Fatal(err)
	}
	if h.calls != 0 {
		t.Errorf("canceled loop should not handle queries, got %d", h.calls)
	}
}
