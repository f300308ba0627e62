package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/recall/internal/search"
	"go.uber.org/zap"
)

// Prompt is printed before every query.
const Prompt = "\nEnter your search query (or 'quit' to exit): "

// QueryHandler runs one raw query through the search pipeline.
type QueryHandler interface {
	Handle(ctx context.Context, raw string, historyLimit int) (*search.Outcome, error)
}

// RunLoop reads queries from in until "quit", end of input or ctx cancellation, printing results
// or history to out. A failing query is logged and reported, and the loop continues.
func RunLoop(ctx context.Context, in io.Reader, out io.Writer, handler QueryHandler, historyLimit int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.EqualFold(strings.TrimSpace(line), "quit") {
			logger.Info("User requested exit")
			return nil
		}

		logger.Info("Processing query", zap.String("query", line))
		outcome, err := handler.Handle(ctx, line, historyLimit)
		if err != nil {
			logger.Error("Error processing query", zap.String("query", line), zap.Error(err))
			fmt.Fprintln(out, "An error occurred while processing your query. Please try again.")
			continue
		}
		if outcome.IsHistory() {
			_ = WriteHistory(out, outcome.History, OutputText)
			continue
		}
		_ = WriteSearchResults(out, outcome.Response, OutputText)
		logger.Info("Search completed", zap.Int("results", len(outcome.Response.Results)))
	}
}
