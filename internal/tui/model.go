// Package tui is an interactive terminal front end for searching browsing history.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hyperjump/recall/internal/models"
	"github.com/hyperjump/recall/internal/search"
)

// Handler runs one raw query through the search pipeline.
type Handler interface {
	Handle(ctx context.Context, raw string, historyLimit int) (*search.Outcome, error)
}

// outcomeMsg carries the result of a query back into the update loop.
type outcomeMsg struct {
	query   string
	outcome *search.Outcome
	err     error
}

// Model is the Bubble Tea model for the search screen.
type Model struct {
	ctx          context.Context
	handler      Handler
	historyLimit int
	input        textinput.Model
	viewport     viewport.Model
	summary      string
	status       string
	content      string
	busy         bool
	ready        bool
}

// New creates the model. summary is shown under the header (for example the index size).
func New(ctx context.Context, handler Handler, historyLimit int, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search your history, or type \"history\" / \"quit\""
	ti.Focus()
	ti.CharLimit = 0
	return Model{
		ctx:          ctx,
		handler:      handler,
		historyLimit: historyLimit,
		input:        ti,
		viewport:     viewport.New(0, 0),
		summary:      summary,
		status:       "Type a query and press Enter.",
		content:      "No results yet.",
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, resize and query-result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.viewport.SetContent(m.content)
		return m, nil
	case outcomeMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		if msg.outcome.IsHistory() {
			m.status = fmt.Sprintf("Showing %d recent searches", len(msg.outcome.History))
			m.content = renderHistory(msg.outcome.History)
		} else {
			m.status = fmt.Sprintf("%d results for %q", len(msg.outcome.Response.Results), msg.query)
			m.content = renderResults(msg.outcome.Response)
		}
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			q := m.input.Value()
			if strings.EqualFold(strings.TrimSpace(q), "quit") {
				return m, tea.Quit
			}
			if m.busy || strings.TrimSpace(q) == "" {
				return m, nil
			}
			m.busy = true
			m.status = "Searching..."
			m.input.SetValue("")
			return m, m.run(q)
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) run(query string) tea.Cmd {
	ctx, handler, limit := m.ctx, m.handler, m.historyLimit
	return func() tea.Msg {
		outcome, err := handler.Handle(ctx, query, limit)
		return outcomeMsg{query: query, outcome: outcome, err: err}
	}
}

// View renders the layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("recall")
	summary := summaryStyle.Render(m.summary)
	results := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func renderResults(resp *models.SearchResponse) string {
	if len(resp.Results) == 0 {
		return "No matching pages."
	}
	var b strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(urlStyle.Render(fmt.Sprintf("%d. %s", i+1, r.URL)))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  distance=%.4f", r.SimilarityScore)))
		b.WriteString("\n")
		b.WriteString(r.Content)
	}
	return b.String()
}

func renderHistory(entries []models.SearchHistoryEntry) string {
	if len(entries) == 0 {
		return "No searches yet."
	}
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(urlStyle.Render(e.QueryText))
		b.WriteString(scoreStyle.Render(fmt.Sprintf("  %s  %d results", e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.ResultCount)))
		for _, u := range e.ResultURLs {
			b.WriteString("\n  - " + u)
		}
	}
	return b.String()
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	summaryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	urlStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	scoreStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, handler Handler, historyLimit int, summary string) error {
	_, err := tea.NewProgram(New(ctx, handler, historyLimit, summary), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
