// Package progress draws terminal progress bars for long-running batch work.
package progress

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Reporter receives progress for a batch of known size.
type Reporter interface {
	Start(total int)
	Increment()
	Finish()
}

// Bar renders a progress bar on a writer (stderr by default).
type Bar struct {
	desc   string
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// New returns a bar labelled desc, or a no-op reporter when disabled.
func New(enabled bool, desc string) Reporter {
	if !enabled {
		return Nop{}
	}
	return &Bar{desc: desc, writer: os.Stderr}
}

// Start creates the underlying bar for total steps.
func (p *Bar) Start(total int) {
	if total <= 0 {
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionSetDescription(p.desc),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(theme),
	)
}

// Increment advances the bar by one step.
func (p *Bar) Increment() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish completes and clears the bar.
func (p *Bar) Finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

// Nop discards all progress.
type Nop struct{}

func (Nop) Start(int)  {}
func (Nop) Increment() {}
func (Nop) Finish()    {}

// DefaultEnabled reports whether stderr is a terminal.
func DefaultEnabled() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// StartSpinner shows an indeterminate spinner until the returned stop function is called.
func StartSpinner(enabled bool, desc string) func() {
	if !enabled {
		return func() {}
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(9),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWidth(10),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(theme),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = bar.Add(1)
			case <-done:
				_ = bar.Finish()
				return
			}
		}
	}()
	return func() { close(done) }
}

var theme = progressbar.Theme{
	Saucer:        "=",
	SaucerHead:    ">",
	SaucerPadding: " ",
	BarStart:      "[",
	BarEnd:        "]",
}
