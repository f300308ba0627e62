package scraper

import "testing"

func TestExtractText(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>Go &amp; Vectors</title><style>body{color:red}</style></head>
<body>
<!-- nav -->
<script>var x = "<p>hidden</p>";</script>
<h1>Flat   index</h1>
<p>Exact search&nbsp;over <b>all</b> vectors.</p>
<div>Second<br>line</div>
<svg><text>icon</text></svg>
</body></html>`
	got := ExtractText(page)
	want := "Flat index Exact search over all vectors. Second line"
	if got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
	if title := ExtractTitle(page); title != "Go & Vectors" {
		t.Errorf("ExtractTitle() = %q", title)
	}
}

func TestExtractText_Empty(t *testing.T) {
	if got := ExtractText("<html><script>x()</script></html>"); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
	if got := ExtractTitle("<p>no title</p>"); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}
