package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

const (
	maxTitleRunes   = 50
	fileStampLayout = "20060102_150405"
	visitTimeLayout = "2006-01-02 15:04:05"
)

// FileName returns "<title prefix>_<YYYYMMDD_HHMMSS>.txt" for a visit.
// Characters that are unsafe in file names are replaced; an empty title becomes a short random ID.
func FileName(v Visit) string {
	title := []rune(v.Title)
	if len(title) > maxTitleRunes {
		title = title[:maxTitleRunes]
	}
	name := sanitizeTitle(string(title))
	if name == "" {
		name = uuid.NewString()[:8]
	}
	return fmt.Sprintf("%s_%s.txt", name, v.VisitTime.Format(fileStampLayout))
}

// FormatDocument renders the header block followed by a blank line and the page text.
func FormatDocument(v Visit, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", v.URL)
	fmt.Fprintf(&b, "Title: %s\n", v.Title)
	fmt.Fprintf(&b, "Visit Time: %s\n\n", v.VisitTime.Format(visitTimeLayout))
	b.WriteString(text)
	return b.String()
}

// WriteDocument saves the page text under dir and returns the file path.
func WriteDocument(dir string, v Visit, text string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, FileName(v))
	if err := os.WriteFile(path, []byte(FormatDocument(v, text)), 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func sanitizeTitle(title string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, title)
	return strings.Trim(strings.TrimSpace(mapped), ".")
}
