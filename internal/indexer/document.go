package indexer

import (
	"fmt"
	"strings"

	"github.com/hyperjump/recall/internal/models"
)

const urlPrefix = "URL: "

// ParseDocument extracts the URL header line and the body that follows the first blank line.
// A file without a "URL: " line fails with models.ErrParse. A file without a blank line has an empty body.
func ParseDocument(content string) (url, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, urlPrefix) {
			url = strings.TrimSpace(line[len(urlPrefix):])
			break
		}
	}
	if url == "" {
		return "", "", fmt.Errorf("%w: no URL header", models.ErrParse)
	}
	if _, rest, ok := strings.Cut(content, "\n\n"); ok {
		body = strings.TrimSpace(rest)
	}
	return url, body, nil
}
