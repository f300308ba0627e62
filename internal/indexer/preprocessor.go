package indexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/recall/pkg/utils"
)

// Preprocess cleans scraped page text before chunking. Invisible format characters
// (zero-width spaces and joiners, soft hyphens, byte order marks), stray control characters
// and invalid UTF-8 are removed so they cannot split or pad words; whitespace is collapsed.
func Preprocess(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError:
			return -1
		case unicode.Is(unicode.Cf, r):
			return -1
		case unicode.IsControl(r) && !unicode.IsSpace(r):
			return -1
		}
		return r
	}, text)
	return utils.CollapseWhitespace(cleaned)
}
