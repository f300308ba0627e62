// Package indexer turns scraped pages into chunks and loads them into the vector index.
package indexer

import (
	"fmt"
	"strings"

	"github.com/hyperjump/recall/internal/models"
)

// Chunker splits text into overlapping word-based windows.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
// The overlap must be smaller than the size, otherwise the window would never advance.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", models.ErrInvalidConfiguration, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", models.ErrInvalidConfiguration, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d", models.ErrInvalidConfiguration, chunkOverlap, chunkSize)
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// Size returns the window size in words.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the number of words shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.chunkOverlap }

// Chunk splits text into windows starting every size-overlap words.
// A window is emitted for every start position inside the text, so the tail window may be short.
func (c *Chunker) Chunk(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	chunks := make([]string, 0, len(words)/step+1)
	for i := 0; i < len(words); i += step {
		end := i + c.chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

// ChunkText is a one-shot helper around NewChunker and Chunk.
func ChunkText(text string, chunkSize, chunkOverlap int) ([]string, error) {
	c, err := NewChunker(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text), nil
}
