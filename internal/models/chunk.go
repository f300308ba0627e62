// Package models defines core data structures for chunks, queries, history, and search results.
package models

// Chunk is a contiguous window of words taken from one scraped page.
// It is immutable once created.
type Chunk struct {
	URL     string `json:"url"`
	Text    string `json:"chunk"`
	ChunkID string `json:"chunk_id"`
}
