// Package fileid derives document and chunk identifiers from scraped file paths.
package fileid

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DocID returns the source document identifier for a scraped file: its base name without extension.
// Same path always yields the same ID.
func DocID(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ChunkID returns "<docID>_<ordinal>".
func ChunkID(docID string, ordinal int) string {
	return fmt.Sprintf("%s_%d", docID, ordinal)
}

// DocIDFromChunkID strips the trailing ordinal from a chunk ID. IDs without an ordinal are returned unchanged.
func DocIDFromChunkID(chunkID string) string {
	i := strings.LastIndexByte(chunkID, '_')
	if i <= 0 {
		return chunkID
	}
	for _, r := range chunkID[i+1:] {
		if r < '0' || r > '9' {
			return chunkID
		}
	}
	if i == len(chunkID)-1 {
		return chunkID
	}
	return chunkID[:i]
}
