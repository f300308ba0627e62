package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiskUsageBytes(t *testing.T) {
	dir := t.TempDir()
	embeddings := filepath.Join(dir, "embeddings.json")
	if err := WriteJSONAtomic(embeddings, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(embeddings)
	if err != nil {
		t.Fatal(err)
	}
	storeSize := info.Size()

	scraped := filepath.Join(dir, "scraped")
	if err := os.MkdirAll(filepath.Join(scraped, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scraped, "one.txt"), []byte("abcd"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(scraped, "nested", "two.txt"), []byte("ef"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		paths []string
		want  int64
	}{
		{"store file", []string{embeddings}, storeSize},
		{"scraped tree", []string{scraped}, 6},
		{"store and tree", []string{embeddings, scraped}, storeSize + 6},
		{"missing history skipped", []string{embeddings, filepath.Join(dir, "search_history.json"), scraped}, storeSize + 6},
		{"empty path skipped", []string{"", scraped}, 6},
		{"nothing", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DiskUsageBytes(tt.paths...)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("DiskUsageBytes = %d, want %d", got, tt.want)
			}
		})
	}
}
