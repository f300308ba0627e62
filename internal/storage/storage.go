// Package storage provides whole-file JSON persistence for the embedding and history stores.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hyperjump/recall/internal/models"
)

// WriteJSONAtomic marshals v and replaces path with the result.
// The payload is written to a temporary file in the same directory and renamed over path,
// so readers never observe a partially written file. Parent directories are created if needed.
func WriteJSONAtomic(path string, v any) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", models.ErrPersistence)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", models.ErrPersistence, filepath.Base(path), err)
	}
	return WriteFileAtomic(path, data, 0o644)
}

// WriteFileAtomic writes data to a temporary sibling of path and renames it into place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create dir: %v", models.ErrPersistence, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", models.ErrPersistence, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", models.ErrPersistence, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: chmod temp file: %v", models.ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", models.ErrPersistence, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: rename into place: %v", models.ErrPersistence, err)
	}
	return nil
}

// ReadJSON reads path and unmarshals it into v.
// A missing file yields models.ErrNotFound; undecodable content yields models.ErrParse.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		return fmt.Errorf("%w: read %s: %v", models.ErrPersistence, path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", models.ErrParse, path, err)
	}
	return nil
}
