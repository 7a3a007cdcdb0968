// Package fs implements the model artifact registry on the local
// filesystem. Artifacts are append-only: writes go to a temp file in the
// target directory and are renamed into place, so a partially written
// artifact is never visible as "latest" to concurrent readers.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fairyhunter13/resume-ranker/internal/domain"
)

// Store is a directory-backed domain.ModelStore.
type Store struct {
	dir string
}

// New constructs a Store rooted at dir. The directory is created lazily on
// the first Save; a missing directory is a degraded state (no models), not
// an error.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// List returns paths under the store directory matching pattern. A missing
// directory yields an empty list.
func (s *Store) List(_ domain.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("op=modelstore.list: %w", err)
	}
	return matches, nil
}

// Newest returns the path with the latest modification time.
func (s *Store) Newest(_ domain.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("op=modelstore.newest: %w", domain.ErrNotFound)
	}
	var newest string
	var newestTime time.Time
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue // racing with a concurrent cleanup is fine
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = p
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("op=modelstore.newest: %w", domain.ErrNotFound)
	}
	return newest, nil
}

// Load reads an artifact.
func (s *Store) Load(_ domain.Context, path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=modelstore.load: %w", err)
	}
	return b, nil
}

// Save writes blob atomically under name and returns the final path. An
// existing artifact with the same name is never overwritten; retraining is
// append-only.
func (s *Store) Save(_ domain.Context, name string, blob []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("op=modelstore.save: %w", err)
	}
	final := filepath.Join(s.dir, name)
	if _, err := os.Stat(final); err == nil {
		return "", fmt.Errorf("op=modelstore.save: %w: artifact %s exists", domain.ErrConflict, name)
	}

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("op=modelstore.save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("op=modelstore.save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("op=modelstore.save: %w", err)
	}
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("op=modelstore.save: %w", err)
	}
	return final, nil
}
