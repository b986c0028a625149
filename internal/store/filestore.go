package store

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore keeps one JSON file per key under a data directory. It is the
// default backend and needs nothing but a writable directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Get(key string, out any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("[FileStore] Discarding corrupt value for %q: %v", key, err)
		return false
	}
	return true
}

func (s *FileStore) Put(key string, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("[FileStore] Serialize %q: %v", key, err)
		return
	}

	// Write-then-rename so a crash mid-write never corrupts the stored value
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Printf("[FileStore] Write %q: %v", key, err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		log.Printf("[FileStore] Rename %q: %v", key, err)
	}
}

// path maps a logical key to a file name. Keys contain emails, so escape
// anything the filesystem would object to.
func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+".json")
}
