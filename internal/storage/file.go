package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists all keys in a single JSON object on disk. Each Set
// rewrites the whole file through a temp file and rename.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the file at path. The parent
// directory is created if needed; the file itself is created lazily.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create storage dir: %v", ErrPersistence, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		// A corrupt file must not block new writes.
		values = make(map[string]string)
	}
	values[key] = value

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write: %v", ErrPersistence, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", ErrPersistence, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: rename: %v", ErrPersistence, err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrPersistence, err)
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, s.path, err)
	}
	return values, nil
}
