package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sync"
)

// MemoryStore is a map-backed BlobStore used when no storage endpoint is
// configured (local development) and by tests to observe gateway state.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	types map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (s *MemoryStore) Upload(_ context.Context, name string, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.blobs[name] = data
	s.types[name] = contentType
	s.mu.Unlock()

	return "memory://media/" + name, nil
}

func (s *MemoryStore) Delete(_ context.Context, blobURL string) error {
	u, err := url.Parse(blobURL)
	if err != nil {
		return fmt.Errorf("invalid blob url %q: %w", blobURL, err)
	}
	name := path.Base(u.Path)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[name]; !ok {
		return fmt.Errorf("blob %q not found", name)
	}
	delete(s.blobs, name)
	delete(s.types, name)
	return nil
}

// Has reports whether a blob with the given URL is present.
func (s *MemoryStore) Has(blobURL string) bool {
	u, err := url.Parse(blobURL)
	if err != nil {
		return false
	}
	name := path.Base(u.Path)

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[name]
	return ok
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}
