package blob

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests. UploadErr, when set, is
// returned by every Upload to simulate remote storage being unavailable.
type MemStore struct {
	mu        sync.RWMutex
	objects   map[string][]byte
	UploadErr error
}

// NewMemStore creates an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{objects: make(map[string][]byte)}
}

// Download returns the blob stored under key
func (s *MemStore) Download(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrNotExist)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Upload stores data under key
func (s *MemStore) Upload(ctx context.Context, key string, data []byte) error {
	if s.UploadErr != nil {
		return s.UploadErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = stored
	return nil
}

// Set seeds a blob directly, bypassing Upload and its failure injection
func (s *MemStore) Set(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
}

// Keys returns the stored keys in sorted order
func (s *MemStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
