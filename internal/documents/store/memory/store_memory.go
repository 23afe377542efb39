package memory

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"chainregistry/pkg/domain"
	"chainregistry/pkg/platform/sentinel"
)

// InMemoryStore keeps payloads in process memory. It is unbounded unless built
// with NewBounded, in which case the least recently used payload is evicted.
type InMemoryStore struct {
	mu       sync.RWMutex
	payloads map[domain.ContentHash]string
	bounded  *lru.Cache
}

func New() *InMemoryStore {
	return &InMemoryStore{payloads: make(map[domain.ContentHash]string)}
}

// NewBounded caps the store at capacity payloads with LRU eviction.
func NewBounded(capacity int) (*InMemoryStore, error) {
	if capacity <= 0 {
		return New(), nil
	}
	cache, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &InMemoryStore{bounded: cache}, nil
}

func (s *InMemoryStore) SaveIfAbsent(_ context.Context, hash domain.ContentHash, payload string) (bool, error) {
	if s.bounded != nil {
		found, _ := s.bounded.ContainsOrAdd(hash, payload)
		return !found, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.payloads[hash]; exists {
		return false, nil
	}
	s.payloads[hash] = payload
	return true, nil
}

func (s *InMemoryStore) Load(_ context.Context, hash domain.ContentHash) (string, error) {
	if s.bounded != nil {
		v, ok := s.bounded.Get(hash)
		if !ok {
			return "", sentinel.ErrNotFound
		}
		return v.(string), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if payload, ok := s.payloads[hash]; ok {
		return payload, nil
	}
	return "", sentinel.ErrNotFound
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	if s.bounded != nil {
		return s.bounded.Len(), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payloads), nil
}
