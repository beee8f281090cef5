package idempotency

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps claimed keys in process memory without expiration.
// Single-process only: restarts forget the claims, and multiple replicas
// would each dispatch once. Use the redis backend when either matters.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

func (s *MemoryStore) Acquire(_ context.Context, key string) (bool, error) {
	// Add fails when the key exists, which is exactly first-claim-wins.
	if err := s.cache.Add(key, struct{}{}, cache.NoExpiration); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
