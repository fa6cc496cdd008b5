package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// BlobStore — key-value хранилище для кэшируемых ресурсов.
// Проверка свежести лежит на CacheManager, хранилище записи не выкидывает.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	value, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

func (s *MemoryStore) Set(_ context.Context, key string, data []byte) error {
	s.cache.Set(key, data, cache.NoExpiration)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *MemoryStore) Flush() {
	s.cache.Flush()
}
