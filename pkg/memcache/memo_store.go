// pkg/memcache/memo_store.go
package mem

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Store is a time-boxed key/value memo for vendor responses. Entries are
// best-effort: two callers missing the same key will both compute it.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	ItemCount() int
}

type MemoStore struct {
	c *cache.Cache
}

func NewMemoStore(defaultTTL, cleanupInterval time.Duration) *MemoStore {
	return &MemoStore{c: cache.New(defaultTTL, cleanupInterval)}
}

func (s *MemoStore) Get(key string) (interface{}, bool) {
	return s.c.Get(key)
}

// Set stores value; a zero ttl uses the store default.
func (s *MemoStore) Set(key string, value interface{}, ttl time.Duration) {
	if ttl == 0 {
		ttl = cache.DefaultExpiration
	}
	s.c.Set(key, value, ttl)
}

func (s *MemoStore) Delete(key string) {
	s.c.Delete(key)
}

func (s *MemoStore) ItemCount() int {
	return s.c.ItemCount()
}

// Remember returns the memoized T for key or computes and stores it. Errors are
// not cached.
func Remember[T any](s Store, key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	if cached, ok := s.Get(key); ok {
		if v, ok := cached.(T); ok {
			return v, nil
		}
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	s.Set(key, v, ttl)
	return v, nil
}
