package service

import (
	"context"
	"sync"
	"time"
)

// MemoryCounterStore 内存计数器, used when Redis is not configured and in
// tests. All mutation happens under one mutex so post-increment values are
// linearizable, matching the Redis semantics.
type MemoryCounterStore struct {
	mu       sync.Mutex
	counters map[string]*memCounter
	now      func() time.Time
}

type memCounter struct {
	value     int64
	fields    map[string]int64
	expiresAt time.Time
}

func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*memCounter),
		now:      time.Now,
	}
}

func (s *MemoryCounterStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.live(key, ttl)
	c.value++
	return c.value, nil
}

func (s *MemoryCounterStore) IncrementField(ctx context.Context, key, field string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.live(key, ttl)
	if c.fields == nil {
		c.fields = make(map[string]int64)
	}
	c.fields[field]++
	return c.fields[field], nil
}

func (s *MemoryCounterStore) ReadFields(ctx context.Context, key string) (map[string]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.counters[key]
	if !ok || s.expired(c) {
		return map[string]int64{}, nil
	}
	out := make(map[string]int64, len(c.fields))
	for k, v := range c.fields {
		out[k] = v
	}
	return out, nil
}

// live returns the counter for key, replacing it if its TTL has lapsed. The
// expiry is armed on first touch only, like Redis EXPIRE NX.
func (s *MemoryCounterStore) live(key string, ttl time.Duration) *memCounter {
	c, ok := s.counters[key]
	if !ok || s.expired(c) {
		c = &memCounter{}
		if ttl > 0 {
			c.expiresAt = s.now().Add(ttl)
		}
		s.counters[key] = c
	}
	return c
}

func (s *MemoryCounterStore) expired(c *memCounter) bool {
	return !c.expiresAt.IsZero() && s.now().After(c.expiresAt)
}
