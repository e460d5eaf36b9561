package cache

import (
	"context"
	"sync"
	"time"
)

// Store holds encoded list snapshots under a tag. A snapshot is replaced
// wholesale; Invalidate drops it so the next read refetches.
//
// Every Invalidate moves the tag to a new generation. A reader captures the
// generation before fetching and passes it to Set, which stores nothing if
// the tag was invalidated in between.
type Store interface {
	Get(ctx context.Context, tag string) ([]byte, bool, error)
	Generation(ctx context.Context, tag string) (uint64, error)
	Set(ctx context.Context, tag string, gen uint64, data []byte) (bool, error)
	Invalidate(ctx context.Context, tag string) error
}

// MemoryStore keeps snapshots in process.
type MemoryStore struct {
	mu    sync.Mutex
	gens  map[string]uint64
	items *Cache[string, []byte]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		gens:  make(map[string]uint64),
		items: NewCacheWithTTL[string, []byte](ttl),
	}
}

func (m *MemoryStore) Get(_ context.Context, tag string) ([]byte, bool, error) {
	data, ok := m.items.Get(tag)
	return data, ok, nil
}

func (m *MemoryStore) Generation(_ context.Context, tag string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[tag], nil
}

func (m *MemoryStore) Set(_ context.Context, tag string, gen uint64, data []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[tag] != gen {
		cacheLogger.Debug().Str("tag", tag).Uint64("gen", gen).Msg("Stale snapshot discarded")
		return false, nil
	}
	m.items.Set(tag, data)
	return true, nil
}

func (m *MemoryStore) Invalidate(_ context.Context, tag string) error {
	m.mu.Lock()
	m.gens[tag]++
	m.items.Delete(tag)
	m.mu.Unlock()

	cacheLogger.Debug().Str("tag", tag).Msg("Snapshot invalidated")
	return nil
}

// NopStore never holds anything: every list read goes to the backend.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NopStore) Generation(context.Context, string) (uint64, error)        { return 0, nil }
func (NopStore) Set(context.Context, string, uint64, []byte) (bool, error) { return false, nil }
func (NopStore) Invalidate(context.Context, string) error                  { return nil }
