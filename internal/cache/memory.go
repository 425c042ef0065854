package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryLayer is the in-process tier, backed by go-cache.
// Values are copied on the way in and out.
type MemoryLayer struct {
	items *gocache.Cache
}

// NewMemoryLayer keeps entries for ttl; ttl <= 0 keeps them for the process lifetime
func NewMemoryLayer(ttl time.Duration) *MemoryLayer {
	if ttl <= 0 {
		return &MemoryLayer{items: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryLayer{items: gocache.New(ttl, sweepInterval(ttl))}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl < 2*time.Minute {
		return time.Minute
	}
	return ttl / 2
}

func (m *MemoryLayer) Get(key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (m *MemoryLayer) Put(key string, value []byte) error {
	m.items.SetDefault(key, append([]byte(nil), value...))
	return nil
}

func (m *MemoryLayer) Drop(key string) error {
	m.items.Delete(key)
	return nil
}
