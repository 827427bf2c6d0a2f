package store

import (
	"context"
	"path"
	"sync"
	"time"
)

// MemoryKV in-process KV used when Redis is disabled (dev) and in tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]memoryItem
	now  func() time.Time
}

type memoryItem struct {
	value   string
	expires time.Time // zero = no ttl
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]memoryItem), now: time.Now}
}

var _ KV = (*MemoryKV)(nil)

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.lookup(key)
	if !ok {
		return "", ErrMiss
	}
	return v, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = m.now().Add(ttl)
	}
	m.data[key] = memoryItem{value: value, expires: exp}
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// ScanKeys supports the glob subset used by Redis SCAN MATCH (via path.Match).
func (m *MemoryKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0)
	for k := range m.data {
		if _, ok := m.lookup(k); !ok {
			continue
		}
		if ok, err := path.Match(pattern, k); err != nil {
			return nil, err
		} else if ok {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (m *MemoryKV) CompareAndSwap(ctx context.Context, key, prev, next string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, _ := m.lookup(key)
	if cur != prev {
		return ErrConflict
	}
	m.data[key] = memoryItem{value: next}
	return nil
}

// lookup must be called with mu held.
func (m *MemoryKV) lookup(key string) (string, bool) {
	item, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		return "", false
	}
	return item.value, true
}
