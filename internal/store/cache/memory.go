package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process cache for single-instance deployments and tests.
type Memory struct {
	mu          sync.Mutex
	ttl         time.Duration
	now         func() time.Time
	entries     map[string]entry
	generations map[string]int64
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		ttl:         ttl,
		now:         time.Now,
		entries:     make(map[string]entry),
		generations: make(map[string]int64),
	}
}

func (m *Memory) Generation(_ context.Context, tenantID int64, resource string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[resourcePrefix(tenantID, resource)], nil
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key.String()]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, key.String())
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set drops pages of an older generation.
func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key.Generation < m.generations[resourcePrefix(key.TenantID, key.Resource)] {
		return nil
	}
	m.entries[key.String()] = entry{value: value, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, tenantID int64, resource string) error {
	prefix := resourcePrefix(tenantID, resource)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generations[prefix]++
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}
