// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/lineage-engine/pkg/types"
)

// Memory is the in-memory Store. When the entry cap is reached the
// oldest-inserted entry is evicted first.
type Memory struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]memoryEntry

	now func() time.Time // test hook
}

type memoryEntry struct {
	records    []types.Record
	insertedAt time.Time
}

// NewMemory creates an in-memory store with the given TTL and entry cap.
// A cap of 0 disables the size bound.
func NewMemory(ttl time.Duration, maxEntries int) *Memory {
	return &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

// Get returns the records stored under key while the entry is younger than
// the TTL. An expired entry is removed and reads as a miss.
func (m *Memory) Get(_ context.Context, key string) ([]types.Record, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if m.now().Sub(e.insertedAt) >= m.ttl {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.records, true, nil
}

// Put stores records under key, overwriting any prior entry and evicting
// the oldest-inserted entry if the cap is exceeded.
func (m *Memory) Put(_ context.Context, key string, records []types.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[key]; !exists && m.maxEntries > 0 && len(m.entries) >= m.maxEntries {
		m.evictOldest()
	}
	m.entries[key] = memoryEntry{records: records, insertedAt: m.now()}
	return nil
}

// Close is a no-op for the memory store.
func (m *Memory) Close() error { return nil }

// evictOldest removes the entry with the earliest insertion time. Callers
// hold m.mu.
func (m *Memory) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for k, e := range m.entries {
		if oldestKey == "" || e.insertedAt.Before(oldest) {
			oldestKey = k
			oldest = e.insertedAt
		}
	}
	if oldestKey != "" {
		delete(m.entries, oldestKey)
	}
}

var _ Store = (*Memory)(nil)
