// Package cache holds composed-branding caches keyed by tenant id.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
)

type memoryEntry struct {
	cfg     service.Config
	expires time.Time
}

// Memory is a process-local TTL cache.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory returns a cache whose entries live for ttl. A non-positive ttl never expires.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) Get(_ context.Context, key string) (service.Config, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return service.Config{}, false
	}
	if m.ttl > 0 && m.now().After(entry.expires) {
		delete(m.entries, key)
		return service.Config{}, false
	}
	return entry.cfg, true
}

func (m *Memory) Set(_ context.Context, key string, cfg service.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryEntry{cfg: cfg, expires: m.now().Add(m.ttl)}
}

// Invalidate drops a tenant's entry.
func (m *Memory) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}
