package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CachedChecker memoizes terminal access states per (user, tenant) pair for a TTL.
type CachedChecker struct {
	checker *Checker
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cachedState
}

type cachedState struct {
	state   AccessState
	expires time.Time
}

// NewCachedChecker wraps checker. A non-positive ttl disables caching.
func NewCachedChecker(checker *Checker, ttl time.Duration) *CachedChecker {
	if checker == nil {
		panic("checker is required")
	}
	return &CachedChecker{checker: checker, ttl: ttl, now: time.Now, entries: make(map[string]cachedState)}
}

// Tenant returns the cached or freshly computed tenant access state.
func (c *CachedChecker) Tenant(ctx context.Context, userID string, tenantID uuid.UUID) AccessState {
	key := "tenant/" + userID + "/" + tenantID.String()
	if st, ok := c.get(key); ok {
		return st
	}
	st := c.checker.Tenant(ctx, userID, tenantID)
	c.put(key, st)
	return st
}

// Platform returns the cached or freshly computed platform access state.
func (c *CachedChecker) Platform(ctx context.Context, userID string) AccessState {
	key := "platform/" + userID
	if st, ok := c.get(key); ok {
		return st
	}
	st := c.checker.Platform(ctx, userID)
	c.put(key, st)
	return st
}

func (c *CachedChecker) get(key string) (AccessState, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return "", false
	}
	return e.state, true
}

func (c *CachedChecker) put(key string, st AccessState) {
	if c.ttl <= 0 || !st.Terminal() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedState{state: st, expires: c.now().Add(c.ttl)}
}
