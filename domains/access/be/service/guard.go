package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/zenGate-Global/rastro-saas/platform/go/cell"
)

// TenantGuard holds the access state of one client for its current (user, tenant) pair.
// A pair is checked once; re-evaluating the same pair is a no-op. Subscribers must not
// call Evaluate or Close.
type TenantGuard struct {
	checker *Checker
	tasks   cell.Keyed
	state   *cell.Cell[AccessState]

	// mu serializes Evaluate and reset so checkedFor always names the live task's pair.
	mu         sync.Mutex
	checkedFor string
}

// NewTenantGuard returns an unchecked guard.
func NewTenantGuard(checker *Checker) *TenantGuard {
	if checker == nil {
		panic("checker is required")
	}
	return &TenantGuard{checker: checker, state: cell.New(AccessUnchecked)}
}

// State returns the current access state.
func (g *TenantGuard) State() AccessState { return g.state.Get() }

// Subscribe registers fn for state changes.
func (g *TenantGuard) Subscribe(fn func(AccessState)) func() { return g.state.Subscribe(fn) }

// Pending returns the check task of the current pair, or nil after a reset.
func (g *TenantGuard) Pending() *cell.Task { return g.tasks.Current() }

// Evaluate points the guard at (userID, tenantID). An empty user or tenant resets it.
// It returns the check task, or nil when nothing started.
func (g *TenantGuard) Evaluate(ctx context.Context, userID string, tenantID uuid.UUID) *cell.Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	if userID == "" || tenantID == uuid.Nil {
		g.resetLocked()
		return nil
	}

	key := userID + "/" + tenantID.String()
	if g.checkedFor == key {
		return nil
	}
	g.checkedFor = key

	g.tasks.Stop()
	g.state.Set(AccessUnchecked)
	g.state.Set(AccessChecking)
	return g.tasks.Start(ctx, key, func(t *cell.Task) {
		next := g.checker.Tenant(t.Context(), userID, tenantID)
		if !next.Terminal() {
			return
		}
		g.tasks.Commit(t, func() { g.state.Set(next) })
	})
}

func (g *TenantGuard) resetLocked() {
	g.checkedFor = ""
	g.tasks.Stop()
	g.state.Set(AccessUnchecked)
}

// Close cancels any in-flight check and forgets the checked pair.
func (g *TenantGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

// PlatformGuard is TenantGuard restricted to the platform admin capability.
type PlatformGuard struct {
	checker *Checker
	tasks   cell.Keyed
	state   *cell.Cell[AccessState]

	mu         sync.Mutex
	checkedFor string
}

// NewPlatformGuard returns an unchecked guard.
func NewPlatformGuard(checker *Checker) *PlatformGuard {
	if checker == nil {
		panic("checker is required")
	}
	return &PlatformGuard{checker: checker, state: cell.New(AccessUnchecked)}
}

// State returns the current access state.
func (g *PlatformGuard) State() AccessState { return g.state.Get() }

// Subscribe registers fn for state changes.
func (g *PlatformGuard) Subscribe(fn func(AccessState)) func() { return g.state.Subscribe(fn) }

// Pending returns the check task of the current user, or nil after a reset.
func (g *PlatformGuard) Pending() *cell.Task { return g.tasks.Current() }

// Evaluate points the guard at userID. An empty user resets it.
func (g *PlatformGuard) Evaluate(ctx context.Context, userID string) *cell.Task {
	g.mu.Lock()
	defer g.mu.Unlock()

	if userID == "" {
		g.resetLocked()
		return nil
	}
	if g.checkedFor == userID {
		return nil
	}
	g.checkedFor = userID

	g.tasks.Stop()
	g.state.Set(AccessUnchecked)
	g.state.Set(AccessChecking)
	return g.tasks.Start(ctx, userID, func(t *cell.Task) {
		next := g.checker.Platform(t.Context(), userID)
		if !next.Terminal() {
			return
		}
		g.tasks.Commit(t, func() { g.state.Set(next) })
	})
}

func (g *PlatformGuard) resetLocked() {
	g.checkedFor = ""
	g.tasks.Stop()
	g.state.Set(AccessUnchecked)
}

// Close cancels any in-flight check and forgets the checked user.
func (g *PlatformGuard) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}
