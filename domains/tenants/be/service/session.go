package service

import (
	"context"
	"strings"

	"github.com/zenGate-Global/rastro-saas/platform/go/cell"
	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// Session follows one navigating client: every slug change restarts resolution and a
// result for a superseded slug is dropped. SetSlug must be called from a single owner.
type Session struct {
	resolver *Resolver
	tasks    cell.Keyed
	state    *cell.Cell[State]
}

// NewSession returns an idle session.
func NewSession(resolver *Resolver) *Session {
	if resolver == nil {
		panic("resolver is required")
	}
	return &Session{resolver: resolver, state: cell.New(State{Phase: PhaseIdle})}
}

// State returns the current resolver state.
func (s *Session) State() State { return s.state.Get() }

// Subscribe registers fn for state changes. Subscribers must not call SetSlug.
func (s *Session) Subscribe(fn func(State)) func() { return s.state.Subscribe(fn) }

// SetSlug points the session at slug. It returns the task resolving it, or nil when
// resolution is skipped.
func (s *Session) SetSlug(ctx context.Context, slug string) *cell.Task {
	slug = strings.TrimSpace(slug)
	if !tenant.IsResolvable(slug) {
		s.tasks.Stop()
		s.state.Set(State{Phase: PhaseIdle, Slug: slug})
		return nil
	}

	if cur := s.tasks.Current(); cur != nil && cur.Key() == slug && !cur.Stale() {
		return cur
	}

	s.tasks.Stop()
	s.state.Set(State{Phase: PhaseLoading, Slug: slug})
	return s.tasks.Start(ctx, slug, func(t *cell.Task) {
		next := s.resolver.Resolve(t.Context(), slug)
		s.tasks.Commit(t, func() { s.state.Set(next) })
	})
}

// Close cancels any in-flight resolution.
func (s *Session) Close() { s.tasks.Stop() }
