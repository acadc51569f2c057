package service

import (
	"context"

	tenantsvc "github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	"github.com/zenGate-Global/rastro-saas/platform/go/cell"
)

// Session keeps the branding of one client in step with its tenant resolution.
// Loads are keyed by tenant id and a load for a superseded tenant is dropped.
type Session struct {
	composer *Composer
	tasks    cell.Keyed
	state    *cell.Cell[Config]
}

// NewSession starts with the static defaults.
func NewSession(composer *Composer) *Session {
	if composer == nil {
		panic("composer is required")
	}
	return &Session{composer: composer, state: cell.New(Defaults())}
}

// Config returns the current branding.
func (s *Session) Config() Config { return s.state.Get() }

// Subscribe registers fn for branding changes.
func (s *Session) Subscribe(fn func(Config)) func() { return s.state.Subscribe(fn) }

// LoadedFor returns the tenant id of the current or last load, or "".
func (s *Session) LoadedFor() string {
	if cur := s.tasks.Current(); cur != nil {
		return cur.Key()
	}
	return ""
}

// Apply reacts to a resolver state. It returns the load task, or nil when nothing starts.
// While a new slug resolves, the previous load is cancelled and the shown branding kept.
func (s *Session) Apply(ctx context.Context, st tenantsvc.State) *cell.Task {
	if st.Tenant == nil {
		s.tasks.Stop()
		if !st.IsLoading() {
			s.state.Set(Defaults())
		}
		return nil
	}

	key := st.Tenant.ID.String()
	if cur := s.tasks.Current(); cur != nil && cur.Key() == key && !cur.Stale() {
		return cur
	}

	tenant := *st.Tenant
	return s.tasks.Start(ctx, key, func(t *cell.Task) {
		cfg := s.composer.Load(t.Context(), &tenant)
		s.tasks.Commit(t, func() { s.state.Set(cfg) })
	})
}

// Follow subscribes the session to a resolver session and applies its current state.
// The returned func detaches it.
func (s *Session) Follow(ctx context.Context, resolver *tenantsvc.Session) func() {
	unsubscribe := resolver.Subscribe(func(st tenantsvc.State) { s.Apply(ctx, st) })
	s.Apply(ctx, resolver.State())
	return unsubscribe
}

// Close cancels any in-flight load.
func (s *Session) Close() { s.tasks.Stop() }
