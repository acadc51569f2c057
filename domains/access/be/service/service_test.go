package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type stubDirectory struct {
	adminFn      func(ctx context.Context, userID string) (bool, error)
	membershipFn func(ctx context.Context, tenantID uuid.UUID, userID string) (Membership, error)
	tableFn      func(ctx context.Context, userID string) (bool, error)

	mu    sync.Mutex
	calls []string
}

func (s *stubDirectory) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubDirectory) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubDirectory) IsPlatformAdmin(ctx context.Context, userID string) (bool, error) {
	s.record("admin")
	if s.adminFn == nil {
		return false, nil
	}
	return s.adminFn(ctx, userID)
}

func (s *stubDirectory) GetMembership(ctx context.Context, tenantID uuid.UUID, userID string) (Membership, error) {
	s.record("membership")
	if s.membershipFn == nil {
		return Membership{}, ErrNotFound
	}
	return s.membershipFn(ctx, tenantID, userID)
}

func (s *stubDirectory) IsRowInPlatformAdminsTable(ctx context.Context, userID string) (bool, error) {
	s.record("table")
	if s.tableFn == nil {
		return false, nil
	}
	return s.tableFn(ctx, userID)
}

var errUnprovisioned = errors.New("function is_platform_admin does not exist")

func TestCheckerTenant(t *testing.T) {
	member := func(context.Context, uuid.UUID, string) (Membership, error) {
		return Membership{Role: "viewer"}, nil
	}
	failing := func(context.Context, uuid.UUID, string) (Membership, error) {
		return Membership{}, errors.New("permission denied")
	}

	tests := []struct {
		name      string
		dir       *stubDirectory
		want      AccessState
		wantCalls []string
	}{
		{
			name:      "platform admin short-circuits",
			dir:       &stubDirectory{adminFn: func(context.Context, string) (bool, error) { return true, nil }},
			want:      AccessGranted,
			wantCalls: []string{"admin"},
		},
		{
			name:      "member with any role",
			dir:       &stubDirectory{membershipFn: member},
			want:      AccessGranted,
			wantCalls: []string{"admin", "membership"},
		},
		{
			name:      "no membership row",
			dir:       &stubDirectory{},
			want:      AccessDenied,
			wantCalls: []string{"admin", "membership"},
		},
		{
			name: "capability error continues to membership",
			dir: &stubDirectory{
				adminFn:      func(context.Context, string) (bool, error) { return false, errUnprovisioned },
				membershipFn: member,
			},
			want:      AccessGranted,
			wantCalls: []string{"admin", "membership"},
		},
		{
			name: "membership error falls back to admin table",
			dir: &stubDirectory{
				membershipFn: failing,
				tableFn:      func(context.Context, string) (bool, error) { return true, nil },
			},
			want:      AccessGranted,
			wantCalls: []string{"admin", "membership", "table"},
		},
		{
			name:      "membership error and no admin row",
			dir:       &stubDirectory{membershipFn: failing},
			want:      AccessDenied,
			wantCalls: []string{"admin", "membership", "table"},
		},
		{
			name: "membership error and probe error",
			dir: &stubDirectory{
				membershipFn: failing,
				tableFn:      func(context.Context, string) (bool, error) { return false, errors.New("down") },
			},
			want:      AccessDenied,
			wantCalls: []string{"admin", "membership", "table"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker(tc.dir, zaptest.NewLogger(t))
			require.Equal(t, tc.want, c.Tenant(context.Background(), "u1", uuid.New()))
			require.Equal(t, tc.wantCalls, tc.dir.Calls())
		})
	}
}

func TestCheckerPlatform(t *testing.T) {
	tests := []struct {
		name string
		dir  *stubDirectory
		want AccessState
	}{
		{name: "admin", dir: &stubDirectory{adminFn: func(context.Context, string) (bool, error) { return true, nil }}, want: AccessGranted},
		{name: "not admin", dir: &stubDirectory{}, want: AccessDenied},
		{
			name: "capability error then table row",
			dir: &stubDirectory{
				adminFn: func(context.Context, string) (bool, error) { return false, errUnprovisioned },
				tableFn: func(context.Context, string) (bool, error) { return true, nil },
			},
			want: AccessGranted,
		},
		{
			name: "capability error then no row",
			dir:  &stubDirectory{adminFn: func(context.Context, string) (bool, error) { return false, errUnprovisioned }},
			want: AccessDenied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker(tc.dir, zaptest.NewLogger(t))
			require.Equal(t, tc.want, c.Platform(context.Background(), "u1"))
			require.NotContains(t, tc.dir.Calls(), "membership")
		})
	}
}

func TestTenantGuardChecksPairOnce(t *testing.T) {
	dir := &stubDirectory{membershipFn: func(context.Context, uuid.UUID, string) (Membership, error) {
		return Membership{Role: "admin"}, nil
	}}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))
	defer g.Close()

	tenantID := uuid.New()
	task := g.Evaluate(context.Background(), "u1", tenantID)
	require.NotNil(t, task)
	require.NoError(t, task.Wait(context.Background()))
	require.Equal(t, AccessGranted, g.State())

	require.Nil(t, g.Evaluate(context.Background(), "u1", tenantID))
	require.Equal(t, []string{"admin", "membership"}, dir.Calls())
}

func TestTenantGuardTransitions(t *testing.T) {
	dir := &stubDirectory{}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))
	defer g.Close()

	var mu sync.Mutex
	var seen []AccessState
	unsubscribe := g.Subscribe(func(s AccessState) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer unsubscribe()

	task := g.Evaluate(context.Background(), "u1", uuid.New())
	require.NoError(t, task.Wait(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []AccessState{AccessUnchecked, AccessChecking, AccessDenied}, seen)
}

func TestTenantGuardDiscardsSupersededPair(t *testing.T) {
	slowTenant := uuid.New()
	release := make(chan struct{})
	dir := &stubDirectory{
		adminFn: func(ctx context.Context, userID string) (bool, error) {
			if userID == "slow" {
				select {
				case <-release:
				case <-ctx.Done():
				}
				return true, nil
			}
			return false, nil
		},
	}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))
	defer g.Close()

	slow := g.Evaluate(context.Background(), "slow", slowTenant)
	fast := g.Evaluate(context.Background(), "fast", uuid.New())
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, slow.Wait(ctx))
	require.NoError(t, fast.Wait(ctx))
	require.Equal(t, AccessDenied, g.State())
}

func TestTenantGuardResetsWithoutUser(t *testing.T) {
	dir := &stubDirectory{adminFn: func(context.Context, string) (bool, error) { return true, nil }}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))
	tenantID := uuid.New()

	require.NoError(t, g.Evaluate(context.Background(), "u1", tenantID).Wait(context.Background()))
	require.Nil(t, g.Evaluate(context.Background(), "", tenantID))
	require.Equal(t, AccessUnchecked, g.State())

	// the same pair is checked again after a reset
	require.NotNil(t, g.Evaluate(context.Background(), "u1", tenantID))
	g.Close()
}

func TestTenantGuardConcurrentPairsKeepMarkerAndTaskInStep(t *testing.T) {
	dir := &stubDirectory{}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))
	defer g.Close()

	tenants := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	for round := 0; round < 50; round++ {
		var wg sync.WaitGroup
		for i, id := range tenants {
			wg.Add(1)
			go func(user string, id uuid.UUID) {
				defer wg.Done()
				g.Evaluate(context.Background(), user, id)
			}(fmt.Sprintf("u%d", i), id)
		}
		wg.Wait()

		g.mu.Lock()
		marker := g.checkedFor
		g.mu.Unlock()
		pending := g.Pending()
		require.NotNil(t, pending)
		require.Equal(t, marker, pending.Key())
	}
}

func TestTenantGuardHungCheckStaysChecking(t *testing.T) {
	dir := &stubDirectory{adminFn: func(ctx context.Context, _ string) (bool, error) {
		<-ctx.Done()
		return false, ctx.Err()
	}}
	g := NewTenantGuard(NewChecker(dir, zaptest.NewLogger(t)))

	task := g.Evaluate(context.Background(), "u1", uuid.New())
	require.Equal(t, AccessChecking, g.State())

	task.Cancel()
	require.NoError(t, task.Wait(context.Background()))
	require.Equal(t, AccessChecking, g.State())
	g.Close()
}

func TestPlatformGuard(t *testing.T) {
	dir := &stubDirectory{adminFn: func(context.Context, string) (bool, error) { return true, nil }}
	g := NewPlatformGuard(NewChecker(dir, zaptest.NewLogger(t)))
	defer g.Close()

	require.NoError(t, g.Evaluate(context.Background(), "u1").Wait(context.Background()))
	require.Equal(t, AccessGranted, g.State())
	require.Nil(t, g.Evaluate(context.Background(), "u1"))
	require.Equal(t, []string{"admin"}, dir.Calls())

	require.Nil(t, g.Evaluate(context.Background(), ""))
	require.Equal(t, AccessUnchecked, g.State())
	require.Nil(t, g.Pending())
}

func TestCachedCheckerMemoizesTerminalStates(t *testing.T) {
	dir := &stubDirectory{}
	c := NewCachedChecker(NewChecker(dir, zaptest.NewLogger(t)), time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	tenantID := uuid.New()
	require.Equal(t, AccessDenied, c.Tenant(context.Background(), "u1", tenantID))
	require.Equal(t, AccessDenied, c.Tenant(context.Background(), "u1", tenantID))
	require.Len(t, dir.Calls(), 2)

	now = now.Add(2 * time.Minute)
	c.Tenant(context.Background(), "u1", tenantID)
	require.Len(t, dir.Calls(), 4)

	c.Platform(context.Background(), "u1")
	c.Platform(context.Background(), "u1")
	require.Len(t, dir.Calls(), 5)
}

func TestCachedCheckerSkipsCancelledChecks(t *testing.T) {
	dir := &stubDirectory{adminFn: func(ctx context.Context, _ string) (bool, error) { return false, ctx.Err() }}
	c := NewCachedChecker(NewChecker(dir, zaptest.NewLogger(t)), time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, AccessChecking, c.Platform(ctx, "u1"))
	require.Equal(t, AccessDenied, c.Platform(context.Background(), "u1"))
}
