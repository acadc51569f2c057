package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// Errors returned by the tenant repositories.
var (
	ErrNotFound = errors.New("tenant not found")
)

// Status is the lifecycle state of a tenant.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// Type classifies the producing organization.
type Type string

const (
	TypeIG            Type = "ig"
	TypeMarcaColetiva Type = "marca_coletiva"
)

// Tenant is an isolated customer organization addressed by its slug.
type Tenant struct {
	ID     uuid.UUID
	Slug   string
	Name   string
	Type   Type
	Status Status
	// Branding is the raw tenant.branding column, normalized by the branding domain.
	Branding map[string]any
}

// Module is a feature flag scoped to a tenant. A missing row means disabled.
type Module struct {
	TenantID uuid.UUID
	Key      string
	Enabled  bool
	Config   map[string]any
}

// Repository abstracts the tenant data gateway.
type Repository interface {
	FindBySlug(ctx context.Context, slug string) (Tenant, error)
	ListEnabledModules(ctx context.Context, tenantID uuid.UUID) ([]Module, error)
}

// Phase enumerates the resolver states.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhaseNotFound  Phase = "not_found"
	PhaseSuspended Phase = "suspended"
	PhaseResolved  Phase = "resolved"
)

// State is what the resolver exposes to its consumers.
type State struct {
	Phase   Phase
	Slug    string
	Tenant  *Tenant
	Modules []Module
	Err     error
}

// IsLoading reports whether a resolution is in flight.
func (s State) IsLoading() bool { return s.Phase == PhaseLoading }

// ModuleKeys returns the enabled module keys.
func (s State) ModuleKeys() []string {
	keys := make([]string, 0, len(s.Modules))
	for _, m := range s.Modules {
		if m.Enabled {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// Resolver maps URL slugs to tenants.
type Resolver struct {
	repo   Repository
	logger *zap.Logger
}

// NewResolver constructs a Resolver with required dependencies.
func NewResolver(repo Repository, logger *zap.Logger) *Resolver {
	if repo == nil {
		panic("tenants repo is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{repo: repo, logger: logger}
}

// Resolve runs one full resolution for slug. Absent and platform slugs yield PhaseIdle.
// When ctx ends before the lookup answers the state stays PhaseLoading.
func (r *Resolver) Resolve(ctx context.Context, slug string) State {
	slug = strings.TrimSpace(slug)
	if !tenant.IsResolvable(slug) {
		return State{Phase: PhaseIdle, Slug: slug}
	}

	t, err := r.repo.FindBySlug(ctx, slug)
	if err != nil && ctx.Err() != nil {
		return State{Phase: PhaseLoading, Slug: slug, Err: ctx.Err()}
	}
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("tenant lookup failed", zap.String("slug", slug), zap.Error(err))
		}
		return State{Phase: PhaseNotFound, Slug: slug, Err: err}
	}

	modules, err := r.repo.ListEnabledModules(ctx, t.ID)
	if err != nil {
		r.logger.Warn("tenant modules unavailable; continuing without modules",
			zap.String("tenant_id", t.ID.String()), zap.Error(err))
		modules = nil
	}

	state := State{Phase: PhaseResolved, Slug: slug, Tenant: &t, Modules: modules}
	if t.Status == StatusSuspended {
		state.Phase = PhaseSuspended
	}
	return state
}

// ResolveSpace adapts Resolve for the tenant HTTP middleware.
func (r *Resolver) ResolveSpace(ctx context.Context, slug string) (tenant.Space, error) {
	state := r.Resolve(ctx, slug)
	switch state.Phase {
	case PhaseSuspended:
		return tenant.Space{}, tenant.ErrSuspended
	case PhaseResolved:
		return ToSpace(state), nil
	case PhaseLoading:
		return tenant.Space{}, fmt.Errorf("%w: %v", tenant.ErrUnavailable, state.Err)
	default:
		if state.Err != nil && !errors.Is(state.Err, ErrNotFound) {
			return tenant.Space{}, state.Err
		}
		return tenant.Space{}, tenant.ErrNotFound
	}
}

// ToSpace converts a resolved state to the request-scoped Space.
func ToSpace(state State) tenant.Space {
	if state.Tenant == nil {
		return tenant.Space{}
	}
	t := state.Tenant
	return tenant.Space{
		TenantID: t.ID,
		Slug:     t.Slug,
		Name:     t.Name,
		Type:     string(t.Type),
		Status:   string(t.Status),
		Modules:  state.ModuleKeys(),
	}
}
