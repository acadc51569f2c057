package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	brandingsvc "github.com/zenGate-Global/rastro-saas/domains/branding/be/service"
	"github.com/zenGate-Global/rastro-saas/domains/tenants/be/service"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/problems"
)

// Resolver is the subset of service.Resolver used by the handler.
type Resolver interface {
	Resolve(ctx context.Context, slug string) service.State
}

// Branding composes the effective branding for a resolved tenant.
type Branding interface {
	Load(ctx context.Context, t *service.Tenant) brandingsvc.Config
}

// Tenant is the public projection of a tenant.
type Tenant struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// TenantView is the body of GET /tenants/{slug}.
type TenantView struct {
	Tenant   Tenant             `json:"tenant"`
	Modules  []string           `json:"modules"`
	Branding brandingsvc.Config `json:"branding"`
}

// Handler serves tenant resolution over HTTP.
type Handler struct {
	resolver Resolver
	branding Branding
	logger   *zap.Logger
}

// New constructs a Handler instance.
func New(resolver Resolver, branding Branding, logger *zap.Logger) *Handler {
	if resolver == nil {
		panic("tenant resolver is required")
	}
	if branding == nil {
		panic("branding composer is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{resolver: resolver, branding: branding, logger: logger}
}

// TenantsGet implements GET /tenants/{slug}.
func (h *Handler) TenantsGet(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	state := h.resolver.Resolve(r.Context(), slug)

	switch state.Phase {
	case service.PhaseResolved:
	case service.PhaseSuspended:
		problems.Write(w, r, problems.New(http.StatusForbidden, problems.TypeTenantSuspended, "Tenant suspended", "tenant "+slug+" is suspended"))
		return
	case service.PhaseLoading:
		problems.Write(w, r, problems.New(http.StatusServiceUnavailable, problems.TypeInternal, "Tenant unavailable", "tenant resolution did not complete"))
		return
	default:
		if state.Err != nil {
			platformlogging.FromRequest(r, h.logger).Debug("tenant not resolved", zap.String("slug", slug), zap.Error(state.Err))
		}
		problems.Write(w, r, problems.New(http.StatusNotFound, problems.TypeTenantNotFound, "Tenant not found", "no tenant with slug "+slug))
		return
	}

	t := state.Tenant
	view := TenantView{
		Tenant: Tenant{
			ID:     t.ID.String(),
			Slug:   t.Slug,
			Name:   t.Name,
			Type:   string(t.Type),
			Status: string(t.Status),
		},
		Modules:  state.ModuleKeys(),
		Branding: h.branding.Load(r.Context(), t),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(view)
}
