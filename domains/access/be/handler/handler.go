package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zenGate-Global/rastro-saas/domains/access/be/ledger"
	"github.com/zenGate-Global/rastro-saas/domains/access/be/service"
	platformauth "github.com/zenGate-Global/rastro-saas/platform/go/auth"
	platformlogging "github.com/zenGate-Global/rastro-saas/platform/go/logging"
	"github.com/zenGate-Global/rastro-saas/platform/go/problems"
	"github.com/zenGate-Global/rastro-saas/platform/go/tenant"
)

// Checker computes access states; service.CachedChecker satisfies it.
type Checker interface {
	Tenant(ctx context.Context, userID string, tenantID uuid.UUID) service.AccessState
	Platform(ctx context.Context, userID string) service.AccessState
}

// LedgerBinder yields the request-scoped ledger store; ledger.Cookies satisfies it.
type LedgerBinder interface {
	Bind(w http.ResponseWriter, r *http.Request) ledger.Store
}

// Handler serves the access guard views and the login ledger.
type Handler struct {
	checker Checker
	ledgers LedgerBinder
	logger  *zap.Logger
}

// New constructs a Handler instance.
func New(checker Checker, ledgers LedgerBinder, logger *zap.Logger) *Handler {
	if checker == nil {
		panic("access checker is required")
	}
	if ledgers == nil {
		panic("ledger binder is required")
	}
	if logger == nil {
		panic("logger is required")
	}
	return &Handler{checker: checker, ledgers: ledgers, logger: logger}
}

// TenantAccess implements GET /tenants/{slug}/access. It expects the tenant middleware
// to have resolved the slug. The access check only runs once the ledger gate passed.
func (h *Handler) TenantAccess(w http.ResponseWriter, r *http.Request) {
	space, ok := tenant.FromContext(r.Context())
	if !ok {
		problems.Write(w, r, problems.New(http.StatusNotFound, problems.TypeTenantNotFound, "Tenant not found", ""))
		return
	}

	in := service.TenantViewInput{
		Slug:       space.Slug,
		TenantName: space.Name,
		Access:     service.AccessUnchecked,
	}
	if id, ok := platformauth.IdentityFromContext(r.Context()); ok {
		in.UserID = id.ID
		in.LoggedIn = ledger.New(h.ledgers.Bind(w, r)).HasLoggedIn(space.TenantID.String(), id.ID)
	}
	if in.UserID != "" && in.LoggedIn {
		in.Access = h.checker.Tenant(r.Context(), in.UserID, space.TenantID)
	}

	writeJSON(w, http.StatusOK, service.DecideTenantView(in))
}

// PlatformAccess implements GET /platform/access.
func (h *Handler) PlatformAccess(w http.ResponseWriter, r *http.Request) {
	in := service.PlatformViewInput{Access: service.AccessUnchecked}
	if id, ok := platformauth.IdentityFromContext(r.Context()); ok {
		in.UserID = id.ID
		in.Access = h.checker.Platform(r.Context(), id.ID)
	}
	writeJSON(w, http.StatusOK, service.DecidePlatformView(in))
}

// RecordLogin implements POST /tenants/{slug}/logins, called after an explicit tenant login.
func (h *Handler) RecordLogin(w http.ResponseWriter, r *http.Request) {
	id, ok := platformauth.IdentityFromContext(r.Context())
	if !ok {
		problems.Write(w, r, problems.New(http.StatusUnauthorized, problems.TypeUnauthorized, "Unauthorized", "sign in before recording a tenant login"))
		return
	}
	space, ok := tenant.FromContext(r.Context())
	if !ok {
		problems.Write(w, r, problems.New(http.StatusNotFound, problems.TypeTenantNotFound, "Tenant not found", ""))
		return
	}

	if err := ledger.New(h.ledgers.Bind(w, r)).Record(space.TenantID.String(), id.ID); err != nil {
		platformlogging.FromRequest(r, h.logger).Error("record tenant login", zap.Error(err))
		problems.Write(w, r, problems.New(http.StatusInternalServerError, problems.TypeInternal, "Internal error", ""))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SignOut implements POST /auth/sign-out.
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := ledger.New(h.ledgers.Bind(w, r)).Clear(); err != nil {
		platformlogging.FromRequest(r, h.logger).Warn("clear login ledger", zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
