package requesttrace

import (
	"context"
	"errors"

	platformauth "github.com/zenGate-Global/rastro-saas/platform/go/auth"
)

type contextKey string

const (
	ctxAuditInfo contextKey = "RASTRO_REQUEST_TRACE"
)

// ActorKind represents who initiated a request.
type ActorKind string

const (
	ActorKindUser      ActorKind = "user"
	ActorKindAnonymous ActorKind = "anonymous"
	ActorKindSystem    ActorKind = "system"
)

// AuditInfo captures request-scoped metadata used to stamp logs.
// UserID is set only when ActorKind is user. TenantSlug is set once a tenant route resolved.
type AuditInfo struct {
	ActorKind  ActorKind
	UserID     *string
	TenantSlug *string
	RequestID  string
}

// IntoContext stores the AuditInfo in the provided context.
func IntoContext(ctx context.Context, audit AuditInfo) context.Context {
	return context.WithValue(ctx, ctxAuditInfo, audit)
}

// FromContext extracts the AuditInfo from context, returning false when not present.
func FromContext(ctx context.Context) (AuditInfo, bool) {
	if ctx == nil {
		return AuditInfo{}, false
	}
	audit, ok := ctx.Value(ctxAuditInfo).(AuditInfo)
	return audit, ok
}

// FromContextOrAnonymous returns the AuditInfo stored on the context, or an anonymous record when absent.
func FromContextOrAnonymous(ctx context.Context) AuditInfo {
	if audit, ok := FromContext(ctx); ok {
		return audit
	}
	return Anonymous("")
}

// WithTenantSlug returns ctx with the stored AuditInfo scoped to slug.
func WithTenantSlug(ctx context.Context, slug string) context.Context {
	audit := FromContextOrAnonymous(ctx)
	audit.TenantSlug = &slug
	return IntoContext(ctx, audit)
}

// FromIdentity builds an AuditInfo for an authenticated identity.
func FromIdentity(id *platformauth.Identity, requestID string) (AuditInfo, error) {
	if id == nil {
		return AuditInfo{}, errors.New("identity is required to build audit info")
	}
	if id.ID == "" {
		return AuditInfo{}, errors.New("user id is required to build audit info")
	}

	userID := id.ID
	return AuditInfo{
		ActorKind: ActorKindUser,
		UserID:    &userID,
		RequestID: requestID,
	}, nil
}

// Anonymous builds an AuditInfo for unauthenticated requests.
func Anonymous(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindAnonymous, RequestID: requestID}
}

// System builds an AuditInfo for CLI and background operations.
func System(requestID string) AuditInfo {
	return AuditInfo{ActorKind: ActorKindSystem, RequestID: requestID}
}
