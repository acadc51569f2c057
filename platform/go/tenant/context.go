package tenant

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Errors returned by resolvers that back the tenant middleware.
var (
	ErrNotFound    = errors.New("tenant not found")
	ErrSuspended   = errors.New("tenant suspended")
	ErrUnavailable = errors.New("tenant resolution did not complete")
)

// Space captures the resolved tenant for a request. It is attached to the context by
// middleware once the slug in the URL has been resolved.
type Space struct {
	TenantID uuid.UUID
	Slug     string
	Name     string
	Type     string
	Status   string
	Modules  []string
}

// HasModule reports whether the module key is enabled for the tenant.
func (s Space) HasModule(key string) bool {
	for _, m := range s.Modules {
		if m == key {
			return true
		}
	}
	return false
}

type ctxKey string

const spaceKey ctxKey = "RASTRO_TENANT_SPACE"

// WithSpace returns a derived context carrying the tenant Space.
func WithSpace(ctx context.Context, space Space) context.Context {
	return context.WithValue(ctx, spaceKey, space)
}

// FromContext extracts the tenant Space and a boolean indicating presence.
func FromContext(ctx context.Context) (Space, bool) {
	v := ctx.Value(spaceKey)
	if v == nil {
		return Space{}, false
	}

	space, ok := v.(Space)
	return space, ok
}
