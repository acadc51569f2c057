package service

import "github.com/zenGate-Global/rastro-saas/platform/go/tenant"

// View is what a guarded surface renders.
type View string

const (
	ViewRedirect   View = "redirect"
	ViewLoading    View = "loading"
	ViewDenied     View = "denied"
	ViewRestricted View = "restricted"
	ViewRender     View = "render"
)

// Decision is the rendered outcome of a guard.
type Decision struct {
	View       View        `json:"view"`
	Access     AccessState `json:"access"`
	RedirectTo string      `json:"redirectTo,omitempty"`
	TenantName string      `json:"tenantName,omitempty"`
}

// TenantViewInput is everything the tenant guard's rendering depends on.
type TenantViewInput struct {
	AuthLoading   bool
	UserID        string
	Slug          string
	TenantLoading bool
	TenantName    string
	LoggedIn      bool
	Access        AccessState
}

// DecideTenantView applies, in order: unauthenticated, loading, missing tenant login,
// pending check, denied, granted.
func DecideTenantView(in TenantViewInput) Decision {
	d := Decision{Access: in.Access}
	switch {
	case !in.AuthLoading && in.UserID == "":
		d.View, d.RedirectTo = ViewRedirect, tenant.LoginPath(in.Slug)
	case in.AuthLoading || in.TenantLoading:
		d.View = ViewLoading
	case !in.LoggedIn:
		d.View, d.RedirectTo = ViewRedirect, tenant.LoginPath(in.Slug)
	case in.Access == AccessDenied:
		d.View, d.TenantName = ViewDenied, in.TenantName
	case in.Access == AccessGranted:
		d.View = ViewRender
	default:
		d.View = ViewLoading
	}
	return d
}

// PlatformViewInput is everything the platform guard's rendering depends on.
type PlatformViewInput struct {
	AuthLoading bool
	UserID      string
	Access      AccessState
}

// DecidePlatformView applies, in order: auth loading, unauthenticated, pending check,
// denied, granted.
func DecidePlatformView(in PlatformViewInput) Decision {
	d := Decision{Access: in.Access}
	switch {
	case in.AuthLoading:
		d.View = ViewLoading
	case in.UserID == "":
		d.View, d.RedirectTo = ViewRedirect, tenant.PlatformLoginPath()
	case in.Access == AccessDenied:
		d.View = ViewRestricted
	case in.Access == AccessGranted:
		d.View = ViewRender
	default:
		d.View = ViewLoading
	}
	return d
}
