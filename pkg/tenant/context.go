package tenant

import (
	"context"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/contextkeys"
)

// Context carries the per-request tenant scope derived from the authenticated
// principal. It is created once at the start of request handling and consumed
// by every data-access call.
//
// GlobalAccess is true only for App Admin. HQ and all center-scoped roles
// carry a concrete CenterID, or nil when the account was never provisioned to
// a center; a nil CenterID must filter to zero rows, never to all rows.
type Context struct {
	CenterID     *int64 `json:"center_id,omitempty"`
	GlobalAccess bool   `json:"is_multi_center"`
	HQ           bool   `json:"is_hq"`
	AppAdmin     bool   `json:"is_app_admin"`
}

// Resolve derives a tenant Context from a principal.
//
// Unknown roles fail closed: they resolve as center-scoped with whatever
// center the account carries, never as global access.
func Resolve(p *auth.Principal) *Context {
	if p == nil {
		return &Context{}
	}

	tc := &Context{
		AppAdmin: p.Role == auth.RoleAppAdmin,
		HQ:       p.Role == auth.RoleHQ,
	}
	tc.GlobalAccess = tc.AppAdmin

	if !tc.GlobalAccess {
		tc.CenterID = p.CenterID
	}

	return tc
}

// FromContext extracts the tenant Context from a request context. Returns nil
// when resolution never ran or failed; stores treat nil as "matches nothing".
func FromContext(ctx context.Context) *Context {
	tc, ok := ctx.Value(contextkeys.TenantKey).(*Context)
	if !ok {
		return nil
	}
	return tc
}

// WithContext attaches a tenant Context to a request context.
func WithContext(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, contextkeys.TenantKey, tc)
}

// Scoped reports whether queries must be restricted to a single center.
func (tc *Context) Scoped() bool {
	return tc == nil || !tc.GlobalAccess
}
