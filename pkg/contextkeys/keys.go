// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the application must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//   import "github.com/falah-io/falah/pkg/contextkeys"
//   ctx = context.WithValue(ctx, contextkeys.PrincipalKey, principal)
//   p := ctx.Value(contextkeys.PrincipalKey).(*auth.Principal)
package contextkeys

// Key is the type for context keys to prevent collisions
type Key string

const (
	// PrincipalKey contains *auth.Principal
	// Set by: middleware.AuthMiddleware (pkg/middleware/auth.go)
	// Required by: tenant middleware, RBAC middleware, all protected endpoints
	// Type: *auth.Principal
	PrincipalKey Key = "principal"

	// TenantKey contains *tenant.Context
	// Set by: middleware.TenantMiddleware (pkg/middleware/tenant.go)
	// Required by: every data-access call (center_id filtering)
	// Type: *tenant.Context
	TenantKey Key = "tenant_context"

	// RequestIDKey contains request ID string (UUID)
	// Set by: httputil.RequestIDMiddleware
	// Used by: Logger, access audit trail
	// Type: string
	RequestIDKey Key = "request_id"
)
