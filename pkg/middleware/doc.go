// Package middleware provides the request middleware specific to Falah's
// security model: bearer token authentication, tenant context resolution
// and Redis-backed distributed rate limiting.
//
// The expected chain order is authentication, then tenant resolution, then
// route authorization (pkg/rbac). Tenant resolution deliberately continues
// when no principal is present so that public routes still work, while
// tenant-filtered queries return zero rows.
package middleware
