// Package auth provides the role model, API token generation, and token
// validation for the Falah backend.
//
// # Roles
//
// Five fixed roles exist, identified by the integers 1-5 that route
// declarations and error payloads use directly:
//
//	auth.RoleAppAdmin      (1)  global access
//	auth.RoleHQ            (2)  all centers, no center management
//	auth.RoleOrgAdmin      (3)  full CRUD within own center
//	auth.RoleOrgExecutive  (4)  view-only outside exempt modules
//	auth.RoleOrgCaseworker (5)  fixed module allow-list
//
// # Tokens
//
// API tokens are opaque bearer tokens of the form falah_<base64url>. Only the
// SHA256 hash is persisted; validation resolves the hash to an active user row
// and yields a Principal:
//
//	tm := auth.NewTokenManager(db)
//	principal, err := tm.ValidateToken(ctx, token)
//
// # Related Packages
//
//   - pkg/middleware: bearer extraction and principal attachment
//   - pkg/rbac: role/method/module authorization
//   - pkg/tenant: center scoping derived from the principal
package auth
