// Package rbac implements role-based route authorization.
//
// # Overview
//
// Five fixed roles share a compiled-in policy table (see PolicyFor). The
// Authorize function decides allow/deny for a (role, method, path) triple
// with a fixed precedence pipeline:
//
//	AppAdmin bypass
//	→ Executive view-only (exempt modules keep full CRUD)
//	→ Caseworker carve-outs, then module allow-list
//	→ HQ center-management restriction
//	→ allow
//
// # Module classification
//
// Request paths classify into modules via a lower-cased substring scan over
// an ordered fragment table (ModuleFromPath). This matches aliased routes
// consistently but is textual, not structural: a fragment that is a substring
// of an unrelated route would misclassify it. The fragment list and its order
// are behavioral contract; see modules.go before changing either.
//
// # Carve-outs
//
// Carve-outs are path fragments exempted from the default restriction and
// checked before the module allow-list. They make, for example,
// GET /api/lookup/Gender succeed for a caseworker even though Lookup is not
// in the caseworker's module list.
//
// # Middleware
//
// Routes are declared with both layers:
//
//	chain(rbac.RequireRoles(1, 2, 3), rbac.Middleware(recorder))
//
// RequireRoles handles the per-route literal role list; Middleware applies
// the method/module policy. Both run before any handler or store work, so
// denials never touch the database.
//
// # Related Packages
//
//   - pkg/auth: the Role type and Principal
//   - pkg/tenant: center scoping applied at the data layer
//   - pkg/audit: records the decisions this package hands it
package rbac
