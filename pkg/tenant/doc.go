// Package tenant implements per-request tenant (center) scoping.
//
// # Overview
//
// Every authenticated request resolves a tenant Context from its principal:
//
//	tc := tenant.Resolve(principal)
//	ctx = tenant.WithContext(ctx, tc)
//
// Data-access code then applies the center predicate when building queries:
//
//	query := `SELECT id, name FROM applicants`
//	var args []interface{}
//	tenant.ApplyCenterFilter(&query, &args, tenant.FromContext(ctx), "", true)
//
// # Fail-closed semantics
//
// Isolation is enforced at query time, not by locking: the shared resource is
// the database table and the predicate is the whole policy. Consequently the
// absence of a context (resolution failed, or the account has no assigned
// center) must filter to zero rows. ApplyCenterFilter emits FALSE in that
// case rather than omitting the predicate.
package tenant
