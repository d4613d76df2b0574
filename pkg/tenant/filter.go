package tenant

import "fmt"

// ApplyCenterFilter appends the tenant isolation predicate for tc to query,
// extending args in step with the query's positional parameters.
//
// Three cases:
//   - global access: no predicate, all centers visible
//   - center-scoped with a center: `alias.center_id = $n`
//   - no context or no provisioned center: `FALSE`, matching nothing
//
// The FALSE branch is deliberate: a request that reaches the data layer
// without a resolvable tenant scope gets an empty result set, not a
// cross-tenant leak.
func ApplyCenterFilter(query *string, args *[]interface{}, tc *Context, alias string, firstCondition bool) {
	if tc != nil && tc.GlobalAccess {
		return
	}

	connective := ` AND `
	if firstCondition {
		connective = ` WHERE `
	}

	if tc == nil || tc.CenterID == nil {
		*query += connective + `FALSE`
		return
	}

	*args = append(*args, *tc.CenterID)
	column := "center_id"
	if alias != "" {
		column = alias + ".center_id"
	}
	*query += connective + fmt.Sprintf("%s = $%d", column, len(*args))
}
