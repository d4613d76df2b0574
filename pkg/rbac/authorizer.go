package rbac

import (
	"net/http"
	"strings"

	"github.com/falah-io/falah/pkg/auth"
)

// carveOut is a path fragment exempted from the default role restriction.
// A zero Method means the carve-out covers every method.
type carveOut struct {
	Fragment string
	Method   string
}

// caseworkerCarveOuts are evaluated before the caseworker module allow-list
// and take precedence over it. A caseworker hitting /api/lookup/Gender is
// allowed even though Lookup is not in the caseworker module list.
var caseworkerCarveOuts = []carveOut{
	{Fragment: "dashboard"},
	{Fragment: "lookup"},
	{Fragment: "employee", Method: http.MethodGet},
	{Fragment: "traininginstitution", Method: http.MethodGet},
	{Fragment: "madressa"},
	{Fragment: "/folders"},
	{Fragment: "/files"},
	{Fragment: "/conversations"},
	{Fragment: "/messages"},
}

// Authorize decides whether role may perform method on path.
//
// Evaluation order is fixed and significant:
//
//	AppAdmin bypass
//	→ Executive view-only check (exempt modules keep full CRUD)
//	→ Caseworker carve-outs, then module allow-list
//	→ HQ center-management restriction
//	→ allow
//
// Unknown roles are denied outright (fail closed). Authorization never
// touches storage; a denial is returned before any database access.
func Authorize(role auth.Role, method, path string) Decision {
	switch role {
	case auth.RoleAppAdmin:
		// Full trust, regardless of method and path.
		return Allow()

	case auth.RoleOrgExecutive:
		return authorizeExecutive(role, method, path)

	case auth.RoleOrgCaseworker:
		return authorizeCaseworker(role, method, path)

	case auth.RoleHQ:
		return authorizeHQ(role, method, path)

	case auth.RoleOrgAdmin:
		// Full CRUD; center restriction is enforced by the tenant filter at
		// the data layer, not here.
		return Allow()

	default:
		return Decision{
			Allowed: false,
			Reason:  "unknown role",
			Body: RoleDenial{
				Msg:      "your role is not recognized",
				YourRole: role,
				RoleName: role.Name(),
			},
		}
	}
}

func authorizeExecutive(role auth.Role, method, path string) Decision {
	if executiveExemptModules[ModuleFromPath(path)] {
		return Allow()
	}
	if method == http.MethodGet {
		return Allow()
	}

	policy := policies[role]
	return Decision{
		Allowed: false,
		Reason:  "view-only",
		Body: MethodDenial{
			Msg:             "your role has view-only access to this module",
			YourRole:        role,
			AllowedMethods:  policy.AllowedMethods,
			AttemptedMethod: method,
		},
	}
}

func authorizeCaseworker(role auth.Role, method, path string) Decision {
	lower := strings.ToLower(path)

	// Carve-outs first; they bypass the module allow-list entirely.
	for _, co := range caseworkerCarveOuts {
		if !strings.Contains(lower, co.Fragment) {
			continue
		}
		if co.Method == "" || co.Method == method {
			return Allow()
		}
	}

	module := ModuleFromPath(path)
	for _, allowed := range caseworkerModules {
		if module == allowed {
			return Allow()
		}
	}

	return Decision{
		Allowed: false,
		Reason:  "module not permitted",
		Body: ModuleDenial{
			Msg:            "module not permitted for your role",
			YourRole:       role,
			AllowedModules: caseworkerModules,
			AttemptedRoute: path,
		},
	}
}

func authorizeHQ(role auth.Role, method, path string) Decision {
	if ModuleFromPath(path) == ModuleCenterDetail && mutatingMethods[method] {
		return Decision{
			Allowed: false,
			Reason:  "HQ cannot manage centers",
			Body: MethodDenial{
				Msg:             "HQ cannot manage centers",
				YourRole:        role,
				AllowedMethods:  []string{http.MethodGet},
				AttemptedMethod: method,
			},
		}
	}
	return Allow()
}
