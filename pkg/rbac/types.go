package rbac

import (
	"net/http"

	"github.com/falah-io/falah/pkg/auth"
)

// AccessScope describes how far a role's visibility reaches.
type AccessScope string

const (
	ScopeGlobal      AccessScope = "global"       // all centers, no filtering
	ScopeMultiCenter AccessScope = "multi-center" // all centers, policy-restricted
	ScopeCenterOnly  AccessScope = "center-only"  // own center only
)

// ModuleAccess describes which modules a role may reach.
type ModuleAccess string

const (
	ModulesAll             ModuleAccess = "all"
	ModulesAllExceptCenter ModuleAccess = "all-except-centers"
	ModulesEnumerated      ModuleAccess = "enumerated"
)

// RolePolicy is the immutable, compiled-in policy record for one role.
// Built once at init and never mutated at runtime.
type RolePolicy struct {
	Role             auth.Role
	Label            string
	AccessScope      AccessScope
	CenterRestricted bool
	AllowedMethods   []string
	ModuleAccess     ModuleAccess
	AllowedModules   []Module // only for ModulesEnumerated
}

var allMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodDelete, http.MethodPatch,
}

// mutatingMethods are the verbs HQ may not use against center records.
var mutatingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// caseworkerModules is the caseworker's fixed module allow-list. Paths that
// classify to any other module are denied unless a carve-out matched first.
var caseworkerModules = []Module{
	ModuleDashboard,
	ModuleApplicantDetails,
	ModuleTasks,
	ModuleComments,
	ModuleRelationships,
	ModuleHomeVisit,
	ModuleFinancialAssistance,
	ModuleFoodAssistance,
	ModuleAttachments,
	ModulePrograms,
	ModuleFinancialAssessment,
	ModuleApplicantIncome,
	ModuleApplicantExpense,
	ModuleMadressaApplication,
	ModuleConductAssessment,
	ModuleIslamicResults,
	ModuleAcademicResults,
	ModuleParentQuestionnaire,
	ModulePolicyAndProcedure,
	ModuleFolders,
	ModuleConversations,
}

// executiveExemptModules keep full CRUD for executives: the file manager,
// chat, and shared reference data. Everything else is view-only for them.
var executiveExemptModules = map[Module]bool{
	ModuleFolders:       true,
	ModuleFiles:         true,
	ModuleConversations: true,
	ModuleMessages:      true,
	ModuleLookup:        true,
}

// policies is the compiled-in role table.
var policies = map[auth.Role]RolePolicy{
	auth.RoleAppAdmin: {
		Role:           auth.RoleAppAdmin,
		Label:          "App Admin",
		AccessScope:    ScopeGlobal,
		AllowedMethods: allMethods,
		ModuleAccess:   ModulesAll,
	},
	auth.RoleHQ: {
		Role:             auth.RoleHQ,
		Label:            "HQ",
		AccessScope:      ScopeMultiCenter,
		CenterRestricted: true,
		AllowedMethods:   allMethods,
		ModuleAccess:     ModulesAllExceptCenter,
	},
	auth.RoleOrgAdmin: {
		Role:             auth.RoleOrgAdmin,
		Label:            "Org Admin",
		AccessScope:      ScopeCenterOnly,
		CenterRestricted: true,
		AllowedMethods:   allMethods,
		ModuleAccess:     ModulesAll,
	},
	auth.RoleOrgExecutive: {
		Role:             auth.RoleOrgExecutive,
		Label:            "Org Executive",
		AccessScope:      ScopeCenterOnly,
		CenterRestricted: true,
		AllowedMethods:   []string{http.MethodGet},
		ModuleAccess:     ModulesAll,
	},
	auth.RoleOrgCaseworker: {
		Role:             auth.RoleOrgCaseworker,
		Label:            "Org Caseworker",
		AccessScope:      ScopeCenterOnly,
		CenterRestricted: true,
		AllowedMethods:   allMethods,
		ModuleAccess:     ModulesEnumerated,
		AllowedModules:   caseworkerModules,
	},
}

// PolicyFor returns the compiled-in policy for a role and whether the role is
// known. Unknown roles get no policy; callers must fail closed.
func PolicyFor(role auth.Role) (RolePolicy, bool) {
	p, ok := policies[role]
	return p, ok
}

// Decision is the outcome of an authorization check. Denied decisions carry
// the structured payload returned to the client as the 403 body.
type Decision struct {
	Allowed bool
	Reason  string
	Body    interface{}
}

// Allow is the affirmative decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// RoleDenial is the 403 body for a route whose required-roles list does not
// include the caller's role.
type RoleDenial struct {
	Msg           string      `json:"msg"`
	RequiredRoles []auth.Role `json:"required_roles"`
	YourRole      auth.Role   `json:"your_role"`
	RoleName      string      `json:"role_name"`
}

// MethodDenial is the 403 body for a view-only role attempting a write.
type MethodDenial struct {
	Msg             string    `json:"msg"`
	YourRole        auth.Role `json:"your_role"`
	AllowedMethods  []string  `json:"allowed_methods"`
	AttemptedMethod string    `json:"attempted_method"`
}

// ModuleDenial is the 403 body for a role reaching outside its module list.
type ModuleDenial struct {
	Msg            string    `json:"msg"`
	YourRole       auth.Role `json:"your_role"`
	AllowedModules []Module  `json:"allowed_modules"`
	AttemptedRoute string    `json:"attempted_route"`
}
