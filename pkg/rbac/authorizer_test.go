package rbac

import (
	"fmt"
	"testing"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var everyMethod = []string{"GET", "POST", "PUT", "DELETE", "PATCH"}

func TestAppAdminBypass(t *testing.T) {
	paths := []string{
		"/api/tasks",
		"/api/centerDetail/5",
		"/api/parentQuestionnaire/1",
		"/api/anything/at/all",
		"/",
	}
	for _, path := range paths {
		for _, method := range everyMethod {
			d := Authorize(auth.RoleAppAdmin, method, path)
			assert.True(t, d.Allowed, "%s %s", method, path)
		}
	}
}

func TestOrgAdminFullAccess(t *testing.T) {
	for _, method := range everyMethod {
		d := Authorize(auth.RoleOrgAdmin, method, "/api/centerDetail/2")
		assert.True(t, d.Allowed, "%s", method)
	}
}

func TestExecutiveViewOnly(t *testing.T) {
	// Reads allowed everywhere
	d := Authorize(auth.RoleOrgExecutive, "GET", "/api/tasks")
	assert.True(t, d.Allowed)

	// Writes denied outside exempt modules
	for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
		d := Authorize(auth.RoleOrgExecutive, method, "/api/tasks")
		require.False(t, d.Allowed, "%s", method)
		assert.Equal(t, "view-only", d.Reason)

		body, ok := d.Body.(MethodDenial)
		require.True(t, ok)
		assert.Equal(t, auth.RoleOrgExecutive, body.YourRole)
		assert.Equal(t, []string{"GET"}, body.AllowedMethods)
		assert.Equal(t, method, body.AttemptedMethod)
	}
}

func TestExecutiveExemptModulesKeepFullCRUD(t *testing.T) {
	exempt := []string{
		"/api/folders",
		"/api/files/upload",
		"/api/conversations/3",
		"/api/messages",
		"/api/lookup/Gender",
	}
	for _, path := range exempt {
		for _, method := range everyMethod {
			d := Authorize(auth.RoleOrgExecutive, method, path)
			assert.True(t, d.Allowed, "%s %s", method, path)
		}
	}
}

func TestCaseworkerAllowListClosure(t *testing.T) {
	// Every module in the fixed list, every method
	allowed := map[Module]string{
		ModuleApplicantDetails:    "/api/applicantDetail/1",
		ModuleTasks:               "/api/tasks",
		ModuleComments:            "/api/comments/9",
		ModuleHomeVisit:           "/api/homeVisit",
		ModuleFinancialAssistance: "/api/financialAssistance",
		ModuleParentQuestionnaire: "/api/parentQuestionnaire",
		ModuleApplicantIncome:     "/api/applicantIncome/4",
		ModuleApplicantExpense:    "/api/applicantExpense",
	}
	for module, path := range allowed {
		for _, method := range everyMethod {
			d := Authorize(auth.RoleOrgCaseworker, method, path)
			assert.True(t, d.Allowed, "%s %s (%s)", method, path, module)
		}
	}

	// Outside the list and the carve-outs: denied for all methods
	for _, method := range everyMethod {
		d := Authorize(auth.RoleOrgCaseworker, method, "/api/centerDetail/2")
		require.False(t, d.Allowed, "%s", method)
		assert.Equal(t, "module not permitted", d.Reason)

		body, ok := d.Body.(ModuleDenial)
		require.True(t, ok)
		assert.Equal(t, auth.RoleOrgCaseworker, body.YourRole)
		assert.Equal(t, "/api/centerDetail/2", body.AttemptedRoute)
		assert.Contains(t, body.AllowedModules, ModuleTasks)
		assert.NotContains(t, body.AllowedModules, ModuleCenterDetail)
	}
}

func TestCaseworkerCarveOuts(t *testing.T) {
	// Lookup is not in the caseworker module list, yet any lookup path passes
	d := Authorize(auth.RoleOrgCaseworker, "GET", "/api/lookup/Gender")
	assert.True(t, d.Allowed)

	d = Authorize(auth.RoleOrgCaseworker, "GET", "/api/dashboard/summary")
	assert.True(t, d.Allowed)

	// Madressa-related paths pass for every method
	for _, method := range everyMethod {
		d := Authorize(auth.RoleOrgCaseworker, method, "/api/madressaApplication/12")
		assert.True(t, d.Allowed, "%s", method)
	}

	// Employee and training-institution carve-outs are GET-only
	assert.True(t, Authorize(auth.RoleOrgCaseworker, "GET", "/api/employee/3").Allowed)
	assert.False(t, Authorize(auth.RoleOrgCaseworker, "POST", "/api/employee").Allowed)
	assert.True(t, Authorize(auth.RoleOrgCaseworker, "GET", "/api/trainingInstitution").Allowed)
	assert.False(t, Authorize(auth.RoleOrgCaseworker, "DELETE", "/api/trainingInstitution/2").Allowed)

	// File manager and chat
	for _, path := range []string{"/api/folders", "/api/files/7", "/api/conversations", "/api/messages/1"} {
		d := Authorize(auth.RoleOrgCaseworker, "POST", path)
		assert.True(t, d.Allowed, "%s", path)
	}
}

func TestHQCenterManagementRestriction(t *testing.T) {
	assert.True(t, Authorize(auth.RoleHQ, "GET", "/api/centerDetail/5").Allowed)

	for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
		d := Authorize(auth.RoleHQ, method, "/api/centerDetail/5")
		require.False(t, d.Allowed, "%s", method)
		assert.Equal(t, "HQ cannot manage centers", d.Reason)

		body, ok := d.Body.(MethodDenial)
		require.True(t, ok)
		assert.Equal(t, "HQ cannot manage centers", body.Msg)
		assert.Equal(t, method, body.AttemptedMethod)
	}

	// Everything else is unrestricted for HQ
	for _, method := range everyMethod {
		assert.True(t, Authorize(auth.RoleHQ, method, "/api/tasks").Allowed, "%s", method)
		assert.True(t, Authorize(auth.RoleHQ, method, "/api/parentQuestionnaire").Allowed, "%s", method)
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	for _, role := range []auth.Role{0, 6, 99, -1} {
		for _, method := range everyMethod {
			d := Authorize(role, method, "/api/tasks")
			require.False(t, d.Allowed, "role %d %s", role, method)
			assert.Equal(t, "unknown role", d.Reason)
		}
	}
}

func TestModuleFromPath(t *testing.T) {
	tests := []struct {
		path   string
		module Module
	}{
		{"/api/dashboard", ModuleDashboard},
		{"/api/centerDetail/5", ModuleCenterDetail},
		{"/api/lookup/Gender", ModuleLookup},
		{"/api/applicantIncome/3", ModuleApplicantIncome},
		{"/api/applicantExpense", ModuleApplicantExpense},
		{"/api/applicantDetail/9", ModuleApplicantDetails},
		{"/api/tasks/1", ModuleTasks},
		{"/api/madressaApplication", ModuleMadressaApplication},
		{"/api/parentQuestionnaire/2", ModuleParentQuestionnaire},
		{"/api/folders/42", ModuleFolders},
		{"/api/reports/commitment", ModuleReports},
		{"/api/no/such/thing", ModuleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.module, ModuleFromPath(tt.path))
		})
	}
}

// Classification is a substring scan, so casing and aliasing collapse to the
// same module.
func TestModuleFromPathCaseInsensitive(t *testing.T) {
	assert.Equal(t, ModuleLookup, ModuleFromPath("/API/LOOKUP/Gender"))
	assert.Equal(t, ModuleMadressaApplication, ModuleFromPath("/api/Madressa/results"))
}

func TestPolicyFor(t *testing.T) {
	for _, role := range []auth.Role{
		auth.RoleAppAdmin, auth.RoleHQ, auth.RoleOrgAdmin,
		auth.RoleOrgExecutive, auth.RoleOrgCaseworker,
	} {
		p, ok := PolicyFor(role)
		require.True(t, ok, "role %d", role)
		assert.Equal(t, role, p.Role)
	}

	_, ok := PolicyFor(auth.Role(42))
	assert.False(t, ok)
}

// Identical inputs yield identical decisions; nothing in the pipeline holds
// state between calls.
func TestAuthorizeDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		d := Authorize(auth.RoleOrgCaseworker, "POST", "/api/centerDetail")
		assert.False(t, d.Allowed)
		assert.Equal(t, "module not permitted", d.Reason)
	}
}

func ExampleAuthorize() {
	d := Authorize(auth.RoleOrgExecutive, "POST", "/api/tasks")
	fmt.Println(d.Allowed, d.Reason)
	// Output: false view-only
}
