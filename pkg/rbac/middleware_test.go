package rbac

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/contextkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(p *auth.Principal, method, path string) *http.Request {
	r := httptest.NewRequest(method, path, nil)
	if p != nil {
		ctx := context.WithValue(r.Context(), contextkeys.PrincipalKey, p)
		r = r.WithContext(ctx)
	}
	return r
}

func TestRequireRolesAllows(t *testing.T) {
	handler := RequireRoles(1, 2, 3)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(&auth.Principal{UserID: 1, Role: auth.RoleOrgAdmin}, "GET", "/api/tasks"))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesDenies(t *testing.T) {
	handler := RequireRoles(1, 2)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(&auth.Principal{UserID: 1, Role: auth.RoleOrgCaseworker}, "GET", "/api/audit/access"))

	require.Equal(t, http.StatusForbidden, w.Code)

	var body RoleDenial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []auth.Role{1, 2}, body.RequiredRoles)
	assert.Equal(t, auth.RoleOrgCaseworker, body.YourRole)
	assert.Equal(t, "Org Caseworker", body.RoleName)
	assert.NotEmpty(t, body.Msg)
}

func TestRequireRolesNoPrincipal(t *testing.T) {
	handler := RequireRoles(1, 2, 3, 4, 5)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(nil, "GET", "/api/tasks"))

	require.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["msg"])
}

func TestMiddlewareDeniesExecutiveWrite(t *testing.T) {
	handler := Middleware(nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(&auth.Principal{UserID: 4, Role: auth.RoleOrgExecutive}, "POST", "/api/tasks"))

	require.Equal(t, http.StatusForbidden, w.Code)

	var body MethodDenial
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"GET"}, body.AllowedMethods)
	assert.Equal(t, "POST", body.AttemptedMethod)
}

func TestMiddlewareAllowsAndRecords(t *testing.T) {
	var recorded []Decision
	recorder := func(r *http.Request, p *auth.Principal, d Decision) {
		recorded = append(recorded, d)
	}

	handler := Middleware(recorder)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(&auth.Principal{UserID: 5, Role: auth.RoleOrgCaseworker}, "GET", "/api/lookup/Gender"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(&auth.Principal{UserID: 5, Role: auth.RoleOrgCaseworker}, "POST", "/api/centerDetail"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.Len(t, recorded, 2)
	assert.True(t, recorded[0].Allowed)
	assert.False(t, recorded[1].Allowed)
	assert.Equal(t, "module not permitted", recorded[1].Reason)
}

func TestMiddlewareNoPrincipal(t *testing.T) {
	handler := Middleware(nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestAs(nil, "GET", "/api/tasks"))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
