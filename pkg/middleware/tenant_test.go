package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/tenant"
)

func int64Ptr(v int64) *int64 { return &v }

func TestTenantMiddlewareResolvesScopedContext(t *testing.T) {
	m := NewTenantMiddleware(nil)

	var got *tenant.Context
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = tenant.FromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/api/applicants", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), &auth.Principal{
		UserID: 1, Role: auth.RoleOrgCaseworker, CenterID: int64Ptr(4),
	}))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.False(t, got.GlobalAccess)
	require.NotNil(t, got.CenterID)
	assert.Equal(t, int64(4), *got.CenterID)
}

func TestTenantMiddlewareGlobalForAppAdmin(t *testing.T) {
	m := NewTenantMiddleware(nil)

	var got *tenant.Context
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = tenant.FromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/api/centerDetail", nil)
	r = r.WithContext(auth.WithPrincipal(r.Context(), &auth.Principal{
		UserID: 1, Role: auth.RoleAppAdmin,
	}))
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.True(t, got.GlobalAccess)
	assert.Nil(t, got.CenterID)
}

func TestTenantMiddlewareNoPrincipalContinuesWithoutContext(t *testing.T) {
	m := NewTenantMiddleware(nil)

	reached := false
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		assert.Nil(t, tenant.FromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/lookup/gender", nil))
	assert.True(t, reached)
}
