package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/auth"
)

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(nil, false)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/applicants", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthMiddlewareOptionalContinues(t *testing.T) {
	m := NewAuthMiddleware(nil, true)
	reached := false
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		assert.Nil(t, auth.PrincipalFromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/lookup/gender", nil))
	assert.True(t, reached)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	m := NewAuthMiddleware(nil, false)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	r := httptest.NewRequest("GET", "/api/applicants", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid authorization header format")
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	token := "falah_abcdef0123456789abcdef0123456789"
	sum := sha256.Sum256([]byte(token))
	hash := hex.EncodeToString(sum[:])

	mock.ExpectQuery("SELECT (.+) FROM api_tokens").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "username", "role", "center_id"}).
			AddRow(7, "kausar", 5, 3))
	mock.ExpectExec("UPDATE api_tokens SET last_used_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tm := auth.NewTokenManager(db)
	m := NewAuthMiddleware(tm, false)

	var got *auth.Principal
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r)
	}))

	r := httptest.NewRequest("GET", "/api/applicants", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), r)

	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, auth.RoleOrgCaseworker, got.Role)
	require.NotNil(t, got.CenterID)
	assert.Equal(t, int64(3), *got.CenterID)
}
