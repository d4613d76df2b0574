package applicants

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/tenant"
)

func TestResolveCenterID(t *testing.T) {
	body := int64Ptr(9)

	t.Run("unresolved scope yields nil", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/applicants", nil)
		assert.Nil(t, resolveCenterID(r, body))
	})

	t.Run("non-global caller gets own center", func(t *testing.T) {
		tc := &tenant.Context{CenterID: int64Ptr(3)}
		r := httptest.NewRequest(http.MethodPost, "/api/applicants", nil)
		r = r.WithContext(tenant.WithContext(context.Background(), tc))
		got := resolveCenterID(r, body)
		require.NotNil(t, got)
		assert.Equal(t, int64(3), *got)
	})

	t.Run("global caller keeps body value", func(t *testing.T) {
		tc := &tenant.Context{GlobalAccess: true}
		r := httptest.NewRequest(http.MethodPost, "/api/applicants", nil)
		r = r.WithContext(tenant.WithContext(context.Background(), tc))
		got := resolveCenterID(r, body)
		require.NotNil(t, got)
		assert.Equal(t, int64(9), *got)
	})
}

func TestCreateApplicantWithoutTenantScopeRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	router := mux.NewRouter()
	NewHandler(NewStore(db)).RegisterRoutes(router)

	body := `{"first_name": "Ayesha", "last_name": "Khan", "center_id": 9}`
	req := httptest.NewRequest(http.MethodPost, "/api/applicants", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "center_id is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}
