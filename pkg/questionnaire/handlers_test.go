package questionnaire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/tenant"
)

func newHandlerRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router := mux.NewRouter()
	NewHandler(NewStore(db), nil).RegisterRoutes(router)
	return router, mock
}

func TestCreateWithoutTenantScopeRejected(t *testing.T) {
	router, mock := newHandlerRouter(t)

	// No tenant context on the request: the body center_id must not be
	// trusted and nothing may reach the database.
	body := `{"center_id": 9, "answers": {"attendance_frequency": "daily"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/parentQuestionnaire", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "center_id is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCaseworkerIgnoresBodyCenter(t *testing.T) {
	router, mock := newHandlerRouter(t)

	mock.ExpectQuery("INSERT INTO parent_questionnaires").
		WithArgs(int64(3), nil, sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(21, time.Now(), time.Now()))

	body := `{"center_id": 9, "answers": {"attendance_frequency": "daily"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/parentQuestionnaire", strings.NewReader(body))
	tc := &tenant.Context{CenterID: int64Ptr(3)}
	req = req.WithContext(tenant.WithContext(context.Background(), tc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
