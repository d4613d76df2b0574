package audit

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/rbac"
)

func auditColumns() []string {
	return []string{
		"id", "user_id", "role", "method", "path", "module", "allowed",
		"reason", "request_id", "occurred_at",
	}
}

func TestRecordInsertsEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`INSERT INTO access_audit`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at"}).
			AddRow(1, time.Now()))

	userID := int64(12)
	entry := &Entry{
		UserID:  &userID,
		Role:    auth.RoleOrgCaseworker,
		Method:  "POST",
		Path:    "/api/tasks",
		Module:  rbac.ModuleTasks,
		Allowed: true,
	}
	err = store.Record(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(1), entry.ID)
}

func TestListDeniedOnly(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM access_audit WHERE allowed = FALSE ORDER BY occurred_at DESC LIMIT \$1`).
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(auditColumns()).
			AddRow(3, 12, 4, "POST", "/api/tasks", "Tasks", false, "view-only", "req-1", time.Now()))

	entries, err := store.List(context.Background(), Filter{DeniedOnly: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Allowed)
	assert.Equal(t, auth.RoleOrgExecutive, entries[0].Role)
	assert.Equal(t, "view-only", entries[0].Reason)
}

func TestListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM access_audit WHERE user_id = \$1 AND allowed = FALSE ORDER BY occurred_at DESC LIMIT \$2`).
		WithArgs(int64(12), 25).
		WillReturnRows(sqlmock.NewRows(auditColumns()))

	userID := int64(12)
	_, err = store.List(context.Background(), Filter{UserID: &userID, DeniedOnly: true, Limit: 25})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecorderWritesDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO access_audit`).
		WithArgs(int64(7), 5, "GET", "/api/applicants", "Applicant_Details", true, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "occurred_at"}).
			AddRow(9, time.Now()))

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	recorder := NewRecorder(NewStore(db), logger)

	r := httptest.NewRequest("GET", "/api/applicants", nil)
	p := &auth.Principal{UserID: 7, Role: auth.RoleOrgCaseworker}
	recorder(r, p, rbac.Allow())

	assert.NoError(t, mock.ExpectationsWereMet())
}
