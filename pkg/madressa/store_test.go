package madressa

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/falah-io/falah/pkg/tenant"
)

func int64Ptr(v int64) *int64 { return &v }

func applicationColumns() []string {
	return []string{
		"id", "center_id", "applicant_id", "student_name", "guardian_name",
		"grade", "enrollment_date", "status", "created_at", "updated_at",
	}
}

func TestListScopedToOwnCenter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{CenterID: int64Ptr(3)}

	mock.ExpectQuery(`SELECT (.+) FROM madressa_applications WHERE madressa_applications.center_id = \$1 ORDER BY created_at DESC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).
			AddRow(1, 3, nil, "Hamza Tariq", "Tariq Mehmood", "Grade 3", nil, "pending", time.Now(), time.Now()))

	apps, err := store.List(context.Background(), tc)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Grade 3", apps[0].Grade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListGlobalUnfiltered(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM madressa_applications ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(applicationColumns()).
			AddRow(1, 3, nil, "Hamza Tariq", nil, "Grade 3", nil, "pending", time.Now(), time.Now()).
			AddRow(2, 5, nil, "Fatima Noor", nil, "Grade 1", nil, "enrolled", time.Now(), time.Now()))

	apps, err := store.List(context.Background(), &tenant.Context{GlobalAccess: true})
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestGetCrossCenterNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{CenterID: int64Ptr(3)}

	mock.ExpectQuery(`SELECT (.+) FROM madressa_applications WHERE id = \$1 AND madressa_applications.center_id = \$2`).
		WithArgs(int64(44), int64(3)).
		WillReturnRows(sqlmock.NewRows(applicationColumns()))

	_, err = store.Get(context.Background(), tc, 44)
	assert.Equal(t, ErrNotFound, err)
}

func TestCreateDefaultsStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`INSERT INTO madressa_applications`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(8, time.Now(), time.Now()))

	app := &Application{CenterID: 3, StudentName: "Hamza Tariq", Grade: "Grade 3"}
	err = store.Create(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, int64(8), app.ID)
	assert.Equal(t, "pending", app.Status)
}

func TestDeleteNilContextMatchesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectExec(`DELETE FROM madressa_applications WHERE id = \$1 AND FALSE`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.Delete(context.Background(), nil, 1)
	assert.Equal(t, ErrNotFound, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
