package centers

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

func centerColumns() []string {
	return []string{"id", "name", "code", "address", "city", "phone", "active", "created_at", "updated_at"}
}

func TestListScopedToOwnCenter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{CenterID: int64Ptr(7)}

	mock.ExpectQuery(`SELECT (.+) FROM centers WHERE id = \$1 ORDER BY name`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(centerColumns()).
			AddRow(7, "Karachi Center", "KHI-01", "", "Karachi", "", true, time.Now(), time.Now()))

	centers, err := store.List(context.Background(), tc)
	require.NoError(t, err)
	require.Len(t, centers, 1)
	assert.Equal(t, int64(7), centers[0].ID)
}

func TestListHQSeesAllCenters(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{HQ: true, CenterID: int64Ptr(1)}

	mock.ExpectQuery(`SELECT (.+) FROM centers ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(centerColumns()).
			AddRow(1, "Karachi Center", "KHI-01", "", "Karachi", "", true, time.Now(), time.Now()).
			AddRow(2, "Lahore Center", "LHE-01", "", "Lahore", "", true, time.Now(), time.Now()))

	centers, err := store.List(context.Background(), tc)
	require.NoError(t, err)
	assert.Len(t, centers, 2)
}

func TestListNilContextMatchesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectQuery(`SELECT (.+) FROM centers WHERE FALSE ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(centerColumns()))

	centers, err := store.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, centers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOtherCenterNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{CenterID: int64Ptr(7)}

	mock.ExpectQuery(`SELECT (.+) FROM centers WHERE id = \$1 AND id = \$2`).
		WithArgs(int64(9), int64(7)).
		WillReturnRows(sqlmock.NewRows(centerColumns()))

	_, err = store.Get(context.Background(), tc, 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateScoped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)
	tc := &tenant.Context{GlobalAccess: true}

	mock.ExpectExec(`UPDATE centers SET (.+) WHERE id = \$7`).
		WithArgs("Karachi Center", "KHI-01", "New Address", "Karachi", "", true, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &Center{
		ID: 7, Name: "Karachi Center", Code: "KHI-01",
		Address: "New Address", City: "Karachi", Active: true,
	}
	require.NoError(t, store.Update(context.Background(), tc, c))
	assert.NoError(t, mock.ExpectationsWereMet())
}
