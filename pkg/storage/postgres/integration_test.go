//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("falah_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())

	t.Cleanup(func() {
		db.Close()
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("warning: failed to terminate container: %v", err)
		}
	})

	return db
}

func TestMigrationsAgainstRealDatabase(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, db))

	// Idempotent: a second run applies nothing and does not fail
	require.NoError(t, RunMigrations(ctx, db))

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM falah_migrations`).Scan(&applied))
	assert.Equal(t, len(GetMigrations()), applied)
}

func TestCenterScopedRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	require.NoError(t, RunMigrations(ctx, db))

	var centerA, centerB int64
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO centers (name, code) VALUES ('Karachi Center', 'KHI-01') RETURNING id`).Scan(&centerA))
	require.NoError(t, db.QueryRowContext(ctx,
		`INSERT INTO centers (name, code) VALUES ('Lahore Center', 'LHE-01') RETURNING id`).Scan(&centerB))

	_, err := db.ExecContext(ctx, `
		INSERT INTO applicants (center_id, first_name, last_name)
		VALUES ($1, 'Ayesha', 'Khan'), ($1, 'Bilal', 'Ahmed'), ($2, 'Sana', 'Malik')`,
		centerA, centerB)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applicants WHERE center_id = $1`, centerA).Scan(&count))
	assert.Equal(t, 2, count)

	// Cascade: dropping a center removes its rows only
	_, err = db.ExecContext(ctx, `DELETE FROM centers WHERE id = $1`, centerA)
	require.NoError(t, err)

	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applicants`).Scan(&count))
	assert.Equal(t, 1, count)
}
