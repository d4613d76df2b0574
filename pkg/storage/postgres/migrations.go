package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// GetMigrations returns all schema migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create centers table",
			SQL: `
				CREATE TABLE IF NOT EXISTS centers (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					code VARCHAR(50) NOT NULL UNIQUE,
					address TEXT,
					city VARCHAR(100),
					phone VARCHAR(50),
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_centers_city ON centers(city);
				CREATE INDEX idx_centers_active ON centers(active);
			`,
		},
		{
			Version:     2,
			Description: "Create users table",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(255) NOT NULL UNIQUE,
					password_hash VARCHAR(255) NOT NULL,
					email VARCHAR(255),
					full_name VARCHAR(255),
					last_login_at TIMESTAMP,
					role SMALLINT NOT NULL,
					center_id BIGINT REFERENCES centers(id) ON DELETE SET NULL,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_users_center_id ON users(center_id);
				CREATE INDEX idx_users_role ON users(role);
			`,
		},
		{
			Version:     3,
			Description: "Create api_tokens table",
			SQL: `
				CREATE TABLE IF NOT EXISTS api_tokens (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					token_hash VARCHAR(255) NOT NULL UNIQUE,
					token_prefix VARCHAR(20) NOT NULL,
					name VARCHAR(255),
					expires_at TIMESTAMP,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					last_used_at TIMESTAMP,
					revoked_at TIMESTAMP
				);

				CREATE INDEX idx_api_tokens_user_id ON api_tokens(user_id);
				CREATE INDEX idx_api_tokens_token_hash ON api_tokens(token_hash);
			`,
		},
		{
			Version:     4,
			Description: "Create applicants table",
			SQL: `
				CREATE TABLE IF NOT EXISTS applicants (
					id BIGSERIAL PRIMARY KEY,
					center_id BIGINT NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
					first_name VARCHAR(255) NOT NULL,
					last_name VARCHAR(255) NOT NULL,
					cnic VARCHAR(20),
					date_of_birth DATE,
					gender VARCHAR(20),
					address TEXT,
					phone VARCHAR(50),
					status VARCHAR(50) NOT NULL DEFAULT 'pending',
					monthly_income NUMERIC(12,2),
					monthly_expense NUMERIC(12,2),
					created_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_applicants_center_id ON applicants(center_id);
				CREATE INDEX idx_applicants_status ON applicants(status);
				CREATE INDEX idx_applicants_cnic ON applicants(cnic);
			`,
		},
		{
			Version:     5,
			Description: "Create tasks table",
			SQL: `
				CREATE TABLE IF NOT EXISTS tasks (
					id BIGSERIAL PRIMARY KEY,
					center_id BIGINT NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
					applicant_id BIGINT REFERENCES applicants(id) ON DELETE CASCADE,
					assigned_to BIGINT REFERENCES users(id) ON DELETE SET NULL,
					title VARCHAR(255) NOT NULL,
					description TEXT,
					status VARCHAR(50) NOT NULL DEFAULT 'open',
					due_date DATE,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_tasks_center_id ON tasks(center_id);
				CREATE INDEX idx_tasks_applicant_id ON tasks(applicant_id);
				CREATE INDEX idx_tasks_assigned_to ON tasks(assigned_to);
				CREATE INDEX idx_tasks_status ON tasks(status);
			`,
		},
		{
			Version:     6,
			Description: "Create madressa_applications table",
			SQL: `
				CREATE TABLE IF NOT EXISTS madressa_applications (
					id BIGSERIAL PRIMARY KEY,
					center_id BIGINT NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
					applicant_id BIGINT REFERENCES applicants(id) ON DELETE SET NULL,
					student_name VARCHAR(255) NOT NULL,
					guardian_name VARCHAR(255),
					grade VARCHAR(50) NOT NULL,
					enrollment_date DATE,
					status VARCHAR(50) NOT NULL DEFAULT 'pending',
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_madressa_applications_center_id ON madressa_applications(center_id);
				CREATE INDEX idx_madressa_applications_grade ON madressa_applications(grade);
			`,
		},
		{
			Version:     7,
			Description: "Create parent_questionnaires table",
			SQL: `
				CREATE TABLE IF NOT EXISTS parent_questionnaires (
					id BIGSERIAL PRIMARY KEY,
					center_id BIGINT NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
					madressa_application_id BIGINT REFERENCES madressa_applications(id) ON DELETE CASCADE,
					responses JSONB NOT NULL DEFAULT '{}',
					expectations JSONB NOT NULL DEFAULT '[]',
					commitment_score INT NOT NULL DEFAULT 0,
					commitment_category VARCHAR(20) NOT NULL DEFAULT 'low',
					flag_level VARCHAR(10) NOT NULL DEFAULT 'red',
					inconsistency_flags JSONB NOT NULL DEFAULT '[]',
					submitted_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
					created_at TIMESTAMP NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_parent_questionnaires_center_id ON parent_questionnaires(center_id);
				CREATE INDEX idx_parent_questionnaires_application_id ON parent_questionnaires(madressa_application_id);
				CREATE INDEX idx_parent_questionnaires_flag_level ON parent_questionnaires(flag_level);
			`,
		},
		{
			Version:     8,
			Description: "Create access_audit table",
			SQL: `
				CREATE TABLE IF NOT EXISTS access_audit (
					id BIGSERIAL PRIMARY KEY,
					user_id BIGINT,
					role SMALLINT NOT NULL,
					method VARCHAR(10) NOT NULL,
					path TEXT NOT NULL,
					module VARCHAR(100),
					allowed BOOLEAN NOT NULL,
					reason TEXT,
					request_id VARCHAR(64),
					occurred_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_access_audit_user_id ON access_audit(user_id);
				CREATE INDEX idx_access_audit_occurred_at ON access_audit(occurred_at);
				CREATE INDEX idx_access_audit_allowed ON access_audit(allowed);
			`,
		},
		{
			Version:     9,
			Description: "Create commitment_snapshots table",
			SQL: `
				CREATE TABLE IF NOT EXISTS commitment_snapshots (
					id BIGSERIAL PRIMARY KEY,
					center_id BIGINT NOT NULL REFERENCES centers(id) ON DELETE CASCADE,
					grade VARCHAR(50) NOT NULL,
					total INT NOT NULL DEFAULT 0,
					high INT NOT NULL DEFAULT 0,
					moderate INT NOT NULL DEFAULT 0,
					low INT NOT NULL DEFAULT 0,
					narrative TEXT,
					generated_at TIMESTAMP NOT NULL DEFAULT NOW()
				);

				CREATE INDEX idx_commitment_snapshots_center_id ON commitment_snapshots(center_id);
				CREATE INDEX idx_commitment_snapshots_generated_at ON commitment_snapshots(generated_at);
			`,
		},
	}
}

// RunMigrations executes all pending migrations
func RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS falah_migrations (
			version INT PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	rows, err := db.QueryContext(ctx, "SELECT version FROM falah_migrations ORDER BY version")
	if err != nil {
		return fmt.Errorf("failed to query migrations: %w", err)
	}

	appliedVersions := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan migration version: %w", err)
		}
		appliedVersions[version] = true
	}
	rows.Close()

	migrations := GetMigrations()
	for _, migration := range migrations {
		if appliedVersions[migration.Version] {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to start transaction: %w", err)
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO falah_migrations (version, description) VALUES ($1, $2)",
			migration.Version, migration.Description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}
