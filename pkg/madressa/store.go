package madressa

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/falah-io/falah/pkg/tenant"
)

// ErrNotFound is returned when a row is absent after tenant filtering.
var ErrNotFound = fmt.Errorf("madressa application not found")

// Store persists madressa applications. Every statement carries the tenant
// center predicate.
type Store struct {
	db *sql.DB
}

// NewStore creates a madressa application store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new application row.
func (s *Store) Create(ctx context.Context, app *Application) error {
	if app.Status == "" {
		app.Status = "pending"
	}
	query := `
		INSERT INTO madressa_applications
			(center_id, applicant_id, student_name, guardian_name, grade,
			 enrollment_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		app.CenterID,
		app.ApplicantID,
		app.StudentName,
		nullString(app.GuardianName),
		app.Grade,
		app.EnrollmentDate,
		app.Status,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create madressa application: %w", err)
	}
	return nil
}

// Get fetches a single application visible to the tenant context.
func (s *Store) Get(ctx context.Context, tc *tenant.Context, id int64) (*Application, error) {
	query := `
		SELECT id, center_id, applicant_id, student_name, guardian_name,
		       grade, enrollment_date, status, created_at, updated_at
		FROM madressa_applications
		WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "madressa_applications", false)

	app, err := scanApplication(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get madressa application: %w", err)
	}
	return app, nil
}

// List returns all applications visible to the tenant context, newest first.
func (s *Store) List(ctx context.Context, tc *tenant.Context) ([]*Application, error) {
	query := `
		SELECT id, center_id, applicant_id, student_name, guardian_name,
		       grade, enrollment_date, status, created_at, updated_at
		FROM madressa_applications`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "madressa_applications", true)
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list madressa applications: %w", err)
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan madressa application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read madressa applications: %w", err)
	}
	return out, nil
}

// Update rewrites the mutable fields of an application row.
func (s *Store) Update(ctx context.Context, tc *tenant.Context, app *Application) error {
	query := `
		UPDATE madressa_applications
		SET applicant_id = $1,
		    student_name = $2,
		    guardian_name = $3,
		    grade = $4,
		    enrollment_date = $5,
		    status = $6,
		    updated_at = NOW()
		WHERE id = $7`
	args := []interface{}{
		app.ApplicantID,
		app.StudentName,
		nullString(app.GuardianName),
		app.Grade,
		app.EnrollmentDate,
		app.Status,
		app.ID,
	}
	tenant.ApplyCenterFilter(&query, &args, tc, "madressa_applications", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update madressa application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update madressa application: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an application visible to the tenant context.
func (s *Store) Delete(ctx context.Context, tc *tenant.Context, id int64) error {
	query := `DELETE FROM madressa_applications WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "madressa_applications", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete madressa application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete madressa application: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*Application, error) {
	var app Application
	var applicantID sql.NullInt64
	var guardian sql.NullString
	var enrollment sql.NullTime

	err := row.Scan(
		&app.ID,
		&app.CenterID,
		&applicantID,
		&app.StudentName,
		&guardian,
		&app.Grade,
		&enrollment,
		&app.Status,
		&app.CreatedAt,
		&app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.GuardianName = guardian.String
	if applicantID.Valid {
		v := applicantID.Int64
		app.ApplicantID = &v
	}
	if enrollment.Valid {
		v := enrollment.Time
		app.EnrollmentDate = &v
	}
	return &app, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
