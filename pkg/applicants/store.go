package applicants

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/falah-io/falah/pkg/tenant"
)

// ErrNotFound is returned when a row is absent after tenant filtering.
var ErrNotFound = fmt.Errorf("applicant not found")

// ErrTaskNotFound is returned when a task is absent after tenant filtering.
var ErrTaskNotFound = fmt.Errorf("task not found")

// Store persists applicants and their follow-up tasks. Every read and
// every mutating statement carries the tenant center predicate.
type Store struct {
	db *sql.DB
}

// NewStore creates an applicant store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateApplicant inserts a new applicant row.
func (s *Store) CreateApplicant(ctx context.Context, a *Applicant) error {
	if a.Status == "" {
		a.Status = "pending"
	}
	query := `
		INSERT INTO applicants
			(center_id, first_name, last_name, cnic, date_of_birth, gender,
			 address, phone, status, monthly_income, monthly_expense,
			 created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		a.CenterID,
		a.FirstName,
		a.LastName,
		nullString(a.CNIC),
		a.DateOfBirth,
		nullString(a.Gender),
		nullString(a.Address),
		nullString(a.Phone),
		a.Status,
		a.MonthlyIncome,
		a.MonthlyExpense,
		a.CreatedBy,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create applicant: %w", err)
	}
	return nil
}

// GetApplicant fetches a single applicant visible to the tenant context.
func (s *Store) GetApplicant(ctx context.Context, tc *tenant.Context, id int64) (*Applicant, error) {
	query := `
		SELECT id, center_id, first_name, last_name, cnic, date_of_birth,
		       gender, address, phone, status, monthly_income, monthly_expense,
		       created_by, created_at, updated_at
		FROM applicants
		WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "applicants", false)

	a, err := scanApplicant(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get applicant: %w", err)
	}
	return a, nil
}

// ListApplicants returns all applicants visible to the tenant context.
func (s *Store) ListApplicants(ctx context.Context, tc *tenant.Context) ([]*Applicant, error) {
	query := `
		SELECT id, center_id, first_name, last_name, cnic, date_of_birth,
		       gender, address, phone, status, monthly_income, monthly_expense,
		       created_by, created_at, updated_at
		FROM applicants`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "applicants", true)
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applicants: %w", err)
	}
	defer rows.Close()

	var out []*Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan applicant: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applicants: %w", err)
	}
	return out, nil
}

// UpdateApplicant rewrites the mutable fields of an applicant row.
func (s *Store) UpdateApplicant(ctx context.Context, tc *tenant.Context, a *Applicant) error {
	query := `
		UPDATE applicants
		SET first_name = $1,
		    last_name = $2,
		    cnic = $3,
		    date_of_birth = $4,
		    gender = $5,
		    address = $6,
		    phone = $7,
		    status = $8,
		    monthly_income = $9,
		    monthly_expense = $10,
		    updated_at = NOW()
		WHERE id = $11`
	args := []interface{}{
		a.FirstName,
		a.LastName,
		nullString(a.CNIC),
		a.DateOfBirth,
		nullString(a.Gender),
		nullString(a.Address),
		nullString(a.Phone),
		a.Status,
		a.MonthlyIncome,
		a.MonthlyExpense,
		a.ID,
	}
	tenant.ApplyCenterFilter(&query, &args, tc, "applicants", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update applicant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update applicant: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteApplicant removes an applicant visible to the tenant context.
func (s *Store) DeleteApplicant(ctx context.Context, tc *tenant.Context, id int64) error {
	query := `DELETE FROM applicants WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "applicants", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete applicant: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete applicant: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateTask inserts a new task row.
func (s *Store) CreateTask(ctx context.Context, t *Task) error {
	if t.Status == "" {
		t.Status = "open"
	}
	query := `
		INSERT INTO tasks
			(center_id, applicant_id, assigned_to, title, description,
			 status, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		t.CenterID,
		t.ApplicantID,
		t.AssignedTo,
		t.Title,
		nullString(t.Description),
		t.Status,
		t.DueDate,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask fetches a single task visible to the tenant context.
func (s *Store) GetTask(ctx context.Context, tc *tenant.Context, id int64) (*Task, error) {
	query := `
		SELECT id, center_id, applicant_id, assigned_to, title, description,
		       status, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "tasks", false)

	t, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListTasks returns all tasks visible to the tenant context, due-soonest first.
func (s *Store) ListTasks(ctx context.Context, tc *tenant.Context) ([]*Task, error) {
	query := `
		SELECT id, center_id, applicant_id, assigned_to, title, description,
		       status, due_date, created_at, updated_at
		FROM tasks`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "tasks", true)
	query += " ORDER BY due_date ASC NULLS LAST, created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []*Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return out, nil
}

// UpdateTask rewrites the mutable fields of a task row.
func (s *Store) UpdateTask(ctx context.Context, tc *tenant.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET applicant_id = $1,
		    assigned_to = $2,
		    title = $3,
		    description = $4,
		    status = $5,
		    due_date = $6,
		    updated_at = NOW()
		WHERE id = $7`
	args := []interface{}{
		t.ApplicantID,
		t.AssignedTo,
		t.Title,
		nullString(t.Description),
		t.Status,
		t.DueDate,
		t.ID,
	}
	tenant.ApplyCenterFilter(&query, &args, tc, "tasks", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task visible to the tenant context.
func (s *Store) DeleteTask(ctx context.Context, tc *tenant.Context, id int64) error {
	query := `DELETE FROM tasks WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "tasks", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplicant(row rowScanner) (*Applicant, error) {
	var a Applicant
	var cnic, gender, address, phone sql.NullString
	var dob sql.NullTime
	var income, expense sql.NullFloat64
	var createdBy sql.NullInt64

	err := row.Scan(
		&a.ID,
		&a.CenterID,
		&a.FirstName,
		&a.LastName,
		&cnic,
		&dob,
		&gender,
		&address,
		&phone,
		&a.Status,
		&income,
		&expense,
		&createdBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CNIC = cnic.String
	a.Gender = gender.String
	a.Address = address.String
	a.Phone = phone.String
	if dob.Valid {
		v := dob.Time
		a.DateOfBirth = &v
	}
	if income.Valid {
		v := income.Float64
		a.MonthlyIncome = &v
	}
	if expense.Valid {
		v := expense.Float64
		a.MonthlyExpense = &v
	}
	if createdBy.Valid {
		v := createdBy.Int64
		a.CreatedBy = &v
	}
	return &a, nil
}

func scanTask(row rowScanner) (*Task, error) {
	var t Task
	var applicantID, assignedTo sql.NullInt64
	var description sql.NullString
	var due sql.NullTime

	err := row.Scan(
		&t.ID,
		&t.CenterID,
		&applicantID,
		&assignedTo,
		&t.Title,
		&description,
		&t.Status,
		&due,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	if applicantID.Valid {
		v := applicantID.Int64
		t.ApplicantID = &v
	}
	if assignedTo.Valid {
		v := assignedTo.Int64
		t.AssignedTo = &v
	}
	if due.Valid {
		v := due.Time
		t.DueDate = &v
	}
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
