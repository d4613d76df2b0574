package questionnaire

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/falah-io/falah/pkg/tenant"
)

// Store persists questionnaire responses. Every read applies the tenant
// center filter; writes validate center ownership before touching rows.
type Store struct {
	db *sql.DB
}

// NewStore creates a questionnaire store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create scores the answers and inserts a new response. The derived fields
// always come from the scoring engine, never from the caller.
func (s *Store) Create(ctx context.Context, resp *Response) error {
	result := Score(resp.Answers)
	resp.Score = result.Score
	resp.Category = result.Category
	resp.FlagLevel = result.FlagLevel
	resp.InconsistencyFlags = result.InconsistencyFlags

	answersJSON, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	expectationsJSON, err := json.Marshal(emptyIfNil(resp.Answers.Expectations))
	if err != nil {
		return fmt.Errorf("failed to encode expectations: %w", err)
	}
	flagsJSON, err := json.Marshal(emptyIfNil(resp.InconsistencyFlags))
	if err != nil {
		return fmt.Errorf("failed to encode inconsistency flags: %w", err)
	}

	query := `
		INSERT INTO parent_questionnaires
			(center_id, madressa_application_id, responses, expectations,
			 commitment_score, commitment_category, flag_level, inconsistency_flags,
			 submitted_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		resp.CenterID,
		resp.MadressaApplicationID,
		answersJSON,
		expectationsJSON,
		resp.Score,
		string(resp.Category),
		string(resp.FlagLevel),
		flagsJSON,
		resp.SubmittedBy,
	).Scan(&resp.ID, &resp.CreatedAt, &resp.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create questionnaire: %w", err)
	}

	return nil
}

// Update re-scores the answers and rewrites the row. Derived fields are
// recomputed wholesale; they are never patched independently.
func (s *Store) Update(ctx context.Context, tc *tenant.Context, resp *Response) error {
	result := Score(resp.Answers)
	resp.Score = result.Score
	resp.Category = result.Category
	resp.FlagLevel = result.FlagLevel
	resp.InconsistencyFlags = result.InconsistencyFlags

	answersJSON, err := json.Marshal(resp.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}
	expectationsJSON, err := json.Marshal(emptyIfNil(resp.Answers.Expectations))
	if err != nil {
		return fmt.Errorf("failed to encode expectations: %w", err)
	}
	flagsJSON, err := json.Marshal(emptyIfNil(resp.InconsistencyFlags))
	if err != nil {
		return fmt.Errorf("failed to encode inconsistency flags: %w", err)
	}

	query := `
		UPDATE parent_questionnaires
		SET responses = $1,
		    expectations = $2,
		    commitment_score = $3,
		    commitment_category = $4,
		    flag_level = $5,
		    inconsistency_flags = $6,
		    updated_at = NOW()
		WHERE id = $7`
	args := []interface{}{
		answersJSON,
		expectationsJSON,
		resp.Score,
		string(resp.Category),
		string(resp.FlagLevel),
		flagsJSON,
		resp.ID,
	}
	tenant.ApplyCenterFilter(&query, &args, tc, "parent_questionnaires", false)

	result2, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}
	rows, err := result2.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update questionnaire: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ErrNotFound is returned when a row is absent after tenant filtering.
var ErrNotFound = fmt.Errorf("questionnaire not found")

// Get fetches a single response visible to the tenant context.
func (s *Store) Get(ctx context.Context, tc *tenant.Context, id int64) (*Response, error) {
	query := `
		SELECT id, center_id, madressa_application_id, responses,
		       commitment_score, commitment_category, flag_level,
		       inconsistency_flags, submitted_by, created_at, updated_at
		FROM parent_questionnaires
		WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "parent_questionnaires", false)

	resp, err := scanResponse(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire: %w", err)
	}
	return resp, nil
}

// List returns all responses visible to the tenant context, newest first.
func (s *Store) List(ctx context.Context, tc *tenant.Context) ([]*Response, error) {
	query := `
		SELECT id, center_id, madressa_application_id, responses,
		       commitment_score, commitment_category, flag_level,
		       inconsistency_flags, submitted_by, created_at, updated_at
		FROM parent_questionnaires`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "parent_questionnaires", true)
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list questionnaires: %w", err)
	}
	defer rows.Close()

	var responses []*Response
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan questionnaire: %w", err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read questionnaires: %w", err)
	}

	return responses, nil
}

// Delete removes a response visible to the tenant context.
func (s *Store) Delete(ctx context.Context, tc *tenant.Context, id int64) error {
	query := `DELETE FROM parent_questionnaires WHERE id = $1`
	args := []interface{}{id}
	tenant.ApplyCenterFilter(&query, &args, tc, "parent_questionnaires", false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete questionnaire: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResponse(row rowScanner) (*Response, error) {
	var resp Response
	var answersJSON, flagsJSON []byte
	var appID, submittedBy sql.NullInt64

	err := row.Scan(
		&resp.ID,
		&resp.CenterID,
		&appID,
		&answersJSON,
		&resp.Score,
		&resp.Category,
		&resp.FlagLevel,
		&flagsJSON,
		&submittedBy,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appID.Valid {
		v := appID.Int64
		resp.MadressaApplicationID = &v
	}
	if submittedBy.Valid {
		v := submittedBy.Int64
		resp.SubmittedBy = &v
	}

	// Malformed stored JSON decodes to empty values rather than failing the read
	if err := json.Unmarshal(answersJSON, &resp.Answers); err != nil {
		resp.Answers = Answers{}
	}
	if err := json.Unmarshal(flagsJSON, &resp.InconsistencyFlags); err != nil || resp.InconsistencyFlags == nil {
		resp.InconsistencyFlags = []string{}
	}

	return &resp, nil
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
