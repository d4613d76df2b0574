package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/rbac"
)

const defaultListLimit = 100

// Store persists authorization decisions to the access_audit table.
type Store struct {
	db *sql.DB
}

// NewStore creates an audit store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts one audit entry.
func (s *Store) Record(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO access_audit
			(user_id, role, method, path, module, allowed, reason, request_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, occurred_at
	`
	err := s.db.QueryRowContext(ctx, query,
		e.UserID,
		int(e.Role),
		e.Method,
		e.Path,
		string(e.Module),
		e.Allowed,
		nullString(e.Reason),
		nullString(e.RequestID),
	).Scan(&e.ID, &e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]*Entry, error) {
	query := `
		SELECT id, user_id, role, method, path, module, allowed, reason,
		       request_id, occurred_at
		FROM access_audit`
	args := []interface{}{}

	conjunction := " WHERE"
	if f.UserID != nil {
		args = append(args, *f.UserID)
		query += fmt.Sprintf("%s user_id = $%d", conjunction, len(args))
		conjunction = " AND"
	}
	if f.DeniedOnly {
		query += conjunction + " allowed = FALSE"
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC LIMIT $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var userID sql.NullInt64
		var module, reason, requestID sql.NullString
		var role int

		err := rows.Scan(&e.ID, &userID, &role, &e.Method, &e.Path,
			&module, &e.Allowed, &reason, &requestID, &e.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		e.Role = auth.Role(role)
		if userID.Valid {
			v := userID.Int64
			e.UserID = &v
		}
		e.Module = rbac.Module(module.String)
		e.Reason = reason.String
		e.RequestID = requestID.String
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit entries: %w", err)
	}
	return out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
