package centers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/falah-io/falah/pkg/tenant"
)

// ErrNotFound is returned when a center is absent after tenant filtering.
var ErrNotFound = fmt.Errorf("center not found")

// Store persists centers.
//
// The centers table is its own tenant boundary: its primary key is the
// center id, so scoping filters on id rather than a center_id column. HQ
// reads all centers (it supervises them) but, like every center-scoped
// role, sees only its own when it is not HQ or global.
type Store struct {
	db *sql.DB
}

// NewStore creates a center store
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// applyScope appends the center visibility predicate. Mirrors the tenant
// filter semantics with id as the scoping column and an HQ read exemption.
func applyScope(query *string, args *[]interface{}, tc *tenant.Context, firstCondition bool) {
	if tc != nil && (tc.GlobalAccess || tc.HQ) {
		return
	}

	connective := ` AND `
	if firstCondition {
		connective = ` WHERE `
	}

	if tc == nil || tc.CenterID == nil {
		*query += connective + `FALSE`
		return
	}

	*args = append(*args, *tc.CenterID)
	*query += connective + fmt.Sprintf("id = $%d", len(*args))
}

// Create inserts a new center
func (s *Store) Create(ctx context.Context, c *Center) error {
	query := `
		INSERT INTO centers (name, code, address, city, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`
	err := s.db.QueryRowContext(ctx, query,
		c.Name, c.Code, c.Address, c.City, c.Phone, c.Active,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create center: %w", err)
	}
	return nil
}

// Get fetches a single center visible to the tenant context
func (s *Store) Get(ctx context.Context, tc *tenant.Context, id int64) (*Center, error) {
	query := `
		SELECT id, name, code, address, city, phone, active, created_at, updated_at
		FROM centers
		WHERE id = $1`
	args := []interface{}{id}
	applyScope(&query, &args, tc, false)

	var c Center
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.Code, &c.Address, &c.City, &c.Phone,
		&c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get center: %w", err)
	}
	return &c, nil
}

// List returns all centers visible to the tenant context
func (s *Store) List(ctx context.Context, tc *tenant.Context) ([]*Center, error) {
	query := `
		SELECT id, name, code, address, city, phone, active, created_at, updated_at
		FROM centers`
	args := []interface{}{}
	applyScope(&query, &args, tc, true)
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list centers: %w", err)
	}
	defer rows.Close()

	var centers []*Center
	for rows.Next() {
		var c Center
		err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Address, &c.City, &c.Phone,
			&c.Active, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan center: %w", err)
		}
		centers = append(centers, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read centers: %w", err)
	}
	return centers, nil
}

// Update rewrites a center's editable fields
func (s *Store) Update(ctx context.Context, tc *tenant.Context, c *Center) error {
	query := `
		UPDATE centers
		SET name = $1, code = $2, address = $3, city = $4, phone = $5,
		    active = $6, updated_at = NOW()
		WHERE id = $7`
	args := []interface{}{c.Name, c.Code, c.Address, c.City, c.Phone, c.Active, c.ID}
	applyScope(&query, &args, tc, false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update center: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update center: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a center
func (s *Store) Delete(ctx context.Context, tc *tenant.Context, id int64) error {
	query := `DELETE FROM centers WHERE id = $1`
	args := []interface{}{id}
	applyScope(&query, &args, tc, false)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete center: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete center: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of centers (for metrics and dashboard)
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM centers").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count centers: %w", err)
	}
	return count, nil
}
