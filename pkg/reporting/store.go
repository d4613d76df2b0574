package reporting

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/falah-io/falah/pkg/questionnaire"
	"github.com/falah-io/falah/pkg/tenant"
)

// Store reads scored questionnaire rows and writes report snapshots.
// Reads go to a replica when the caller wires one in.
type Store struct {
	reader *sql.DB
	writer *sql.DB
}

// NewStore creates a reporting store. reader serves aggregation queries,
// writer receives snapshot rows; they may be the same handle.
func NewStore(reader, writer *sql.DB) *Store {
	return &Store{reader: reader, writer: writer}
}

// ScoredRows fetches the rows feeding the commitment report, restricted to
// the tenant scope. Questionnaires without a linked Madressa application
// group under an empty grade.
func (s *Store) ScoredRows(ctx context.Context, tc *tenant.Context) ([]ScoredRow, error) {
	query := `
		SELECT q.center_id, COALESCE(m.grade, ''), q.commitment_category
		FROM parent_questionnaires q
		LEFT JOIN madressa_applications m ON m.id = q.madressa_application_id`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "q", true)

	rows, err := s.reader.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored rows: %w", err)
	}
	defer rows.Close()

	var result []ScoredRow
	for rows.Next() {
		var row ScoredRow
		var category string
		if err := rows.Scan(&row.CenterID, &row.Grade, &category); err != nil {
			return nil, fmt.Errorf("failed to scan scored row: %w", err)
		}
		row.Category = questionnaire.Category(category)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scored rows: %w", err)
	}

	return result, nil
}

// Snapshot holds one persisted report row.
type Snapshot struct {
	ID          int64     `json:"id"`
	CenterID    int64     `json:"center_id"`
	Grade       string    `json:"grade"`
	GroupStats
	Narrative   string    `json:"narrative"`
	GeneratedAt time.Time `json:"generated_at"`
}

// WriteSnapshots persists one snapshot row per center and grade pair,
// fanning writes out concurrently.
func (s *Store) WriteSnapshots(ctx context.Context, rows []ScoredRow) (int, error) {
	type groupKey struct {
		centerID int64
		grade    string
	}

	groups := make(map[groupKey]*GroupStats)
	for _, row := range rows {
		key := groupKey{row.CenterID, row.Grade}
		stats, ok := groups[key]
		if !ok {
			stats = &GroupStats{}
			groups[key] = stats
		}
		stats.Total++
		switch row.Category {
		case questionnaire.CategoryHigh:
			stats.High++
		case questionnaire.CategoryModerate:
			stats.Moderate++
		default:
			stats.Low++
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for key, stats := range groups {
		g.Go(func() error {
			_, err := s.writer.ExecContext(gctx, `
				INSERT INTO commitment_snapshots
					(center_id, grade, total, high, moderate, low, narrative, generated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
				key.centerID, key.grade,
				stats.Total, stats.High, stats.Moderate, stats.Low,
				Narrative(*stats),
			)
			if err != nil {
				return fmt.Errorf("failed to write snapshot for center %d grade %q: %w", key.centerID, key.grade, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(groups), nil
}
