package reporting

import (
	"context"
	"fmt"

	"github.com/falah-io/falah/pkg/tenant"
)

// Snapshotter runs the periodic snapshot job: it reads all scored rows
// across every center and persists one snapshot per center and grade. The
// reporter binary schedules it with cron.
type Snapshotter struct {
	store *Store
}

// NewSnapshotter creates a snapshot job
func NewSnapshotter(store *Store) *Snapshotter {
	return &Snapshotter{store: store}
}

// Run executes one snapshot pass and returns the number of groups written.
func (s *Snapshotter) Run(ctx context.Context) (int, error) {
	// Snapshots always cover all centers
	global := &tenant.Context{GlobalAccess: true, AppAdmin: true}

	rows, err := s.store.ScoredRows(ctx, global)
	if err != nil {
		return 0, fmt.Errorf("failed to load scored rows: %w", err)
	}

	written, err := s.store.WriteSnapshots(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("failed to write snapshots: %w", err)
	}

	return written, nil
}
