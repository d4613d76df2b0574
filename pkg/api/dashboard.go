package api

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/questionnaire"
	"github.com/falah-io/falah/pkg/tenant"
)

// dashboardSummary is the landing page payload: headline counts scoped to
// whatever the caller is allowed to see.
type dashboardSummary struct {
	Applicants       int64            `json:"applicants"`
	OpenTasks        int64            `json:"open_tasks"`
	MadressaStudents int64            `json:"madressa_students"`
	Questionnaires   map[string]int64 `json:"questionnaires_by_flag"`
}

type dashboardHandler struct {
	db *sql.DB
}

func newDashboardHandler(db *sql.DB) *dashboardHandler {
	return &dashboardHandler{db: db}
}

// Summary returns the dashboard counts
func (h *dashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	tc := tenant.FromContext(r.Context())
	ctx := r.Context()

	summary := dashboardSummary{
		Questionnaires: map[string]int64{
			string(questionnaire.FlagGreen): 0,
			string(questionnaire.FlagAmber): 0,
			string(questionnaire.FlagRed):   0,
		},
	}

	var err error
	if summary.Applicants, err = h.scopedCount(ctx, tc, "applicants", ""); err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if summary.OpenTasks, err = h.scopedCount(ctx, tc, "tasks", "status = 'open'"); err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if summary.MadressaStudents, err = h.scopedCount(ctx, tc, "madressa_applications", "status = 'enrolled'"); err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if err = h.flagCounts(ctx, tc, summary.Questionnaires); err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *dashboardHandler) scopedCount(ctx context.Context, tc *tenant.Context, table, condition string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	first := true
	if condition != "" {
		query += " WHERE " + condition
		first = false
	}
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, table, first)

	var count int64
	if err := h.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return count, nil
}

func (h *dashboardHandler) flagCounts(ctx context.Context, tc *tenant.Context, out map[string]int64) error {
	query := `SELECT flag_level, COUNT(*) FROM parent_questionnaires`
	args := []interface{}{}
	tenant.ApplyCenterFilter(&query, &args, tc, "parent_questionnaires", true)
	query += " GROUP BY flag_level"

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to count questionnaires: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var flag string
		var count int64
		if err := rows.Scan(&flag, &count); err != nil {
			return fmt.Errorf("failed to scan questionnaire count: %w", err)
		}
		out[flag] = count
	}
	return rows.Err()
}
