package reporting

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/tenant"
)

// Handler serves the reporting routes.
type Handler struct {
	store   *Store
	metrics *observability.Metrics
}

// NewHandler creates a reporting handler
func NewHandler(store *Store, metrics *observability.Metrics) *Handler {
	return &Handler{store: store, metrics: metrics}
}

// RegisterRoutes registers the reporting routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/reports/commitment", h.Commitment).Methods("GET")
}

// Commitment returns the commitment distribution grouped by center and grade
func (h *Handler) Commitment(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ScoredRows(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("commitment report failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}

	report := Aggregate(rows)
	if h.metrics != nil {
		h.metrics.ReportsGeneratedTotal.WithLabelValues("commitment").Inc()
	}

	httputil.WriteJSON(w, http.StatusOK, report)
}
