package questionnaire

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/tenant"
)

// Handler serves the parent questionnaire routes.
type Handler struct {
	store   *Store
	metrics *observability.Metrics
}

// NewHandler creates a questionnaire handler
func NewHandler(store *Store, metrics *observability.Metrics) *Handler {
	return &Handler{store: store, metrics: metrics}
}

// RegisterRoutes registers the questionnaire routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/parentQuestionnaire", h.List).Methods("GET")
	router.HandleFunc("/api/parentQuestionnaire", h.Create).Methods("POST")
	router.HandleFunc("/api/parentQuestionnaire/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc("/api/parentQuestionnaire/{id:[0-9]+}", h.Update).Methods("PUT")
	router.HandleFunc("/api/parentQuestionnaire/{id:[0-9]+}", h.Delete).Methods("DELETE")
}

type submitRequest struct {
	CenterID              *int64  `json:"center_id,omitempty"`
	MadressaApplicationID *int64  `json:"madressa_application_id,omitempty"`
	Answers               Answers `json:"answers"`
}

// Create scores and stores a new questionnaire response
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	// Center derivation: explicit body value for global callers, otherwise
	// the caller's own center. An unresolved scope never falls back to the
	// body value.
	tc := tenant.FromContext(r.Context())
	if tc == nil {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}
	centerID := req.CenterID
	if !tc.GlobalAccess {
		centerID = tc.CenterID
	}
	if centerID == nil {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}

	resp := &Response{
		CenterID:              *centerID,
		MadressaApplicationID: req.MadressaApplicationID,
		Answers:               req.Answers,
	}
	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		resp.SubmittedBy = &p.UserID
	}

	if err := h.store.Create(r.Context(), resp); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("questionnaire create failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}

	h.recordScoring(resp)
	httputil.WriteCreated(w, resp)
}

// Get returns a single questionnaire response
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	resp, err := h.store.Get(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "questionnaire not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// List returns all questionnaire responses visible to the caller
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	responses, err := h.store.List(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if responses == nil {
		responses = []*Response{}
	}

	httputil.WriteJSON(w, http.StatusOK, responses)
}

// Update re-scores and rewrites an existing questionnaire response
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req submitRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	tc := tenant.FromContext(r.Context())
	resp := &Response{ID: id, Answers: req.Answers}

	err := h.store.Update(r.Context(), tc, resp)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "questionnaire not found")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("questionnaire update failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}

	h.recordScoring(resp)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// Delete removes a questionnaire response
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "questionnaire not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}

	httputil.WriteNoContent(w)
}

func (h *Handler) recordScoring(resp *Response) {
	if h.metrics == nil {
		return
	}
	h.metrics.ScoringEvaluationsTotal.WithLabelValues(string(resp.Category)).Inc()
	h.metrics.ScoringFlagTotal.WithLabelValues(string(resp.FlagLevel)).Inc()
	if resp.Score >= 4 && resp.FlagLevel == FlagAmber {
		h.metrics.FlagOverridesTotal.Inc()
	}
}
