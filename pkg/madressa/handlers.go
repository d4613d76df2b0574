package madressa

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/tenant"
)

// Handler serves the madressa application routes.
type Handler struct {
	store *Store
}

// NewHandler creates a madressa handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the madressa application routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/madressaApplication", h.List).Methods("GET")
	router.HandleFunc("/api/madressaApplication", h.Create).Methods("POST")
	router.HandleFunc("/api/madressaApplication/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc("/api/madressaApplication/{id:[0-9]+}", h.Update).Methods("PUT")
	router.HandleFunc("/api/madressaApplication/{id:[0-9]+}", h.Delete).Methods("DELETE")
}

// Create creates a new madressa application
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var app Application
	if !httputil.ParseJSONOrError(w, r, &app) {
		return
	}
	if app.StudentName == "" {
		httputil.WriteBadRequest(w, "student_name is required")
		return
	}
	if app.Grade == "" {
		httputil.WriteBadRequest(w, "grade is required")
		return
	}

	// Non-global callers always write into their own center. An unresolved
	// scope never falls back to the body value.
	tc := tenant.FromContext(r.Context())
	if tc == nil {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}
	if !tc.GlobalAccess {
		if tc.CenterID == nil {
			httputil.WriteBadRequest(w, "center_id is required")
			return
		}
		app.CenterID = *tc.CenterID
	}
	if app.CenterID == 0 {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}

	if err := h.store.Create(r.Context(), &app); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("madressa application create failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteCreated(w, &app)
}

// Get returns a single madressa application
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	app, err := h.store.Get(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "madressa application not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// List returns all madressa applications visible to the caller
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*Application{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// Update rewrites an existing madressa application
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var app Application
	if !httputil.ParseJSONOrError(w, r, &app) {
		return
	}
	if app.Status == "" {
		app.Status = "pending"
	}
	app.ID = id

	err := h.store.Update(r.Context(), tenant.FromContext(r.Context()), &app)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "madressa application not found")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("madressa application update failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &app)
}

// Delete removes a madressa application
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "madressa application not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteNoContent(w)
}
