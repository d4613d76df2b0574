package applicants

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/tenant"
)

// Handler serves the applicant and task routes.
type Handler struct {
	store *Store
}

// NewHandler creates an applicant handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the applicant and task routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/applicants", h.ListApplicants).Methods("GET")
	router.HandleFunc("/api/applicants", h.CreateApplicant).Methods("POST")
	router.HandleFunc("/api/applicants/{id:[0-9]+}", h.GetApplicant).Methods("GET")
	router.HandleFunc("/api/applicants/{id:[0-9]+}", h.UpdateApplicant).Methods("PUT")
	router.HandleFunc("/api/applicants/{id:[0-9]+}", h.DeleteApplicant).Methods("DELETE")

	router.HandleFunc("/api/tasks", h.ListTasks).Methods("GET")
	router.HandleFunc("/api/tasks", h.CreateTask).Methods("POST")
	router.HandleFunc("/api/tasks/{id:[0-9]+}", h.GetTask).Methods("GET")
	router.HandleFunc("/api/tasks/{id:[0-9]+}", h.UpdateTask).Methods("PUT")
	router.HandleFunc("/api/tasks/{id:[0-9]+}", h.DeleteTask).Methods("DELETE")
}

// resolveCenterID picks the owning center for a new row: the body value for
// global callers, the caller's own center for everyone else. An unresolved
// scope yields nil rather than trusting the body.
func resolveCenterID(r *http.Request, bodyCenterID *int64) *int64 {
	tc := tenant.FromContext(r.Context())
	if tc == nil {
		return nil
	}
	if !tc.GlobalAccess {
		return tc.CenterID
	}
	return bodyCenterID
}

// CreateApplicant creates a new applicant
func (h *Handler) CreateApplicant(w http.ResponseWriter, r *http.Request) {
	var a Applicant
	if !httputil.ParseJSONOrError(w, r, &a) {
		return
	}
	if a.FirstName == "" || a.LastName == "" {
		httputil.WriteBadRequest(w, "first_name and last_name are required")
		return
	}

	centerID := resolveCenterID(r, &a.CenterID)
	if centerID == nil {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}
	a.CenterID = *centerID

	if p := auth.PrincipalFromContext(r.Context()); p != nil {
		a.CreatedBy = &p.UserID
	}

	if err := h.store.CreateApplicant(r.Context(), &a); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("applicant create failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteCreated(w, &a)
}

// GetApplicant returns a single applicant
func (h *Handler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	a, err := h.store.GetApplicant(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "applicant not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, a)
}

// ListApplicants returns all applicants visible to the caller
func (h *Handler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListApplicants(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*Applicant{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// UpdateApplicant rewrites an existing applicant
func (h *Handler) UpdateApplicant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var a Applicant
	if !httputil.ParseJSONOrError(w, r, &a) {
		return
	}
	a.ID = id

	err := h.store.UpdateApplicant(r.Context(), tenant.FromContext(r.Context()), &a)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "applicant not found")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("applicant update failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &a)
}

// DeleteApplicant removes an applicant
func (h *Handler) DeleteApplicant(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteApplicant(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "applicant not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteNoContent(w)
}

// CreateTask creates a new task
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var t Task
	if !httputil.ParseJSONOrError(w, r, &t) {
		return
	}
	if t.Title == "" {
		httputil.WriteBadRequest(w, "title is required")
		return
	}

	centerID := resolveCenterID(r, &t.CenterID)
	if centerID == nil {
		httputil.WriteBadRequest(w, "center_id is required")
		return
	}
	t.CenterID = *centerID

	if err := h.store.CreateTask(r.Context(), &t); err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("task create failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteCreated(w, &t)
}

// GetTask returns a single task
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	t, err := h.store.GetTask(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrTaskNotFound {
		httputil.WriteNotFound(w, "task not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

// ListTasks returns all tasks visible to the caller
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListTasks(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if list == nil {
		list = []*Task{}
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

// UpdateTask rewrites an existing task
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var t Task
	if !httputil.ParseJSONOrError(w, r, &t) {
		return
	}
	t.ID = id

	err := h.store.UpdateTask(r.Context(), tenant.FromContext(r.Context()), &t)
	if err == ErrTaskNotFound {
		httputil.WriteNotFound(w, "task not found")
		return
	}
	if err != nil {
		observability.FromContext(r.Context()).WithError(err).Error("task update failed")
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &t)
}

// DeleteTask removes a task
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.DeleteTask(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrTaskNotFound {
		httputil.WriteNotFound(w, "task not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteNoContent(w)
}
