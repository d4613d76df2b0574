package centers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/tenant"
)

// Handler serves the center management routes.
type Handler struct {
	store *Store
}

// NewHandler creates a center handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the center routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/centerDetail", h.List).Methods("GET")
	router.HandleFunc("/api/centerDetail", h.Create).Methods("POST")
	router.HandleFunc("/api/centerDetail/{id:[0-9]+}", h.Get).Methods("GET")
	router.HandleFunc("/api/centerDetail/{id:[0-9]+}", h.Update).Methods("PUT")
	router.HandleFunc("/api/centerDetail/{id:[0-9]+}", h.Delete).Methods("DELETE")
}

// Create adds a new center
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var c Center
	if !httputil.ParseJSONOrError(w, r, &c) {
		return
	}
	if !httputil.RequireNonEmpty(w, c.Name, "name") {
		return
	}
	if !httputil.RequireNonEmpty(w, c.Code, "code") {
		return
	}

	if err := h.store.Create(r.Context(), &c); err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteCreated(w, c)
}

// List returns all centers visible to the caller
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	centers, err := h.store.List(r.Context(), tenant.FromContext(r.Context()))
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if centers == nil {
		centers = []*Center{}
	}
	httputil.WriteJSON(w, http.StatusOK, centers)
}

// Get returns one center
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	c, err := h.store.Get(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "center not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// Update rewrites a center
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var c Center
	if !httputil.ParseJSONOrError(w, r, &c) {
		return
	}
	c.ID = id

	err := h.store.Update(r.Context(), tenant.FromContext(r.Context()), &c)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "center not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

// Delete removes a center
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	err := h.store.Delete(r.Context(), tenant.FromContext(r.Context()), id)
	if err == ErrNotFound {
		httputil.WriteNotFound(w, "center not found")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	httputil.WriteNoContent(w)
}
