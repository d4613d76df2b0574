package audit

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
)

// Handler serves the access audit routes. Route registration applies the
// role guard; only administrative roles should reach these handlers.
type Handler struct {
	store *Store
}

// NewHandler creates an audit handler
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the audit routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/audit/access", h.List).Methods("GET")
}

// List returns recent authorization decisions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", defaultListLimit)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}
	userID, err := httputil.ParseQueryInt(r, "user_id", 0)
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	f := Filter{
		DeniedOnly: httputil.ParseQueryString(r, "denied", "") == "true",
		Limit:      limit,
	}
	if userID > 0 {
		v := int64(userID)
		f.UserID = &v
	}

	entries, err := h.store.List(r.Context(), f)
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}
	if entries == nil {
		entries = []*Entry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}
