package lookup

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
)

// Handler serves the lookup routes.
type Handler struct {
	service *Service
}

// NewHandler creates a lookup handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the lookup routes on the router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/lookup", h.ListCategories).Methods("GET")
	router.HandleFunc("/api/lookup/{category}", h.GetCategory).Methods("GET")
}

// ListCategories returns the available lookup category names
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": h.service.Categories(),
	})
}

// GetCategory returns the option list for one category
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := httputil.ParsePathString(r, "category")
	if err != nil {
		httputil.WriteBadRequest(w, err.Error())
		return
	}

	values, err := h.service.Values(category)
	if err == ErrUnknownCategory {
		httputil.WriteNotFound(w, "unknown lookup category")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, err.Error())
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"values":   values,
	})
}
