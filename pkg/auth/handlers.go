package auth

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/falah-io/falah/pkg/httputil"
)

// Handler serves the authentication routes.
type Handler struct {
	db           *sql.DB
	tokenManager *TokenManager
}

// NewHandler creates an authentication handler
func NewHandler(db *sql.DB, tokenManager *TokenManager) *Handler {
	return &Handler{db: db, tokenManager: tokenManager}
}

// RegisterRoutes registers the public authentication routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/auth/login", h.Login).Methods("POST")
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	RoleName string `json:"role_name"`
	CenterID *int64 `json:"center_id,omitempty"`
}

// Login verifies credentials and issues a fresh API token. Unknown users
// and wrong passwords fail identically.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteBadRequest(w, "username and password are required")
		return
	}

	var userID int64
	var passwordHash string
	var role Role
	var centerID sql.NullInt64

	err := h.db.QueryRowContext(r.Context(), `
		SELECT id, password_hash, role, center_id
		FROM users
		WHERE username = $1 AND is_active = TRUE`, req.Username).
		Scan(&userID, &passwordHash, &role, &centerID)
	if err == sql.ErrNoRows || (err == nil && !CheckPassword(passwordHash, req.Password)) {
		httputil.WriteUnauthorized(w, "invalid credentials")
		return
	}
	if err != nil {
		httputil.WriteInternalError(w, "login failed")
		return
	}

	expiry := time.Now().Add(24 * time.Hour)
	_, token, err := h.tokenManager.CreateToken(r.Context(), userID, "login session", &expiry)
	if err != nil {
		httputil.WriteInternalError(w, "failed to issue token")
		return
	}

	// Best effort
	_, _ = h.db.ExecContext(r.Context(),
		`UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)

	resp := loginResponse{
		Token:    token,
		UserID:   userID,
		Username: req.Username,
		Role:     role,
		RoleName: role.Name(),
	}
	if centerID.Valid {
		v := centerID.Int64
		resp.CenterID = &v
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}
