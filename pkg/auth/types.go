package auth

import "time"

// Role identifies one of the five fixed application roles.
//
// The numeric values are part of the API surface: route declarations list the
// roles allowed on each route as literal integer arrays, and clients receive
// them back in authorization error payloads.
type Role int

const (
	RoleAppAdmin      Role = 1 // global access, bypasses all route checks
	RoleHQ            Role = 2 // all centers, cannot manage center records
	RoleOrgAdmin      Role = 3 // full CRUD within own center
	RoleOrgExecutive  Role = 4 // view-only outside exempt modules
	RoleOrgCaseworker Role = 5 // fixed module allow-list within own center
)

// roleNames maps roles to their display labels.
var roleNames = map[Role]string{
	RoleAppAdmin:      "App Admin",
	RoleHQ:            "HQ",
	RoleOrgAdmin:      "Org Admin",
	RoleOrgExecutive:  "Org Executive",
	RoleOrgCaseworker: "Org Caseworker",
}

// Name returns the display label for the role, or "Unknown" for values
// outside the five fixed roles.
func (r Role) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}

// Valid reports whether the role is one of the five known values.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// User represents a user account
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	FullName    string     `json:"full_name,omitempty"`
	Role        Role       `json:"role"`
	CenterID    *int64     `json:"center_id,omitempty"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// APIToken represents an issued API token
type APIToken struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	TokenHash   string     `json:"-"` // Never expose hash
	TokenPrefix string     `json:"token_prefix"`
	Name        string     `json:"name"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
}

// Principal is the authenticated identity attached to each request.
//
// CenterID mirrors the user's assigned center and may be nil when the account
// was never provisioned to one; downstream tenant filtering treats nil as
// "matches nothing", never "matches everything".
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	CenterID *int64 `json:"center_id,omitempty"`
}
