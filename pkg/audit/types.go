package audit

import (
	"time"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/rbac"
)

// Entry is one recorded authorization decision.
type Entry struct {
	ID         int64       `json:"id"`
	UserID     *int64      `json:"user_id,omitempty"`
	Role       auth.Role   `json:"role"`
	Method     string      `json:"method"`
	Path       string      `json:"path"`
	Module     rbac.Module `json:"module,omitempty"`
	Allowed    bool        `json:"allowed"`
	Reason     string      `json:"reason,omitempty"`
	RequestID  string      `json:"request_id,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Filter narrows an audit listing. Zero values mean no constraint.
type Filter struct {
	UserID     *int64
	DeniedOnly bool
	Limit      int
}
