package audit

import (
	"context"
	"net/http"
	"time"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/httputil"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/rbac"
)

const recordTimeout = 5 * time.Second

// NewRecorder adapts the store into an authorization decision recorder.
// Writes are best effort: a failed insert is logged and never blocks or
// fails the request being audited.
func NewRecorder(store *Store, logger *observability.Logger) rbac.DecisionRecorder {
	return func(r *http.Request, p *auth.Principal, d rbac.Decision) {
		entry := &Entry{
			Role:      p.Role,
			Method:    r.Method,
			Path:      r.URL.Path,
			Module:    rbac.ModuleFromPath(r.URL.Path),
			Allowed:   d.Allowed,
			Reason:    d.Reason,
			RequestID: httputil.RequestIDFromContext(r.Context()),
		}
		if p.UserID != 0 {
			id := p.UserID
			entry.UserID = &id
		}

		// Detached context: the audit write must survive the request
		// being cancelled mid-flight.
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := store.Record(ctx, entry); err != nil {
			logger.WithError(err).Error("failed to record access audit entry")
		}
	}
}
