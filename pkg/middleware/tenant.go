package middleware

import (
	"net/http"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/observability"
	"github.com/falah-io/falah/pkg/tenant"
)

// TenantMiddleware resolves the tenant context from the authenticated
// principal and attaches it to the request. Requests without a principal
// continue without a tenant context; downstream query filtering then yields
// zero rows rather than leaking cross-center data.
type TenantMiddleware struct {
	metrics *observability.Metrics
}

// NewTenantMiddleware creates a new tenant resolution middleware
func NewTenantMiddleware(metrics *observability.Metrics) *TenantMiddleware {
	return &TenantMiddleware{metrics: metrics}
}

// Handler wraps an HTTP handler with tenant context resolution
func (m *TenantMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.PrincipalFromContext(r.Context())
		if p == nil {
			if m.metrics != nil {
				m.metrics.TenantResolveFailures.Inc()
			}
			next.ServeHTTP(w, r)
			return
		}
		tc := tenant.Resolve(p)

		if m.metrics != nil {
			switch {
			case tc.GlobalAccess:
				m.metrics.ScopedQueriesTotal.WithLabelValues("global").Inc()
			case tc.CenterID != nil:
				m.metrics.ScopedQueriesTotal.WithLabelValues("center").Inc()
			default:
				m.metrics.ScopedQueriesTotal.WithLabelValues("none").Inc()
			}
		}

		ctx := tenant.WithContext(r.Context(), tc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
