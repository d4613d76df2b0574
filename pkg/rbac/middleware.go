package rbac

import (
	"net/http"

	"github.com/falah-io/falah/pkg/auth"
	"github.com/falah-io/falah/pkg/contextkeys"
	"github.com/falah-io/falah/pkg/httputil"
)

// PrincipalFromRequest extracts the authenticated principal from a request.
func PrincipalFromRequest(r *http.Request) *auth.Principal {
	p, ok := r.Context().Value(contextkeys.PrincipalKey).(*auth.Principal)
	if !ok {
		return nil
	}
	return p
}

// DecisionRecorder receives every authorization decision, allowed or denied.
// Used by the access audit trail.
type DecisionRecorder func(r *http.Request, p *auth.Principal, d Decision)

// RequireRoles creates middleware that rejects any principal whose role is
// not in the given list. Routes declare their role lists as literal arrays,
// e.g. rbac.RequireRoles(1, 2, 3).
func RequireRoles(required ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromRequest(r)
			if p == nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"msg": "authentication required",
				})
				return
			}

			for _, role := range required {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			httputil.WriteJSON(w, http.StatusForbidden, RoleDenial{
				Msg:           "your role is not permitted on this route",
				RequiredRoles: required,
				YourRole:      p.Role,
				RoleName:      p.Role.Name(),
			})
		})
	}
}

// Middleware applies the role/method/module authorization pipeline to every
// request. It runs after authentication and before any handler or store
// work; denials are terminal and carry the structured decision body.
//
// recorder may be nil; when set it observes every decision.
func Middleware(recorder DecisionRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFromRequest(r)
			if p == nil {
				httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"msg": "authentication required",
				})
				return
			}

			decision := Authorize(p.Role, r.Method, r.URL.Path)
			if recorder != nil {
				recorder(r, p, decision)
			}

			if !decision.Allowed {
				httputil.WriteJSON(w, http.StatusForbidden, decision.Body)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
