package middleware

import (
	"log/slog"
	"net/http"

	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/views"
)

// Guards gate role- and permission-protected pages before they render.
// A guard denial is a client-side convenience, shown as the terse
// access-denied notice; the rich permission dialog is reserved for
// denials the backend actually reported. Guards fail closed: no
// provider, empty state or ambiguous preconditions all deny.
type Guards struct {
	Metrics *metrics.Collector
}

// RequireAuthenticated gates pages that need a signed-in session at
// all. Unauthenticated browsers are sent to the login page; API
// callers get a 401.
func (g *Guards) RequireAuthenticated(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok || !session.Has(r.Context(), sessionstore.KeyAuthToken) {
				if wantsJSON(r) {
					api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
					return
				}
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows the request through when the session holds any of
// the listed roles.
func (g *Guards) RequireRole(resource string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provider, ok := GetAuthz(r.Context())
			if !ok {
				g.deny(w, r, resource)
				return
			}
			for _, role := range roles {
				if provider.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			g.deny(w, r, resource)
		})
	}
}

// RequirePermission allows the request through when the session holds
// the permission, or one of the fallback roles when the finer
// permission is absent from the payload. The fallback is the coarse
// role-for-permission pattern the backend also honors; grants via
// fallback are logged so over-broad roles stay visible.
func (g *Guards) RequirePermission(resource, permission string, fallbackRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provider, ok := GetAuthz(r.Context())
			if !ok {
				g.deny(w, r, resource)
				return
			}
			if provider.HasPermission(permission) {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range fallbackRoles {
				if provider.HasRole(role) {
					slog.Info("fallback role grant",
						"permission", permission,
						"role", role,
						"resource", resource,
						"requestId", GetRequestID(r.Context()))
					next.ServeHTTP(w, r)
					return
				}
			}
			g.deny(w, r, resource)
		})
	}
}

func (g *Guards) deny(w http.ResponseWriter, r *http.Request, resource string) {
	if g.Metrics != nil {
		g.Metrics.RecordClientDenial()
	}
	if wantsJSON(r) {
		api.Fail(w, http.StatusForbidden, "access_denied", "access denied", GetRequestID(r.Context()))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	if err := views.RenderAccessDenied(w, resource); err != nil {
		slog.Warn("render access denied failed", "err", err)
	}
}
