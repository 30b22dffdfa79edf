package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/transport/http/api"
)

// TokenExpiry detects an expired session token and forces the
// loaded -> cleared transition before any page renders with stale
// auth state. The backend signs its tokens; the portal only inspects
// the expiry claim, it never needs the signing key.
func TokenExpiry(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSession(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			token, err := session.Get(r.Context(), sessionstore.KeyAuthToken)
			if err != nil || token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims := jwt.RegisteredClaims{}
			if _, _, parseErr := jwt.NewParser().ParseUnverified(token, &claims); parseErr != nil {
				// Opaque token; expiry is the backend's problem.
				next.ServeHTTP(w, r)
				return
			}
			if claims.ExpiresAt == nil || claims.ExpiresAt.After(time.Now()) {
				next.ServeHTTP(w, r)
				return
			}

			if provider, ok := GetAuthz(r.Context()); ok {
				_ = provider.Clear(r.Context())
			}
			if wantsJSON(r) {
				api.Fail(w, http.StatusUnauthorized, "session_expired", "your session has expired", GetRequestID(r.Context()))
				return
			}
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
		})
	}
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json") || strings.HasPrefix(r.URL.Path, "/api/")
}
