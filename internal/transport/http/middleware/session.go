package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"hrportal/internal/domain/authz"
	"hrportal/internal/platform/sessionstore"
)

const SessionCookieName = "portal_sid"

type ctxKey string

const (
	ctxKeySession ctxKey = "portal_session"
	ctxKeyAuthz   ctxKey = "portal_authz"
)

// SessionManager attaches the per-request session and a fully loaded
// authz provider before any guard or handler runs. The provider load
// is synchronous: downstream code never observes a partially
// populated store.
type SessionManager struct {
	Store        sessionstore.Storage
	CookieSecure bool
}

func (m *SessionManager) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if cookie, err := r.Cookie(SessionCookieName); err == nil {
			sid = cookie.Value
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   m.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		session := sessionstore.NewSession(sid, m.Store)
		provider := authz.NewProvider(authz.NewStore(session))
		if err := provider.Init(r.Context()); err != nil {
			// The provider is left in a valid empty state; guards
			// fail closed on it.
			slog.Warn("session load failed", "err", err, "requestId", GetRequestID(r.Context()))
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, session)
		ctx = context.WithValue(ctx, ctxKeyAuthz, provider)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetSession(ctx context.Context) (*sessionstore.Session, bool) {
	session, ok := ctx.Value(ctxKeySession).(*sessionstore.Session)
	return session, ok
}

func GetAuthz(ctx context.Context) (*authz.Provider, bool) {
	provider, ok := ctx.Value(ctxKeyAuthz).(*authz.Provider)
	return provider, ok
}
