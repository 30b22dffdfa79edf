package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hrportal/internal/platform/sessionstore"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func serveWithExpiry(t *testing.T, store sessionstore.Storage, sid, path string) *httptest.ResponseRecorder {
	t.Helper()
	rendered := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("page rendered"))
	})
	manager := &SessionManager{Store: store}
	handler := manager.Attach(TokenExpiry("/login")(rendered))

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestExpiredTokenClearsAndRedirects(t *testing.T) {
	store := sessionstore.NewMemory(time.Hour)
	seedSession(t, store, "s1", map[string]string{
		sessionstore.KeyAuthToken: signedToken(t, time.Now().Add(-time.Minute)),
		sessionstore.KeyUserRoles: `["Employee"]`,
	})

	rec := serveWithExpiry(t, store, "s1", "/dashboard")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to login: %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	// The expired session's auth keys must be gone.
	for _, key := range []string{sessionstore.KeyAuthToken, sessionstore.KeyUserRoles} {
		if value, _ := store.Get(context.Background(), "s1", key); value != "" {
			t.Fatalf("key %s survived expiry", key)
		}
	}
}

func TestValidTokenPassesThrough(t *testing.T) {
	store := sessionstore.NewMemory(time.Hour)
	seedSession(t, store, "s1", map[string]string{
		sessionstore.KeyAuthToken: signedToken(t, time.Now().Add(time.Hour)),
	})

	rec := serveWithExpiry(t, store, "s1", "/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestOpaqueTokenPassesThrough(t *testing.T) {
	store := sessionstore.NewMemory(time.Hour)
	seedSession(t, store, "s1", map[string]string{
		sessionstore.KeyAuthToken: "not-a-jwt",
	})

	rec := serveWithExpiry(t, store, "s1", "/dashboard")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExpiredTokenOnAPIRouteReturnsJSON(t *testing.T) {
	store := sessionstore.NewMemory(time.Hour)
	seedSession(t, store, "s1", map[string]string{
		sessionstore.KeyAuthToken: signedToken(t, time.Now().Add(-time.Minute)),
	})

	rec := serveWithExpiry(t, store, "s1", "/api/v1/leave")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}
