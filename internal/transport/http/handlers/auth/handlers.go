package authhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/platform/upstream"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/views"
)

type Handler struct {
	Upstream *upstream.Client
}

func NewHandler(client *upstream.Client) *Handler {
	return &Handler{Upstream: client}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

type loginResponse struct {
	Token       string          `json:"token"`
	Roles       []string        `json:"roles"`
	Permissions []string        `json:"permissions"`
	User        json.RawMessage `json:"user"`
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, "")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, http.StatusBadRequest, "invalid form submission")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.renderLogin(w, http.StatusBadRequest, "username and password are required")
		return
	}

	var resp loginResponse
	err := h.Upstream.PostJSON(r.Context(), "", "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &resp)
	if err != nil {
		h.renderLogin(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if err := writeSessionCredentials(r, resp); err != nil {
		slog.Warn("persist login failed", "err", err, "requestId", middleware.GetRequestID(r.Context()))
		h.renderLogin(w, http.StatusInternalServerError, "could not start your session, try again")
		return
	}

	if provider, ok := middleware.GetAuthz(r.Context()); ok {
		if err := provider.Reload(r.Context()); err != nil {
			slog.Warn("provider reload failed", "err", err)
		}
	}

	http.Redirect(w, r, middleware.PathDashboard, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if ok {
		token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)
		if token != "" {
			// Best effort; local state is cleared regardless.
			if err := h.Upstream.PostJSON(r.Context(), token, "/api/v1/auth/logout", nil, nil); err != nil {
				slog.Warn("upstream logout failed", "err", err)
			}
		}
	}

	if provider, ok := middleware.GetAuthz(r.Context()); ok {
		if err := provider.Clear(r.Context()); err != nil {
			slog.Warn("session clear failed", "err", err)
		}
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// writeSessionCredentials persists all four session keys before the
// provider reload so the reload observes a complete record.
func writeSessionCredentials(r *http.Request, resp loginResponse) error {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		return http.ErrNoCookie
	}
	ctx := r.Context()

	roles, err := json.Marshal(resp.Roles)
	if err != nil {
		return err
	}
	perms, err := json.Marshal(resp.Permissions)
	if err != nil {
		return err
	}

	if err := session.Set(ctx, sessionstore.KeyAuthToken, resp.Token); err != nil {
		return err
	}
	if err := session.Set(ctx, sessionstore.KeyUserRoles, string(roles)); err != nil {
		return err
	}
	if err := session.Set(ctx, sessionstore.KeyUserPermissions, string(perms)); err != nil {
		return err
	}
	return session.Set(ctx, sessionstore.KeyUser, string(resp.User))
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int, errText string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "login", views.PageData{Title: "Sign In", Error: errText}); err != nil {
		slog.Warn("render login failed", "err", err)
	}
}
