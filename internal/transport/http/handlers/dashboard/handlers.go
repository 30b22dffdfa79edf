package dashboardhandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/authz"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/views"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.handleDashboard)
}

// handleDashboard renders the role-aware section list. Hiding a link
// here is UX only; every page behind it carries its own guard and the
// backend enforces the real boundary.
func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	provider, ok := middleware.GetAuthz(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	sections := []views.Section{
		{Label: "Attendance", Href: "/attendance"},
		{Label: "Leave", Href: "/leave"},
		{Label: "Payroll", Href: "/payroll"},
	}
	if provider.HasPermission(authz.PermViewRecruitment) ||
		provider.HasRole(authz.RoleHRManager) || provider.HasRole(authz.RoleSuperAdmin) {
		sections = append(sections, views.Section{Label: "Recruitment", Href: "/recruitment"})
	}
	if provider.HasPermission(authz.PermManageRoles) || provider.HasRole(authz.RoleSuperAdmin) {
		sections = append(sections, views.Section{Label: "Administration", Href: "/admin/roles"})
	}

	data := views.PageData{
		Title:    "Dashboard",
		Greeting: greeting(provider),
		Sections: sections,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderPage(w, "dashboard", data); err != nil {
		slog.Warn("render dashboard failed", "err", err)
	}
}

func greeting(provider *authz.Provider) string {
	identity := provider.Identity()
	if identity.IsZero() {
		return ""
	}
	return "Welcome back, " + identity.DisplayName()
}
