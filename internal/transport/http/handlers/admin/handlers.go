package adminhandler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/authz"
	"hrportal/internal/domain/permerror"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/platform/upstream"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
	"hrportal/internal/transport/http/views"
)

type Handler struct {
	Upstream *upstream.Client
	Metrics  *metrics.Collector
}

func NewHandler(client *upstream.Client, collector *metrics.Collector) *Handler {
	return &Handler{Upstream: client, Metrics: collector}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/roles", h.handleRolesPage)
	r.Post("/api/v1/admin/roles/assign", h.handleAssignRole)
}

type roleAssignment struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

func (h *Handler) handleRolesPage(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	data := views.PageData{Title: "Role Management"}
	status := http.StatusOK

	var assignments []roleAssignment
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/admin/roles", &assignments); err != nil {
		status = shared.ApplyUpstreamError(&data, h.Metrics, err)
	} else {
		for _, assignment := range assignments {
			data.Items = append(data.Items, views.ListItem{
				Primary:   assignment.Username,
				Secondary: strings.Join(assignment.Roles, ", "),
			})
		}
		// Role vocabulary with its coarse grants, for reference.
		for _, role := range []string{authz.RoleEmployee, authz.RoleDepartmentHead, authz.RoleHRManager, authz.RoleSuperAdmin} {
			data.Items = append(data.Items, views.ListItem{
				Primary:   role,
				Secondary: strings.Join(authz.RolePermissions[role], ", "),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "list_page", data); err != nil {
		slog.Warn("render admin roles failed", "err", err)
	}
}

type assignRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// handleAssignRole proxies a role assignment. The guard on this route
// is a convenience check only; a 403 here is the backend's verdict and
// surfaces as the structured permission error.
func (h *Handler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var payload assignRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}
	if payload.UserID == "" || payload.Role == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "userId and role are required", requestID)
		return
	}

	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	err := h.Upstream.PostJSON(r.Context(), token, "/api/v1/admin/roles/assign", payload, nil)
	if err != nil {
		if translated, handled := permerror.TranslateError(err); handled {
			if h.Metrics != nil {
				h.Metrics.RecordUpstreamDenial()
			}
			api.PermissionDenied(w, translated, requestID)
			return
		}
		api.Fail(w, http.StatusBadGateway, "assign_failed", "failed to assign role", requestID)
		return
	}

	api.Success(w, map[string]string{"userId": payload.UserID, "role": payload.Role}, requestID)
}
