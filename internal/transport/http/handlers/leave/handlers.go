package leavehandler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/platform/metrics"
	"hrportal/internal/platform/sessionstore"
	"hrportal/internal/platform/upstream"
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
	r.Get("/leave", h.handleList)
}

type leaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Status    string `json:"status"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	data := views.PageData{Title: "Leave Requests"}
	status := http.StatusOK

	var requests []leaveRequest
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/leave/requests", &requests); err != nil {
		status = shared.ApplyUpstreamError(&data, h.Metrics, err)
	} else {
		for _, request := range requests {
			data.Items = append(data.Items, views.ListItem{
				Primary:   request.Type + ": " + request.StartDate + " to " + request.EndDate,
				Secondary: request.Status,
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "list_page", data); err != nil {
		slog.Warn("render leave failed", "err", err)
	}
}
