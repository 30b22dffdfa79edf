package recruitmenthandler

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
	r.Get("/recruitment", h.handlePipeline)
}

type candidate struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Stage    string `json:"stage"`
}

func (h *Handler) handlePipeline(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	data := views.PageData{Title: "Recruitment Pipeline"}
	status := http.StatusOK

	var candidates []candidate
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/recruitment/candidates", &candidates); err != nil {
		status = shared.ApplyUpstreamError(&data, h.Metrics, err)
	} else {
		for _, c := range candidates {
			data.Items = append(data.Items, views.ListItem{
				Primary:   c.Name + " - " + c.Position,
				Secondary: c.Stage,
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "list_page", data); err != nil {
		slog.Warn("render recruitment failed", "err", err)
	}
}
