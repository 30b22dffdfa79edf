package attendancehandler

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
	r.Get("/attendance", h.handleList)
}

type attendanceRecord struct {
	Date    string `json:"date"`
	Status  string `json:"status"`
	ClockIn string `json:"clockIn"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	data := views.PageData{Title: "Attendance"}
	status := http.StatusOK

	var records []attendanceRecord
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/attendance/me", &records); err != nil {
		status = shared.ApplyUpstreamError(&data, h.Metrics, err)
	} else {
		for _, record := range records {
			secondary := record.Status
			if record.ClockIn != "" {
				secondary += " (in at " + record.ClockIn + ")"
			}
			data.Items = append(data.Items, views.ListItem{Primary: record.Date, Secondary: secondary})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "list_page", data); err != nil {
		slog.Warn("render attendance failed", "err", err)
	}
}
