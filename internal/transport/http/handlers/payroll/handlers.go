package payrollhandler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jung-kurt/gofpdf"

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
	r.Get("/payroll", h.handleList)
	r.Get("/payroll/payslips/{periodID}/download", h.handleDownloadPayslip)
}

type payslipSummary struct {
	PeriodID string  `json:"periodId"`
	Period   string  `json:"period"`
	Net      float64 `json:"net"`
	Currency string  `json:"currency"`
}

type payslipDetail struct {
	EmployeeName string  `json:"employeeName"`
	Period       string  `json:"period"`
	Gross        float64 `json:"gross"`
	Deductions   float64 `json:"deductions"`
	Net          float64 `json:"net"`
	Currency     string  `json:"currency"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)

	data := views.PageData{Title: "Payroll"}
	status := http.StatusOK

	var payslips []payslipSummary
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/payroll/payslips", &payslips); err != nil {
		status = shared.ApplyUpstreamError(&data, h.Metrics, err)
	} else {
		for _, slip := range payslips {
			data.Items = append(data.Items, views.ListItem{
				Primary:   slip.Period,
				Secondary: fmt.Sprintf("Net %.2f %s", slip.Net, slip.Currency),
			})
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := views.RenderPage(w, "list_page", data); err != nil {
		slog.Warn("render payroll failed", "err", err)
	}
}

// handleDownloadPayslip renders the payslip PDF gateway-side from the
// backend's JSON so the backend never needs a PDF pipeline.
func (h *Handler) handleDownloadPayslip(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.GetSession(r.Context())
	token, _ := session.Get(r.Context(), sessionstore.KeyAuthToken)
	periodID := chi.URLParam(r, "periodID")

	var detail payslipDetail
	if err := h.Upstream.GetJSON(r.Context(), token, "/api/v1/payroll/payslips/"+periodID, &detail); err != nil {
		data := views.PageData{Title: "Payslip"}
		status := shared.ApplyUpstreamError(&data, h.Metrics, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if renderErr := views.RenderPage(w, "list_page", data); renderErr != nil {
			slog.Warn("render payslip error failed", "err", renderErr)
		}
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", detail.EmployeeName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", detail.Period))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Gross: %.2f %s", detail.Gross, detail.Currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f %s", detail.Deductions, detail.Currency))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net: %.2f %s", detail.Net, detail.Currency))

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=payslip-%s.pdf", periodID))
	if err := pdf.Output(w); err != nil {
		slog.Warn("payslip pdf output failed", "err", err)
	}
}
