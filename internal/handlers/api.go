package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const (
	cacheMaxAge = "public, max-age=300"
	version     = "1.0.0"
)

type APIHandlers struct {
	reports *services.Reports
	logger  *slog.Logger
	metrics *observability.Metrics
}

func NewAPIHandlers(reports *services.Reports, logger *slog.Logger, metrics *observability.Metrics) *APIHandlers {
	return &APIHandlers{
		reports: reports,
		logger:  logger,
		metrics: metrics,
	}
}

type kpiResponse struct {
	models.KPIs
	Cards []models.KPICard `json:"cards"`
}

// recordsResponse lists the file's columns in header order; columns beyond
// the required four appear under each record's "extra".
type recordsResponse struct {
	Columns []string             `json:"columns"`
	Total   int                  `json:"total"`
	Records []models.SalesRecord `json:"records"`
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}
	h.metrics.ObserveRender("api_kpis")

	errors.WriteSuccessWithHeaders(w, kpiResponse{KPIs: report.KPIs, Cards: report.KPICards}, cacheHeaders())
}

func (h *APIHandlers) HandleSalesOverTime(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}
	h.metrics.ObserveRender("api_sales_over_time")

	errors.WriteSuccessWithHeaders(w, report.SalesOverTime, cacheHeaders())
}

func (h *APIHandlers) HandleSalesByCategory(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}
	h.metrics.ObserveRender("api_sales_by_category")

	errors.WriteSuccessWithHeaders(w, report.SalesByCategory, cacheHeaders())
}

func (h *APIHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return
	}

	report, ok := h.generate(w, r)
	if !ok {
		return
	}
	h.metrics.ObserveRender("api_records")

	rows := report.Rows
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	errors.WriteSuccessWithHeaders(w, recordsResponse{
		Columns: report.TableColumns(),
		Total:   len(report.Rows),
		Records: rows,
	}, cacheHeaders())
}

func (h *APIHandlers) HandleRecordsXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.generate(w, r)
	if !ok {
		return
	}

	// Buffered so a workbook error can still produce a JSON error response.
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeInternal, "Failed to build the workbook"),
			observability.GetRequestID(r.Context()))
		return
	}
	h.metrics.ObserveRender("xlsx")

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="sales_report.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", cacheMaxAge)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Warn("write workbook response", "error", err)
	}
}

// HandleNotFound answers unknown API paths with the JSON error envelope.
func (h *APIHandlers) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	errors.WriteError(w, h.logger, errors.NotFound("No API endpoint at "+r.URL.Path),
		observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.reports.Stats(r.Context()))
}

// generate writes the error response itself and reports false when the
// dataset cannot be loaded.
func (h *APIHandlers) generate(w http.ResponseWriter, r *http.Request) (*models.Report, bool) {
	report, err := h.reports.Generate(r.Context())
	if err != nil {
		errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
		return nil, false
	}
	return report, true
}

func cacheHeaders() map[string]string {
	return map[string]string{"Cache-Control": cacheMaxAge}
}

// parseLimit reads the optional limit query parameter. Zero means no limit.
func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.BadRequest("limit must be a positive integer")
	}
	return limit, nil
}
