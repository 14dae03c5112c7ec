package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// DefaultTableLimit renders every row into the HTML table. A positive value
// caps the HTML table only; the API and the XLSX export are never capped.
const DefaultTableLimit = 0

type DashboardHandler struct {
	reports    *services.Reports
	logger     *slog.Logger
	metrics    *observability.Metrics
	tableLimit int
}

func NewDashboardHandler(reports *services.Reports, logger *slog.Logger, metrics *observability.Metrics, tableLimit int) *DashboardHandler {
	return &DashboardHandler{
		reports:    reports,
		logger:     logger,
		metrics:    metrics,
		tableLimit: tableLimit,
	}
}

// ServeHTTP renders the whole dashboard, or only the error message when the
// dataset cannot be loaded.
func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	var (
		buf    bytes.Buffer
		status = http.StatusOK
		view   = "dashboard"
	)

	report, err := h.reports.Generate(ctx)
	if err != nil {
		appErr := errors.FromDataset(err)
		status = appErr.StatusCode
		view = "dashboard_error"

		h.logger.WarnContext(ctx, "dashboard data unavailable", "error", err, "status", status)
		err = templates.ErrorPage(h.reports.Title(), errorText(err)).Render(ctx, &buf)
	} else {
		err = templates.Dashboard(report, h.tableLimit).Render(ctx, &buf)
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "render dashboard", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	h.metrics.ObserveRender(view)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status == http.StatusOK {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(status)
	buf.WriteTo(w)
}
