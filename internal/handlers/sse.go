package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

type SSEHandlers struct {
	reports    *services.Reports
	logger     *slog.Logger
	metrics    *observability.Metrics
	tableLimit int
}

func NewSSEHandlers(reports *services.Reports, logger *slog.Logger, metrics *observability.Metrics, tableLimit int) *SSEHandlers {
	return &SSEHandlers{
		reports:    reports,
		logger:     logger,
		metrics:    metrics,
		tableLimit: tableLimit,
	}
}

func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "sse_kpis", func(sse *datastar.ServerSentEventGenerator, report *models.Report) error {
		return h.patchElements(r.Context(), sse, templates.KPICards(report.KPICards))
	})
}

func (h *SSEHandlers) HandleRecords(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "sse_records", func(sse *datastar.ServerSentEventGenerator, report *models.Report) error {
		return h.patchElements(r.Context(), sse, templates.RecordsTable(report.TableColumns(), report.Rows, h.tableLimit))
	})
}

func (h *SSEHandlers) HandleSalesOverTime(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "sse_sales_over_time", func(sse *datastar.ServerSentEventGenerator, report *models.Report) error {
		if err := patchSignals(sse, map[string]any{templates.SalesOverTimeSignal: report.SalesOverTime}); err != nil {
			return err
		}
		return h.patchElements(r.Context(), sse,
			templates.ChartStatus(templates.SalesOverTimeID, len(report.SalesOverTime), "dates"))
	})
}

func (h *SSEHandlers) HandleSalesByCategory(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "sse_sales_by_category", func(sse *datastar.ServerSentEventGenerator, report *models.Report) error {
		if err := patchSignals(sse, map[string]any{templates.SalesByCategorySignal: report.SalesByCategory}); err != nil {
			return err
		}
		return h.patchElements(r.Context(), sse,
			templates.ChartStatus(templates.SalesByCategoryID, len(report.SalesByCategory), "categories"))
	})
}

func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, "sse_refresh_all", func(sse *datastar.ServerSentEventGenerator, report *models.Report) error {
		ctx := r.Context()
		for _, c := range []templ.Component{
			templates.ErrorBanner(""),
			templates.KPICards(report.KPICards),
			templates.RecordsTable(report.TableColumns(), report.Rows, h.tableLimit),
			templates.ChartStatus(templates.SalesOverTimeID, len(report.SalesOverTime), "dates"),
			templates.ChartStatus(templates.SalesByCategoryID, len(report.SalesByCategory), "categories"),
		} {
			if err := h.patchElements(ctx, sse, c); err != nil {
				return err
			}
		}

		// One signal patch so both charts redraw together.
		return patchSignals(sse, map[string]any{
			templates.SalesOverTimeSignal:   report.SalesOverTime,
			templates.SalesByCategorySignal: report.SalesByCategory,
		})
	})
}

// stream opens the SSE response, generates the report and hands it to send.
// A load failure replaces the dashboard error element with the user-facing
// message instead.
func (h *SSEHandlers) stream(w http.ResponseWriter, r *http.Request, view string, send func(*datastar.ServerSentEventGenerator, *models.Report) error) {
	sse := datastar.NewSSE(w, r)
	ctx := r.Context()

	report, err := h.reports.Generate(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "dashboard data unavailable", "view", view, "error", err)
		if patchErr := h.patchElements(ctx, sse, templates.ErrorBanner(errorText(err))); patchErr != nil {
			h.logger.ErrorContext(ctx, "patch error banner", "error", patchErr)
		}
		return
	}

	if err := send(sse, report); err != nil {
		h.logger.ErrorContext(ctx, "send sse patch", "view", view, "error", err)
		return
	}
	h.metrics.ObserveRender(view)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchElements(ctx context.Context, sse *datastar.ServerSentEventGenerator, c templ.Component) error {
	var buf strings.Builder
	if err := c.Render(ctx, &buf); err != nil {
		return err
	}
	return sse.PatchElements(buf.String())
}

func patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) error {
	data, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	return sse.PatchSignals(data)
}

func errorText(err error) string {
	if msg := dataset.UserMessage(err); msg != "" {
		return msg
	}
	return "Error: The sales data could not be loaded."
}
