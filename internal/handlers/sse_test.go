package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/observability"
)

func serveSSE(t *testing.T, handler http.HandlerFunc, path string) string {
	t.Helper()
	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, path, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	return w.Body.String()
}

func TestSSEHandlers_HandleKPIs(t *testing.T) {
	h := NewSSEHandlers(createTestReports(t, testCSV), testLogger(), nil, DefaultTableLimit)

	body := serveSSE(t, h.HandleKPIs, "/sse/kpis")

	assert.Contains(t, body, "datastar-patch-elements")
	assert.Contains(t, body, `id="kpi-cards"`)
	assert.Contains(t, body, "1,200,180")
	assert.Contains(t, body, "Average Order Value (PKR)")
}

func TestSSEHandlers_HandleRecords(t *testing.T) {
	h := NewSSEHandlers(createTestReports(t, testCSV), testLogger(), nil, 2)

	body := serveSSE(t, h.HandleRecords, "/sse/records")

	assert.Contains(t, body, `id="records-table"`)
	assert.Contains(t, body, "<td>O3</td>")
	assert.Contains(t, body, "Showing 2 of 4 rows, newest first")
	assert.Less(t, strings.Index(body, "<td>O3</td>"), strings.Index(body, "<td>O2</td>"))
}

func TestSSEHandlers_HandleSalesOverTime(t *testing.T) {
	h := NewSSEHandlers(createTestReports(t, testCSV), testLogger(), nil, DefaultTableLimit)

	body := serveSSE(t, h.HandleSalesOverTime, "/sse/sales-over-time")

	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"salesOverTime":[`)
	assert.Contains(t, body, `"label":"2024-01-01"`)
	assert.Contains(t, body, "3 dates")
}

func TestSSEHandlers_HandleSalesByCategory(t *testing.T) {
	h := NewSSEHandlers(createTestReports(t, testCSV), testLogger(), nil, DefaultTableLimit)

	body := serveSSE(t, h.HandleSalesByCategory, "/sse/sales-by-category")

	assert.Contains(t, body, `"salesByCategory":[`)
	assert.Contains(t, body, `"category":"Tech"`)
	assert.Contains(t, body, "2 categories")
}

func TestSSEHandlers_HandleRefreshAll(t *testing.T) {
	metrics := observability.NewMetrics()
	h := NewSSEHandlers(createTestReports(t, testCSV), testLogger(), metrics, DefaultTableLimit)

	body := serveSSE(t, h.HandleRefreshAll, "/sse/refresh-all")

	for _, want := range []string{
		`id="dashboard-error"`,
		`id="kpi-cards"`,
		`id="records-table"`,
		`id="sales-over-time-status"`,
		`id="sales-by-category-status"`,
		`"salesOverTime":[`,
		`"salesByCategory":[`,
	} {
		assert.Contains(t, body, want)
	}
	assert.Equal(t, 1, strings.Count(body, "event: datastar-patch-signals"))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("sse_refresh_all")))
}

func TestSSEHandlers_DataUnavailable(t *testing.T) {
	metrics := observability.NewMetrics()
	h := NewSSEHandlers(missingReports(t), testLogger(), metrics, DefaultTableLimit)

	for name, handler := range map[string]http.HandlerFunc{
		"kpis":              h.HandleKPIs,
		"records":           h.HandleRecords,
		"sales-over-time":   h.HandleSalesOverTime,
		"sales-by-category": h.HandleSalesByCategory,
		"refresh-all":       h.HandleRefreshAll,
	} {
		t.Run(name, func(t *testing.T) {
			body := serveSSE(t, handler, "/sse/"+name)

			assert.Contains(t, body, `id="dashboard-error"`)
			assert.Contains(t, body, "was not found. Please make sure it&#39;s in the same folder.")
			assert.NotContains(t, body, "kpi-cards")
			assert.NotContains(t, body, "datastar-patch-signals")
		})
	}
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("sse_refresh_all")))
}
