package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardHandler(t *testing.T) {
	h := NewDashboardHandler(createTestReports(t, testCSV), testLogger(), nil, DefaultTableLimit)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	for _, want := range []string{
		"Simple Sales Dashboard",
		"Total Sales (PKR)",
		"1,200,180",
		"Total Orders",
		"Average Order Value (PKR)",
		"300,045",
		"Daily Sales Trend",
		"Total Sales per Category",
		"<td>O3</td>",
	} {
		assert.Contains(t, body, want)
	}
}

func TestDashboardHandler_MissingFile(t *testing.T) {
	reports := missingReports(t)
	h := NewDashboardHandler(reports, testLogger(), nil, DefaultTableLimit)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	assert.Contains(t, body, "Error: The file &#39;"+reports.Path()+"&#39; was not found.")
	for _, absent := range []string{"Key Performance Indicators", "Total Sales", "Daily Sales Trend", "<table>"} {
		assert.NotContains(t, body, absent)
	}
	assert.Equal(t, 1, strings.Count(body, `role="alert"`))
}

func TestDashboardHandler_Malformed(t *testing.T) {
	h := NewDashboardHandler(createTestReports(t, "Order ID,Category,Sales\nO1,Tech,1\n"), testLogger(), nil, DefaultTableLimit)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "missing required columns: Order Date")
}
