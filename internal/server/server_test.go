package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/dataset"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const testCSV = `Order ID,Order Date,Category,Sales
O1,2024-01-01,Tech,100
O1,2024-01-01,Tech,50
O2,2024-01-02,Office,30
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

type loadCounter struct {
	loader *dataset.Loader
	calls  atomic.Int64
}

func (c *loadCounter) Load(ctx context.Context, path string) (*models.Dataset, error) {
	c.calls.Add(1)
	return c.loader.Load(ctx, path)
}

func newTestServer(t *testing.T, path string) (*Server, *loadCounter) {
	t.Helper()
	counter := &loadCounter{loader: dataset.NewLoader(testLogger())}
	metrics := observability.NewMetrics()
	cache := dataset.NewCache(counter.Load, testLogger(), metrics)
	reports := services.NewReports(cache, services.Options{Path: path, Logger: testLogger()})
	return NewServer(reports, testLogger(), metrics), counter
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func securityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		EnableRateLimit: true,
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
		AllowedOrigins:  []string{"http://localhost:8084"},
		TrustedProxies:  []string{"127.0.0.1"},
	}
}

func TestServer_Routes(t *testing.T) {
	srv, _ := newTestServer(t, writeCSV(t))

	tests := []struct {
		path        string
		wantStatus  int
		contentType string
	}{
		{"/", http.StatusOK, "text/html"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/metrics", http.StatusOK, "text/plain"},
		{"/api/kpis", http.StatusOK, "application/json"},
		{"/api/sales-over-time", http.StatusOK, "application/json"},
		{"/api/sales-by-category", http.StatusOK, "application/json"},
		{"/api/records", http.StatusOK, "application/json"},
		{"/api/records?limit=x", http.StatusBadRequest, "application/json"},
		{"/api/records.xlsx", http.StatusOK, "spreadsheetml"},
		{"/sse/kpis", http.StatusOK, "text/event-stream"},
		{"/sse/records", http.StatusOK, "text/event-stream"},
		{"/sse/sales-over-time", http.StatusOK, "text/event-stream"},
		{"/sse/sales-by-category", http.StatusOK, "text/event-stream"},
		{"/sse/refresh-all", http.StatusOK, "text/event-stream"},
		{"/api/nope", http.StatusNotFound, "application/json"},
		{"/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, writeCSV(t))

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/kpis", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_FileReadOnceAcrossRequests(t *testing.T) {
	srv, counter := newTestServer(t, writeCSV(t))

	for _, path := range []string{"/", "/api/kpis", "/sse/refresh-all", "/api/records", "/"} {
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code, path)
	}

	assert.Equal(t, int64(1), counter.calls.Load())

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "dashboard_dataset_cache_misses_total 1")
	assert.Contains(t, w.Body.String(), "dashboard_dataset_cache_hits_total 4")
}

func TestServer_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_data.csv")
	srv, _ := newTestServer(t, path)

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "was not found. Please make sure it&#39;s in the same folder.")
	assert.NotContains(t, w.Body.String(), "Key Performance Indicators")

	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// The file appearing later is picked up because failures are not cached.
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	w = httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Handler_Middleware(t *testing.T) {
	srv, _ := newTestServer(t, writeCSV(t))
	h := srv.Handler(securityConfig(), middleware.NewRateLimiter(securityConfig()))

	req := httptest.NewRequest(http.MethodGet, "/api/kpis", nil)
	req.Header.Set("Origin", "http://localhost:8084")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "http://localhost:8084", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "public, max-age=300", w.Header().Get("Cache-Control"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), `dashboard_http_requests_total{method="GET",status="200"} 1`)
}

func TestServer_SSEThroughMiddleware(t *testing.T) {
	srv, _ := newTestServer(t, writeCSV(t))
	ts := httptest.NewServer(srv.Handler(securityConfig(), middleware.NewRateLimiter(securityConfig())))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/sse/refresh-all")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "datastar-patch-signals"))
}

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	httpServer := &http.Server{Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), config.ServerConfig{ShutdownTimeout: 5 * time.Second})

	var ran atomic.Int64
	for range 3 {
		gs.RegisterShutdownHook(func(ctx context.Context) error {
			ran.Add(1)
			return nil
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, int64(3), ran.Load())
}

func TestGracefulServer_HookError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	gs := NewGracefulServer(&http.Server{Handler: http.NotFoundHandler()}, testLogger(), config.ServerConfig{ShutdownTimeout: time.Second})
	hookErr := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return hookErr })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = gs.Serve(ctx, ln)
	assert.ErrorIs(t, err, hookErr)
}
