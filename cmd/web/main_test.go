package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AdeyaOduor/chart-js/internal/config"
	"github.com/AdeyaOduor/chart-js/internal/models"
	"github.com/AdeyaOduor/chart-js/internal/server"
	"github.com/AdeyaOduor/chart-js/internal/services"
)

// Test helper to create analytics with a published snapshot
func newTestAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetRecords([]models.SalesRecord{
		{
			Date:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			Product:  "Widget",
			Quantity: 10,
			Revenue:  1200,
		},
		{
			Date:     time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
			Product:  "Gadget",
			Quantity: 5,
			Revenue:  300,
		},
		{
			Date:     time.Date(2026, time.January, 3, 0, 0, 0, 0, time.UTC),
			Product:  "Widget",
			Quantity: 2,
			Revenue:  240,
		},
	})
	return a
}

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	templateHandlers := &server.TemplateHandlers{Dashboard: handleDashboard}
	upload := config.UploadConfig{
		MaxSize:           1 << 20,
		AllowedExtensions: []string{".csv", ".xlsx"},
	}
	return server.NewServer(newTestAnalytics(), logger, templateHandlers, upload)
}

// Integration tests for HTTP routes
func TestServer_Routes(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		method         string
		path           string
		expectedStatus int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/analytics", http.StatusOK},
		{http.MethodGet, "/api/daily-stats", http.StatusOK},
		{http.MethodGet, "/api/top-products", http.StatusOK},
		{http.MethodGet, "/api/moving-average", http.StatusOK},
		{http.MethodGet, "/sse/daily-stats", http.StatusOK},
		{http.MethodGet, "/sse/top-products", http.StatusOK},
		{http.MethodGet, "/sse/moving-average", http.StatusOK},
		{http.MethodGet, "/sse/refresh-all", http.StatusOK},
		{http.MethodPost, "/api/upload", http.StatusBadRequest}, // no file attached
		{http.MethodGet, "/api/upload", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			srv.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}
}

func TestHandleDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{"Sales Analytics", "/api/upload", "products-chart", "trend-chart", "daily-content"} {
		if !strings.Contains(body, want) {
			t.Errorf("dashboard page missing %q", want)
		}
	}
}

func TestServer_TopProductsPayload(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/top-products", nil)
	w := httptest.NewRecorder()

	srv.ServeHTTP(w, req)

	var response struct {
		Success bool                `json:"success"`
		Data    []models.TopProduct `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if !response.Success {
		t.Error("expected success response")
	}
	if len(response.Data) != 2 {
		t.Fatalf("expected 2 products, got %d", len(response.Data))
	}
	if response.Data[0].Product != "Widget" {
		t.Errorf("expected Widget ranked first by revenue, got %q", response.Data[0].Product)
	}
	if response.Data[0].RevenueSum < response.Data[1].RevenueSum {
		t.Error("top products should be revenue-descending")
	}
}
