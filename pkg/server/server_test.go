package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"arden/api_monitor/pkg/logging"
	"arden/api_monitor/pkg/monitoring"
)

func TestSetupServiceRouter_Healthz(t *testing.T) {
	hc := monitoring.NewHealthChecker("lighthouse", "test")
	router := SetupServiceRouter(logging.NewLogger(), "lighthouse", hc, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), "GET", "/healthz", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body)
	}
}

func TestSetupServiceRouter_Health(t *testing.T) {
	hc := monitoring.NewHealthChecker("lighthouse", "test")
	hc.AddCheck("always", func() monitoring.CheckResult {
		return monitoring.CheckResult{Status: monitoring.StatusHealthy}
	})
	router := SetupServiceRouter(logging.NewLogger(), "lighthouse", hc, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), "GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
