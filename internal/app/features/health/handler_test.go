package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/terragon/internal/app/features/health"
	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"go.uber.org/zap"
)

type fixedStatus supervisor.Status

func (f fixedStatus) Status() supervisor.Status { return supervisor.Status(f) }

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	State    string `json:"state"`
	Message  string `json:"message"`
	Error    string `json:"error"`
}

func serve(t *testing.T, h *health.Handler) (*httptest.ResponseRecorder, response) {
	t.Helper()
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.Serve(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec, resp
}

func TestServe_DatabaseConnected(t *testing.T) {
	sup := fixedStatus{State: supervisor.Live, Since: time.Now()}
	handler := health.NewHandler(sup, func(context.Context) error { return nil }, zap.NewNop())

	rec, resp := serve(t, handler)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if resp.Database != "connected" {
		t.Errorf("database: got %q, want %q", resp.Database, "connected")
	}
	if resp.State != string(supervisor.Live) {
		t.Errorf("state: got %q, want %q", resp.State, supervisor.Live)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	sup := fixedStatus{State: supervisor.Live, Since: time.Now()}
	handler := health.NewHandler(sup, func(context.Context) error { return errors.New("no reachable servers") }, zap.NewNop())

	rec, resp := serve(t, handler)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
	if resp.Status != "error" || resp.Database != "disconnected" {
		t.Errorf("got status=%q database=%q", resp.Status, resp.Database)
	}
	if resp.Error != "no reachable servers" {
		t.Errorf("error: got %q", resp.Error)
	}
}

func TestRoutes(t *testing.T) {
	handler := health.NewHandler(nil, func(context.Context) error { return nil }, zap.NewNop())
	r := health.Routes(handler)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
