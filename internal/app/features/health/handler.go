package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dalemusser/terragon/internal/app/system/supervisor"
	"github.com/dalemusser/terragon/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// StatusSource reports the connection supervisor's state.
// *supervisor.Supervisor satisfies it.
type StatusSource interface {
	Status() supervisor.Status
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	Supervisor StatusSource
	Check      func(ctx context.Context) error // readiness of the live store session
	Log        *zap.Logger
}

// NewHandler constructs a health Handler from the supervisor and a store
// readiness check.
func NewHandler(sup StatusSource, check func(ctx context.Context) error, logger *zap.Logger) *Handler {
	return &Handler{
		Supervisor: sup,
		Check:      check,
		Log:        logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string           `json:"status"`
	Database string           `json:"database"`
	State    supervisor.State `json:"state,omitempty"`
	Since    *time.Time       `json:"since,omitempty"`
	Message  string           `json:"message,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "state":"LIVE", "since":"…" }
//
// On store failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable", "error":"…" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Probe())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "connected",
	}
	if h.Supervisor != nil {
		st := h.Supervisor.Status()
		resp.State = st.State
		since := st.Since
		resp.Since = &since
	}

	if err := h.Check(ctx); err != nil {
		h.Log.Error("health-check: store readiness failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		resp.Status = "error"
		resp.Database = "disconnected"
		resp.Message = "Database unavailable"
		resp.Error = err.Error()
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	_ = json.NewEncoder(w).Encode(resp)
}
