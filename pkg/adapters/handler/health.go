package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/lizdek/lizdek-api/pkg/ports"
)

const healthTimeout = 3 * time.Second

type HealthHandler struct {
	db          ports.Pinger
	version     string
	environment string
	production  bool
	now         func() time.Time
}

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version"`
	Database    string `json:"database"`
	Environment string `json:"environment"`
	Error       string `json:"error,omitempty"`
}

func NewHealthHandler(db ports.Pinger, version, environment string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		version:     version,
		environment: environment,
		production:  environment == "production",
		now:         time.Now,
	}
}

// Check pings the database and answers 503 when it is unreachable.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	resp := healthResponse{
		Status:      "healthy",
		Timestamp:   h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Version:     h.version,
		Database:    "connected",
		Environment: h.environment,
	}

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		resp.Error = "Database connection failed"
		if !h.production {
			resp.Error = err.Error()
		}
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
