package handler

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is any dependency that can report its own connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	store      Pinger
	sourcePath string
}

func NewHealthHandler(store Pinger, sourcePath string) *HealthHandler {
	return &HealthHandler{store: store, sourcePath: sourcePath}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Liveness handles GET /health; 200 as long as the process serves requests.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness handles GET /health/ready. Redis being down makes the service
// degraded, not dead: catalog reads still fall back to snapshot and source,
// so the probe reports 503 only when neither Redis nor the source is usable.
func (h *HealthHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	redisOK := true
	if err := h.store.Ping(ctx); err != nil {
		deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		redisOK = false
	} else {
		deps["redis"] = dependencyStatus{Status: "ok"}
	}

	sourceOK := true
	if _, err := os.Stat(h.sourcePath); err != nil {
		deps["catalog_source"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
		sourceOK = false
	} else {
		deps["catalog_source"] = dependencyStatus{Status: "ok"}
	}

	status, code := "ok", http.StatusOK
	switch {
	case !redisOK && !sourceOK:
		status, code = "unavailable", http.StatusServiceUnavailable
	case !redisOK || !sourceOK:
		status = "degraded"
	}

	return c.JSON(code, readinessResponse{Status: status, Dependencies: deps})
}
