package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const readinessTimeout = 3 * time.Second

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthHandlers handles the liveness and readiness probes.
type HealthHandlers struct {
	version string
	started time.Time
	checks  map[string]Check
	log     logrus.FieldLogger
}

// NewHealthHandlers takes the dependency checks run by the readiness probe,
// keyed by the name reported in the response.
func NewHealthHandlers(version string, checks map[string]Check, log logrus.FieldLogger) *HealthHandlers {
	return &HealthHandlers{version: version, started: time.Now(), checks: checks, log: log}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// LivenessCheck godoc
// @Summary Liveness
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, h.status("healthy"))
}

// ReadinessCheck reports 503 when any dependency is down.
// @Summary Readiness
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health/ready [get]
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	health := h.status("ready")
	health.Services = make(map[string]string, len(h.checks))
	code := http.StatusOK
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.WithError(err).WithField("service", name).Warn("readiness check failed")
			health.Services[name] = "unhealthy"
			health.Status = "not_ready"
			code = http.StatusServiceUnavailable
			continue
		}
		health.Services[name] = "healthy"
	}
	return c.JSON(code, health)
}

func (h *HealthHandlers) status(s string) *HealthStatus {
	return &HealthStatus{
		Status:    s,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}
}
