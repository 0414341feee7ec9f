package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/botflow/pkg/httputil"
)

// HealthStatus represents overall service health
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

const healthCheckTimeout = 2 * time.Second

// HealthChecker is a dependency that can report its own health
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// ComponentHealth is the health of one dependency
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is returned by the health endpoint
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler serves /health from a set of checkers
type HealthHandler struct {
	checkers []HealthChecker
	logger   zerolog.Logger
}

// NewHealthHandler creates a health handler; nil checkers are ignored
func NewHealthHandler(checkers []HealthChecker, logger zerolog.Logger) *HealthHandler {
	active := make([]HealthChecker, 0, len(checkers))
	for _, c := range checkers {
		if c != nil {
			active = append(active, c)
		}
	}
	return &HealthHandler{checkers: active, logger: logger}
}

// Handle runs every checker and writes the aggregated report
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	checkCtx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now().UTC(),
		Components: make([]ComponentHealth, 0, len(h.checkers)),
	}

	for _, c := range h.checkers {
		component := ComponentHealth{Name: c.Name(), Healthy: true}
		if err := c.Check(checkCtx); err != nil {
			component.Healthy = false
			component.Error = err.Error()
			resp.Status = HealthStatusUnhealthy
			h.logger.Warn().Err(err).Str("component", c.Name()).Msg("Health check failed")
		}
		resp.Components = append(resp.Components, component)
	}

	httputil.WriteHealthResponse(ctx, resp, resp.Status == HealthStatusHealthy)
}
