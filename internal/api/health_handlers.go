package api

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// healthCheckTimeout bounds each component probe.
const healthCheckTimeout = 2 * time.Second

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/api/v1/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Version    string                     `json:"version" doc:"Server version"`
	Uptime     string                     `json:"uptime" doc:"Time since the server started"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// handleHealthCheck runs every registered check. The database is critical:
// its failure makes the server unhealthy; any other failure only degrades it.
func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth, len(s.opts.Checks))
	overall := "healthy"

	for _, name := range slices.Sorted(maps.Keys(s.opts.Checks)) {
		h := runCheck(ctx, s.opts.Checks[name])
		components[name] = h
		if h.Status == "healthy" {
			continue
		}
		if name == "database" {
			overall = "unhealthy"
		} else if overall == "healthy" {
			overall = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Version:    Version,
			Uptime:     time.Since(s.started).Round(time.Second).String(),
			Components: components,
		},
	}, nil
}

func runCheck(ctx context.Context, check HealthCheck) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	latency := time.Since(start).String()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", Latency: latency, Message: err.Error()}
	}
	return ComponentHealth{Status: "healthy", Latency: latency}
}
