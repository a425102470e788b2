package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database":    s.checkDatabase(ctx),
		"github_sync": s.checkGitHubSync(),
	}

	overall := "healthy"
	for _, c := range components {
		switch {
		case c.Status == "unhealthy":
			overall = "unhealthy"
		case c.Status == "degraded" && overall == "healthy":
			overall = "degraded"
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDatabase verifies SQLite answers a ping.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "database not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database ping failed",
		}
	}

	health := ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}
	if checkpoint, err := s.store.GetContentCheckpoint(ctx); err == nil && !checkpoint.IsZero() {
		health.Message = "last content change " + checkpoint.Format(time.RFC3339)
	}
	return health
}

func (s *Server) checkGitHubSync() ComponentHealth {
	if s.services == nil || s.services.GitHubSync == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "github sync not configured",
		}
	}
	return ComponentHealth{Status: "healthy"}
}
