package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

func (s *Server) registerGitHubRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncGitHubStats",
		Method:      http.MethodPost,
		Path:        adminPrefix + "/github/sync",
		Summary:     "Sync GitHub stats",
		Description: "Refreshes stars, forks and watchers for every product with a repository. Per-product failures are listed, not fatal",
		Tags:        []string{"Admin: GitHub"},
	}, s.handleSyncGitHub)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGitHubSyncRuns",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/github/runs",
		Summary:     "List sync runs",
		Description: "Returns recent batch summaries, newest first",
		Tags:        []string{"Admin: GitHub"},
	}, s.handleListSyncRuns)

	huma.Register(s.api, huma.Operation{
		OperationID: "syncProductGitHubStats",
		Method:      http.MethodPost,
		Path:        adminPrefix + "/products/{id}/github-sync",
		Summary:     "Sync one product",
		Description: "Refreshes one product's repository stats and returns the product",
		Tags:        []string{"Admin: GitHub"},
	}, s.handleSyncProductGitHub)
}

// === DTOs ===

// SyncRunOutput wraps a batch summary for Huma.
type SyncRunOutput struct {
	Body *domain.SyncRun
}

// ListSyncRunsInput contains parameters for listing sync runs.
type ListSyncRunsInput struct {
	Limit int `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Maximum number of runs"`
}

// SyncRunsResponse contains recent batch summaries.
type SyncRunsResponse struct {
	Runs []*domain.SyncRun `json:"runs" doc:"Batch summaries, newest first"`
}

// SyncRunsOutput wraps sync runs for Huma.
type SyncRunsOutput struct {
	Body SyncRunsResponse
}

// === Handlers ===

func (s *Server) handleSyncGitHub(ctx context.Context, _ *struct{}) (*SyncRunOutput, error) {
	summary, err := s.services.GitHubSync.SyncAll(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncRunOutput{Body: summary}, nil
}

func (s *Server) handleListSyncRuns(ctx context.Context, input *ListSyncRunsInput) (*SyncRunsOutput, error) {
	runs, err := s.services.GitHubSync.ListRuns(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SyncRunsOutput{Body: SyncRunsResponse{Runs: runs}}, nil
}

func (s *Server) handleSyncProductGitHub(ctx context.Context, input *dto.IDParam) (*ProductOutput, error) {
	p, err := s.services.GitHubSync.SyncProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &ProductOutput{Body: p}, nil
}
