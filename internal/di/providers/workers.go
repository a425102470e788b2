package providers

import (
	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/service"
)

// GitHubSyncJobHandle runs the scheduled stats sync.
type GitHubSyncJobHandle struct {
	*service.GitHubSyncJob
}

// Shutdown implements do.Shutdownable.
func (h *GitHubSyncJobHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideGitHubSyncJob provides the periodic GitHub stats sync job.
func ProvideGitHubSyncJob(i do.Injector) (*GitHubSyncJobHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	svc := do.MustInvoke[*service.GitHubSyncService](i)
	log := do.MustInvoke[*logger.Logger](i)

	job := service.NewGitHubSyncJob(svc, cfg.GitHub.SyncInterval, log.Component("github_sync_job"))
	job.Start()

	return &GitHubSyncJobHandle{GitHubSyncJob: job}, nil
}
