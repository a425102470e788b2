package providers

import (
	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/github"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
)

// GitHubClientHandle wraps the GitHub client with shutdown capability.
type GitHubClientHandle struct {
	*github.Client
}

// Shutdown implements do.Shutdownable.
func (h *GitHubClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideGitHubClient provides the GitHub REST client.
func ProvideGitHubClient(i do.Injector) (*GitHubClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := github.New(github.Config{
		Token:     cfg.GitHub.Token,
		BaseURL:   cfg.GitHub.BaseURL,
		RateLimit: cfg.GitHub.RateLimit,
		RateBurst: cfg.GitHub.RateBurst,
	}, log.Component("github"))

	if cfg.GitHub.Token == "" {
		log.Warn("GitHub client has no token, unauthenticated rate limits apply")
	}
	log.Info("GitHub client initialized", "base_url", cfg.GitHub.BaseURL)

	return &GitHubClientHandle{Client: client}, nil
}
