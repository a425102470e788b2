// Package main runs one GitHub stats sync batch and prints the summary.
//
// The command exits with status 1 when any product failed, so it can be
// scheduled from cron in place of the server's built-in job.
//
// Usage:
//
//	GITHUB_TOKEN=... go run ./cmd/github-stats
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/github"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store/sqlite"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	st, err := sqlite.Open(cfg.Database.Path, log.Logger)
	if err != nil {
		log.Error("Failed to open database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer st.Close()

	client := github.New(github.Config{
		Token:     cfg.GitHub.Token,
		BaseURL:   cfg.GitHub.BaseURL,
		RateLimit: cfg.GitHub.RateLimit,
		RateBurst: cfg.GitHub.RateBurst,
	}, log.Component("github"))
	defer client.Close()

	svc := service.NewGitHubSyncService(st, client, service.GitHubSyncConfig{
		Concurrency:  cfg.GitHub.SyncConcurrency,
		MaxRetries:   cfg.GitHub.MaxRetries,
		RetryBackoff: cfg.GitHub.RetryBackoff,
	}, log.Component("github_sync"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := svc.SyncAll(ctx)
	if summary != nil {
		fmt.Printf("Run %s finished in %s\n", summary.ID, summary.Duration())
		fmt.Printf("Updated: %d\n", len(summary.Updated))
		fmt.Printf("Failed:  %d\n", len(summary.Failed))
		for _, f := range summary.Failed {
			fmt.Printf("  product %d (%s): %s\n", f.ProductID, f.RepoURL, f.Reason)
		}
	}
	if err != nil {
		log.Error("GitHub stats sync failed", "error", err)
		return 1
	}
	if len(summary.Failed) > 0 {
		return 1
	}
	return 0
}
