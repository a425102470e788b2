// Package providers contains dependency injection providers for the Pynade Hub server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Pynade Hub",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"db_path", cfg.Database.Path,
		"github_sync_interval", cfg.GitHub.SyncInterval,
	)

	return log, nil
}
