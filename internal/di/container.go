// Package di provides dependency injection configuration for the Pynade Hub server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/di/providers"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)

	// External clients
	do.Provide(injector, providers.ProvideGitHubClient)

	// Business services
	do.Provide(injector, providers.ProvideTaxonomyService)
	do.Provide(injector, providers.ProvideAssociationService)
	do.Provide(injector, providers.ProvideContentService)
	do.Provide(injector, providers.ProvideGitHubSyncService)

	// Workers
	do.Provide(injector, providers.ProvideGitHubSyncJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)

	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.CacheHandle](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.GitHubClientHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.TaxonomyService](injector)
	_ = do.MustInvoke[*service.AssociationService](injector)
	_ = do.MustInvoke[*service.ContentService](injector)
	_ = do.MustInvoke[*service.GitHubSyncService](injector)

	// Workers
	_ = do.MustInvoke[*providers.GitHubSyncJobHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
