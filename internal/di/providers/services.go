package providers

import (
	"github.com/samber/do/v2"

	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/logger"
	"github.com/allan-kirui57/pynade-hub/internal/service"
)

// ProvideTaxonomyService provides the category and tag service.
func ProvideTaxonomyService(i do.Injector) (*service.TaxonomyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTaxonomyService(storeHandle.Store, cacheHandle.Badger, service.TaxonomyConfig{
		CategoriesTTL: cfg.Cache.CategoriesTTL,
		TagsTTL:       cfg.Cache.TagsTTL,
	}, log.Component("taxonomy")), nil
}

// ProvideAssociationService provides the tag and category association service.
func ProvideAssociationService(i do.Injector) (*service.AssociationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAssociationService(storeHandle.Store, log.Component("association")), nil
}

// ProvideContentService provides the blog, product and vacancy service.
func ProvideContentService(i do.Injector) (*service.ContentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	assoc := do.MustInvoke[*service.AssociationService](i)
	taxonomy := do.MustInvoke[*service.TaxonomyService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewContentService(storeHandle.Store, assoc, taxonomy, log.Component("content")), nil
}

// ProvideGitHubSyncService provides the repository stats sync service.
func ProvideGitHubSyncService(i do.Injector) (*service.GitHubSyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clientHandle := do.MustInvoke[*GitHubClientHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGitHubSyncService(storeHandle.Store, clientHandle.Client, service.GitHubSyncConfig{
		Concurrency:  cfg.GitHub.SyncConcurrency,
		MaxRetries:   cfg.GitHub.MaxRetries,
		RetryBackoff: cfg.GitHub.RetryBackoff,
	}, log.Component("github_sync")), nil
}
