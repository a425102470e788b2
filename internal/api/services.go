package api

import "github.com/allan-kirui57/pynade-hub/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Taxonomy    *service.TaxonomyService
	Association *service.AssociationService
	Content     *service.ContentService
	GitHubSync  *service.GitHubSyncService
}
