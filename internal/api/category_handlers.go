package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listModuleCategories",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/categories",
		Summary:     "List categories for a module",
		Description: "Returns a module's categories ordered by name. Unknown modules yield an empty list",
		Tags:        []string{"Categories"},
	}, s.handleListModuleCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCategoryCounts",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/categories/counts",
		Summary:     "List categories with counts",
		Description: "Returns a module's active categories with blog, product and vacancy counts",
		Tags:        []string{"Categories"},
	}, s.handleListCategoryCounts)
}

func (s *Server) registerAdminCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListCategories",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/categories",
		Summary:     "List categories",
		Tags:        []string{"Admin: Categories"},
	}, s.handleAdminListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          adminPrefix + "/categories",
		Summary:       "Create category",
		Tags:          []string{"Admin: Categories"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/categories/{id}",
		Summary:     "Get category",
		Tags:        []string{"Admin: Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        adminPrefix + "/categories/{id}",
		Summary:     "Update category",
		Description: "Updates the given fields. The module cannot change once the category is in use",
		Tags:        []string{"Admin: Categories"},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category, its associations and any primary references to it",
		Tags:        []string{"Admin: Categories"},
	}, s.handleDeleteCategory)
}

// === DTOs ===

// ModuleCategoriesInput contains parameters for the public category lists.
type ModuleCategoriesInput struct {
	Module string `query:"module" required:"true" doc:"blog, product or job"`
	Active bool   `query:"active" default:"true" doc:"Only active categories"`
}

// CategoryCountsInput contains parameters for category counts.
type CategoryCountsInput struct {
	Module string `query:"module" required:"true" doc:"blog, product or job"`
}

// CategoriesResponse contains a list of categories.
type CategoriesResponse struct {
	Categories []*domain.Category `json:"categories" doc:"Categories ordered by name"`
}

// CategoriesOutput wraps a list of categories for Huma.
type CategoriesOutput struct {
	Body CategoriesResponse
}

// CategoryCountsResponse contains categories with association counts.
type CategoryCountsResponse struct {
	Categories []domain.CategoryWithCounts `json:"categories" doc:"Categories with per-collection counts"`
}

// CategoryCountsOutput wraps category counts for Huma.
type CategoryCountsOutput struct {
	Body CategoryCountsResponse
}

// AdminListCategoriesInput contains parameters for the admin category listing.
type AdminListCategoriesInput struct {
	Search string `query:"search" maxLength:"200" doc:"Name or slug match"`
	Module string `query:"module" doc:"blog, product or job"`
	dto.PageParam
}

// CategoryListOutput wraps a page of categories for Huma.
type CategoryListOutput struct {
	Body dto.ListResponse[*domain.Category]
}

// CategoryOutput wraps a category for Huma.
type CategoryOutput struct {
	Body *domain.Category
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Body service.CreateCategoryRequest
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	dto.IDParam
	Body service.UpdateCategoryRequest
}

// === Handlers ===

func (s *Server) handleListModuleCategories(ctx context.Context, input *ModuleCategoriesInput) (*CategoriesOutput, error) {
	categories, err := s.services.Taxonomy.GetCategoriesForModule(ctx, domain.Module(input.Module), input.Active)
	if err != nil {
		return nil, err
	}
	return &CategoriesOutput{Body: CategoriesResponse{Categories: categories}}, nil
}

func (s *Server) handleListCategoryCounts(ctx context.Context, input *CategoryCountsInput) (*CategoryCountsOutput, error) {
	counts, err := s.services.Taxonomy.GetCategoriesWithCounts(ctx, domain.Module(input.Module))
	if err != nil {
		return nil, err
	}
	return &CategoryCountsOutput{Body: CategoryCountsResponse{Categories: counts}}, nil
}

func (s *Server) handleAdminListCategories(ctx context.Context, input *AdminListCategoriesInput) (*CategoryListOutput, error) {
	filter := store.CategoryFilter{Search: input.Search, Module: domain.Module(input.Module)}
	page, err := s.services.Taxonomy.ListCategories(ctx, filter, store.NewPageRequest(input.Page, store.AdminPageSize))
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if input.Search != "" {
		query.Set("search", input.Search)
	}
	if input.Module != "" {
		query.Set("module", input.Module)
	}
	return &CategoryListOutput{Body: dto.NewListResponse(page, adminPrefix+"/categories", query)}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Taxonomy.CreateCategory(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *dto.IDParam) (*CategoryOutput, error) {
	c, err := s.services.Taxonomy.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	c, err := s.services.Taxonomy.UpdateCategory(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &CategoryOutput{Body: c}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Taxonomy.DeleteCategory(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Category deleted"), nil
}
