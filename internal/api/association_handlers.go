package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

// contentRoutes maps the admin path segment of each content collection.
var contentRoutes = []struct {
	segment string
	name    string
	ct      domain.ContentType
}{
	{"blogs", "Blog", domain.ContentBlog},
	{"products", "Product", domain.ContentProduct},
	{"vacancies", "Vacancy", domain.ContentVacancy},
}

func (s *Server) registerAssociationRoutes() {
	for _, route := range contentRoutes {
		ct := route.ct
		base := fmt.Sprintf("%s/%s/{id}", adminPrefix, route.segment)
		tag := "Admin: " + route.name + " taxonomy"

		huma.Register(s.api, huma.Operation{
			OperationID: "sync" + route.name + "Tags",
			Method:      http.MethodPut,
			Path:        base + "/tags",
			Summary:     "Replace tags",
			Description: "Replaces the item's tags in one group. Names are created on demand; ids must exist",
			Tags:        []string{tag},
		}, func(ctx context.Context, input *SyncTagsInput) (*ItemTagsOutput, error) {
			return s.handleSyncTags(ctx, domain.Ref(ct, input.ID), input)
		})

		huma.Register(s.api, huma.Operation{
			OperationID: "sync" + route.name + "Categories",
			Method:      http.MethodPut,
			Path:        base + "/categories",
			Summary:     "Replace categories",
			Description: "Replaces the item's categories. A primary category outside the new set is reassigned",
			Tags:        []string{tag},
		}, func(ctx context.Context, input *SyncCategoriesInput) (*ItemCategoriesOutput, error) {
			return s.handleSyncCategories(ctx, domain.Ref(ct, input.ID), input)
		})

		huma.Register(s.api, huma.Operation{
			OperationID: "set" + route.name + "PrimaryCategory",
			Method:      http.MethodPut,
			Path:        base + "/primary-category",
			Summary:     "Set primary category",
			Description: "Sets the primary category and adds it to the item's categories",
			Tags:        []string{tag},
		}, func(ctx context.Context, input *SetPrimaryCategoryInput) (*ItemCategoriesOutput, error) {
			return s.handleSetPrimaryCategory(ctx, domain.Ref(ct, input.ID), input)
		})
	}
}

// === DTOs ===

// SyncTagsRequest lists tag ids or names.
type SyncTagsRequest struct {
	Tags []string `json:"tags" doc:"Tag ids or names; an empty list clears the group"`
}

// SyncTagsInput wraps the sync tags request for Huma.
type SyncTagsInput struct {
	dto.IDParam
	Group string `query:"group" doc:"Tag group; defaults to the content type"`
	Body  SyncTagsRequest
}

// ItemTagsResponse contains an item's tags in one group.
type ItemTagsResponse struct {
	Group string           `json:"group" doc:"Tag group that was replaced"`
	Tags  []domain.ItemTag `json:"tags" doc:"Tags now in the group"`
}

// ItemTagsOutput wraps item tags for Huma.
type ItemTagsOutput struct {
	Body ItemTagsResponse
}

// SyncCategoriesRequest lists category ids.
type SyncCategoriesRequest struct {
	CategoryIDs []int64 `json:"category_ids" doc:"Category ids; an empty list clears the categories"`
}

// SyncCategoriesInput wraps the sync categories request for Huma.
type SyncCategoriesInput struct {
	dto.IDParam
	Body SyncCategoriesRequest
}

// SetPrimaryCategoryRequest names the new primary category.
type SetPrimaryCategoryRequest struct {
	CategoryID int64 `json:"category_id" minimum:"1" doc:"Category id"`
}

// SetPrimaryCategoryInput wraps the primary category request for Huma.
type SetPrimaryCategoryInput struct {
	dto.IDParam
	Body SetPrimaryCategoryRequest
}

// ItemCategoriesResponse contains an item's categories and primary category.
type ItemCategoriesResponse struct {
	PrimaryCategoryID *int64             `json:"primary_category_id" doc:"Primary category id, if any"`
	Categories        []*domain.Category `json:"categories" doc:"Associated categories"`
}

// ItemCategoriesOutput wraps item categories for Huma.
type ItemCategoriesOutput struct {
	Body ItemCategoriesResponse
}

// === Handlers ===

func (s *Server) handleSyncTags(ctx context.Context, ref domain.ContentRef, input *SyncTagsInput) (*ItemTagsOutput, error) {
	group := input.Group
	if group == "" {
		group = ref.Type.TagGroup()
	}

	tags, err := s.services.Association.SyncTags(ctx, ref, input.Body.Tags, group)
	if err != nil {
		return nil, err
	}
	return &ItemTagsOutput{Body: ItemTagsResponse{Group: group, Tags: tags}}, nil
}

func (s *Server) handleSyncCategories(ctx context.Context, ref domain.ContentRef, input *SyncCategoriesInput) (*ItemCategoriesOutput, error) {
	if _, err := s.services.Association.SyncCategories(ctx, ref, input.Body.CategoryIDs); err != nil {
		return nil, err
	}
	return s.itemCategories(ctx, ref)
}

func (s *Server) handleSetPrimaryCategory(ctx context.Context, ref domain.ContentRef, input *SetPrimaryCategoryInput) (*ItemCategoriesOutput, error) {
	if err := s.services.Association.SetPrimaryCategory(ctx, ref, input.Body.CategoryID); err != nil {
		return nil, err
	}
	return s.itemCategories(ctx, ref)
}

func (s *Server) itemCategories(ctx context.Context, ref domain.ContentRef) (*ItemCategoriesOutput, error) {
	categories, err := s.services.Association.GetCategories(ctx, ref)
	if err != nil {
		return nil, err
	}
	primary, err := s.services.Association.GetPrimaryCategoryID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &ItemCategoriesOutput{Body: ItemCategoriesResponse{PrimaryCategoryID: primary, Categories: categories}}, nil
}
