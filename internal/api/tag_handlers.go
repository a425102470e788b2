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

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "popularTags",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/tags/popular",
		Summary:     "Popular tags",
		Description: "Returns tags ordered by how many items use them",
		Tags:        []string{"Tags"},
	}, s.handlePopularTags)
}

func (s *Server) registerAdminTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListTags",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/tags",
		Summary:     "List tags",
		Tags:        []string{"Admin: Tags"},
	}, s.handleAdminListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          adminPrefix + "/tags",
		Summary:       "Create tag",
		Tags:          []string{"Admin: Tags"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/tags/{id}",
		Summary:     "Get tag",
		Tags:        []string{"Admin: Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        adminPrefix + "/tags/{id}",
		Summary:     "Update tag",
		Tags:        []string{"Admin: Tags"},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and detaches it from every item",
		Tags:        []string{"Admin: Tags"},
	}, s.handleDeleteTag)
}

// === DTOs ===

// PopularTagsInput contains parameters for popular tags.
type PopularTagsInput struct {
	Group string `query:"group" doc:"Only tags created in this group; empty for all"`
	Limit int    `query:"limit" default:"10" minimum:"1" maximum:"100" doc:"Maximum number of tags"`
}

// PopularTagsResponse contains tags with usage counts.
type PopularTagsResponse struct {
	Tags []domain.TagUsage `json:"tags" doc:"Tags by descending usage"`
}

// PopularTagsOutput wraps popular tags for Huma.
type PopularTagsOutput struct {
	Body PopularTagsResponse
}

// AdminListTagsInput contains parameters for the admin tag listing.
type AdminListTagsInput struct {
	Search string `query:"search" maxLength:"200" doc:"Name or slug match"`
	Group  string `query:"group" doc:"Tag group"`
	dto.PageParam
}

// TagListOutput wraps a page of tags for Huma.
type TagListOutput struct {
	Body dto.ListResponse[*domain.Tag]
}

// TagOutput wraps a tag for Huma.
type TagOutput struct {
	Body *domain.Tag
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body service.CreateTagRequest
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	dto.IDParam
	Body service.UpdateTagRequest
}

// === Handlers ===

func (s *Server) handlePopularTags(ctx context.Context, input *PopularTagsInput) (*PopularTagsOutput, error) {
	tags, err := s.services.Taxonomy.GetPopularTags(ctx, input.Group, input.Limit)
	if err != nil {
		return nil, err
	}
	return &PopularTagsOutput{Body: PopularTagsResponse{Tags: tags}}, nil
}

func (s *Server) handleAdminListTags(ctx context.Context, input *AdminListTagsInput) (*TagListOutput, error) {
	filter := store.TagFilter{Search: input.Search, Group: input.Group}
	page, err := s.services.Taxonomy.ListTags(ctx, filter, store.NewPageRequest(input.Page, store.AdminPageSize))
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	if input.Search != "" {
		query.Set("search", input.Search)
	}
	if input.Group != "" {
		query.Set("group", input.Group)
	}
	return &TagListOutput{Body: dto.NewListResponse(page, adminPrefix+"/tags", query)}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	t, err := s.services.Taxonomy.CreateTag(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *dto.IDParam) (*TagOutput, error) {
	t, err := s.services.Taxonomy.GetTag(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	t, err := s.services.Taxonomy.UpdateTag(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &TagOutput{Body: t}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Taxonomy.DeleteTag(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Tag deleted"), nil
}
