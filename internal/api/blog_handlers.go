package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func (s *Server) registerBlogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBlogs",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/blogs",
		Summary:     "List published blogs",
		Description: "Returns published posts filtered by search, category, tag and featured flag",
		Tags:        []string{"Blogs"},
	}, s.handleListBlogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBlog",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/blogs/{slug}",
		Summary:     "Get blog",
		Description: "Returns a published post with related posts",
		Tags:        []string{"Blogs"},
	}, s.handleGetPublishedBlog)
}

func (s *Server) registerAdminBlogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListBlogs",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/blogs",
		Summary:     "List blogs",
		Description: "Returns all posts, including drafts",
		Tags:        []string{"Admin: Blogs"},
	}, s.handleAdminListBlogs)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBlog",
		Method:        http.MethodPost,
		Path:          adminPrefix + "/blogs",
		Summary:       "Create blog",
		Description:   "Creates a post with its categories and tags",
		Tags:          []string{"Admin: Blogs"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBlog)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminGetBlog",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/blogs/{id}",
		Summary:     "Get blog by ID",
		Tags:        []string{"Admin: Blogs"},
	}, s.handleAdminGetBlog)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBlog",
		Method:      http.MethodPut,
		Path:        adminPrefix + "/blogs/{id}",
		Summary:     "Update blog",
		Description: "Replaces a post. Omitted taxonomy fields are left unchanged",
		Tags:        []string{"Admin: Blogs"},
	}, s.handleUpdateBlog)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBlog",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/blogs/{id}",
		Summary:     "Delete blog",
		Tags:        []string{"Admin: Blogs"},
	}, s.handleDeleteBlog)
}

// === DTOs ===

// ListBlogsInput contains parameters for listing blogs.
type ListBlogsInput struct {
	ContentQuery
}

// BlogListOutput wraps a page of blogs for Huma.
type BlogListOutput struct {
	Body dto.ListResponse[*domain.Blog]
}

// GetBlogInput contains parameters for getting a published blog.
type GetBlogInput struct {
	dto.SlugParam
}

// BlogDetailOutput wraps a published blog and its related posts.
type BlogDetailOutput struct {
	Body *service.BlogDetail
}

// BlogOutput wraps a blog for Huma.
type BlogOutput struct {
	Body *domain.Blog
}

// CreateBlogInput wraps the create blog request for Huma.
type CreateBlogInput struct {
	Body service.BlogRequest
}

// UpdateBlogInput wraps the update blog request for Huma.
type UpdateBlogInput struct {
	dto.IDParam
	Body service.BlogRequest
}

// === Handlers ===

func (s *Server) handleListBlogs(ctx context.Context, input *ListBlogsInput) (*BlogListOutput, error) {
	return s.listBlogs(ctx, input, apiPrefix+"/blogs", true, store.BlogPageSize)
}

func (s *Server) handleAdminListBlogs(ctx context.Context, input *ListBlogsInput) (*BlogListOutput, error) {
	return s.listBlogs(ctx, input, adminPrefix+"/blogs", false, store.AdminPageSize)
}

func (s *Server) listBlogs(ctx context.Context, input *ListBlogsInput, base string, publishedOnly bool, pageSize int) (*BlogListOutput, error) {
	filter := store.ParseBlogFilter(input.values())
	filter.PublishedOnly = publishedOnly

	tagID, ok, err := s.resolveTag(ctx, input.Tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &BlogListOutput{Body: dto.EmptyList[*domain.Blog](pageSize, base, filter.Values())}, nil
	}
	filter.TagID = tagID

	page, err := s.services.Content.ListBlogs(ctx, filter, store.NewPageRequest(input.Page, pageSize))
	if err != nil {
		return nil, err
	}
	return &BlogListOutput{Body: dto.NewListResponse(page, base, filter.Values())}, nil
}

func (s *Server) handleGetPublishedBlog(ctx context.Context, input *GetBlogInput) (*BlogDetailOutput, error) {
	detail, err := s.services.Content.GetPublishedBlog(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &BlogDetailOutput{Body: detail}, nil
}

func (s *Server) handleAdminGetBlog(ctx context.Context, input *dto.IDParam) (*BlogOutput, error) {
	b, err := s.services.Content.GetBlog(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BlogOutput{Body: b}, nil
}

func (s *Server) handleCreateBlog(ctx context.Context, input *CreateBlogInput) (*BlogOutput, error) {
	b, err := s.services.Content.CreateBlog(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &BlogOutput{Body: b}, nil
}

func (s *Server) handleUpdateBlog(ctx context.Context, input *UpdateBlogInput) (*BlogOutput, error) {
	b, err := s.services.Content.UpdateBlog(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BlogOutput{Body: b}, nil
}

func (s *Server) handleDeleteBlog(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Content.DeleteBlog(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Blog deleted"), nil
}
