package service

import (
	"context"
	"strings"
	"time"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
	"github.com/allan-kirui57/pynade-hub/internal/textutil"
)

// BlogRequest contains fields for creating or replacing a blog post.
// An empty excerpt or zero read time is derived from the content.
type BlogRequest struct {
	Title         string     `json:"title" validate:"required,max=255"`
	Slug          string     `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Excerpt       string     `json:"excerpt,omitempty" validate:"max=500"`
	Content       string     `json:"content" validate:"required"`
	FeaturedImage string     `json:"featured_image,omitempty" validate:"omitempty,url,max=2048"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	ReadTime      int        `json:"read_time,omitempty" validate:"gte=0,lte=600"`
	IsFeatured    bool       `json:"is_featured,omitempty"`
	TaxonomyInput
}

// BlogDetail is a published post with its comment threads and the posts
// related to it.
type BlogDetail struct {
	domain.Blog
	Comments      []*domain.Comment `json:"comments"`
	CommentsCount int               `json:"comments_count"`
	Related       []*domain.Blog    `json:"related"`
}

func (r *BlogRequest) fill(b *domain.Blog) {
	b.Title = strings.TrimSpace(r.Title)
	b.Content = r.Content
	b.FeaturedImage = r.FeaturedImage
	b.PublishedAt = r.PublishedAt
	b.IsFeatured = r.IsFeatured

	b.Excerpt = strings.TrimSpace(r.Excerpt)
	if b.Excerpt == "" {
		b.Excerpt = textutil.Excerpt(r.Content, textutil.ExcerptLength)
	}
	b.ReadTime = r.ReadTime
	if b.ReadTime == 0 {
		b.ReadTime = textutil.ReadTime(r.Content)
	}
}

// CreateBlog creates a blog post and its taxonomy. Without an explicit slug
// one is derived from the title and suffixed until unique.
func (s *ContentService) CreateBlog(ctx context.Context, req BlogRequest) (*domain.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	b := &domain.Blog{Slug: req.Slug}
	req.fill(b)
	if b.Slug == "" {
		slug, err := s.uniqueSlug(ctx, domain.ContentBlog, b.Title, 0)
		if err != nil {
			return nil, err
		}
		b.Slug = slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.CreateBlog(ctx, b); err != nil {
		return nil, storeError(err, "blog")
	}
	if err := s.applyTaxonomy(ctx, b.Ref(), req.TaxonomyInput, true); err != nil {
		return nil, err
	}

	s.logger.Info("blog created", "id", b.ID, "slug", b.Slug)
	return s.GetBlog(ctx, b.ID)
}

// UpdateBlog replaces a blog post's fields. An empty slug keeps the current
// one so that existing links keep working. Nil taxonomy fields are unchanged.
func (s *ContentService) UpdateBlog(ctx context.Context, id int64, req BlogRequest) (*domain.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	b, err := s.store.GetBlog(ctx, id)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	req.fill(b)
	if req.Slug != "" {
		b.Slug = req.Slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.UpdateBlog(ctx, b); err != nil {
		return nil, storeError(err, "blog")
	}
	if err := s.applyTaxonomy(ctx, b.Ref(), req.TaxonomyInput, false); err != nil {
		return nil, err
	}

	s.logger.Info("blog updated", "id", b.ID, "slug", b.Slug)
	return s.GetBlog(ctx, b.ID)
}

// DeleteBlog deletes a blog post and its associations.
func (s *ContentService) DeleteBlog(ctx context.Context, id int64) error {
	if err := s.store.DeleteBlog(ctx, id); err != nil {
		return storeError(err, "blog")
	}
	s.logger.Info("blog deleted", "id", id)
	return nil
}

// GetBlog returns any blog post, published or not.
func (s *ContentService) GetBlog(ctx context.Context, id int64) (*domain.Blog, error) {
	b, err := s.store.GetBlog(ctx, id)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	return b, nil
}

// GetPublishedBlog returns a published post by slug with related posts.
// Drafts and scheduled posts are reported as not found.
func (s *ContentService) GetPublishedBlog(ctx context.Context, slug string) (*BlogDetail, error) {
	b, err := s.store.GetBlogBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	if !b.IsPublished(s.now()) {
		return nil, domainerrors.NotFound("blog not found")
	}

	related, err := s.store.RelatedBlogs(ctx, b, relatedBlogsLimit)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	comments, n, err := s.comments(ctx, b.Ref())
	if err != nil {
		return nil, err
	}
	return &BlogDetail{Blog: *b, Comments: comments, CommentsCount: n, Related: related}, nil
}

// ListBlogs returns a filtered page of blog posts.
func (s *ContentService) ListBlogs(ctx context.Context, filter store.BlogFilter, page store.PageRequest) (*store.PageResult[*domain.Blog], error) {
	page.Normalize()
	result, err := s.store.ListBlogs(ctx, filter, page)
	if err != nil {
		return nil, storeError(err, "blog")
	}
	return result, nil
}
