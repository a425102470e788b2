package service

import (
	"context"
	"strings"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/github"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// ProductRequest contains fields for creating or replacing a product.
type ProductRequest struct {
	Name         string             `json:"name" validate:"required,max=255"`
	Slug         string             `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description  string             `json:"description" validate:"required"`
	Image        string             `json:"image,omitempty" validate:"omitempty,url,max=2048"`
	PricingType  domain.PricingType `json:"pricing_type" validate:"required,pricing"`
	IsOpenSource bool               `json:"is_open_source,omitempty"`
	RepoURL      string             `json:"repo_url,omitempty" validate:"omitempty,url,max=2048"`
	WebsiteURL   string             `json:"website_url,omitempty" validate:"omitempty,url,max=2048"`
	IsFeatured   bool               `json:"is_featured,omitempty"`
	Upvotes      int                `json:"upvotes,omitempty" validate:"gte=0"`
	TaxonomyInput
}

// validateProduct normalizes the pricing type before running the field rules and
// checks that a repository URL names an owner and a repository.
func (s *ContentService) validateProduct(req *ProductRequest) error {
	req.PricingType = store.NormalizePricing(string(req.PricingType))
	req.RepoURL = strings.TrimSpace(req.RepoURL)

	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if req.RepoURL != "" {
		if _, err := github.ParseRepositoryURL(req.RepoURL); err != nil {
			return domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"repo_url": "must point at a repository, e.g. https://github.com/owner/name",
			})
		}
	}
	return nil
}

func (r *ProductRequest) fill(p *domain.Product) {
	p.Name = strings.TrimSpace(r.Name)
	p.Description = r.Description
	p.Image = r.Image
	p.PricingType = r.PricingType
	p.IsOpenSource = r.IsOpenSource
	p.RepoURL = r.RepoURL
	p.WebsiteURL = r.WebsiteURL
	p.IsFeatured = r.IsFeatured
	p.Upvotes = r.Upvotes
}

// CreateProduct creates a product and its taxonomy.
func (s *ContentService) CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	if err := s.validateProduct(&req); err != nil {
		return nil, err
	}

	p := &domain.Product{Slug: req.Slug}
	req.fill(p)
	if p.Slug == "" {
		slug, err := s.uniqueSlug(ctx, domain.ContentProduct, p.Name, 0)
		if err != nil {
			return nil, err
		}
		p.Slug = slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, storeError(err, "product")
	}
	if err := s.applyTaxonomy(ctx, p.Ref(), req.TaxonomyInput, true); err != nil {
		return nil, err
	}

	s.logger.Info("product created", "id", p.ID, "slug", p.Slug)
	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct replaces a product's fields. Repository counters are only
// written by the GitHub sync and are left unchanged.
func (s *ContentService) UpdateProduct(ctx context.Context, id int64, req ProductRequest) (*domain.Product, error) {
	if err := s.validateProduct(&req); err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError(err, "product")
	}
	req.fill(p)
	if req.Slug != "" {
		p.Slug = req.Slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return nil, storeError(err, "product")
	}
	if err := s.applyTaxonomy(ctx, p.Ref(), req.TaxonomyInput, false); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", "id", p.ID, "slug", p.Slug)
	return s.GetProduct(ctx, p.ID)
}

// DeleteProduct deletes a product and its associations.
func (s *ContentService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return storeError(err, "product")
	}
	s.logger.Info("product deleted", "id", id)
	return nil
}

// GetProduct returns a product by id.
func (s *ContentService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, storeError(err, "product")
	}
	return p, nil
}

// ProductDetail is a product with its comment threads.
type ProductDetail struct {
	domain.Product
	Comments      []*domain.Comment `json:"comments"`
	CommentsCount int               `json:"comments_count"`
}

// GetProductBySlug returns a product by slug with its comments.
func (s *ContentService) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	p, err := s.store.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "product")
	}
	comments, n, err := s.comments(ctx, p.Ref())
	if err != nil {
		return nil, err
	}
	return &ProductDetail{Product: *p, Comments: comments, CommentsCount: n}, nil
}

// ListProducts returns a filtered page of products.
func (s *ContentService) ListProducts(ctx context.Context, filter store.ProductFilter, page store.PageRequest) (*store.PageResult[*domain.Product], error) {
	page.Normalize()
	result, err := s.store.ListProducts(ctx, filter, page)
	if err != nil {
		return nil, storeError(err, "product")
	}
	return result, nil
}
