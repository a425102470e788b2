package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allan-kirui57/pynade-hub/internal/cache"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
	"github.com/allan-kirui57/pynade-hub/internal/util"
	"github.com/allan-kirui57/pynade-hub/internal/validation"
)

// Default cache lifetimes.
const (
	DefaultCategoriesTTL = 24 * time.Hour
	DefaultTagsTTL       = 6 * time.Hour
	DefaultCountsTTL     = 6 * time.Hour

	defaultPopularTagsLimit = 10
	defaultTopCategories    = 10
)

const popularTagsPrefix = "tags:popular:"

// TaxonomyConfig sets cache lifetimes. Zero values use the defaults.
type TaxonomyConfig struct {
	CategoriesTTL time.Duration
	TagsTTL       time.Duration
	CountsTTL     time.Duration
}

// TaxonomyService manages categories and tags and caches the read paths used
// by the public pages.
type TaxonomyService struct {
	store     store.Store
	cache     cache.Cache
	cfg       TaxonomyConfig
	logger    *slog.Logger
	validator *validation.Validator
}

// NewTaxonomyService creates a new taxonomy service.
func NewTaxonomyService(st store.Store, c cache.Cache, cfg TaxonomyConfig, logger *slog.Logger) *TaxonomyService {
	if cfg.CategoriesTTL <= 0 {
		cfg.CategoriesTTL = DefaultCategoriesTTL
	}
	if cfg.TagsTTL <= 0 {
		cfg.TagsTTL = DefaultTagsTTL
	}
	if cfg.CountsTTL <= 0 {
		cfg.CountsTTL = DefaultCountsTTL
	}
	return &TaxonomyService{
		store:     st,
		cache:     c,
		cfg:       cfg,
		logger:    logger,
		validator: validation.New(),
	}
}

func categoriesKey(module domain.Module, activeOnly bool) string {
	if activeOnly {
		return "categories:" + string(module) + ":active"
	}
	return "categories:" + string(module) + ":all"
}

func categoryCountsKey(module domain.Module) string {
	return "categories:counts:" + string(module)
}

func popularTagsKey(group string, limit int) string {
	if group == "" {
		group = "*"
	}
	return fmt.Sprintf("%s%s:%d", popularTagsPrefix, group, limit)
}

// GetCategoriesForModule returns the module's categories ordered by name.
// Unknown modules yield an empty list.
func (s *TaxonomyService) GetCategoriesForModule(ctx context.Context, module domain.Module, activeOnly bool) ([]*domain.Category, error) {
	if !module.Valid() {
		return []*domain.Category{}, nil
	}
	cats, err := cache.Remember(ctx, s.cache, categoriesKey(module, activeOnly), s.cfg.CategoriesTTL,
		func(ctx context.Context) ([]*domain.Category, error) {
			return s.store.ListCategoriesForModule(ctx, module, activeOnly)
		})
	if err != nil {
		return nil, storeError(err, "category")
	}
	return cats, nil
}

// GetCategoriesWithCounts returns the module's active categories with their
// association counts.
func (s *TaxonomyService) GetCategoriesWithCounts(ctx context.Context, module domain.Module) ([]domain.CategoryWithCounts, error) {
	if !module.Valid() {
		return []domain.CategoryWithCounts{}, nil
	}
	counts, err := cache.Remember(ctx, s.cache, categoryCountsKey(module), s.cfg.CountsTTL,
		func(ctx context.Context) ([]domain.CategoryWithCounts, error) {
			return s.store.CategoriesWithCounts(ctx, module)
		})
	if err != nil {
		return nil, storeError(err, "category")
	}
	return counts, nil
}

// GetTopCategories returns the categories with the most items in the module.
func (s *TaxonomyService) GetTopCategories(ctx context.Context, module domain.Module, limit int) ([]domain.CategoryWithCounts, error) {
	if limit <= 0 {
		limit = defaultTopCategories
	}
	top, err := s.store.TopCategories(ctx, module, limit)
	if err != nil {
		return nil, storeError(err, "category")
	}
	return top, nil
}

// GetPopularTags returns tags ordered by usage across all content.
// An empty group includes every group.
func (s *TaxonomyService) GetPopularTags(ctx context.Context, group string, limit int) ([]domain.TagUsage, error) {
	if limit <= 0 {
		limit = defaultPopularTagsLimit
	}
	group = strings.TrimSpace(group)
	tags, err := cache.Remember(ctx, s.cache, popularTagsKey(group, limit), s.cfg.TagsTTL,
		func(ctx context.Context) ([]domain.TagUsage, error) {
			return s.store.PopularTags(ctx, group, limit)
		})
	if err != nil {
		return nil, storeError(err, "tag")
	}
	return tags, nil
}

// invalidateCategories drops every cached category list and count.
func (s *TaxonomyService) invalidateCategories(ctx context.Context) {
	keys := make([]string, 0, len(domain.Modules())*3)
	for _, m := range domain.Modules() {
		keys = append(keys, categoriesKey(m, true), categoriesKey(m, false), categoryCountsKey(m))
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate category cache", "error", err)
	}
}

// invalidateTags drops every cached popular-tags list.
func (s *TaxonomyService) invalidateTags(ctx context.Context) {
	if err := s.cache.DeletePrefix(ctx, popularTagsPrefix); err != nil {
		s.logger.Warn("failed to invalidate tag cache", "error", err)
	}
}

// CreateCategoryRequest contains fields for creating a category.
type CreateCategoryRequest struct {
	Name        string        `json:"name" validate:"required,max=255"`
	Slug        string        `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description string        `json:"description,omitempty" validate:"max=2000"`
	ParentID    *int64        `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	Module      domain.Module `json:"module" validate:"required,module"`
	IsActive    *bool         `json:"is_active,omitempty"`
}

// CreateCategory creates a category. The slug defaults to the slugified name.
func (s *TaxonomyService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug, err := slugOrName(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	c := &domain.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		Module:      req.Module,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, storeError(err, "category")
	}

	s.invalidateCategories(ctx)
	s.logger.Info("category created", "id", c.ID, "slug", c.Slug, "module", c.Module)
	return c, nil
}

// GetCategory returns a category by id.
func (s *TaxonomyService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, storeError(err, "category")
	}
	return c, nil
}

// GetCategoryBySlug returns a category by slug.
func (s *TaxonomyService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "category")
	}
	return c, nil
}

// UpdateCategoryRequest contains fields for updating a category.
// Nil fields are left unchanged; ClearParent makes the category a root.
type UpdateCategoryRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string        `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	ParentID    *int64         `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
	ClearParent bool           `json:"clear_parent,omitempty"`
	Module      *domain.Module `json:"module,omitempty" validate:"omitempty,module"`
	IsActive    *bool          `json:"is_active,omitempty"`
}

// UpdateCategory updates a category. The module can only change while the
// category has no children and no associated items.
func (s *TaxonomyService) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*domain.Category, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, storeError(err, "category")
	}

	if req.Module != nil && *req.Module != c.Module {
		inUse, err := s.store.CategoryInUse(ctx, id)
		if err != nil {
			return nil, storeError(err, "category")
		}
		if inUse {
			return nil, domainerrors.Conflictf("category %q has children or items; its module cannot change", c.Slug)
		}
		c.Module = *req.Module
	}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		c.Slug = *req.Slug
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	switch {
	case req.ClearParent:
		c.ParentID = nil
	case req.ParentID != nil:
		if err := s.checkParent(ctx, c.ID, *req.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = req.ParentID
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, storeError(err, "category")
	}

	s.invalidateCategories(ctx)
	s.logger.Info("category updated", "id", c.ID, "slug", c.Slug)
	return c, nil
}

// checkParent rejects parentID if id is parentID itself or one of its ancestors.
func (s *TaxonomyService) checkParent(ctx context.Context, id, parentID int64) error {
	seen := make(map[int64]struct{})
	for next := &parentID; next != nil; {
		if *next == id {
			return domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"parent_id": "a category cannot be nested under itself or its descendants",
			})
		}
		if _, ok := seen[*next]; ok {
			return nil
		}
		seen[*next] = struct{}{}

		ancestor, err := s.store.GetCategory(ctx, *next)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return storeError(err, "category")
		}
		next = ancestor.ParentID
	}
	return nil
}

// DeleteCategory deletes a category. Items that used it as their primary
// category are left without one.
func (s *TaxonomyService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return storeError(err, "category")
	}
	s.invalidateCategories(ctx)
	s.logger.Info("category deleted", "id", id)
	return nil
}

// ListCategories returns a page of categories for the admin listing.
func (s *TaxonomyService) ListCategories(ctx context.Context, filter store.CategoryFilter, page store.PageRequest) (*store.PageResult[*domain.Category], error) {
	page.Normalize()
	result, err := s.store.ListCategories(ctx, filter, page)
	if err != nil {
		return nil, storeError(err, "category")
	}
	return result, nil
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Group       string `json:"group,omitempty" validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// CreateTag creates a tag in the given group, or in the default group.
func (s *TaxonomyService) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug, err := slugOrName(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	t := &domain.Tag{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Group:       strings.TrimSpace(req.Group),
		Description: req.Description,
	}
	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, storeError(err, "tag")
	}

	s.invalidateTags(ctx)
	s.logger.Info("tag created", "id", t.ID, "slug", t.Slug, "group", t.Group)
	return t, nil
}

// GetTag returns a tag by id.
func (s *TaxonomyService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	return t, nil
}

// UpdateTagRequest contains fields for updating a tag.
type UpdateTagRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Group       *string `json:"group,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// UpdateTag updates a tag.
func (s *TaxonomyService) UpdateTag(ctx context.Context, id int64, req UpdateTagRequest) (*domain.Tag, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.GetTag(ctx, id)
	if err != nil {
		return nil, storeError(err, "tag")
	}

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		t.Slug = *req.Slug
	}
	if req.Group != nil {
		t.Group = strings.TrimSpace(*req.Group)
	}
	if req.Description != nil {
		t.Description = *req.Description
	}

	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, storeError(err, "tag")
	}

	s.invalidateTags(ctx)
	s.logger.Info("tag updated", "id", t.ID, "slug", t.Slug)
	return t, nil
}

// DeleteTag deletes a tag and its associations.
func (s *TaxonomyService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		return storeError(err, "tag")
	}
	s.invalidateTags(ctx)
	s.logger.Info("tag deleted", "id", id)
	return nil
}

// ListTags returns a page of tags for the admin listing.
func (s *TaxonomyService) ListTags(ctx context.Context, filter store.TagFilter, page store.PageRequest) (*store.PageResult[*domain.Tag], error) {
	page.Normalize()
	result, err := s.store.ListTags(ctx, filter, page)
	if err != nil {
		return nil, storeError(err, "tag")
	}
	return result, nil
}

// slugOrName returns explicit when set, otherwise the slugified name.
func slugOrName(explicit, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	slug := util.Slugify(name)
	if slug == "" {
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"name": "must contain at least one letter or digit",
		})
	}
	return slug, nil
}
