package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
	"github.com/allan-kirui57/pynade-hub/internal/util"
	"github.com/allan-kirui57/pynade-hub/internal/validation"
)

// Storefront list sizes.
const (
	showcaseListSize   = 3
	showcaseCategories = 10
	relatedBlogsLimit  = 3
)

// ContentService manages blogs, products and vacancies and serves their
// filtered listings.
type ContentService struct {
	store     store.Store
	assoc     *AssociationService
	taxonomy  *TaxonomyService
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewContentService creates a new content service.
func NewContentService(st store.Store, assoc *AssociationService, taxonomy *TaxonomyService, logger *slog.Logger) *ContentService {
	return &ContentService{
		store:     st,
		assoc:     assoc,
		taxonomy:  taxonomy,
		logger:    logger,
		validator: validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// uniqueSlug derives a free slug for ct from source. excludeID lets an item
// keep its own slug on update.
func (s *ContentService) uniqueSlug(ctx context.Context, ct domain.ContentType, source string, excludeID int64) (string, error) {
	slug, err := util.UniqueSlug(ctx, source, func(ctx context.Context, candidate string) (bool, error) {
		return s.store.SlugExists(ctx, ct, candidate, excludeID)
	})
	if errors.Is(err, util.ErrEmptySlug) {
		field := "title"
		if ct == domain.ContentProduct {
			field = "name"
		}
		return "", domainerrors.ValidationWithDetails("validation failed", map[string]string{
			field: "must contain at least one letter or digit",
		})
	}
	if err != nil {
		return "", domainerrors.Wrap(err, domainerrors.CodeInternal, "generate slug")
	}
	return slug, nil
}

// applyTaxonomy writes the taxonomy of a newly created item. If it fails the
// item is removed again so that a rejected create leaves nothing behind.
func (s *ContentService) applyTaxonomy(ctx context.Context, ref domain.ContentRef, in TaxonomyInput, created bool) error {
	err := s.assoc.apply(ctx, ref, in)
	if err == nil || !created {
		return err
	}

	var rollback error
	switch ref.Type {
	case domain.ContentBlog:
		rollback = s.store.DeleteBlog(ctx, ref.ID)
	case domain.ContentProduct:
		rollback = s.store.DeleteProduct(ctx, ref.ID)
	case domain.ContentVacancy:
		rollback = s.store.DeleteVacancy(ctx, ref.ID)
	}
	if rollback != nil {
		s.logger.Error("failed to remove item after taxonomy error", "item", ref.String(), "error", rollback)
	}
	return err
}

// TagIDForFilter resolves the tag query parameter, which may be an id or a
// slug. found is false when a slug matches no tag.
func (s *ContentService) TagIDForFilter(ctx context.Context, raw string) (id int64, found bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true, nil
	}
	id, numeric, err := parseTagID(raw)
	if err != nil {
		return 0, false, err
	}
	if numeric {
		return id, true, nil
	}
	slug := util.Slugify(raw)
	ids, err := s.store.TagIDsBySlug(ctx, []string{slug})
	if err != nil {
		return 0, false, storeError(err, "tag")
	}
	id, found = ids[slug]
	return id, found, nil
}

// ProductShowcase returns the side lists shown next to the product directory.
// The lists are independent and loaded concurrently.
func (s *ContentService) ProductShowcase(ctx context.Context) (*domain.ProductShowcase, error) {
	var sc domain.ProductShowcase
	g, gctx := errgroup.WithContext(ctx)

	ranked := []struct {
		rank store.ProductRanking
		dst  *[]*domain.Product
	}{
		{store.RankFeatured, &sc.Featured},
		{store.RankPopular, &sc.Popular},
		{store.RankNewest, &sc.NewArrivals},
		{store.RankOpenSource, &sc.OpenSourcePicks},
	}
	for _, r := range ranked {
		g.Go(func() error {
			products, err := s.store.RankedProducts(gctx, r.rank, showcaseListSize)
			if err != nil {
				return storeError(err, "product")
			}
			*r.dst = products
			return nil
		})
	}
	g.Go(func() error {
		top, err := s.taxonomy.GetTopCategories(gctx, domain.ModuleProduct, showcaseCategories)
		if err != nil {
			return err
		}
		sc.TopCategories = top
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &sc, nil
}
