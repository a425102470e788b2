package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
	"github.com/allan-kirui57/pynade-hub/internal/util"
)

// AssociationService attaches tags and categories to content items.
// Every write runs in a single store transaction; a failed write leaves the
// item's previous associations in place.
type AssociationService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAssociationService creates a new association service.
func NewAssociationService(st store.Store, logger *slog.Logger) *AssociationService {
	return &AssociationService{store: st, logger: logger}
}

// ResolveTagIDs turns mixed input into tag ids. Numeric input is taken as an
// existing id; anything else is a tag name, found or created by slug in group.
// Blank input is skipped and the result keeps first-seen order without repeats.
//
// Tags created here persist even if a later association write fails.
func (s *AssociationService) ResolveTagIDs(ctx context.Context, inputs []string, group string) ([]int64, error) {
	group = tagGroup(group)
	ids := make([]int64, 0, len(inputs))
	seen := make(map[int64]struct{}, len(inputs))

	for _, raw := range inputs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		id, numeric, err := parseTagID(raw)
		if err != nil {
			return nil, err
		}
		if !numeric {
			slug := util.Slugify(raw)
			if slug == "" {
				continue
			}
			tag, created, err := s.store.FindOrCreateTag(ctx, raw, slug, group)
			if err != nil {
				return nil, storeError(err, "tag")
			}
			if created {
				s.logger.Debug("tag created from input", "id", tag.ID, "slug", tag.Slug, "group", group)
			}
			id = tag.ID
		}

		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// lookupTagIDs is ResolveTagIDs without creation: unknown names are dropped.
func (s *AssociationService) lookupTagIDs(ctx context.Context, inputs []string) ([]int64, error) {
	var ids []int64
	var slugs []string
	for _, raw := range inputs {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, numeric, err := parseTagID(raw)
		if err != nil {
			return nil, err
		}
		if numeric {
			ids = append(ids, id)
			continue
		}
		if slug := util.Slugify(raw); slug != "" {
			slugs = append(slugs, slug)
		}
	}

	if len(slugs) > 0 {
		bySlug, err := s.store.TagIDsBySlug(ctx, slugs)
		if err != nil {
			return nil, storeError(err, "tag")
		}
		for _, slug := range slugs {
			if id, ok := bySlug[slug]; ok {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// SyncTags makes the item's tags in group exactly the resolved inputs.
// Tags in other groups are untouched.
func (s *AssociationService) SyncTags(ctx context.Context, ref domain.ContentRef, inputs []string, group string) ([]domain.ItemTag, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	group = tagGroup(group)

	ids, err := s.ResolveTagIDs(ctx, inputs, group)
	if err != nil {
		return nil, err
	}
	if err := s.store.SyncTags(ctx, ref, ids, group); err != nil {
		return nil, storeError(err, string(ref.Type))
	}

	s.logger.Debug("tags synced", "item", ref.String(), "group", group, "count", len(ids))
	return s.GetTagsByGroup(ctx, ref, group)
}

// AddTags attaches the resolved inputs in group, keeping existing tags.
func (s *AssociationService) AddTags(ctx context.Context, ref domain.ContentRef, inputs []string, group string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	group = tagGroup(group)

	ids, err := s.ResolveTagIDs(ctx, inputs, group)
	if err != nil {
		return err
	}
	if err := s.store.AttachTags(ctx, ref, ids, group); err != nil {
		return storeError(err, string(ref.Type))
	}
	return nil
}

// RemoveTags detaches the given tags. A nil group detaches them from every
// group. Names that match no tag are ignored; no tags are created.
func (s *AssociationService) RemoveTags(ctx context.Context, ref domain.ContentRef, inputs []string, group *string) error {
	if err := checkRef(ref); err != nil {
		return err
	}

	ids, err := s.lookupTagIDs(ctx, inputs)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.store.DetachTags(ctx, ref, ids, group); err != nil {
		return storeError(err, string(ref.Type))
	}
	return nil
}

// GetTagsByGroup returns the item's tags in group, ordered by name.
func (s *AssociationService) GetTagsByGroup(ctx context.Context, ref domain.ContentRef, group string) ([]domain.ItemTag, error) {
	group = tagGroup(group)
	tags, err := s.store.GetItemTags(ctx, ref, &group)
	if err != nil {
		return nil, storeError(err, string(ref.Type))
	}
	return tags, nil
}

// GetTags returns all of the item's tags with their association group.
func (s *AssociationService) GetTags(ctx context.Context, ref domain.ContentRef) ([]domain.ItemTag, error) {
	tags, err := s.store.GetItemTags(ctx, ref, nil)
	if err != nil {
		return nil, storeError(err, string(ref.Type))
	}
	return tags, nil
}

// SyncCategories replaces the item's category set. When the current primary
// category is not kept, the first id becomes primary, or none if ids is empty.
func (s *AssociationService) SyncCategories(ctx context.Context, ref domain.ContentRef, categoryIDs []int64) ([]*domain.Category, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	if err := s.store.SyncCategories(ctx, ref, categoryIDs); err != nil {
		return nil, storeError(err, string(ref.Type))
	}

	s.logger.Debug("categories synced", "item", ref.String(), "count", len(categoryIDs))
	return s.GetCategories(ctx, ref)
}

// SetPrimaryCategory marks categoryID as the item's primary category and adds
// it to the category set if needed.
func (s *AssociationService) SetPrimaryCategory(ctx context.Context, ref domain.ContentRef, categoryID int64) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if categoryID <= 0 {
		return domainerrors.Validation("category id must be positive")
	}
	if err := s.store.SetPrimaryCategory(ctx, ref, categoryID); err != nil {
		return storeError(err, string(ref.Type))
	}
	return nil
}

// GetCategories returns the item's category set ordered by name.
func (s *AssociationService) GetCategories(ctx context.Context, ref domain.ContentRef) ([]*domain.Category, error) {
	cats, err := s.store.GetItemCategories(ctx, ref)
	if err != nil {
		return nil, storeError(err, string(ref.Type))
	}
	return cats, nil
}

// GetPrimaryCategoryID returns the item's primary category id, if any.
func (s *AssociationService) GetPrimaryCategoryID(ctx context.Context, ref domain.ContentRef) (*int64, error) {
	id, err := s.store.GetPrimaryCategoryID(ctx, ref)
	if err != nil {
		return nil, storeError(err, string(ref.Type))
	}
	return id, nil
}

// TaxonomyInput is the taxonomy part of a content create or update request.
// Nil fields are left unchanged on update.
type TaxonomyInput struct {
	CategoryIDs       []int64  `json:"category_ids,omitempty"`
	PrimaryCategoryID *int64   `json:"primary_category_id,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// check reports missing category ids and numeric tag ids in `in` without
// writing anything. Tag names are not checked since they are created on demand.
func (s *AssociationService) check(ctx context.Context, in TaxonomyInput) error {
	categoryIDs := slices.Clone(in.CategoryIDs)
	if in.PrimaryCategoryID != nil {
		if *in.PrimaryCategoryID <= 0 {
			return domainerrors.Validation("category id must be positive")
		}
		categoryIDs = append(categoryIDs, *in.PrimaryCategoryID)
	}
	if err := s.store.CheckCategoryIDs(ctx, categoryIDs); err != nil {
		return storeError(err, "category")
	}

	var tagIDs []int64
	for _, raw := range in.Tags {
		id, numeric, err := parseTagID(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		if numeric {
			tagIDs = append(tagIDs, id)
		}
	}
	if err := s.store.CheckTagIDs(ctx, tagIDs); err != nil {
		return storeError(err, "tag")
	}
	return nil
}

// apply writes in to the item. Categories are synced before the primary is
// set, so an explicit primary always wins over the reassignment rule.
func (s *AssociationService) apply(ctx context.Context, ref domain.ContentRef, in TaxonomyInput) error {
	if in.CategoryIDs != nil {
		if _, err := s.SyncCategories(ctx, ref, in.CategoryIDs); err != nil {
			return err
		}
	}
	if in.PrimaryCategoryID != nil {
		if err := s.SetPrimaryCategory(ctx, ref, *in.PrimaryCategoryID); err != nil {
			return err
		}
	}
	if in.Tags != nil {
		if _, err := s.SyncTags(ctx, ref, in.Tags, ref.Type.TagGroup()); err != nil {
			return err
		}
	}
	return nil
}

func checkRef(ref domain.ContentRef) error {
	if !ref.Type.Valid() {
		return domainerrors.Validationf("unknown content type %q", ref.Type)
	}
	if ref.ID <= 0 {
		return domainerrors.NotFoundf("%s not found", ref.Type)
	}
	return nil
}

func tagGroup(group string) string {
	group = strings.TrimSpace(group)
	if group == "" {
		return domain.DefaultTagGroup
	}
	return group
}

// parseTagID reports whether s is numeric and, if so, the tag id it names.
// Numbers that cannot be ids are rejected rather than taken as tag names.
func parseTagID(s string) (id int64, numeric bool, err error) {
	id, perr := strconv.ParseInt(s, 10, 64)
	if perr != nil {
		return 0, false, nil
	}
	if id <= 0 {
		return 0, true, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"tags": fmt.Sprintf("%q is not a valid tag id", s),
		})
	}
	return id, true, nil
}
