package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// SyncTags makes the item's associations in group exactly tagIDs, attaching
// missing rows and detaching extras. Other groups are untouched.
// The whole operation is one transaction.
func (s *Store) SyncTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group string) error {
	target := uniqueIDs(tagIDs)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContent(ctx, tx, ref); err != nil {
			return err
		}
		if err := ensureIDs(ctx, tx, "tags", "tag", target); err != nil {
			return err
		}

		current, err := selectIDs(ctx, tx, psql.Select("tag_id").From("taggables").Where(sq.Eq{
			"content_type": string(ref.Type),
			"content_id":   ref.ID,
			"tag_group":    group,
		}))
		if err != nil {
			return fmt.Errorf("current tags: %w", err)
		}

		attach, detach := diffIDs(current, target)

		if len(detach) > 0 {
			query, args, err := psql.Delete("taggables").Where(sq.Eq{
				"content_type": string(ref.Type),
				"content_id":   ref.ID,
				"tag_group":    group,
				"tag_id":       detach,
			}).ToSql()
			if err != nil {
				return fmt.Errorf("build detach: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("detach tags: %w", err)
			}
		}

		now := formatTime(s.now())
		for _, tagID := range attach {
			if err := insertTaggable(ctx, tx, ref, tagID, group, now); err != nil {
				return err
			}
		}

		return touchContent(ctx, tx, ref, now)
	})
}

// AttachTags adds tagIDs under group, ignoring rows that already exist.
func (s *Store) AttachTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group string) error {
	ids := uniqueIDs(tagIDs)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContent(ctx, tx, ref); err != nil {
			return err
		}
		if err := ensureIDs(ctx, tx, "tags", "tag", ids); err != nil {
			return err
		}

		now := formatTime(s.now())
		for _, tagID := range ids {
			if err := insertTaggable(ctx, tx, ref, tagID, group, now); err != nil {
				return err
			}
		}
		return touchContent(ctx, tx, ref, now)
	})
}

// DetachTags removes tagIDs from the item. A nil group removes them from
// every group.
func (s *Store) DetachTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group *string) error {
	ids := uniqueIDs(tagIDs)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContent(ctx, tx, ref); err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		where := sq.Eq{
			"content_type": string(ref.Type),
			"content_id":   ref.ID,
			"tag_id":       ids,
		}
		if group != nil {
			where["tag_group"] = *group
		}

		query, args, err := psql.Delete("taggables").Where(where).ToSql()
		if err != nil {
			return fmt.Errorf("build detach: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("detach tags: %w", err)
		}
		return touchContent(ctx, tx, ref, formatTime(s.now()))
	})
}

// GetItemTags returns the item's tags ordered by name. A nil group returns
// the tags from every group.
func (s *Store) GetItemTags(ctx context.Context, ref domain.ContentRef, group *string) ([]domain.ItemTag, error) {
	where := sq.Eq{"tg.content_type": string(ref.Type), "tg.content_id": ref.ID}
	if group != nil {
		where["tg.tag_group"] = *group
	}

	tags, err := s.queryItemTags(ctx, where)
	if err != nil {
		return nil, err
	}
	out := tags[ref.ID]
	if out == nil {
		out = []domain.ItemTag{}
	}
	return out, nil
}

// queryItemTags loads association rows matching where, grouped by content id.
func (s *Store) queryItemTags(ctx context.Context, where sq.Sqlizer) (map[int64][]domain.ItemTag, error) {
	query, args, err := psql.Select(
		"tg.content_id", "tg.tag_group",
		"t.id", "t.name", "t.slug", "t.tag_group", "t.description", "t.created_at", "t.updated_at",
	).
		From("taggables tg").
		Join("tags t ON t.id = tg.tag_id").
		Where(where).
		OrderBy("t.name ASC", "tg.tag_group ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build item tags: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("item tags: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]domain.ItemTag)
	for rows.Next() {
		var (
			contentID int64
			group     string
		)
		t, err := scanTag(scanFunc(func(dest ...any) error {
			return rows.Scan(append([]any{&contentID, &group}, dest...)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan item tag: %w", err)
		}
		out[contentID] = append(out[contentID], domain.ItemTag{Tag: *t, AssociationGroup: group})
	}
	return out, rows.Err()
}

// SyncCategories replaces the item's category set with categoryIDs. When the
// current primary category is not in the new set, the first id becomes
// primary, or NULL when the set is empty.
func (s *Store) SyncCategories(ctx context.Context, ref domain.ContentRef, categoryIDs []int64) error {
	target := uniqueIDs(categoryIDs)

	return s.withTx(ctx, func(tx *sql.Tx) error {
		primary, err := primaryCategoryID(ctx, tx, ref)
		if err != nil {
			return err
		}
		if err := ensureIDs(ctx, tx, "categories", "category", target); err != nil {
			return err
		}

		current, err := selectIDs(ctx, tx, psql.Select("category_id").From("categorizables").Where(sq.Eq{
			"content_type": string(ref.Type),
			"content_id":   ref.ID,
		}))
		if err != nil {
			return fmt.Errorf("current categories: %w", err)
		}

		attach, detach := diffIDs(current, target)

		if len(detach) > 0 {
			query, args, err := psql.Delete("categorizables").Where(sq.Eq{
				"content_type": string(ref.Type),
				"content_id":   ref.ID,
				"category_id":  detach,
			}).ToSql()
			if err != nil {
				return fmt.Errorf("build detach: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("detach categories: %w", err)
			}
		}

		now := formatTime(s.now())
		for _, categoryID := range attach {
			if err := insertCategorizable(ctx, tx, ref, categoryID, now); err != nil {
				return err
			}
		}

		if primary == nil || !slices.Contains(target, *primary) {
			var next *int64
			if len(target) > 0 {
				next = &target[0]
			}
			if err := setPrimary(ctx, tx, ref, next, now); err != nil {
				return err
			}
			return nil
		}

		return touchContent(ctx, tx, ref, now)
	})
}

// SetPrimaryCategory sets the item's primary category and attaches it to the
// category set when missing. Other associations are kept.
func (s *Store) SetPrimaryCategory(ctx context.Context, ref domain.ContentRef, categoryID int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := ensureContent(ctx, tx, ref); err != nil {
			return err
		}
		if err := ensureIDs(ctx, tx, "categories", "category", []int64{categoryID}); err != nil {
			return err
		}

		now := formatTime(s.now())
		if err := setPrimary(ctx, tx, ref, &categoryID, now); err != nil {
			return err
		}
		return insertCategorizable(ctx, tx, ref, categoryID, now)
	})
}

// CheckCategoryIDs returns a *store.MissingIDsError if any id names no category.
func (s *Store) CheckCategoryIDs(ctx context.Context, ids []int64) error {
	return ensureIDs(ctx, s.db, "categories", "category", ids)
}

// CheckTagIDs returns a *store.MissingIDsError if any id names no tag.
func (s *Store) CheckTagIDs(ctx context.Context, ids []int64) error {
	return ensureIDs(ctx, s.db, "tags", "tag", ids)
}

// GetItemCategories returns the item's category set ordered by name.
func (s *Store) GetItemCategories(ctx context.Context, ref domain.ContentRef) ([]*domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.module, c.is_active, c.created_at, c.updated_at
		FROM categorizables cz
		JOIN categories c ON c.id = cz.category_id
		WHERE cz.content_type = ? AND cz.content_id = ?
		ORDER BY c.name ASC`,
		string(ref.Type), ref.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("item categories: %w", err)
	}
	return collectCategories(rows)
}

// GetPrimaryCategoryID returns the item's primary category id, or nil.
func (s *Store) GetPrimaryCategoryID(ctx context.Context, ref domain.ContentRef) (*int64, error) {
	return primaryCategoryID(ctx, s.db, ref)
}

// loadTaxonomy fills the primary category and tags of every item in a page.
func (s *Store) loadTaxonomy(ctx context.Context, ct domain.ContentType, items map[int64]*domain.Taxonomy) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(items))
	var primaryIDs []int64
	for id, tx := range items {
		ids = append(ids, id)
		if tx.PrimaryCategoryID != nil {
			primaryIDs = append(primaryIDs, *tx.PrimaryCategoryID)
		}
	}

	if len(primaryIDs) > 0 {
		query, args, err := psql.Select(categoryColumns).From("categories").
			Where(sq.Eq{"id": uniqueIDs(primaryIDs)}).ToSql()
		if err != nil {
			return fmt.Errorf("build primary categories: %w", err)
		}
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("primary categories: %w", err)
		}
		categories, err := collectCategories(rows)
		if err != nil {
			return err
		}
		byID := make(map[int64]*domain.Category, len(categories))
		for _, c := range categories {
			byID[c.ID] = c
		}
		for _, tx := range items {
			if tx.PrimaryCategoryID != nil {
				tx.PrimaryCategory = byID[*tx.PrimaryCategoryID]
			}
		}
	}

	tags, err := s.queryItemTags(ctx, sq.Eq{"tg.content_type": string(ct), "tg.content_id": ids})
	if err != nil {
		return err
	}
	for id, tx := range items {
		tx.Tags = tags[id]
	}
	return nil
}

func insertTaggable(ctx context.Context, tx *sql.Tx, ref domain.ContentRef, tagID int64, group, now string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO taggables (tag_id, content_type, `+contentKeyColumn(ref.Type)+`, tag_group, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		tagID, string(ref.Type), ref.ID, group, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrReferentialIntegrity.WithCause(err)
		}
		return fmt.Errorf("insert taggable: %w", err)
	}
	return nil
}

func insertCategorizable(ctx context.Context, tx *sql.Tx, ref domain.ContentRef, categoryID int64, now string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO categorizables (category_id, content_type, `+contentKeyColumn(ref.Type)+`, created_at)
		VALUES (?, ?, ?, ?)`,
		categoryID, string(ref.Type), ref.ID, now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrReferentialIntegrity.WithCause(err)
		}
		return fmt.Errorf("insert categorizable: %w", err)
	}
	return nil
}

// ensureContent returns store.ErrNotFound when the item does not exist.
func ensureContent(ctx context.Context, q queryer, ref domain.ContentRef) error {
	var exists int
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM `+contentTable(ref.Type)+` WHERE id = ?)`, ref.ID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check %s: %w", ref, err)
	}
	if exists == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ensureIDs returns a *store.MissingIDsError naming every id absent from table.
func ensureIDs(ctx context.Context, q queryer, table, kind string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := selectIDs(ctx, q, psql.Select("id").From(table).Where(sq.Eq{"id": ids}))
	if err != nil {
		return fmt.Errorf("check %s ids: %w", kind, err)
	}
	missing, _ := diffIDs(found, ids)
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	missing = slices.Compact(missing)
	return &store.MissingIDsError{Kind: kind, IDs: missing}
}

func primaryCategoryID(ctx context.Context, q queryer, ref domain.ContentRef) (*int64, error) {
	var id sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT primary_category_id FROM `+contentTable(ref.Type)+` WHERE id = ?`, ref.ID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("primary category of %s: %w", ref, err)
	}
	return idPtr(id), nil
}

func setPrimary(ctx context.Context, tx *sql.Tx, ref domain.ContentRef, categoryID *int64, now string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE `+contentTable(ref.Type)+` SET primary_category_id = ?, updated_at = ? WHERE id = ?`,
		nullID(categoryID), now, ref.ID,
	)
	if err != nil {
		return fmt.Errorf("set primary category: %w", err)
	}
	return nil
}

// touchContent bumps updated_at so concurrent editors observe the change.
func touchContent(ctx context.Context, tx *sql.Tx, ref domain.ContentRef, now string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE `+contentTable(ref.Type)+` SET updated_at = ? WHERE id = ?`, now, ref.ID)
	if err != nil {
		return fmt.Errorf("touch %s: %w", ref, err)
	}
	return nil
}

func selectIDs(ctx context.Context, q queryer, b sq.SelectBuilder) ([]int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// uniqueIDs drops zero and duplicate ids, keeping first occurrences in order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// diffIDs returns the members of target missing from current (attach) and
// the members of current missing from target (detach).
func diffIDs(current, target []int64) (attach, detach []int64) {
	inCurrent := make(map[int64]struct{}, len(current))
	for _, id := range current {
		inCurrent[id] = struct{}{}
	}
	inTarget := make(map[int64]struct{}, len(target))
	for _, id := range target {
		inTarget[id] = struct{}{}
		if _, ok := inCurrent[id]; !ok {
			attach = append(attach, id)
		}
	}
	for _, id := range current {
		if _, ok := inTarget[id]; !ok {
			detach = append(detach, id)
		}
	}
	return attach, detach
}
