package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, slug, tag_group, description, created_at, updated_at`

// scanTag scans a sql.Row or sql.Rows into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t           domain.Tag
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&t.Slug,
		&t.Group,
		&description,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTag inserts a new tag and sets its ID.
// Returns store.ErrAlreadyExists on duplicate slug.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	if t.Group == "" {
		t.Group = domain.DefaultTagGroup
	}
	now := s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, slug, tag_group, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		t.Name,
		t.Slug,
		t.Group,
		nullString(t.Description),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	t.ID, err = res.LastInsertId()
	return err
}

// GetTag retrieves a tag by its ID.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = ?`, id)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// GetTagBySlug retrieves a tag by its slug.
func (s *Store) GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags WHERE slug = ?`, slug)
	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return t, err
}

// UpdateTag saves every mutable field of t.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	t.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET name = ?, slug = ?, tag_group = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		t.Name,
		t.Slug,
		t.Group,
		nullString(t.Description),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return requireAffected(res)
}

// DeleteTag removes a tag and, by cascade, all of its associations.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return requireAffected(res)
}

// ListTags returns a page of tags ordered by name.
func (s *Store) ListTags(ctx context.Context, f store.TagFilter, page store.PageRequest) (*store.PageResult[*domain.Tag], error) {
	page.Normalize()

	where := sq.And{}
	if f.Group != "" {
		where = append(where, sq.Eq{"tag_group": f.Group})
	}
	if f.Search != "" {
		where = append(where, likeAny(f.Search, "name", "slug"))
	}

	total, err := count(ctx, s.db, psql.Select("COUNT(*)").From("tags").Where(where))
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(tagColumns).From("tags").Where(where).
		OrderBy("name ASC", "id ASC").
		Limit(uint64(page.PageSize)).Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list tags: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []*domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return store.NewPageResult(tags, total, page), nil
}

// FindOrCreateTag returns the tag with slug, creating it with name and group
// when missing. created reports whether this call inserted the row.
//
// The insert is attempted first and a unique violation falls back to reading
// the existing row, so concurrent callers converge on a single tag.
func (s *Store) FindOrCreateTag(ctx context.Context, name, slug, group string) (*domain.Tag, bool, error) {
	if existing, err := s.GetTagBySlug(ctx, slug); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	t := &domain.Tag{Name: name, Slug: slug, Group: group}
	err := s.CreateTag(ctx, t)
	if err == nil {
		return t, true, nil
	}
	if !errors.Is(err, store.ErrAlreadyExists) {
		return nil, false, err
	}

	// Lost the race: another writer created it between our read and insert.
	existing, err := s.GetTagBySlug(ctx, slug)
	if err != nil {
		return nil, false, fmt.Errorf("reload tag after conflict: %w", err)
	}
	return existing, false, nil
}

// TagIDsBySlug maps each known slug to its tag id. Unknown slugs are absent.
func (s *Store) TagIDsBySlug(ctx context.Context, slugs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(slugs))
	if len(slugs) == 0 {
		return out, nil
	}

	query, args, err := psql.Select("slug", "id").From("tags").Where(sq.Eq{"slug": slugs}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tag ids: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tag ids by slug: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			slug string
			id   int64
		)
		if err := rows.Scan(&slug, &id); err != nil {
			return nil, fmt.Errorf("scan tag id: %w", err)
		}
		out[slug] = id
	}
	return out, rows.Err()
}

// PopularTags returns tags ordered by total association count across all
// content types. An empty group matches every group.
func (s *Store) PopularTags(ctx context.Context, group string, limit int) ([]domain.TagUsage, error) {
	if limit <= 0 {
		limit = 10
	}

	b := psql.Select(
		"t.id", "t.name", "t.slug", "t.tag_group", "t.description", "t.created_at", "t.updated_at",
		"COUNT(tg.tag_id) AS usage_count",
	).
		From("tags t").
		LeftJoin("taggables tg ON tg.tag_id = t.id").
		GroupBy("t.id").
		OrderBy("usage_count DESC", "t.name ASC").
		Limit(uint64(limit))
	if group != "" {
		b = b.Where(sq.Eq{"t.tag_group": group})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build popular tags: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	defer rows.Close()

	out := []domain.TagUsage{}
	for rows.Next() {
		var usage int
		t, err := scanTag(scanFunc(func(dest ...any) error {
			return rows.Scan(append(dest, &usage)...)
		}))
		if err != nil {
			return nil, fmt.Errorf("scan popular tag: %w", err)
		}
		out = append(out, domain.TagUsage{Tag: *t, UsageCount: usage})
	}
	return out, rows.Err()
}
