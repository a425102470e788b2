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

// blogColumns must match the scan order in scanBlog.
const blogColumns = `blogs.id, blogs.title, blogs.slug, blogs.excerpt, blogs.content, blogs.featured_image,
	blogs.published_at, blogs.read_time, blogs.is_featured, blogs.upvotes, blogs.primary_category_id,
	blogs.created_at, blogs.updated_at`

func scanBlog(scanner interface{ Scan(dest ...any) error }) (*domain.Blog, error) {
	var (
		b             domain.Blog
		featuredImage sql.NullString
		publishedAt   sql.NullString
		primaryID     sql.NullInt64
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Slug,
		&b.Excerpt,
		&b.Content,
		&featuredImage,
		&publishedAt,
		&b.ReadTime,
		&b.IsFeatured,
		&b.Upvotes,
		&primaryID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.FeaturedImage = featuredImage.String
	b.PrimaryCategoryID = idPtr(primaryID)
	if b.PublishedAt, err = parseNullableTime(publishedAt); err != nil {
		return nil, err
	}
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBlog inserts a blog post and sets its ID.
func (s *Store) CreateBlog(ctx context.Context, b *domain.Blog) error {
	now := s.now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO blogs (title, slug, excerpt, content, featured_image, published_at, read_time,
			is_featured, upvotes, primary_category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Title,
		b.Slug,
		b.Excerpt,
		b.Content,
		nullString(b.FeaturedImage),
		nullTimeString(b.PublishedAt),
		b.ReadTime,
		b.IsFeatured,
		b.Upvotes,
		nullID(b.PrimaryCategoryID),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return mapContentWriteError(err)
	}

	b.ID, err = res.LastInsertId()
	return err
}

// mapContentWriteError maps constraint failures on content tables.
func mapContentWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return store.ErrReferentialIntegrity.WithCause(errors.New("primary category does not exist"))
	default:
		return err
	}
}

// GetBlog retrieves a blog post by ID with its taxonomy.
func (s *Store) GetBlog(ctx context.Context, id int64) (*domain.Blog, error) {
	return s.getBlog(ctx, "blogs.id", id)
}

// GetBlogBySlug retrieves a blog post by slug with its taxonomy.
func (s *Store) GetBlogBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	return s.getBlog(ctx, "blogs.slug", slug)
}

func (s *Store) getBlog(ctx context.Context, column string, value any) (*domain.Blog, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+blogColumns+` FROM blogs WHERE `+column+` = ?`, value)
	b, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadTaxonomy(ctx, domain.ContentBlog, map[int64]*domain.Taxonomy{b.ID: &b.Taxonomy}); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBlog saves the blog's own columns. Taxonomy is managed through the
// association methods, so primary_category_id is left alone here.
func (s *Store) UpdateBlog(ctx context.Context, b *domain.Blog) error {
	b.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE blogs SET title = ?, slug = ?, excerpt = ?, content = ?, featured_image = ?,
			published_at = ?, read_time = ?, is_featured = ?, upvotes = ?, updated_at = ?
		WHERE id = ?`,
		b.Title,
		b.Slug,
		b.Excerpt,
		b.Content,
		nullString(b.FeaturedImage),
		nullTimeString(b.PublishedAt),
		b.ReadTime,
		b.IsFeatured,
		b.Upvotes,
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return mapContentWriteError(err)
	}
	return requireAffected(res)
}

// DeleteBlog removes a blog post and its associations.
func (s *Store) DeleteBlog(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	return requireAffected(res)
}

// ListBlogs returns a filtered page of blog posts with taxonomy loaded.
func (s *Store) ListBlogs(ctx context.Context, f store.BlogFilter, page store.PageRequest) (*store.PageResult[*domain.Blog], error) {
	q := listQuery{
		ct:         domain.ContentBlog,
		columns:    blogColumns,
		search:     f.Search,
		searchIn:   []string{"blogs.title", "blogs.excerpt", "blogs.content"},
		category:   f.Category,
		tagID:      f.TagID,
		featured:   f.Featured,
		sort:       f.Sort,
		dateColumn: "COALESCE(blogs.published_at, blogs.created_at)",
		popularity: []string{"blogs.upvotes DESC"},
	}
	if f.PublishedOnly {
		q.where = append(q.where, publishedAt(s.now()))
	}

	result, err := listContent(ctx, s, q, page, func(rows *sql.Rows) (*domain.Blog, error) {
		return scanBlog(rows)
	})
	if err != nil {
		return nil, err
	}
	if err := s.loadBlogTaxonomy(ctx, result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

// RelatedBlogs returns the latest published posts that share b's primary
// category or any of its tags, excluding b.
func (s *Store) RelatedBlogs(ctx context.Context, b *domain.Blog, limit int) ([]*domain.Blog, error) {
	if limit <= 0 {
		limit = 3
	}

	shared := sq.Or{
		sq.Expr(`EXISTS (SELECT 1 FROM taggables mine JOIN taggables theirs ON theirs.tag_id = mine.tag_id
			WHERE mine.content_type = 'blog' AND mine.content_id = ?
			  AND theirs.content_type = 'blog' AND theirs.content_id = blogs.id)`, b.ID),
	}
	if b.PrimaryCategoryID != nil {
		shared = append(shared, sq.Eq{"blogs.primary_category_id": *b.PrimaryCategoryID})
	}

	query, args, err := psql.Select(blogColumns).From("blogs").
		Where(sq.NotEq{"blogs.id": b.ID}).
		Where(publishedAt(s.now())).
		Where(shared).
		OrderBy("blogs.published_at DESC", "blogs.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build related blogs: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("related blogs: %w", err)
	}
	defer rows.Close()

	blogs := []*domain.Blog{}
	for rows.Next() {
		related, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, related)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return blogs, s.loadBlogTaxonomy(ctx, blogs)
}

func (s *Store) loadBlogTaxonomy(ctx context.Context, blogs []*domain.Blog) error {
	targets := make(map[int64]*domain.Taxonomy, len(blogs))
	for _, b := range blogs {
		targets[b.ID] = &b.Taxonomy
	}
	return s.loadTaxonomy(ctx, domain.ContentBlog, targets)
}
