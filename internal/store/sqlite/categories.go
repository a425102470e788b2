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

// categoryColumns must match the scan order in scanCategory.
const categoryColumns = `id, name, slug, description, parent_id, module, is_active, created_at, updated_at`

// scanCategory scans a sql.Row or sql.Rows into a domain.Category.
func scanCategory(scanner interface{ Scan(dest ...any) error }) (*domain.Category, error) {
	var (
		c           domain.Category
		description sql.NullString
		parentID    sql.NullInt64
		module      string
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&description,
		&parentID,
		&module,
		&c.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.ParentID = idPtr(parentID)
	c.Module = domain.Module(module)

	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCategories(rows *sql.Rows) ([]*domain.Category, error) {
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CreateCategory inserts a category and sets its ID.
// Returns store.ErrAlreadyExists on duplicate slug and store.ErrInvalidInput
// when the parent does not exist.
func (s *Store) CreateCategory(ctx context.Context, c *domain.Category) error {
	now := s.now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, module, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name,
		c.Slug,
		nullString(c.Description),
		nullID(c.ParentID),
		string(c.Module),
		c.IsActive,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		return mapCategoryWriteError(err)
	}

	c.ID, err = res.LastInsertId()
	return err
}

func mapCategoryWriteError(err error) error {
	switch {
	case isUniqueViolation(err):
		return store.ErrAlreadyExists
	case isForeignKeyViolation(err):
		return store.ErrInvalidInput.WithCause(errors.New("parent category does not exist"))
	default:
		return err
	}
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// GetCategoryBySlug retrieves a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return c, err
}

// UpdateCategory saves every mutable field of c.
func (s *Store) UpdateCategory(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, slug = ?, description = ?, parent_id = ?, module = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		c.Name,
		c.Slug,
		nullString(c.Description),
		nullID(c.ParentID),
		string(c.Module),
		c.IsActive,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return mapCategoryWriteError(err)
	}
	return requireAffected(res)
}

// DeleteCategory removes a category. Children are detached, items that used it
// as primary category get NULL, and its associations are removed by cascade.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

// ListCategories returns a page of categories ordered by module then name.
func (s *Store) ListCategories(ctx context.Context, f store.CategoryFilter, page store.PageRequest) (*store.PageResult[*domain.Category], error) {
	page.Normalize()

	where := sq.And{}
	if f.Module != "" {
		where = append(where, sq.Eq{"module": string(f.Module)})
	}
	if f.ActiveOnly {
		where = append(where, sq.Eq{"is_active": true})
	}
	if f.Search != "" {
		where = append(where, likeAny(f.Search, "name", "slug"))
	}

	total, err := count(ctx, s.db, psql.Select("COUNT(*)").From("categories").Where(where))
	if err != nil {
		return nil, err
	}

	query, args, err := psql.Select(categoryColumns).From("categories").Where(where).
		OrderBy("module ASC", "name ASC", "id ASC").
		Limit(uint64(page.PageSize)).Offset(uint64(page.Offset())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items, err := collectCategories(rows)
	if err != nil {
		return nil, err
	}
	return store.NewPageResult(items, total, page), nil
}

// ListCategoriesForModule returns a module's categories ordered by name.
// An unknown module yields an empty slice.
func (s *Store) ListCategoriesForModule(ctx context.Context, module domain.Module, activeOnly bool) ([]*domain.Category, error) {
	b := psql.Select(categoryColumns).From("categories").
		Where(sq.Eq{"module": string(module)}).
		OrderBy("name ASC", "id ASC")
	if activeOnly {
		b = b.Where(sq.Eq{"is_active": true})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories for module: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("categories for module: %w", err)
	}
	return collectCategories(rows)
}

// CategoryInUse reports whether the category has children, associations, or
// is some item's primary category.
func (s *Store) CategoryInUse(ctx context.Context, id int64) (bool, error) {
	var inUse int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE parent_id = ?)
		    OR EXISTS(SELECT 1 FROM categorizables WHERE category_id = ?)
		    OR EXISTS(SELECT 1 FROM blogs WHERE primary_category_id = ?)
		    OR EXISTS(SELECT 1 FROM products WHERE primary_category_id = ?)
		    OR EXISTS(SELECT 1 FROM vacancies WHERE primary_category_id = ?)`,
		id, id, id, id, id,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("category in use: %w", err)
	}
	return inUse == 1, nil
}

// countsSelect selects categories with per-collection association counts.
func countsSelect() sq.SelectBuilder {
	return psql.Select(
		"c.id", "c.name", "c.slug", "c.description", "c.parent_id", "c.module", "c.is_active", "c.created_at", "c.updated_at",
		"COALESCE(SUM(cz.content_type = 'blog'), 0) AS blogs_count",
		"COALESCE(SUM(cz.content_type = 'product'), 0) AS products_count",
		"COALESCE(SUM(cz.content_type = 'vacancy'), 0) AS vacancies_count",
	).
		From("categories c").
		LeftJoin("categorizables cz ON cz.category_id = c.id").
		GroupBy("c.id")
}

func (s *Store) queryCounts(ctx context.Context, b sq.SelectBuilder) ([]domain.CategoryWithCounts, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category counts: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	defer rows.Close()

	out := []domain.CategoryWithCounts{}
	for rows.Next() {
		var (
			cc        domain.CategoryWithCounts
			counts    [3]int
			scanCount = scanFunc(func(dest ...any) error {
				return rows.Scan(append(dest, &counts[0], &counts[1], &counts[2])...)
			})
		)
		c, err := scanCategory(scanCount)
		if err != nil {
			return nil, fmt.Errorf("scan category counts: %w", err)
		}
		cc.Category = *c
		cc.BlogsCount, cc.ProductsCount, cc.VacanciesCount = counts[0], counts[1], counts[2]
		out = append(out, cc)
	}
	return out, rows.Err()
}

// scanFunc adapts a function to the Scan interface used by the scan helpers.
type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

// CategoriesWithCounts returns a module's active categories with association
// counts, ordered by name.
func (s *Store) CategoriesWithCounts(ctx context.Context, module domain.Module) ([]domain.CategoryWithCounts, error) {
	return s.queryCounts(ctx, countsSelect().
		Where(sq.Eq{"c.module": string(module), "c.is_active": true}).
		OrderBy("c.name ASC"))
}

// TopCategories returns the module's active categories with the most items
// of the module's content type.
func (s *Store) TopCategories(ctx context.Context, module domain.Module, limit int) ([]domain.CategoryWithCounts, error) {
	ct := module.ContentType()
	if ct == "" {
		return []domain.CategoryWithCounts{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.queryCounts(ctx, countsSelect().
		Where(sq.Eq{"c.module": string(module), "c.is_active": true}).
		OrderByClause("SUM(cz.content_type = ?) DESC", string(ct)).
		OrderBy("c.name ASC").
		Limit(uint64(limit)))
}

// requireAffected maps a zero-row UPDATE or DELETE to store.ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// likeAny matches term as a case-insensitive substring of any column.
func likeAny(term string, columns ...string) sq.Or {
	pattern := "%" + escapeLike(term) + "%"
	or := sq.Or{}
	for _, col := range columns {
		or = append(or, sq.Expr(col+` LIKE ? ESCAPE '\'`, pattern))
	}
	return or
}

func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
