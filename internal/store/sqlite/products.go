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

// productColumns must match the scan order in scanProduct.
const productColumns = `products.id, products.name, products.slug, products.description, products.image,
	products.pricing_type, products.is_open_source, products.repo_url, products.website_url,
	products.stars_count, products.forks_count, products.watchers_count, products.last_synced_at,
	products.is_featured, products.upvotes, products.primary_category_id,
	products.created_at, products.updated_at`

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var (
		p            domain.Product
		image        sql.NullString
		pricing      string
		repoURL      sql.NullString
		websiteURL   sql.NullString
		lastSyncedAt sql.NullString
		primaryID    sql.NullInt64
		createdAt    string
		updatedAt    string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&image,
		&pricing,
		&p.IsOpenSource,
		&repoURL,
		&websiteURL,
		&p.StarsCount,
		&p.ForksCount,
		&p.WatchersCount,
		&lastSyncedAt,
		&p.IsFeatured,
		&p.Upvotes,
		&primaryID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Image = image.String
	p.PricingType = domain.PricingType(pricing)
	p.RepoURL = repoURL.String
	p.WebsiteURL = websiteURL.String
	p.PrimaryCategoryID = idPtr(primaryID)
	if p.LastSyncedAt, err = parseNullableTime(lastSyncedAt); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct inserts a product and sets its ID.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO products (name, slug, description, image, pricing_type, is_open_source, repo_url,
			website_url, stars_count, forks_count, watchers_count, last_synced_at, is_featured, upvotes,
			primary_category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name,
		p.Slug,
		p.Description,
		nullString(p.Image),
		string(p.PricingType),
		p.IsOpenSource,
		nullString(p.RepoURL),
		nullString(p.WebsiteURL),
		p.StarsCount,
		p.ForksCount,
		p.WatchersCount,
		nullTimeString(p.LastSyncedAt),
		p.IsFeatured,
		p.Upvotes,
		nullID(p.PrimaryCategoryID),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		return mapContentWriteError(err)
	}

	p.ID, err = res.LastInsertId()
	return err
}

// GetProduct retrieves a product by ID with its taxonomy.
func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.getProduct(ctx, "products.id", id)
}

// GetProductBySlug retrieves a product by slug with its taxonomy.
func (s *Store) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.getProduct(ctx, "products.slug", slug)
}

func (s *Store) getProduct(ctx context.Context, column string, value any) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE `+column+` = ?`, value)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadProductTaxonomy(ctx, []*domain.Product{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProduct saves the product's editable columns. Repository stats are
// owned by UpdateProductStats and the primary category by the association
// methods.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET name = ?, slug = ?, description = ?, image = ?, pricing_type = ?,
			is_open_source = ?, repo_url = ?, website_url = ?, is_featured = ?, upvotes = ?, updated_at = ?
		WHERE id = ?`,
		p.Name,
		p.Slug,
		p.Description,
		nullString(p.Image),
		string(p.PricingType),
		p.IsOpenSource,
		nullString(p.RepoURL),
		nullString(p.WebsiteURL),
		p.IsFeatured,
		p.Upvotes,
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return mapContentWriteError(err)
	}
	return requireAffected(res)
}

// DeleteProduct removes a product and its associations.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return requireAffected(res)
}

// ListProducts returns a filtered page of products with taxonomy loaded.
func (s *Store) ListProducts(ctx context.Context, f store.ProductFilter, page store.PageRequest) (*store.PageResult[*domain.Product], error) {
	q := listQuery{
		ct:         domain.ContentProduct,
		columns:    productColumns,
		search:     f.Search,
		searchIn:   []string{"products.name", "products.description"},
		category:   f.Category,
		tagID:      f.TagID,
		featured:   f.Featured,
		sort:       f.Sort,
		dateColumn: "products.created_at",
		popularity: []string{"products.upvotes DESC", "products.stars_count DESC"},
	}
	if f.Pricing != "" {
		q.where = append(q.where, sq.Eq{"products.pricing_type": string(f.Pricing)})
	}
	if f.OpenSource != nil {
		q.where = append(q.where, sq.Eq{"products.is_open_source": *f.OpenSource})
	}

	result, err := listContent(ctx, s, q, page, func(rows *sql.Rows) (*domain.Product, error) {
		return scanProduct(rows)
	})
	if err != nil {
		return nil, err
	}
	if err := s.loadProductTaxonomy(ctx, result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

// RankedProducts returns one of the storefront side lists.
func (s *Store) RankedProducts(ctx context.Context, rank store.ProductRanking, limit int) ([]*domain.Product, error) {
	if limit <= 0 {
		limit = 3
	}

	b := psql.Select(productColumns).From("products").Limit(uint64(limit))
	switch rank {
	case store.RankFeatured:
		b = b.Where(sq.Eq{"products.is_featured": true}).OrderBy("products.created_at DESC", "products.id DESC")
	case store.RankPopular:
		b = b.OrderBy("products.upvotes DESC", "products.stars_count DESC", "products.id DESC")
	case store.RankNewest:
		b = b.OrderBy("products.created_at DESC", "products.id DESC")
	case store.RankOpenSource:
		b = b.Where(sq.Eq{"products.is_open_source": true}).OrderBy("products.stars_count DESC", "products.id DESC")
	default:
		return nil, store.ErrInvalidInput.WithCause(fmt.Errorf("unknown ranking %q", rank))
	}

	return s.queryProducts(ctx, b)
}

// ListProductsWithRepository returns every product with a repository URL,
// ordered by id.
func (s *Store) ListProductsWithRepository(ctx context.Context) ([]*domain.Product, error) {
	return s.queryProducts(ctx, psql.Select(productColumns).From("products").
		Where(sq.NotEq{"products.repo_url": nil}).
		Where(sq.NotEq{"TRIM(products.repo_url)": ""}).
		OrderBy("products.id ASC"))
}

// UpdateProductStats writes repository counters and the sync time. Only the
// stats columns are touched.
func (s *Store) UpdateProductStats(ctx context.Context, id int64, stats domain.RepoStats) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET stars_count = ?, forks_count = ?, watchers_count = ?, last_synced_at = ?
		WHERE id = ?`,
		stats.StarsCount,
		stats.ForksCount,
		stats.WatchersCount,
		nullTimeString(stats.LastSyncedAt),
		id,
	)
	if err != nil {
		return fmt.Errorf("update product stats: %w", err)
	}
	return requireAffected(res)
}

func (s *Store) queryProducts(ctx context.Context, b sq.SelectBuilder) ([]*domain.Product, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, s.loadProductTaxonomy(ctx, products)
}

func (s *Store) loadProductTaxonomy(ctx context.Context, products []*domain.Product) error {
	targets := make(map[int64]*domain.Taxonomy, len(products))
	for _, p := range products {
		targets[p.ID] = &p.Taxonomy
	}
	return s.loadTaxonomy(ctx, domain.ContentProduct, targets)
}
