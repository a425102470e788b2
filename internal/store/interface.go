// Package store defines the persistence contract shared by the services, along
// with pagination and listing filters. internal/store/sqlite implements it.
package store

import (
	"context"
	"time"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

// ProductRanking selects one of the storefront side lists.
type ProductRanking string

// Storefront side lists.
const (
	RankFeatured   ProductRanking = "featured"
	RankPopular    ProductRanking = "popular"
	RankNewest     ProductRanking = "newest"
	RankOpenSource ProductRanking = "open_source"
)

// Store is the persistence interface.
type Store interface {
	Close() error
	Ping(ctx context.Context) error
	GetContentCheckpoint(ctx context.Context) (time.Time, error)

	// Categories
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id int64) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context, filter CategoryFilter, page PageRequest) (*PageResult[*domain.Category], error)
	ListCategoriesForModule(ctx context.Context, module domain.Module, activeOnly bool) ([]*domain.Category, error)
	CategoryInUse(ctx context.Context, id int64) (bool, error)
	CategoriesWithCounts(ctx context.Context, module domain.Module) ([]domain.CategoryWithCounts, error)
	TopCategories(ctx context.Context, module domain.Module, limit int) ([]domain.CategoryWithCounts, error)

	// Tags
	CreateTag(ctx context.Context, t *domain.Tag) error
	GetTag(ctx context.Context, id int64) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, t *domain.Tag) error
	DeleteTag(ctx context.Context, id int64) error
	ListTags(ctx context.Context, filter TagFilter, page PageRequest) (*PageResult[*domain.Tag], error)
	FindOrCreateTag(ctx context.Context, name, slug, group string) (*domain.Tag, bool, error)
	TagIDsBySlug(ctx context.Context, slugs []string) (map[string]int64, error)
	PopularTags(ctx context.Context, group string, limit int) ([]domain.TagUsage, error)

	// Associations
	SyncTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group string) error
	AttachTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group string) error
	DetachTags(ctx context.Context, ref domain.ContentRef, tagIDs []int64, group *string) error
	GetItemTags(ctx context.Context, ref domain.ContentRef, group *string) ([]domain.ItemTag, error)
	SyncCategories(ctx context.Context, ref domain.ContentRef, categoryIDs []int64) error
	SetPrimaryCategory(ctx context.Context, ref domain.ContentRef, categoryID int64) error
	GetItemCategories(ctx context.Context, ref domain.ContentRef) ([]*domain.Category, error)
	GetPrimaryCategoryID(ctx context.Context, ref domain.ContentRef) (*int64, error)
	CheckCategoryIDs(ctx context.Context, ids []int64) error
	CheckTagIDs(ctx context.Context, ids []int64) error

	// Comments
	CreateComment(ctx context.Context, c *domain.Comment) error
	GetComment(ctx context.Context, id int64) (*domain.Comment, error)
	DeleteComment(ctx context.Context, id int64) error
	ListComments(ctx context.Context, item domain.ContentRef) ([]*domain.Comment, error)
	CountComments(ctx context.Context, item domain.ContentRef) (int, error)

	// Content slugs
	SlugExists(ctx context.Context, ct domain.ContentType, slug string, excludeID int64) (bool, error)

	// Blogs
	CreateBlog(ctx context.Context, b *domain.Blog) error
	GetBlog(ctx context.Context, id int64) (*domain.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	UpdateBlog(ctx context.Context, b *domain.Blog) error
	DeleteBlog(ctx context.Context, id int64) error
	ListBlogs(ctx context.Context, filter BlogFilter, page PageRequest) (*PageResult[*domain.Blog], error)
	RelatedBlogs(ctx context.Context, b *domain.Blog, limit int) ([]*domain.Blog, error)

	// Products
	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, p *domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, filter ProductFilter, page PageRequest) (*PageResult[*domain.Product], error)
	RankedProducts(ctx context.Context, rank ProductRanking, limit int) ([]*domain.Product, error)
	ListProductsWithRepository(ctx context.Context) ([]*domain.Product, error)
	UpdateProductStats(ctx context.Context, id int64, stats domain.RepoStats) error

	// Vacancies
	CreateVacancy(ctx context.Context, v *domain.Vacancy) error
	GetVacancy(ctx context.Context, id int64) (*domain.Vacancy, error)
	GetVacancyBySlug(ctx context.Context, slug string) (*domain.Vacancy, error)
	UpdateVacancy(ctx context.Context, v *domain.Vacancy) error
	DeleteVacancy(ctx context.Context, id int64) error
	ListVacancies(ctx context.Context, filter VacancyFilter, page PageRequest) (*PageResult[*domain.Vacancy], error)

	// GitHub sync runs
	CreateSyncRun(ctx context.Context, run *domain.SyncRun) error
	ListSyncRuns(ctx context.Context, limit int) ([]*domain.SyncRun, error)
}
