package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allan-kirui57/pynade-hub/internal/cache"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
	"github.com/allan-kirui57/pynade-hub/internal/store/sqlite"
)

type testEnv struct {
	store    *sqlite.Store
	cache    *cache.Badger
	taxonomy *TaxonomyService
	assoc    *AssociationService
	content  *ContentService
	logger   *slog.Logger
}

// newTestEnv wires the services over a temporary database and an in-memory cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	c, err := cache.OpenBadger("", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	taxonomy := NewTaxonomyService(st, c, TaxonomyConfig{}, logger)
	assoc := NewAssociationService(st, logger)

	return &testEnv{
		store:    st,
		cache:    c,
		taxonomy: taxonomy,
		assoc:    assoc,
		content:  NewContentService(st, assoc, taxonomy, logger),
		logger:   logger,
	}
}

func (e *testEnv) category(t *testing.T, name string, module domain.Module) *domain.Category {
	t.Helper()
	c, err := e.taxonomy.CreateCategory(context.Background(), CreateCategoryRequest{Name: name, Module: module})
	require.NoError(t, err)
	return c
}

func TestTaxonomyService_CreateCategoryDerivesSlug(t *testing.T) {
	env := newTestEnv(t)

	c, err := env.taxonomy.CreateCategory(context.Background(), CreateCategoryRequest{
		Name:   "  Developer Tools ",
		Module: domain.ModuleProduct,
	})
	require.NoError(t, err)
	assert.Equal(t, "Developer Tools", c.Name)
	assert.Equal(t, "developer-tools", c.Slug)
	assert.True(t, c.IsActive)
}

func TestTaxonomyService_CreateCategoryErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.category(t, "Technology", domain.ModuleBlog)

	_, err := env.taxonomy.CreateCategory(ctx, CreateCategoryRequest{Name: "Technology", Module: domain.ModuleProduct})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	missing := int64(999)
	_, err = env.taxonomy.CreateCategory(ctx, CreateCategoryRequest{Name: "Orphan", Module: domain.ModuleBlog, ParentID: &missing})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.taxonomy.CreateCategory(ctx, CreateCategoryRequest{Name: "Podcasts", Module: "podcast"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.taxonomy.CreateCategory(ctx, CreateCategoryRequest{Name: "!!!", Module: domain.ModuleBlog})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestTaxonomyService_CategoriesCachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.category(t, "Business", domain.ModuleBlog)

	cats, err := env.taxonomy.GetCategoriesForModule(ctx, domain.ModuleBlog, true)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	var cached []*domain.Category
	ok, err := env.cache.Get(ctx, "categories:blog:active", &cached)
	require.NoError(t, err)
	require.True(t, ok, "expected list to be cached")

	// A write that bypasses the service is not visible until invalidation.
	require.NoError(t, env.store.CreateCategory(ctx, &domain.Category{
		Name: "Health", Slug: "health", Module: domain.ModuleBlog, IsActive: true,
	}))
	cats, err = env.taxonomy.GetCategoriesForModule(ctx, domain.ModuleBlog, true)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	// Creating a category in any module clears every module's lists.
	env.category(t, "Tools", domain.ModuleProduct)

	ok, err = env.cache.Get(ctx, "categories:blog:active", &cached)
	require.NoError(t, err)
	assert.False(t, ok, "expected blog list to be invalidated")

	cats, err = env.taxonomy.GetCategoriesForModule(ctx, domain.ModuleBlog, true)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Business", cats[0].Name)
	assert.Equal(t, "Health", cats[1].Name)
}

func TestTaxonomyService_UnknownModuleIsEmpty(t *testing.T) {
	env := newTestEnv(t)

	cats, err := env.taxonomy.GetCategoriesForModule(context.Background(), "podcast", true)
	require.NoError(t, err)
	assert.Empty(t, cats)

	counts, err := env.taxonomy.GetCategoriesWithCounts(context.Background(), "podcast")
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestTaxonomyService_ModuleImmutableOnceUsed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	parent := env.category(t, "Engineering", domain.ModuleJob)
	_, err := env.taxonomy.CreateCategory(ctx, CreateCategoryRequest{Name: "Backend", Module: domain.ModuleJob, ParentID: &parent.ID})
	require.NoError(t, err)

	product := domain.ModuleProduct
	_, err = env.taxonomy.UpdateCategory(ctx, parent.ID, UpdateCategoryRequest{Module: &product})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	lonely := env.category(t, "Design", domain.ModuleJob)
	updated, err := env.taxonomy.UpdateCategory(ctx, lonely.ID, UpdateCategoryRequest{Module: &product})
	require.NoError(t, err)
	assert.Equal(t, domain.ModuleProduct, updated.Module)
}

func TestTaxonomyService_UpdateCategoryParent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	root := env.category(t, "Lifestyle", domain.ModuleBlog)
	child := env.category(t, "Travel", domain.ModuleBlog)

	_, err := env.taxonomy.UpdateCategory(ctx, child.ID, UpdateCategoryRequest{ParentID: &child.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	updated, err := env.taxonomy.UpdateCategory(ctx, child.ID, UpdateCategoryRequest{ParentID: &root.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, root.ID, *updated.ParentID)

	updated, err = env.taxonomy.UpdateCategory(ctx, child.ID, UpdateCategoryRequest{ClearParent: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)

	_, err = env.taxonomy.UpdateCategory(ctx, 999, UpdateCategoryRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaxonomyService_UpdateCategoryParentRejectsCycles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.category(t, "Engineering", domain.ModuleBlog)
	b := env.category(t, "Backend", domain.ModuleBlog)
	c := env.category(t, "Databases", domain.ModuleBlog)

	_, err := env.taxonomy.UpdateCategory(ctx, b.ID, UpdateCategoryRequest{ParentID: &a.ID})
	require.NoError(t, err)
	_, err = env.taxonomy.UpdateCategory(ctx, c.ID, UpdateCategoryRequest{ParentID: &b.ID})
	require.NoError(t, err)

	_, err = env.taxonomy.UpdateCategory(ctx, a.ID, UpdateCategoryRequest{ParentID: &b.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.taxonomy.UpdateCategory(ctx, a.ID, UpdateCategoryRequest{ParentID: &c.ID})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	got, err := env.store.GetCategory(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID, "rejected update must not be written")

	// Moving a subtree elsewhere is fine.
	_, err = env.taxonomy.UpdateCategory(ctx, c.ID, UpdateCategoryRequest{ParentID: &a.ID})
	assert.NoError(t, err)
}

func TestTaxonomyService_PopularTagsCachedAndInvalidated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.taxonomy.CreateTag(ctx, CreateTagRequest{Name: "Go", Group: "blog"})
	require.NoError(t, err)

	tags, err := env.taxonomy.GetPopularTags(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	var cached []domain.TagUsage
	ok, err := env.cache.Get(ctx, "tags:popular:*:10", &cached)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, err = env.store.FindOrCreateTag(ctx, "Rust", "rust", "blog")
	require.NoError(t, err)
	tags, err = env.taxonomy.GetPopularTags(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, tags, 1, "expected the cached list")

	_, err = env.taxonomy.CreateTag(ctx, CreateTagRequest{Name: "Zig"})
	require.NoError(t, err)

	tags, err = env.taxonomy.GetPopularTags(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	grouped, err := env.taxonomy.GetPopularTags(ctx, "blog", 5)
	require.NoError(t, err)
	assert.Len(t, grouped, 2)
}

func TestTaxonomyService_TagCRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.taxonomy.CreateTag(ctx, CreateTagRequest{Name: "Machine Learning"})
	require.NoError(t, err)
	assert.Equal(t, "machine-learning", tag.Slug)
	assert.Equal(t, domain.DefaultTagGroup, tag.Group)

	_, err = env.taxonomy.CreateTag(ctx, CreateTagRequest{Name: "Machine learning", Group: "product"})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)

	name := "ML"
	updated, err := env.taxonomy.UpdateTag(ctx, tag.ID, UpdateTagRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "ML", updated.Name)
	assert.Equal(t, "machine-learning", updated.Slug)

	page, err := env.taxonomy.ListTags(ctx, store.TagFilter{Search: "ml"}, store.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, store.AdminPageSize, page.PageSize)

	require.NoError(t, env.taxonomy.DeleteTag(ctx, tag.ID))
	_, err = env.taxonomy.GetTag(ctx, tag.ID)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestTaxonomyService_CountsAndTopCategories(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tools := env.category(t, "Tools", domain.ModuleProduct)
	env.category(t, "Apps", domain.ModuleProduct)

	p := &domain.Product{Name: "Hammer", Slug: "hammer", PricingType: domain.PricingFree}
	require.NoError(t, env.store.CreateProduct(ctx, p))
	_, err := env.assoc.SyncCategories(ctx, p.Ref(), []int64{tools.ID})
	require.NoError(t, err)

	counts, err := env.taxonomy.GetCategoriesWithCounts(ctx, domain.ModuleProduct)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Apps", counts[0].Name)
	assert.Equal(t, 1, counts[1].ProductsCount)

	top, err := env.taxonomy.GetTopCategories(ctx, domain.ModuleProduct, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, tools.ID, top[0].ID)
}
