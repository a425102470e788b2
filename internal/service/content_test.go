package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func TestContentService_CreateBlogDerivesFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	content := "<p>" + strings.Repeat("word ", 450) + "</p>"
	b, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Hello, World!", Content: content})
	require.NoError(t, err)

	assert.Equal(t, "hello-world", b.Slug)
	assert.Equal(t, 3, b.ReadTime)
	assert.True(t, strings.HasSuffix(b.Excerpt, "..."))
	assert.NotContains(t, b.Excerpt, "<p>")

	second, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Hello World", Content: "short", Excerpt: "Custom", ReadTime: 7})
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", second.Slug)
	assert.Equal(t, "Custom", second.Excerpt)
	assert.Equal(t, 7, second.ReadTime)
}

func TestContentService_CreateBlogWithTaxonomy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tech := env.category(t, "Technology", domain.ModuleBlog)
	health := env.category(t, "Health", domain.ModuleBlog)

	b, err := env.content.CreateBlog(ctx, BlogRequest{
		Title:   "Tagged",
		Content: "body",
		TaxonomyInput: TaxonomyInput{
			CategoryIDs:       []int64{tech.ID, health.ID},
			PrimaryCategoryID: &health.ID,
			Tags:              []string{"Go", "Databases"},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, b.PrimaryCategory)
	assert.Equal(t, health.ID, b.PrimaryCategory.ID)
	require.Len(t, b.Tags, 2)
	assert.Equal(t, "Databases", b.Tags[0].Name)
	assert.Equal(t, "blog", b.Tags[0].AssociationGroup)

	cats, err := env.assoc.GetCategories(ctx, b.Ref())
	require.NoError(t, err)
	assert.Len(t, cats, 2)
}

func TestContentService_CreateBlogRejectedTaxonomyLeavesNothing(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.content.CreateBlog(ctx, BlogRequest{
		Title:         "Doomed",
		Content:       "body",
		TaxonomyInput: TaxonomyInput{CategoryIDs: []int64{777}},
	})
	require.ErrorIs(t, err, domainerrors.ErrReferentialIntegrity)

	page, err := env.content.ListBlogs(ctx, store.BlogFilter{}, store.NewPageRequest(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestContentService_UpdateBlogKeepsSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Original Title", Content: "body", TaxonomyInput: TaxonomyInput{Tags: []string{"Go"}}})
	require.NoError(t, err)

	updated, err := env.content.UpdateBlog(ctx, b.ID, BlogRequest{Title: "Renamed", Content: "new body"})
	require.NoError(t, err)
	assert.Equal(t, "original-title", updated.Slug)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Len(t, updated.Tags, 1, "nil tags leave associations alone")

	updated, err = env.content.UpdateBlog(ctx, b.ID, BlogRequest{Title: "Renamed", Content: "new body", TaxonomyInput: TaxonomyInput{Tags: []string{}}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags, "empty tags clear the blog group")

	_, err = env.content.UpdateBlog(ctx, 999, BlogRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContentService_UpdateRejectsMissingTaxonomyBeforeWriting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Stable", Content: "body"})
	require.NoError(t, err)

	_, err = env.content.UpdateBlog(ctx, b.ID, BlogRequest{
		Title:         "Changed",
		Content:       "changed",
		TaxonomyInput: TaxonomyInput{CategoryIDs: []int64{9999}},
	})
	require.ErrorIs(t, err, domainerrors.ErrReferentialIntegrity)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, map[string]any{"missing_ids": []int64{9999}}, domainErr.Details)

	missingPrimary := int64(8888)
	_, err = env.content.UpdateBlog(ctx, b.ID, BlogRequest{
		Title:         "Changed",
		Content:       "changed",
		TaxonomyInput: TaxonomyInput{PrimaryCategoryID: &missingPrimary},
	})
	require.ErrorIs(t, err, domainerrors.ErrReferentialIntegrity)

	_, err = env.content.UpdateBlog(ctx, b.ID, BlogRequest{
		Title:         "Changed",
		Content:       "changed",
		TaxonomyInput: TaxonomyInput{Tags: []string{"Go", "7777"}},
	})
	require.ErrorIs(t, err, domainerrors.ErrReferentialIntegrity)

	got, err := env.content.GetBlog(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stable", got.Title)
	assert.Equal(t, "body", got.Content)

	p, err := env.content.CreateProduct(ctx, ProductRequest{Name: "Widget", Description: "x", PricingType: "Free"})
	require.NoError(t, err)
	_, err = env.content.UpdateProduct(ctx, p.ID, ProductRequest{
		Name:          "Gadget",
		Description:   "y",
		PricingType:   "Free",
		TaxonomyInput: TaxonomyInput{CategoryIDs: []int64{9999}},
	})
	require.ErrorIs(t, err, domainerrors.ErrReferentialIntegrity)

	gotProduct, err := env.content.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", gotProduct.Name)
}

func TestContentService_GetPublishedBlog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).UTC()
	future := time.Now().Add(24 * time.Hour).UTC()

	cat := env.category(t, "Technology", domain.ModuleBlog)
	taxonomy := TaxonomyInput{CategoryIDs: []int64{cat.ID}, PrimaryCategoryID: &cat.ID}

	published, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Live", Content: "x", PublishedAt: &past, TaxonomyInput: taxonomy})
	require.NoError(t, err)
	_, err = env.content.CreateBlog(ctx, BlogRequest{Title: "Sibling", Content: "x", PublishedAt: &past, TaxonomyInput: taxonomy})
	require.NoError(t, err)
	_, err = env.content.CreateBlog(ctx, BlogRequest{Title: "Scheduled", Content: "x", PublishedAt: &future, TaxonomyInput: taxonomy})
	require.NoError(t, err)
	_, err = env.content.CreateBlog(ctx, BlogRequest{Title: "Draft", Content: "x"})
	require.NoError(t, err)

	detail, err := env.content.GetPublishedBlog(ctx, published.Slug)
	require.NoError(t, err)
	assert.Equal(t, published.ID, detail.ID)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "Sibling", detail.Related[0].Title)

	_, err = env.content.GetPublishedBlog(ctx, "scheduled")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = env.content.GetPublishedBlog(ctx, "draft")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestContentService_ProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.content.CreateProduct(ctx, ProductRequest{
		Name:        "Widget",
		Description: "A widget",
		PricingType: "freemium",
		RepoURL:     "https://github.com/acme/widget",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PricingFreemium, p.PricingType)
	assert.Equal(t, "widget", p.Slug)

	_, err = env.content.CreateProduct(ctx, ProductRequest{Name: "Bad", Description: "x", PricingType: "Donationware"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.content.CreateProduct(ctx, ProductRequest{Name: "Bad", Description: "x", PricingType: "Free", RepoURL: "https://github.com/onlyonepart"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestContentService_UpdateProductKeepsStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.content.CreateProduct(ctx, ProductRequest{Name: "Widget", Description: "x", PricingType: "Free"})
	require.NoError(t, err)

	synced := time.Now().UTC()
	require.NoError(t, env.store.UpdateProductStats(ctx, p.ID, domain.RepoStats{StarsCount: 42, LastSyncedAt: &synced}))

	updated, err := env.content.UpdateProduct(ctx, p.ID, ProductRequest{Name: "Widget Pro", Description: "y", PricingType: "Paid"})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.StarsCount)
	assert.Equal(t, domain.PricingPaid, updated.PricingType)
}

func TestContentService_VacancyRules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	lo, hi := int64(90000), int64(120000)
	v, err := env.content.CreateVacancy(ctx, VacancyRequest{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Company:     "Acme",
		VacancyType: "remote",
		SalaryMin:   &lo,
		SalaryMax:   &hi,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VacancyRemote, v.VacancyType)
	assert.Equal(t, domain.DefaultSalaryCurrency, v.SalaryCurrency)

	_, err = env.content.CreateVacancy(ctx, VacancyRequest{
		Title:       "Inverted",
		Description: "x",
		Company:     "Acme",
		VacancyType: "Hybrid",
		SalaryMin:   &hi,
		SalaryMax:   &lo,
	})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Contains(t, domainErr.Details, "salary_max")

	_, err = env.content.CreateVacancy(ctx, VacancyRequest{Title: "x", Description: "x", Company: "x", VacancyType: "Freelance"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestContentService_ProductShowcase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tools := env.category(t, "Tools", domain.ModuleProduct)
	for i, name := range []string{"Alpha", "Beta", "Gamma", "Delta"} {
		_, err := env.content.CreateProduct(ctx, ProductRequest{
			Name:          name,
			Description:   "x",
			PricingType:   "Free",
			IsOpenSource:  i%2 == 0,
			IsFeatured:    i == 0,
			Upvotes:       i * 10,
			TaxonomyInput: TaxonomyInput{CategoryIDs: []int64{tools.ID}},
		})
		require.NoError(t, err)
	}

	sc, err := env.content.ProductShowcase(ctx)
	require.NoError(t, err)

	require.Len(t, sc.Featured, 1)
	assert.Equal(t, "Alpha", sc.Featured[0].Name)
	require.Len(t, sc.Popular, 3)
	assert.Equal(t, "Delta", sc.Popular[0].Name)
	assert.Len(t, sc.NewArrivals, 3)
	assert.Len(t, sc.OpenSourcePicks, 2)
	require.Len(t, sc.TopCategories, 1)
	assert.Equal(t, 4, sc.TopCategories[0].ProductsCount)
}

func TestContentService_TagIDForFilter(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tag, err := env.taxonomy.CreateTag(ctx, CreateTagRequest{Name: "Open Source"})
	require.NoError(t, err)

	id, found, err := env.content.TagIDForFilter(ctx, "open-source")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, tag.ID, id)

	id, found, err = env.content.TagIDForFilter(ctx, "17")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(17), id)

	_, found, err = env.content.TagIDForFilter(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, found)
}
