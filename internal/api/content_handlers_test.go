package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/config"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

func (ts *testServer) createCategory(t *testing.T, name string, module domain.Module) *domain.Category {
	t.Helper()
	resp := ts.api.Post("/api/v1/admin/categories", map[string]any{"name": name, "module": module})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeBody[*domain.Category](t, resp)
}

func (ts *testServer) createBlog(t *testing.T, body map[string]any) *domain.Blog {
	t.Helper()
	resp := ts.api.Post("/api/v1/admin/blogs", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	return decodeBody[*domain.Blog](t, resp)
}

func published() string {
	return time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
}

func TestCategories_CreateAndList(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	ts.createCategory(t, "Technology", domain.ModuleBlog)
	ts.createCategory(t, "Business", domain.ModuleBlog)
	ts.createCategory(t, "Developer Tools", domain.ModuleProduct)

	resp := ts.api.Get("/api/v1/categories?module=blog")
	require.Equal(t, http.StatusOK, resp.Code)
	body := decodeBody[CategoriesResponse](t, resp)
	require.Len(t, body.Categories, 2)
	assert.Equal(t, "Business", body.Categories[0].Name)
	assert.Equal(t, "technology", body.Categories[1].Slug)

	resp = ts.api.Get("/api/v1/categories?module=podcast")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeBody[CategoriesResponse](t, resp).Categories)

	dup := ts.api.Post("/api/v1/admin/categories", map[string]any{"name": "Technology", "module": "blog"})
	require.Equal(t, http.StatusConflict, dup.Code)
	assert.Equal(t, "ALREADY_EXISTS", decodeBody[errorBody](t, dup).Code)
}

func TestCreateBlog_MissingTitle(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	resp := ts.api.Post("/api/v1/admin/blogs", map[string]any{"content": "body only"})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decodeBody[errorBody](t, resp).Code)
}

func TestCreateBlog_MissingCategory(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	resp := ts.api.Post("/api/v1/admin/blogs", map[string]any{
		"title":        "Orphan",
		"content":      "text",
		"category_ids": []int64{4, 5},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	body := decodeBody[errorBody](t, resp)
	assert.Equal(t, "REFERENTIAL_INTEGRITY", body.Code)
	require.Contains(t, body.Details, "missing_ids")
	assert.ElementsMatch(t, []any{float64(4), float64(5)}, body.Details["missing_ids"])

	list := decodeBody[dto.ListResponse[*domain.Blog]](t, ts.api.Get("/api/v1/admin/blogs"))
	assert.Zero(t, list.Total)
}

func TestAdminBlogs_Pagination(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	for i := range 25 {
		ts.createBlog(t, map[string]any{
			"title":        fmt.Sprintf("Post %02d", i),
			"content":      "text",
			"published_at": published(),
		})
	}

	resp := ts.api.Get("/api/v1/admin/blogs?page=3")
	require.Equal(t, http.StatusOK, resp.Code)

	page := decodeBody[dto.ListResponse[*domain.Blog]](t, resp)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 25, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, "/api/v1/admin/blogs", page.Links.First)
	assert.Equal(t, "/api/v1/admin/blogs?page=2", page.Links.Prev)
	assert.Empty(t, page.Links.Next)

	public := decodeBody[dto.ListResponse[*domain.Blog]](t, ts.api.Get("/api/v1/blogs"))
	assert.Len(t, public.Items, 15)
	assert.Equal(t, 2, public.LastPage)
}

func TestPublicBlogs_TagFilter(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	ts.createBlog(t, map[string]any{
		"title": "Tagged", "content": "text", "published_at": published(),
		"tags": []string{"Open Source"},
	})
	ts.createBlog(t, map[string]any{"title": "Plain", "content": "text", "published_at": published()})
	ts.createBlog(t, map[string]any{"title": "Draft", "content": "text", "tags": []string{"Open Source"}})

	page := decodeBody[dto.ListResponse[*domain.Blog]](t, ts.api.Get("/api/v1/blogs?tag=open-source"))
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Tagged", page.Items[0].Title)
	assert.Contains(t, page.Links.First, "tag=")

	unknown := ts.api.Get("/api/v1/blogs?tag=no-such-tag")
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Zero(t, decodeBody[dto.ListResponse[*domain.Blog]](t, unknown).Total)
}

func TestPublicBlog_BySlug(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	ts.createBlog(t, map[string]any{"title": "Hello World", "content": "text", "published_at": published()})

	resp := ts.api.Get("/api/v1/blogs/hello-world")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Hello World", decodeBody[*domain.Blog](t, resp).Title)

	missing := ts.api.Get("/api/v1/blogs/nope")
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[errorBody](t, missing).Code)
}

func TestSyncTags_WithGroup(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	b := ts.createBlog(t, map[string]any{"title": "Grouped", "content": "text"})

	resp := ts.api.Put(fmt.Sprintf("/api/v1/admin/blogs/%d/tags?group=featured", b.ID),
		map[string]any{"tags": []string{"Go", "Rust"}})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ItemTagsResponse](t, resp)
	assert.Equal(t, "featured", body.Group)
	require.Len(t, body.Tags, 2)
	assert.Equal(t, "Go", body.Tags[0].Name)
	assert.Equal(t, "featured", body.Tags[0].AssociationGroup)

	missing := ts.api.Put("/api/v1/admin/blogs/9999/tags", map[string]any{"tags": []string{"Go"}})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestSetPrimaryCategory(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	cat := ts.createCategory(t, "Health", domain.ModuleBlog)
	b := ts.createBlog(t, map[string]any{"title": "Sleep", "content": "text"})

	resp := ts.api.Put(fmt.Sprintf("/api/v1/admin/blogs/%d/primary-category", b.ID),
		map[string]any{"category_id": cat.ID})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decodeBody[ItemCategoriesResponse](t, resp)
	require.NotNil(t, body.PrimaryCategoryID)
	assert.Equal(t, cat.ID, *body.PrimaryCategoryID)
}

func TestProductShowcase(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	resp := ts.api.Post("/api/v1/admin/products", map[string]any{
		"name": "Widget", "description": "A widget", "pricing_type": "Free", "is_featured": true,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/products/showcase")
	require.Equal(t, http.StatusOK, resp.Code)
	sc := decodeBody[domain.ProductShowcase](t, resp)
	require.Len(t, sc.Featured, 1)
	assert.Equal(t, "widget", sc.Featured[0].Slug)

	detail := ts.api.Get("/api/v1/products/widget")
	assert.Equal(t, http.StatusOK, detail.Code)
}

func TestGitHubSyncEndpoint(t *testing.T) {
	gh := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path != "/repos/acme/widget" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"full_name":"acme/widget","stargazers_count":42,"forks_count":7,"watchers_count":3}`))
	}))
	t.Cleanup(gh.Close)

	ts := setupTestServer(t, config.ServerConfig{}, gh.URL)

	for _, p := range []struct{ name, repo string }{
		{"Widget", "https://github.com/acme/widget"},
		{"Ghost", "https://github.com/acme/ghost"},
	} {
		resp := ts.api.Post("/api/v1/admin/products", map[string]any{
			"name": p.name, "description": "d", "pricing_type": "Free", "repo_url": p.repo,
		})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}

	resp := ts.api.Post("/api/v1/admin/github/sync")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	run := decodeBody[domain.SyncRun](t, resp)
	assert.NotEmpty(t, run.ID)
	assert.Len(t, run.Updated, 1)
	require.Len(t, run.Failed, 1)
	assert.Equal(t, "https://github.com/acme/ghost", run.Failed[0].RepoURL)

	product := decodeBody[*domain.Product](t, ts.api.Get("/api/v1/products/widget"))
	assert.Equal(t, 42, product.StarsCount)

	runs := decodeBody[SyncRunsResponse](t, ts.api.Get("/api/v1/admin/github/runs"))
	require.Len(t, runs.Runs, 1)
	assert.Equal(t, run.ID, runs.Runs[0].ID)
}

func TestBlogComments(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	blog := ts.createBlog(t, map[string]any{"title": "Talk", "content": "text", "published_at": published()})
	base := fmt.Sprintf("/api/v1/admin/blogs/%d/comments", blog.ID)

	resp := ts.api.Post(base, map[string]any{"author_name": "Ada", "content": "First!"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	top := decodeBody[*domain.Comment](t, resp)

	resp = ts.api.Post(base, map[string]any{"author_name": "Linus", "content": "Reply", "parent_id": top.ID})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	reply := decodeBody[*domain.Comment](t, resp)

	nested := ts.api.Post(base, map[string]any{"author_name": "Eve", "content": "Deeper", "parent_id": reply.ID})
	require.Equal(t, http.StatusBadRequest, nested.Code, nested.Body.String())
	assert.Equal(t, "VALIDATION", decodeBody[errorBody](t, nested).Code)

	detail := decodeBody[struct {
		Comments      []*domain.Comment `json:"comments"`
		CommentsCount int               `json:"comments_count"`
	}](t, ts.api.Get("/api/v1/blogs/talk"))
	assert.Equal(t, 2, detail.CommentsCount)
	require.Len(t, detail.Comments, 1)
	require.Len(t, detail.Comments[0].Replies, 1)
	assert.Equal(t, reply.ID, detail.Comments[0].Replies[0].ID)

	resp = ts.api.Delete(fmt.Sprintf("/api/v1/admin/comments/%d", top.ID))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	list := decodeBody[CommentsResponse](t, ts.api.Get(base))
	assert.Empty(t, list.Comments)

	missing := ts.api.Post("/api/v1/admin/blogs/9999/comments", map[string]any{"author_name": "a", "content": "x"})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestUpdateBlog_MissingCategoryLeavesBlogUnchanged(t *testing.T) {
	ts := setupTestServer(t, config.ServerConfig{}, "")

	blog := ts.createBlog(t, map[string]any{"title": "Stable", "content": "text"})

	resp := ts.api.Put(fmt.Sprintf("/api/v1/admin/blogs/%d", blog.ID), map[string]any{
		"title":        "Changed",
		"content":      "text",
		"category_ids": []int64{9999},
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

	body := decodeBody[errorBody](t, resp)
	require.Contains(t, body.Details, "missing_ids")
	assert.Equal(t, []any{float64(9999)}, body.Details["missing_ids"])

	got := decodeBody[*domain.Blog](t, ts.api.Get(fmt.Sprintf("/api/v1/admin/blogs/%d", blog.ID)))
	assert.Equal(t, "Stable", got.Title)
}
