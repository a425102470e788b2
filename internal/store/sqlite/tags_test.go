package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := &domain.Tag{Name: "Golang", Slug: "golang"}
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if tag.ID == 0 {
		t.Fatal("expected ID to be set")
	}
	if tag.Group != domain.DefaultTagGroup {
		t.Errorf("group: got %q, want %q", tag.Group, domain.DefaultTagGroup)
	}

	got, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Golang" || got.Slug != "golang" {
		t.Errorf("got %+v", got)
	}

	bySlug, err := s.GetTagBySlug(ctx, "golang")
	if err != nil {
		t.Fatalf("GetTagBySlug: %v", err)
	}
	if bySlug.ID != tag.ID {
		t.Errorf("GetTagBySlug: got id %d, want %d", bySlug.ID, tag.ID)
	}
}

func TestCreateTag_DuplicateSlugAcrossGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestTag(t, s, "Go", "blog")

	err := s.CreateTag(ctx, &domain.Tag{Name: "Go", Slug: "go", Group: "product"})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetTag(context.Background(), 404)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateAndDeleteTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := createTestTag(t, s, "Rust", "")
	tag.Name = "Rust Lang"
	tag.Description = "Systems programming"
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTag(ctx, tag.ID)
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if got.Name != "Rust Lang" || got.Description != "Systems programming" {
		t.Errorf("update not persisted: %+v", got)
	}

	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}
	if err := s.DeleteTag(ctx, tag.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestTag(t, s, "Zig", "blog")
	createTestTag(t, s, "Go", "blog")
	createTestTag(t, s, "Kotlin", "product")

	page, err := s.ListTags(ctx, store.TagFilter{Group: "blog"}, store.NewPageRequest(1, 10))
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("total: got %d, want 2", page.Total)
	}
	if page.Items[0].Name != "Go" || page.Items[1].Name != "Zig" {
		t.Errorf("expected name order, got %s, %s", page.Items[0].Name, page.Items[1].Name)
	}

	page, err = s.ListTags(ctx, store.TagFilter{Search: "kot"}, store.NewPageRequest(1, 10))
	if err != nil {
		t.Fatalf("ListTags search: %v", err)
	}
	if page.Total != 1 || page.Items[0].Name != "Kotlin" {
		t.Errorf("search: got %+v", page.Items)
	}
}

func TestListTags_SearchEscapesWildcards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestTag(t, s, "100 percent", "")
	createTestTag(t, s, "web_dev", "")

	page, err := s.ListTags(ctx, store.TagFilter{Search: "%"}, store.NewPageRequest(1, 10))
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("expected literal %% to match nothing, got %d", page.Total)
	}

	page, err = s.ListTags(ctx, store.TagFilter{Search: "_"}, store.NewPageRequest(1, 10))
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("expected literal _ to match one tag, got %d", page.Total)
	}
}

func TestFindOrCreateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, created, err := s.FindOrCreateTag(ctx, "Docker", "docker", "product")
	if err != nil {
		t.Fatalf("FindOrCreateTag: %v", err)
	}
	if !created {
		t.Error("expected first call to create")
	}

	second, created, err := s.FindOrCreateTag(ctx, "Docker", "docker", "blog")
	if err != nil {
		t.Fatalf("FindOrCreateTag again: %v", err)
	}
	if created {
		t.Error("expected second call to find")
	}
	if second.ID != first.ID {
		t.Errorf("ids differ: %d vs %d", first.ID, second.ID)
	}
	if second.Group != "product" {
		t.Errorf("existing tag keeps its group, got %q", second.Group)
	}
}

func TestFindOrCreateTag_Concurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tag, _, err := s.FindOrCreateTag(ctx, "Kubernetes", "kubernetes", "")
			errs[i] = err
			if tag != nil {
				ids[i] = tag.ID
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: %v", i, err)
		}
		if ids[i] != ids[0] {
			t.Errorf("worker %d got id %d, want %d", i, ids[i], ids[0])
		}
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM tags WHERE slug = 'kubernetes'`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one row, got %d", n)
	}
}

func TestTagIDsBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goTag := createTestTag(t, s, "Go", "")
	createTestTag(t, s, "Rust", "")

	ids, err := s.TagIDsBySlug(ctx, []string{"go", "missing"})
	if err != nil {
		t.Fatalf("TagIDsBySlug: %v", err)
	}
	if len(ids) != 1 || ids["go"] != goTag.ID {
		t.Errorf("got %v", ids)
	}
}

func TestPopularTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	goTag := createTestTag(t, s, "Go", "blog")
	rust := createTestTag(t, s, "Rust", "blog")
	unused := createTestTag(t, s, "Unused", "blog")
	other := createTestTag(t, s, "Hiring", "vacancy")

	b1 := createTestBlog(t, s, "One", nil)
	b2 := createTestBlog(t, s, "Two", nil)
	p := createTestProduct(t, s, "Widget", "")
	v := createTestVacancy(t, s, "Engineer", nil)

	mustAttach(t, s, b1.Ref(), "blog", goTag.ID, rust.ID)
	mustAttach(t, s, b2.Ref(), "blog", goTag.ID)
	mustAttach(t, s, p.Ref(), "product", goTag.ID)
	mustAttach(t, s, v.Ref(), "vacancy", other.ID)

	popular, err := s.PopularTags(ctx, "blog", 10)
	if err != nil {
		t.Fatalf("PopularTags: %v", err)
	}
	if len(popular) != 3 {
		t.Fatalf("expected 3 blog-group tags, got %d", len(popular))
	}

	want := []struct {
		id    int64
		count int
	}{{goTag.ID, 3}, {rust.ID, 1}, {unused.ID, 0}}
	for i, w := range want {
		if popular[i].ID != w.id || popular[i].UsageCount != w.count {
			t.Errorf("popular[%d]: got (%d, %d), want (%d, %d)",
				i, popular[i].ID, popular[i].UsageCount, w.id, w.count)
		}
	}

	limited, err := s.PopularTags(ctx, "", 1)
	if err != nil {
		t.Fatalf("PopularTags limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != goTag.ID {
		t.Errorf("limit 1: got %+v", limited)
	}

	none, err := s.PopularTags(ctx, "no-such-group", 5)
	if err != nil {
		t.Fatalf("PopularTags unknown group: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown group: expected empty, got %d", len(none))
	}
}

func mustAttach(t *testing.T, s *Store, ref domain.ContentRef, group string, tagIDs ...int64) {
	t.Helper()
	if err := s.AttachTags(context.Background(), ref, tagIDs, group); err != nil {
		t.Fatalf("AttachTags %s: %v", ref, err)
	}
}
