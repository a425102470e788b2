package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
)

func TestContentService_CommentsOnBlogDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).UTC()
	b, err := env.content.CreateBlog(ctx, BlogRequest{Title: "Discussed", Content: "x", PublishedAt: &past})
	require.NoError(t, err)

	top, err := env.content.CreateComment(ctx, b.Ref(), CommentRequest{AuthorName: " Ada ", Content: "Great post"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", top.AuthorName)

	_, err = env.content.CreateComment(ctx, b.Ref(), CommentRequest{AuthorName: "Linus", Content: "Agreed", ParentID: &top.ID})
	require.NoError(t, err)

	detail, err := env.content.GetPublishedBlog(ctx, b.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, top.ID, detail.Comments[0].ID)
	require.Len(t, detail.Comments[0].Replies, 1)
	assert.Equal(t, "Agreed", detail.Comments[0].Replies[0].Content)
	assert.Equal(t, 2, detail.CommentsCount)

	require.NoError(t, env.content.DeleteComment(ctx, top.ID))
	detail, err = env.content.GetPublishedBlog(ctx, b.Slug)
	require.NoError(t, err)
	assert.Empty(t, detail.Comments)
	assert.Zero(t, detail.CommentsCount)

	assert.ErrorIs(t, env.content.DeleteComment(ctx, top.ID), domainerrors.ErrNotFound)
}

func TestContentService_CreateCommentErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	b := env.blog(t, "commented")

	_, err := env.content.CreateComment(ctx, b.Ref(), CommentRequest{AuthorName: "", Content: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.content.CreateComment(ctx, b.Ref(), CommentRequest{AuthorName: "a", Content: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.content.CreateComment(ctx, domain.Ref(domain.ContentVacancy, 1), CommentRequest{AuthorName: "a", Content: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.content.CreateComment(ctx, domain.Ref(domain.ContentBlog, 999), CommentRequest{AuthorName: "a", Content: "x"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	missing := int64(555)
	_, err = env.content.CreateComment(ctx, b.Ref(), CommentRequest{AuthorName: "a", Content: "x", ParentID: &missing})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestContentService_ProductDetailComments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.content.CreateProduct(ctx, ProductRequest{Name: "Widget", Description: "x", PricingType: "Free"})
	require.NoError(t, err)
	_, err = env.content.CreateComment(ctx, p.Ref(), CommentRequest{AuthorName: "Grace", Content: "Useful"})
	require.NoError(t, err)

	detail, err := env.content.GetProductBySlug(ctx, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.ID)
	assert.Equal(t, 1, detail.CommentsCount)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Grace", detail.Comments[0].AuthorName)
}
