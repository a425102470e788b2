package service

import (
	"context"
	"strings"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
)

// CommentRequest contains fields for adding a comment or a reply.
type CommentRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=100"`
	Content    string `json:"content" validate:"required,max=5000"`
	ParentID   *int64 `json:"parent_id,omitempty" validate:"omitempty,gt=0"`
}

// CreateComment adds a comment to a blog post or product.
func (s *ContentService) CreateComment(ctx context.Context, item domain.ContentRef, req CommentRequest) (*domain.Comment, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !item.Type.Commentable() {
		return nil, domainerrors.Validationf("%s items do not take comments", item.Type)
	}

	c := &domain.Comment{
		Item:       item,
		ParentID:   req.ParentID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Content:    strings.TrimSpace(req.Content),
	}
	if c.AuthorName == "" || c.Content == "" {
		return nil, domainerrors.Validation("author name and content must not be blank")
	}
	if err := s.store.CreateComment(ctx, c); err != nil {
		return nil, storeError(err, string(item.Type))
	}

	s.logger.Info("comment created", "id", c.ID, "item", item.String())
	return c, nil
}

// DeleteComment hides a comment and its replies.
func (s *ContentService) DeleteComment(ctx context.Context, id int64) error {
	if err := s.store.DeleteComment(ctx, id); err != nil {
		return storeError(err, "comment")
	}
	s.logger.Info("comment deleted", "id", id)
	return nil
}

// ListComments returns the item's comment threads, newest first.
func (s *ContentService) ListComments(ctx context.Context, item domain.ContentRef) ([]*domain.Comment, error) {
	comments, err := s.store.ListComments(ctx, item)
	if err != nil {
		return nil, storeError(err, "comment")
	}
	return comments, nil
}

// comments loads the threads and total count shown on a detail page.
func (s *ContentService) comments(ctx context.Context, item domain.ContentRef) ([]*domain.Comment, int, error) {
	threads, err := s.ListComments(ctx, item)
	if err != nil {
		return nil, 0, err
	}
	n, err := s.store.CountComments(ctx, item)
	if err != nil {
		return nil, 0, storeError(err, "comment")
	}
	return threads, n, nil
}
