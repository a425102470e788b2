package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/service"
)

func (s *Server) registerCommentRoutes() {
	for _, route := range contentRoutes {
		if !route.ct.Commentable() {
			continue
		}
		ct := route.ct
		base := fmt.Sprintf("%s/%s/{id}/comments", adminPrefix, route.segment)
		tag := "Admin: Comments"

		huma.Register(s.api, huma.Operation{
			OperationID: "list" + route.name + "Comments",
			Method:      http.MethodGet,
			Path:        base,
			Summary:     "List comments",
			Description: "Top-level comments newest first, each with its replies",
			Tags:        []string{tag},
		}, func(ctx context.Context, input *dto.IDParam) (*CommentsOutput, error) {
			return s.handleListComments(ctx, domain.Ref(ct, input.ID))
		})

		huma.Register(s.api, huma.Operation{
			OperationID:   "create" + route.name + "Comment",
			Method:        http.MethodPost,
			Path:          base,
			Summary:       "Add comment",
			Description:   "Adds a comment, or a reply when parent_id names a top-level comment on the same item",
			Tags:          []string{tag},
			DefaultStatus: http.StatusCreated,
		}, func(ctx context.Context, input *CreateCommentInput) (*CommentOutput, error) {
			return s.handleCreateComment(ctx, domain.Ref(ct, input.ID), input)
		})
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/comments/{id}",
		Summary:     "Delete comment",
		Description: "Hides a comment and its replies",
		Tags:        []string{"Admin: Comments"},
	}, s.handleDeleteComment)
}

// === DTOs ===

// CreateCommentInput wraps the create comment request for Huma.
type CreateCommentInput struct {
	dto.IDParam
	Body service.CommentRequest
}

// CommentOutput wraps a comment for Huma.
type CommentOutput struct {
	Body *domain.Comment
}

// CommentsResponse contains an item's comment threads.
type CommentsResponse struct {
	Comments []*domain.Comment `json:"comments"`
}

// CommentsOutput wraps comment threads for Huma.
type CommentsOutput struct {
	Body CommentsResponse
}

// === Handlers ===

func (s *Server) handleListComments(ctx context.Context, item domain.ContentRef) (*CommentsOutput, error) {
	comments, err := s.services.Content.ListComments(ctx, item)
	if err != nil {
		return nil, err
	}
	return &CommentsOutput{Body: CommentsResponse{Comments: comments}}, nil
}

func (s *Server) handleCreateComment(ctx context.Context, item domain.ContentRef, input *CreateCommentInput) (*CommentOutput, error) {
	c, err := s.services.Content.CreateComment(ctx, item, input.Body)
	if err != nil {
		return nil, err
	}
	return &CommentOutput{Body: c}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Content.DeleteComment(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Comment deleted"), nil
}
