// Package dto provides request and response types shared across the HTTP API.
// These types are used by huma to generate OpenAPI documentation and perform validation.
package dto

import (
	"net/url"

	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// ListResponse is a paginated list response.
type ListResponse[T any] struct {
	Items    []T             `json:"items" doc:"Items on this page"`
	Total    int             `json:"total" doc:"Total count across all pages"`
	Page     int             `json:"page" doc:"Current page number"`
	PageSize int             `json:"page_size" doc:"Items per page"`
	LastPage int             `json:"last_page" doc:"Number of the last page"`
	Links    store.PageLinks `json:"links" doc:"Page URLs that keep the active filters"`
}

// NewListResponse converts a store page. base and query build the page links.
func NewListResponse[T any](r *store.PageResult[T], base string, query url.Values) ListResponse[T] {
	return ListResponse[T]{
		Items:    r.Items,
		Total:    r.Total,
		Page:     r.Page,
		PageSize: r.PageSize,
		LastPage: r.LastPage,
		Links:    r.Links(base, query),
	}
}

// EmptyList is a first page with no items.
func EmptyList[T any](pageSize int, base string, query url.Values) ListResponse[T] {
	return NewListResponse(store.NewPageResult[T](nil, 0, store.NewPageRequest(1, pageSize)), base, query)
}

// PageParam is the page query parameter used by listings.
type PageParam struct {
	Page int `query:"page" default:"1" minimum:"1" doc:"Page number"`
}

// IDParam is a path parameter for numeric resource IDs.
type IDParam struct {
	ID int64 `path:"id" minimum:"1" doc:"Resource identifier"`
}

// SlugParam is a path parameter for slugs.
type SlugParam struct {
	Slug string `path:"slug" maxLength:"255" doc:"URL slug"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}

// Message builds a MessageOutput.
func Message(msg string) *MessageOutput {
	return &MessageOutput{Body: MessageResponse{Message: msg}}
}
