package store

import (
	"net/url"
	"strconv"
)

// Page sizes per listing context.
const (
	AdminPageSize   = 10
	ProductPageSize = 12
	BlogPageSize    = 15
	VacancyPageSize = 12

	maxPageSize = 100
)

// PageRequest selects one page of a listing. Pages are 1-based.
type PageRequest struct {
	Page     int
	PageSize int
}

// NewPageRequest clamps page to at least 1 and size to (0, 100].
func NewPageRequest(page, size int) PageRequest {
	p := PageRequest{Page: page, PageSize: size}
	p.Normalize()
	return p
}

// Normalize clamps the request in place.
func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = AdminPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResult is one page of a listing plus what is needed to render page controls.
type PageResult[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	LastPage int `json:"last_page"`
}

// NewPageResult computes LastPage from total and the request's page size.
func NewPageResult[T any](items []T, total int, req PageRequest) *PageResult[T] {
	if items == nil {
		items = []T{}
	}
	lastPage := 1
	if req.PageSize > 0 && total > 0 {
		lastPage = (total + req.PageSize - 1) / req.PageSize
	}
	return &PageResult[T]{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		LastPage: lastPage,
	}
}

// HasMore reports whether a later page exists.
func (r *PageResult[T]) HasMore() bool {
	return r.Page < r.LastPage
}

// PageLinks are ready-made URLs for pagination controls. Empty when not applicable.
type PageLinks struct {
	First string `json:"first"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
	Last  string `json:"last"`
}

// Links builds page URLs under base that keep every filter in query.
func (r *PageResult[T]) Links(base string, query url.Values) PageLinks {
	build := func(page int) string {
		q := url.Values{}
		for k, v := range query {
			if k == "page" {
				continue
			}
			q[k] = append([]string(nil), v...)
		}
		if page > 1 {
			q.Set("page", strconv.Itoa(page))
		}
		if enc := q.Encode(); enc != "" {
			return base + "?" + enc
		}
		return base
	}

	links := PageLinks{First: build(1), Last: build(r.LastPage)}
	if r.Page > 1 {
		links.Prev = build(r.Page - 1)
	}
	if r.HasMore() {
		links.Next = build(r.Page + 1)
	}
	return links
}
