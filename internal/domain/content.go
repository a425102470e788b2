package domain

import "fmt"

// ContentType identifies one of the three content collections that can carry
// tags and categories. It is a closed set; use ParseContentType at boundaries.
type ContentType string

// Content types.
const (
	ContentBlog    ContentType = "blog"
	ContentProduct ContentType = "product"
	ContentVacancy ContentType = "vacancy"
)

// ContentTypes lists every content type in a stable order.
func ContentTypes() []ContentType {
	return []ContentType{ContentBlog, ContentProduct, ContentVacancy}
}

// Valid reports whether t is a known content type.
func (t ContentType) Valid() bool {
	switch t {
	case ContentBlog, ContentProduct, ContentVacancy:
		return true
	}
	return false
}

// Module is the category module that classifies items of this type.
func (t ContentType) Module() Module {
	switch t {
	case ContentBlog:
		return ModuleBlog
	case ContentProduct:
		return ModuleProduct
	case ContentVacancy:
		return ModuleJob
	}
	return ""
}

// TagGroup is the tag group admin forms use for items of this type.
func (t ContentType) TagGroup() string {
	return string(t)
}

// ParseContentType accepts both singular and plural forms ("blog", "blogs").
func ParseContentType(s string) (ContentType, error) {
	switch s {
	case "blog", "blogs":
		return ContentBlog, nil
	case "product", "products":
		return ContentProduct, nil
	case "vacancy", "vacancies":
		return ContentVacancy, nil
	}
	return "", fmt.Errorf("unknown content type %q", s)
}

// ContentRef points at a single content item.
type ContentRef struct {
	Type ContentType `json:"type"`
	ID   int64       `json:"id"`
}

// Ref builds a ContentRef.
func Ref(t ContentType, id int64) ContentRef {
	return ContentRef{Type: t, ID: id}
}

func (r ContentRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}

// Taxonomy is the eager-loaded classification attached to listed items.
type Taxonomy struct {
	PrimaryCategoryID *int64    `json:"primary_category_id"`
	PrimaryCategory   *Category `json:"primary_category,omitempty"`
	Tags              []ItemTag `json:"tags,omitempty"`
}
