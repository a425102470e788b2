package domain

import "time"

// Blog is a published or draft article.
type Blog struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content"`
	FeaturedImage string     `json:"featured_image,omitempty"`
	PublishedAt   *time.Time `json:"published_at"`
	ReadTime      int        `json:"read_time"` // minutes
	IsFeatured    bool       `json:"is_featured"`
	Upvotes       int        `json:"upvotes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Taxonomy
}

// IsPublished reports whether the post is visible at now.
func (b *Blog) IsPublished(now time.Time) bool {
	return b.PublishedAt != nil && !b.PublishedAt.After(now)
}

// Ref returns the blog's content reference.
func (b *Blog) Ref() ContentRef {
	return Ref(ContentBlog, b.ID)
}
