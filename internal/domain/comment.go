package domain

import "time"

// Comment is a reader comment on a blog post or product. Threads are one
// level deep: a reply's ParentID names a top-level comment.
type Comment struct {
	ID         int64      `json:"id"`
	Item       ContentRef `json:"item"`
	ParentID   *int64     `json:"parent_id"`
	AuthorName string     `json:"author_name"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	Replies    []*Comment `json:"replies,omitempty"`
}

// Commentable reports whether items of t accept comments.
func (t ContentType) Commentable() bool {
	return t == ContentBlog || t == ContentProduct
}
