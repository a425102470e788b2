package domain

import "time"

// DefaultTagGroup is used when a tag is created without a group.
const DefaultTagGroup = "default"

// Tag is a shared label. Slug is unique regardless of group.
// Group records the namespace the tag was created in; associations carry
// their own group and may differ from it.
type Tag struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Group       string    `json:"group"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// TagUsage is a tag with its association count across all content.
type TagUsage struct {
	Tag
	UsageCount int `json:"usage_count"`
}

// ItemTag is a tag as attached to a content item, under AssociationGroup.
type ItemTag struct {
	Tag
	AssociationGroup string `json:"tag_group"`
}
