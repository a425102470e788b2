package domain

import "time"

// Module scopes categories to one content domain.
type Module string

// Category modules.
const (
	ModuleBlog    Module = "blog"
	ModuleProduct Module = "product"
	ModuleJob     Module = "job"
)

// Modules lists every module.
func Modules() []Module {
	return []Module{ModuleBlog, ModuleProduct, ModuleJob}
}

// Valid reports whether m is a known module.
func (m Module) Valid() bool {
	switch m {
	case ModuleBlog, ModuleProduct, ModuleJob:
		return true
	}
	return false
}

// ContentType returns the content collection the module classifies.
func (m Module) ContentType() ContentType {
	switch m {
	case ModuleBlog:
		return ContentBlog
	case ModuleProduct:
		return ContentProduct
	case ModuleJob:
		return ContentVacancy
	}
	return ""
}

// Category is a node in a module's category tree.
// Slug is unique across all modules.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *int64    `json:"parent_id"`
	Module      Module    `json:"module"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// Touch updates the UpdatedAt timestamp.
func (c *Category) Touch() {
	c.UpdatedAt = time.Now().UTC()
}

// CategoryWithCounts carries per-collection association counts.
type CategoryWithCounts struct {
	Category
	BlogsCount     int `json:"blogs_count"`
	ProductsCount  int `json:"products_count"`
	VacanciesCount int `json:"vacancies_count"`
}

// Total is the number of associations across all collections.
func (c CategoryWithCounts) Total() int {
	return c.BlogsCount + c.ProductsCount + c.VacanciesCount
}
