package domain

import (
	"strings"
	"time"
)

// PricingType is a product's pricing model.
type PricingType string

// Pricing models.
const (
	PricingFree         PricingType = "Free"
	PricingFreemium     PricingType = "Freemium"
	PricingPaid         PricingType = "Paid"
	PricingSubscription PricingType = "Subscription"
)

// PricingTypes lists every pricing model.
func PricingTypes() []PricingType {
	return []PricingType{PricingFree, PricingFreemium, PricingPaid, PricingSubscription}
}

// Valid reports whether p is a known pricing model.
func (p PricingType) Valid() bool {
	for _, known := range PricingTypes() {
		if p == known {
			return true
		}
	}
	return false
}

// Product is a listed software product.
type Product struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Image         string      `json:"image,omitempty"`
	PricingType   PricingType `json:"pricing_type"`
	IsOpenSource  bool        `json:"is_open_source"`
	RepoURL       string      `json:"repo_url,omitempty"`
	WebsiteURL    string      `json:"website_url,omitempty"`
	IsFeatured    bool        `json:"is_featured"`
	Upvotes       int         `json:"upvotes"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	RepoStats
	Taxonomy
}

// RepoStats holds the counters copied from the product's GitHub repository.
type RepoStats struct {
	StarsCount    int        `json:"stars_count"`
	ForksCount    int        `json:"forks_count"`
	WatchersCount int        `json:"watchers_count"`
	LastSyncedAt  *time.Time `json:"last_synced_at"`
}

// HasRepository reports whether the product links a repository.
func (p *Product) HasRepository() bool {
	return strings.TrimSpace(p.RepoURL) != ""
}

// Ref returns the product's content reference.
func (p *Product) Ref() ContentRef {
	return Ref(ContentProduct, p.ID)
}

// ProductShowcase groups the side lists shown next to the product directory.
type ProductShowcase struct {
	Featured        []*Product           `json:"featured"`
	Popular         []*Product           `json:"popular"`
	NewArrivals     []*Product           `json:"new_arrivals"`
	OpenSourcePicks []*Product           `json:"open_source_picks"`
	TopCategories   []CategoryWithCounts `json:"top_categories"`
}
