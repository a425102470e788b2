package store

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

// Sort orders a content listing.
type Sort string

// Sort keys.
const (
	SortLatest   Sort = "latest"
	SortOldest   Sort = "oldest"
	SortPopular  Sort = "popular"
	SortTrending Sort = "trending"
)

// TrendingWindow bounds how old an item may be to count as trending.
const TrendingWindow = 30 * 24 * time.Hour

// ParseSort falls back to SortLatest for unknown keys.
func ParseSort(s string) Sort {
	switch Sort(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	case SortTrending:
		return SortTrending
	default:
		return SortLatest
	}
}

// CategoryRef selects a category by id or by slug. ID wins when both are set.
type CategoryRef struct {
	ID   int64
	Slug string
}

// IsZero reports whether no category was selected.
func (c CategoryRef) IsZero() bool {
	return c.ID == 0 && c.Slug == ""
}

// ParseCategoryRef treats numeric input as an id and anything else as a slug.
func ParseCategoryRef(s string) CategoryRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return CategoryRef{}
	}
	if id, err := strconv.ParseInt(s, 10, 64); err == nil && id > 0 {
		return CategoryRef{ID: id}
	}
	return CategoryRef{Slug: s}
}

func (c CategoryRef) String() string {
	if c.ID != 0 {
		return strconv.FormatInt(c.ID, 10)
	}
	return c.Slug
}

// BlogFilter narrows a blog listing.
type BlogFilter struct {
	Search   string
	Category CategoryRef
	TagID    int64
	Featured *bool
	Sort     Sort

	// PublishedOnly hides drafts and scheduled posts. It is set by the
	// caller's context, not by query parameters.
	PublishedOnly bool
}

// Values encodes the filter as query parameters.
func (f BlogFilter) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "category", f.Category.String())
	setID(v, "tag", f.TagID)
	setBool(v, "featured", f.Featured)
	setSort(v, f.Sort)
	return v
}

// ParseBlogFilter decodes query parameters produced by BlogFilter.Values.
func ParseBlogFilter(v url.Values) BlogFilter {
	return BlogFilter{
		Search:   strings.TrimSpace(v.Get("search")),
		Category: ParseCategoryRef(v.Get("category")),
		TagID:    parseID(v.Get("tag")),
		Featured: parseBool(v.Get("featured")),
		Sort:     ParseSort(v.Get("sort")),
	}
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string
	Category   CategoryRef
	TagID      int64
	Pricing    domain.PricingType
	OpenSource *bool
	Featured   *bool
	Sort       Sort
}

// Values encodes the filter as query parameters.
func (f ProductFilter) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "category", f.Category.String())
	setID(v, "tag", f.TagID)
	setString(v, "pricing", string(f.Pricing))
	setBool(v, "open_source", f.OpenSource)
	setBool(v, "featured", f.Featured)
	setSort(v, f.Sort)
	return v
}

// ParseProductFilter decodes query parameters produced by ProductFilter.Values.
func ParseProductFilter(v url.Values) ProductFilter {
	return ProductFilter{
		Search:     strings.TrimSpace(v.Get("search")),
		Category:   ParseCategoryRef(v.Get("category")),
		TagID:      parseID(v.Get("tag")),
		Pricing:    NormalizePricing(v.Get("pricing")),
		OpenSource: parseBool(v.Get("open_source")),
		Featured:   parseBool(v.Get("featured")),
		Sort:       ParseSort(v.Get("sort")),
	}
}

// NormalizePricing title-cases user input ("freemium" becomes "Freemium").
// Unknown values are kept so that they match nothing.
func NormalizePricing(s string) domain.PricingType {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return domain.PricingType(cases.Title(language.English).String(s))
}

// VacancyFilter narrows a vacancy listing.
type VacancyFilter struct {
	Search      string
	Category    CategoryRef
	TagID       int64
	VacancyType domain.VacancyType
	Featured    *bool
	Sort        Sort

	// ActiveOnly hides expired vacancies. Set by the caller's context.
	ActiveOnly bool
}

// Values encodes the filter as query parameters.
func (f VacancyFilter) Values() url.Values {
	v := url.Values{}
	setString(v, "search", f.Search)
	setString(v, "category", f.Category.String())
	setID(v, "tag", f.TagID)
	setString(v, "type", string(f.VacancyType))
	setBool(v, "featured", f.Featured)
	setSort(v, f.Sort)
	return v
}

// ParseVacancyFilter decodes query parameters produced by VacancyFilter.Values.
func ParseVacancyFilter(v url.Values) VacancyFilter {
	f := VacancyFilter{
		Search:   strings.TrimSpace(v.Get("search")),
		Category: ParseCategoryRef(v.Get("category")),
		TagID:    parseID(v.Get("tag")),
		Featured: parseBool(v.Get("featured")),
		Sort:     ParseSort(v.Get("sort")),
	}
	if raw := strings.TrimSpace(v.Get("type")); raw != "" {
		if vt, ok := domain.ParseVacancyType(raw); ok {
			f.VacancyType = vt
		} else {
			f.VacancyType = domain.VacancyType(raw)
		}
	}
	return f
}

// CategoryFilter narrows the admin category listing.
type CategoryFilter struct {
	Search     string
	Module     domain.Module
	ActiveOnly bool
}

// TagFilter narrows the admin tag listing.
type TagFilter struct {
	Search string
	Group  string
}

func setString(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func setID(v url.Values, key string, id int64) {
	if id > 0 {
		v.Set(key, strconv.FormatInt(id, 10))
	}
}

func setBool(v url.Values, key string, b *bool) {
	if b == nil {
		return
	}
	if *b {
		v.Set(key, "1")
	} else {
		v.Set(key, "0")
	}
}

func setSort(v url.Values, s Sort) {
	if s != "" && s != SortLatest {
		v.Set("sort", string(s))
	}
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// parseBool returns nil for empty or unrecognized input.
func parseBool(s string) *bool {
	var b bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		b = true
	case "0", "false", "no", "off":
		b = false
	default:
		return nil
	}
	return &b
}
