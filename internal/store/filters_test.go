package store

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
)

func boolPtr(b bool) *bool { return &b }

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortLatest, ParseSort(""))
	assert.Equal(t, SortLatest, ParseSort("random"))
	assert.Equal(t, SortOldest, ParseSort("oldest"))
	assert.Equal(t, SortPopular, ParseSort(" Popular "))
	assert.Equal(t, SortTrending, ParseSort("trending"))
}

func TestParseCategoryRef(t *testing.T) {
	assert.Equal(t, CategoryRef{ID: 12}, ParseCategoryRef("12"))
	assert.Equal(t, CategoryRef{Slug: "developer-tools"}, ParseCategoryRef("developer-tools"))
	assert.True(t, ParseCategoryRef("  ").IsZero())
	assert.Equal(t, CategoryRef{Slug: "-3"}, ParseCategoryRef("-3"))
}

func TestProductFilter_RoundTrip(t *testing.T) {
	f := ProductFilter{
		Search:     "editor",
		Category:   CategoryRef{Slug: "developer-tools"},
		TagID:      4,
		Pricing:    domain.PricingFreemium,
		OpenSource: boolPtr(true),
		Featured:   boolPtr(false),
		Sort:       SortTrending,
	}

	assert.Equal(t, f, ParseProductFilter(f.Values()))
}

func TestProductFilter_PricingIsTitleCased(t *testing.T) {
	f := ParseProductFilter(url.Values{"pricing": {"free"}})
	assert.Equal(t, domain.PricingFree, f.Pricing)

	f = ParseProductFilter(url.Values{"pricing": {"SUBSCRIPTION"}})
	assert.Equal(t, domain.PricingSubscription, f.Pricing)
}

func TestBlogFilter_RoundTrip(t *testing.T) {
	f := BlogFilter{Search: "go generics", Category: CategoryRef{ID: 3}, TagID: 9, Sort: SortOldest}
	assert.Equal(t, f, ParseBlogFilter(f.Values()))
}

func TestBlogFilter_DefaultSortOmitted(t *testing.T) {
	v := BlogFilter{Sort: SortLatest}.Values()
	assert.Empty(t, v.Encode())
}

func TestVacancyFilter_RoundTrip(t *testing.T) {
	f := VacancyFilter{Search: "backend", VacancyType: domain.VacancyOnSite, Featured: boolPtr(true), Sort: SortLatest}
	assert.Equal(t, f, ParseVacancyFilter(f.Values()))

	parsed := ParseVacancyFilter(url.Values{"type": {"remote"}})
	assert.Equal(t, domain.VacancyRemote, parsed.VacancyType)
}

func TestParseBool(t *testing.T) {
	assert.Nil(t, parseBool(""))
	assert.Nil(t, parseBool("maybe"))
	assert.True(t, *parseBool("yes"))
	assert.False(t, *parseBool("0"))
}
