package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/validation"
)

type categoryRequest struct {
	Name   string `json:"name" validate:"required,max=255"`
	Slug   string `json:"slug,omitempty" validate:"omitempty,slug"`
	Module string `json:"module" validate:"required,module"`
}

type vacancyRequest struct {
	Title       string `json:"title" validate:"required"`
	VacancyType string `json:"vacancy_type" validate:"required,vacancy_type"`
	SalaryMin   *int64 `json:"salary_min" validate:"omitempty,gte=0"`
	SalaryMax   *int64 `json:"salary_max" validate:"omitempty,gte=0"`
}

type productRequest struct {
	Name        string `json:"name" validate:"required"`
	PricingType string `json:"pricing_type" validate:"required,pricing"`
	RepoURL     string `json:"repo_url,omitempty" validate:"omitempty,url"`
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)

	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domainerrors.CodeValidation, derr.Code)
	assert.Equal(t, http.StatusBadRequest, derr.HTTPStatus())

	details, ok := derr.Details.(map[string]string)
	require.True(t, ok, "details should be a field map, got %T", derr.Details)
	return details
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(categoryRequest{Name: "Technology", Slug: "technology", Module: "blog"}))
	assert.NoError(t, v.Validate(productRequest{Name: "Widget", PricingType: "Freemium", RepoURL: "https://github.com/acme/widget"}))

	lo, hi := int64(1000), int64(2000)
	assert.NoError(t, v.Validate(vacancyRequest{Title: "Dev", VacancyType: "on-site", SalaryMin: &lo, SalaryMax: &hi}))
}

func TestValidator_DomainRules(t *testing.T) {
	v := validation.New()

	details := fieldErrors(t, v.Validate(categoryRequest{Name: "X", Slug: "Not A Slug", Module: "podcast"}))
	assert.Contains(t, details, "slug")
	assert.Contains(t, details, "module")
	assert.NotContains(t, details, "name")

	details = fieldErrors(t, v.Validate(productRequest{Name: "W", PricingType: "Lifetime"}))
	assert.Equal(t, "must be one of: Free Freemium Paid Subscription", details["pricing_type"])

	details = fieldErrors(t, v.Validate(vacancyRequest{Title: "Dev", VacancyType: "Office"}))
	assert.Contains(t, details, "vacancy_type")
}

func TestValidator_NegativeSalary(t *testing.T) {
	v := validation.New()

	lo := int64(-1)
	details := fieldErrors(t, v.Validate(vacancyRequest{Title: "Dev", VacancyType: "Remote", SalaryMin: &lo}))
	assert.Equal(t, "must be greater than or equal to 0", details["salary_min"])
}

func TestValidator_Required(t *testing.T) {
	v := validation.New()

	details := fieldErrors(t, v.Validate(categoryRequest{}))
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "is required", details["module"])
}
