package service

import (
	"context"
	"strings"
	"time"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// VacancyRequest contains fields for creating or replacing a vacancy.
type VacancyRequest struct {
	Title          string             `json:"title" validate:"required,max=255"`
	Slug           string             `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description    string             `json:"description" validate:"required"`
	Company        string             `json:"company" validate:"required,max=255"`
	Location       string             `json:"location,omitempty" validate:"max=255"`
	VacancyType    domain.VacancyType `json:"vacancy_type" validate:"required,vacancy_type"`
	SalaryMin      *int64             `json:"salary_min,omitempty" validate:"omitempty,gte=0"`
	SalaryMax      *int64             `json:"salary_max,omitempty" validate:"omitempty,gte=0"`
	SalaryCurrency string             `json:"salary_currency,omitempty" validate:"omitempty,iso4217"`
	ApplicationURL string             `json:"application_url,omitempty" validate:"omitempty,url,max=2048"`
	IsFeatured     bool               `json:"is_featured,omitempty"`
	ExpiresAt      *time.Time         `json:"expires_at,omitempty"`
	TaxonomyInput
}

func (s *ContentService) validateVacancy(req *VacancyRequest) error {
	req.SalaryCurrency = strings.ToUpper(strings.TrimSpace(req.SalaryCurrency))
	if vt, ok := domain.ParseVacancyType(string(req.VacancyType)); ok {
		req.VacancyType = vt
	}

	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMax < *req.SalaryMin {
		return domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"salary_max": "must be greater than or equal to salary_min",
		})
	}
	return nil
}

func (r *VacancyRequest) fill(v *domain.Vacancy) {
	v.Title = strings.TrimSpace(r.Title)
	v.Description = r.Description
	v.Company = strings.TrimSpace(r.Company)
	v.Location = strings.TrimSpace(r.Location)
	v.VacancyType = r.VacancyType
	v.SalaryMin = r.SalaryMin
	v.SalaryMax = r.SalaryMax
	v.SalaryCurrency = r.SalaryCurrency
	v.ApplicationURL = r.ApplicationURL
	v.IsFeatured = r.IsFeatured
	v.ExpiresAt = r.ExpiresAt
}

// CreateVacancy creates a vacancy and its taxonomy. The salary currency
// defaults to USD.
func (s *ContentService) CreateVacancy(ctx context.Context, req VacancyRequest) (*domain.Vacancy, error) {
	if err := s.validateVacancy(&req); err != nil {
		return nil, err
	}

	v := &domain.Vacancy{Slug: req.Slug}
	req.fill(v)
	if v.Slug == "" {
		slug, err := s.uniqueSlug(ctx, domain.ContentVacancy, v.Title, 0)
		if err != nil {
			return nil, err
		}
		v.Slug = slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.CreateVacancy(ctx, v); err != nil {
		return nil, storeError(err, "vacancy")
	}
	if err := s.applyTaxonomy(ctx, v.Ref(), req.TaxonomyInput, true); err != nil {
		return nil, err
	}

	s.logger.Info("vacancy created", "id", v.ID, "slug", v.Slug)
	return s.GetVacancy(ctx, v.ID)
}

// UpdateVacancy replaces a vacancy's fields.
func (s *ContentService) UpdateVacancy(ctx context.Context, id int64, req VacancyRequest) (*domain.Vacancy, error) {
	if err := s.validateVacancy(&req); err != nil {
		return nil, err
	}

	v, err := s.store.GetVacancy(ctx, id)
	if err != nil {
		return nil, storeError(err, "vacancy")
	}
	req.fill(v)
	if req.Slug != "" {
		v.Slug = req.Slug
	}

	if err := s.assoc.check(ctx, req.TaxonomyInput); err != nil {
		return nil, err
	}
	if err := s.store.UpdateVacancy(ctx, v); err != nil {
		return nil, storeError(err, "vacancy")
	}
	if err := s.applyTaxonomy(ctx, v.Ref(), req.TaxonomyInput, false); err != nil {
		return nil, err
	}

	s.logger.Info("vacancy updated", "id", v.ID, "slug", v.Slug)
	return s.GetVacancy(ctx, v.ID)
}

// DeleteVacancy deletes a vacancy and its associations.
func (s *ContentService) DeleteVacancy(ctx context.Context, id int64) error {
	if err := s.store.DeleteVacancy(ctx, id); err != nil {
		return storeError(err, "vacancy")
	}
	s.logger.Info("vacancy deleted", "id", id)
	return nil
}

// GetVacancy returns a vacancy by id.
func (s *ContentService) GetVacancy(ctx context.Context, id int64) (*domain.Vacancy, error) {
	v, err := s.store.GetVacancy(ctx, id)
	if err != nil {
		return nil, storeError(err, "vacancy")
	}
	return v, nil
}

// GetVacancyBySlug returns a vacancy by slug, expired or not.
func (s *ContentService) GetVacancyBySlug(ctx context.Context, slug string) (*domain.Vacancy, error) {
	v, err := s.store.GetVacancyBySlug(ctx, slug)
	if err != nil {
		return nil, storeError(err, "vacancy")
	}
	return v, nil
}

// ListVacancies returns a filtered page of vacancies.
func (s *ContentService) ListVacancies(ctx context.Context, filter store.VacancyFilter, page store.PageRequest) (*store.PageResult[*domain.Vacancy], error) {
	page.Normalize()
	result, err := s.store.ListVacancies(ctx, filter, page)
	if err != nil {
		return nil, storeError(err, "vacancy")
	}
	return result, nil
}
