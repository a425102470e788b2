package domain

import (
	"strings"
	"time"
)

// VacancyType is the working arrangement of a job.
type VacancyType string

// Working arrangements.
const (
	VacancyRemote VacancyType = "Remote"
	VacancyHybrid VacancyType = "Hybrid"
	VacancyOnSite VacancyType = "On-site"
)

// VacancyTypes lists every working arrangement.
func VacancyTypes() []VacancyType {
	return []VacancyType{VacancyRemote, VacancyHybrid, VacancyOnSite}
}

// ParseVacancyType matches case-insensitively, so "on-site" yields VacancyOnSite.
func ParseVacancyType(s string) (VacancyType, bool) {
	for _, known := range VacancyTypes() {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// DefaultSalaryCurrency is applied when a vacancy omits the currency.
const DefaultSalaryCurrency = "USD"

// Vacancy is a job posting.
type Vacancy struct {
	ID             int64       `json:"id"`
	Title          string      `json:"title"`
	Slug           string      `json:"slug"`
	Description    string      `json:"description"`
	Company        string      `json:"company"`
	Location       string      `json:"location,omitempty"`
	VacancyType    VacancyType `json:"vacancy_type"`
	SalaryMin      *int64      `json:"salary_min"`
	SalaryMax      *int64      `json:"salary_max"`
	SalaryCurrency string      `json:"salary_currency"`
	ApplicationURL string      `json:"application_url,omitempty"`
	IsFeatured     bool        `json:"is_featured"`
	Upvotes        int         `json:"upvotes"`
	ExpiresAt      *time.Time  `json:"expires_at"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
	Taxonomy
}

// IsOpen reports whether the vacancy still accepts applications at now.
func (v *Vacancy) IsOpen(now time.Time) bool {
	return v.ExpiresAt == nil || v.ExpiresAt.After(now)
}

// Ref returns the vacancy's content reference.
func (v *Vacancy) Ref() ContentRef {
	return Ref(ContentVacancy, v.ID)
}
