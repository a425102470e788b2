package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// vacancyColumns must match the scan order in scanVacancy.
const vacancyColumns = `vacancies.id, vacancies.title, vacancies.slug, vacancies.description, vacancies.company,
	vacancies.location, vacancies.vacancy_type, vacancies.salary_min, vacancies.salary_max,
	vacancies.salary_currency, vacancies.application_url, vacancies.is_featured, vacancies.upvotes,
	vacancies.expires_at, vacancies.primary_category_id, vacancies.created_at, vacancies.updated_at`

func scanVacancy(scanner interface{ Scan(dest ...any) error }) (*domain.Vacancy, error) {
	var (
		v              domain.Vacancy
		location       sql.NullString
		vacancyType    string
		salaryMin      sql.NullInt64
		salaryMax      sql.NullInt64
		applicationURL sql.NullString
		expiresAt      sql.NullString
		primaryID      sql.NullInt64
		createdAt      string
		updatedAt      string
	)

	err := scanner.Scan(
		&v.ID,
		&v.Title,
		&v.Slug,
		&v.Description,
		&v.Company,
		&location,
		&vacancyType,
		&salaryMin,
		&salaryMax,
		&v.SalaryCurrency,
		&applicationURL,
		&v.IsFeatured,
		&v.Upvotes,
		&expiresAt,
		&primaryID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	v.Location = location.String
	v.VacancyType = domain.VacancyType(vacancyType)
	v.SalaryMin = idPtr(salaryMin)
	v.SalaryMax = idPtr(salaryMax)
	v.ApplicationURL = applicationURL.String
	v.PrimaryCategoryID = idPtr(primaryID)
	if v.ExpiresAt, err = parseNullableTime(expiresAt); err != nil {
		return nil, err
	}
	if v.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if v.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

// nullAmount maps a nil salary bound to NULL. Zero is a real amount.
func nullAmount(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

// CreateVacancy inserts a vacancy and sets its ID.
func (s *Store) CreateVacancy(ctx context.Context, v *domain.Vacancy) error {
	if v.SalaryCurrency == "" {
		v.SalaryCurrency = domain.DefaultSalaryCurrency
	}
	now := s.now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO vacancies (title, slug, description, company, location, vacancy_type, salary_min,
			salary_max, salary_currency, application_url, is_featured, upvotes, expires_at,
			primary_category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.Title,
		v.Slug,
		v.Description,
		v.Company,
		nullString(v.Location),
		string(v.VacancyType),
		nullAmount(v.SalaryMin),
		nullAmount(v.SalaryMax),
		v.SalaryCurrency,
		nullString(v.ApplicationURL),
		v.IsFeatured,
		v.Upvotes,
		nullTimeString(v.ExpiresAt),
		nullID(v.PrimaryCategoryID),
		formatTime(v.CreatedAt),
		formatTime(v.UpdatedAt),
	)
	if err != nil {
		return mapContentWriteError(err)
	}

	v.ID, err = res.LastInsertId()
	return err
}

// GetVacancy retrieves a vacancy by ID with its taxonomy.
func (s *Store) GetVacancy(ctx context.Context, id int64) (*domain.Vacancy, error) {
	return s.getVacancy(ctx, "vacancies.id", id)
}

// GetVacancyBySlug retrieves a vacancy by slug with its taxonomy.
func (s *Store) GetVacancyBySlug(ctx context.Context, slug string) (*domain.Vacancy, error) {
	return s.getVacancy(ctx, "vacancies.slug", slug)
}

func (s *Store) getVacancy(ctx context.Context, column string, value any) (*domain.Vacancy, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE `+column+` = ?`, value)
	v, err := scanVacancy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadVacancyTaxonomy(ctx, []*domain.Vacancy{v}); err != nil {
		return nil, err
	}
	return v, nil
}

// UpdateVacancy saves the vacancy's editable columns.
func (s *Store) UpdateVacancy(ctx context.Context, v *domain.Vacancy) error {
	if v.SalaryCurrency == "" {
		v.SalaryCurrency = domain.DefaultSalaryCurrency
	}
	v.UpdatedAt = s.now()

	res, err := s.db.ExecContext(ctx, `
		UPDATE vacancies SET title = ?, slug = ?, description = ?, company = ?, location = ?,
			vacancy_type = ?, salary_min = ?, salary_max = ?, salary_currency = ?, application_url = ?,
			is_featured = ?, upvotes = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`,
		v.Title,
		v.Slug,
		v.Description,
		v.Company,
		nullString(v.Location),
		string(v.VacancyType),
		nullAmount(v.SalaryMin),
		nullAmount(v.SalaryMax),
		v.SalaryCurrency,
		nullString(v.ApplicationURL),
		v.IsFeatured,
		v.Upvotes,
		nullTimeString(v.ExpiresAt),
		formatTime(v.UpdatedAt),
		v.ID,
	)
	if err != nil {
		return mapContentWriteError(err)
	}
	return requireAffected(res)
}

// DeleteVacancy removes a vacancy and its associations.
func (s *Store) DeleteVacancy(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vacancies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vacancy: %w", err)
	}
	return requireAffected(res)
}

// ListVacancies returns a filtered page of vacancies with taxonomy loaded.
func (s *Store) ListVacancies(ctx context.Context, f store.VacancyFilter, page store.PageRequest) (*store.PageResult[*domain.Vacancy], error) {
	q := listQuery{
		ct:         domain.ContentVacancy,
		columns:    vacancyColumns,
		search:     f.Search,
		searchIn:   []string{"vacancies.title", "vacancies.description", "vacancies.company"},
		category:   f.Category,
		tagID:      f.TagID,
		featured:   f.Featured,
		sort:       f.Sort,
		dateColumn: "vacancies.created_at",
		popularity: []string{"vacancies.upvotes DESC"},
	}
	if f.VacancyType != "" {
		q.where = append(q.where, sq.Eq{"vacancies.vacancy_type": string(f.VacancyType)})
	}
	if f.ActiveOnly {
		q.where = append(q.where, openAt(s.now()))
	}

	result, err := listContent(ctx, s, q, page, func(rows *sql.Rows) (*domain.Vacancy, error) {
		return scanVacancy(rows)
	})
	if err != nil {
		return nil, err
	}
	if err := s.loadVacancyTaxonomy(ctx, result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) loadVacancyTaxonomy(ctx context.Context, vacancies []*domain.Vacancy) error {
	targets := make(map[int64]*domain.Taxonomy, len(vacancies))
	for _, v := range vacancies {
		targets[v.ID] = &v.Taxonomy
	}
	return s.loadTaxonomy(ctx, domain.ContentVacancy, targets)
}
