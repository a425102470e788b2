package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	"github.com/allan-kirui57/pynade-hub/internal/api/dto"
	"github.com/allan-kirui57/pynade-hub/internal/domain"
	"github.com/allan-kirui57/pynade-hub/internal/service"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func (s *Server) registerVacancyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listVacancies",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/vacancies",
		Summary:     "List open vacancies",
		Description: "Returns vacancies that have not expired, filtered by search, category, tag, type and featured flag",
		Tags:        []string{"Vacancies"},
	}, s.handleListVacancies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVacancy",
		Method:      http.MethodGet,
		Path:        apiPrefix + "/vacancies/{slug}",
		Summary:     "Get vacancy",
		Tags:        []string{"Vacancies"},
	}, s.handleGetVacancyBySlug)
}

func (s *Server) registerAdminVacancyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListVacancies",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/vacancies",
		Summary:     "List vacancies",
		Description: "Returns all vacancies, including expired ones",
		Tags:        []string{"Admin: Vacancies"},
	}, s.handleAdminListVacancies)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createVacancy",
		Method:        http.MethodPost,
		Path:          adminPrefix + "/vacancies",
		Summary:       "Create vacancy",
		Description:   "Creates a vacancy with its categories and tags",
		Tags:          []string{"Admin: Vacancies"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateVacancy)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminGetVacancy",
		Method:      http.MethodGet,
		Path:        adminPrefix + "/vacancies/{id}",
		Summary:     "Get vacancy by ID",
		Tags:        []string{"Admin: Vacancies"},
	}, s.handleAdminGetVacancy)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateVacancy",
		Method:      http.MethodPut,
		Path:        adminPrefix + "/vacancies/{id}",
		Summary:     "Update vacancy",
		Tags:        []string{"Admin: Vacancies"},
	}, s.handleUpdateVacancy)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteVacancy",
		Method:      http.MethodDelete,
		Path:        adminPrefix + "/vacancies/{id}",
		Summary:     "Delete vacancy",
		Tags:        []string{"Admin: Vacancies"},
	}, s.handleDeleteVacancy)
}

// === DTOs ===

// ListVacanciesInput contains parameters for listing vacancies.
type ListVacanciesInput struct {
	ContentQuery
	Type string `query:"type" doc:"Remote, Hybrid or On-site (case-insensitive)"`
}

func (in *ListVacanciesInput) values() url.Values {
	v := in.ContentQuery.values()
	if in.Type != "" {
		v.Set("type", in.Type)
	}
	return v
}

// VacancyListOutput wraps a page of vacancies for Huma.
type VacancyListOutput struct {
	Body dto.ListResponse[*domain.Vacancy]
}

// VacancyOutput wraps a vacancy for Huma.
type VacancyOutput struct {
	Body *domain.Vacancy
}

// GetVacancyInput contains parameters for getting a vacancy by slug.
type GetVacancyInput struct {
	dto.SlugParam
}

// CreateVacancyInput wraps the create vacancy request for Huma.
type CreateVacancyInput struct {
	Body service.VacancyRequest
}

// UpdateVacancyInput wraps the update vacancy request for Huma.
type UpdateVacancyInput struct {
	dto.IDParam
	Body service.VacancyRequest
}

// === Handlers ===

func (s *Server) handleListVacancies(ctx context.Context, input *ListVacanciesInput) (*VacancyListOutput, error) {
	return s.listVacancies(ctx, input, apiPrefix+"/vacancies", true, store.VacancyPageSize)
}

func (s *Server) handleAdminListVacancies(ctx context.Context, input *ListVacanciesInput) (*VacancyListOutput, error) {
	return s.listVacancies(ctx, input, adminPrefix+"/vacancies", false, store.AdminPageSize)
}

func (s *Server) listVacancies(ctx context.Context, input *ListVacanciesInput, base string, activeOnly bool, pageSize int) (*VacancyListOutput, error) {
	filter := store.ParseVacancyFilter(input.values())
	filter.ActiveOnly = activeOnly

	tagID, ok, err := s.resolveTag(ctx, input.Tag)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &VacancyListOutput{Body: dto.EmptyList[*domain.Vacancy](pageSize, base, filter.Values())}, nil
	}
	filter.TagID = tagID

	page, err := s.services.Content.ListVacancies(ctx, filter, store.NewPageRequest(input.Page, pageSize))
	if err != nil {
		return nil, err
	}
	return &VacancyListOutput{Body: dto.NewListResponse(page, base, filter.Values())}, nil
}

func (s *Server) handleGetVacancyBySlug(ctx context.Context, input *GetVacancyInput) (*VacancyOutput, error) {
	v, err := s.services.Content.GetVacancyBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &VacancyOutput{Body: v}, nil
}

func (s *Server) handleAdminGetVacancy(ctx context.Context, input *dto.IDParam) (*VacancyOutput, error) {
	v, err := s.services.Content.GetVacancy(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &VacancyOutput{Body: v}, nil
}

func (s *Server) handleCreateVacancy(ctx context.Context, input *CreateVacancyInput) (*VacancyOutput, error) {
	v, err := s.services.Content.CreateVacancy(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &VacancyOutput{Body: v}, nil
}

func (s *Server) handleUpdateVacancy(ctx context.Context, input *UpdateVacancyInput) (*VacancyOutput, error) {
	v, err := s.services.Content.UpdateVacancy(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &VacancyOutput{Body: v}, nil
}

func (s *Server) handleDeleteVacancy(ctx context.Context, input *dto.IDParam) (*dto.MessageOutput, error) {
	if err := s.services.Content.DeleteVacancy(ctx, input.ID); err != nil {
		return nil, err
	}
	return dto.Message("Vacancy deleted"), nil
}
