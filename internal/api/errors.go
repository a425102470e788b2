package api

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// APIError is a custom error type that implements huma.StatusError.
// It maps domain errors to HTTP responses with consistent structure.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Code    string `json:"code" doc:"Machine-readable error code"`
	Message string `json:"message" doc:"Human-readable error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

// RegisterErrorHandler configures huma to use domain errors.
// Call this after creating the huma.API but before registering routes.
func RegisterErrorHandler() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return &APIError{
					status:  domainErr.HTTPStatus(),
					Code:    string(domainErr.Code),
					Message: domainErr.Message,
					Details: domainErr.Details,
				}
			}

			// Store errors that escaped a service.
			if errors.Is(err, store.ErrNotFound) {
				return &APIError{
					status:  http.StatusNotFound,
					Code:    string(domainerrors.CodeNotFound),
					Message: "not found",
				}
			}
		}

		// huma's own request validation reports field errors as details.
		var details any
		if len(errs) > 0 && status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
			details = validationDetails(errs)
		}

		return &APIError{
			status:  status,
			Code:    statusToCode(status),
			Message: message,
			Details: details,
		}
	}
}

func validationDetails(errs []error) map[string]string {
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		var detail *huma.ErrorDetail
		if errors.As(err, &detail) {
			details[detail.Location] = detail.Message
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// statusToCode maps HTTP status codes to our domain error codes.
func statusToCode(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return string(domainerrors.CodeValidation)
	case http.StatusNotFound:
		return string(domainerrors.CodeNotFound)
	case http.StatusConflict:
		return string(domainerrors.CodeConflict)
	case http.StatusTooManyRequests:
		return string(domainerrors.CodeRateLimited)
	case http.StatusBadGateway:
		return string(domainerrors.CodeUpstream)
	default:
		return string(domainerrors.CodeInternal)
	}
}
