// Package response writes JSON responses for handlers that run outside huma,
// such as router-level middleware. Errors use the same {code, message, details}
// body as the API.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
)

// ErrorBody is the error envelope shared with the huma error handler.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// Error writes an error envelope.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	JSON(w, status, ErrorBody{Code: string(code), Message: message}, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, domainerrors.CodeNotFound, message, logger)
}

// TooManyRequests writes a 429 Too Many Requests response.
func TooManyRequests(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusTooManyRequests, domainerrors.CodeRateLimited, message, logger)
}

// HandleError writes the envelope for err. Domain errors keep their code and
// details; anything else becomes a 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		JSON(w, domainErr.HTTPStatus(), ErrorBody{
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
			Details: domainErr.Details,
		}, logger)
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, domainerrors.CodeInternal, "internal server error", logger)
}
