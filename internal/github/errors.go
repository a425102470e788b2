package github

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for GitHub API operations.
var (
	ErrNotFound             = errors.New("github: repository not found")
	ErrUnauthorized         = errors.New("github: unauthorized")
	ErrRateLimited          = errors.New("github: rate limited by server")
	ErrBadRequest           = errors.New("github: bad request")
	ErrServer               = errors.New("github: server error")
	ErrInvalidRepositoryURL = errors.New("github: invalid repository url")
)

// maxErrorBody caps how much of a failed response body is kept on an Error.
const maxErrorBody = 512

// Error wraps an underlying error with request context.
type Error struct {
	Op     string // Operation: "getRepository"
	URL    string
	Status int    // 0 when no response was received
	Body   string // Truncated response body
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github %s [%s] status %d: %v", e.Op, e.URL, e.Status, e.Err)
	}
	return fmt.Sprintf("github %s [%s]: %v", e.Op, e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying: server errors, rate
// limiting and failures that never produced a response.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrServer) || errors.Is(err, ErrRateLimited) {
		return true
	}
	var ghErr *Error
	if errors.As(err, &ghErr) {
		return ghErr.Status == 0 && !errors.Is(ghErr.Err, ErrInvalidRepositoryURL)
	}
	return false
}

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	return string(body[:maxErrorBody]) + "..."
}
