package service

import (
	"errors"

	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
	"github.com/allan-kirui57/pynade-hub/internal/store"
)

// storeError translates persistence errors into domain errors. what names the
// resource for NotFound and AlreadyExists messages, e.g. "category".
func storeError(err error, what string) error {
	if err == nil {
		return nil
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return err
	}

	var missing *store.MissingIDsError
	switch {
	case errors.As(err, &missing):
		return domainerrors.ReferentialIntegrity(missing.Kind+" ids do not exist", missing.IDs).WithCause(err)
	case errors.Is(err, store.ErrReferentialIntegrity):
		return domainerrors.ReferentialIntegrity(causeMessage(err, "referenced record does not exist"), nil).WithCause(err)
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s not found", what).WithCause(err)
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.AlreadyExistsf("%s with this slug already exists", what).WithCause(err)
	case errors.Is(err, store.ErrInvalidInput):
		return domainerrors.Validation(causeMessage(err, "invalid input")).WithCause(err)
	default:
		return domainerrors.Wrapf(err, domainerrors.CodeInternal, "%s operation failed", what)
	}
}

// causeMessage returns the message of the error wrapped by a store.Error.
func causeMessage(err error, fallback string) string {
	var se *store.Error
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return fallback
}
