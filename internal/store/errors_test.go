package store_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allan-kirui57/pynade-hub/internal/store"
)

func TestError_ErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := store.ErrAlreadyExists.WithCause(cause)

	assert.Contains(t, err.Error(), "resource already exists")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestError_IsMatchesSentinelThroughCause(t *testing.T) {
	err := fmt.Errorf("get blog 7: %w", store.ErrNotFound.WithCause(errors.New("no rows")))

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NotErrorIs(t, err, store.ErrAlreadyExists)
}

func TestMissingIDsError(t *testing.T) {
	var err error = &store.MissingIDsError{Kind: "tag", IDs: []int64{4, 9}}

	assert.ErrorIs(t, err, store.ErrReferentialIntegrity)
	assert.Equal(t, "tag ids do not exist: [4 9]", err.Error())

	var missing *store.MissingIDsError
	assert.True(t, errors.As(fmt.Errorf("sync: %w", err), &missing))
	assert.Equal(t, []int64{4, 9}, missing.IDs)
}
