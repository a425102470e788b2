package response

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/allan-kirui57/pynade-hub/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"status": "ok"}, discardLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	TooManyRequests(w, "slow down", discardLogger())

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	body := decode(t, w)
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, "slow down", body.Message)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainerrors.NotFound("blog not found"), http.StatusNotFound, "NOT_FOUND"},
		{"referential integrity", domainerrors.ReferentialIntegrity("tag ids do not exist", []int64{9}), http.StatusUnprocessableEntity, "REFERENTIAL_INTEGRITY"},
		{"upstream", domainerrors.Upstream(io.ErrUnexpectedEOF, "github failed"), http.StatusBadGateway, "UPSTREAM"},
		{"plain error", io.EOF, http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, discardLogger())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Code)
		})
	}
}

func TestHandleError_KeepsDetails(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, domainerrors.ReferentialIntegrity("tag ids do not exist", []int64{4, 5}), discardLogger())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	details, ok := body["details"].(map[string]any)
	require.True(t, ok, "details should be an object: %v", body)
	assert.Equal(t, []any{4.0, 5.0}, details["missing_ids"])
}
