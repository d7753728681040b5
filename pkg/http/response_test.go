package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "calbook/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_AppError(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteError(w, apperrors.NotFoundWithID("Booking", "65a0c0ffee0000000000beef"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeNotFound, body.Code)
	assert.Equal(t, "65a0c0ffee0000000000beef", body.Details["id"])
}

func TestWriteError_PlainErrorIsInternal(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, errors.New("dial tcp: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestWriteNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	WriteNoContent(w)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func TestWriteJSON_UnencodableValueIsInternal(t *testing.T) {
	w := httptest.NewRecorder()

	out := struct {
		At time.Time `json:"at"`
	}{At: time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)}

	err := WriteJSON(w, http.StatusCreated, out)
	require.Error(t, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apperrors.CodeInternal, body.Code)
}
