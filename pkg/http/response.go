package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "calbook/pkg/errors"
)

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

// WriteJSON encodes data before touching the response so an unencodable
// value becomes a 500 instead of a success status with an empty body.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		body, _ = json.Marshal(apperrors.Internal("Failed to encode response", err).Response())
		statusCode = http.StatusInternalServerError
		writeBody(w, statusCode, body)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	return writeBody(w, statusCode, body)
}

func writeBody(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, err := w.Write(append(body, '\n'))
	return err
}

// WriteError renders any error as an ErrorResponse. Errors that are not
// AppErrors are reported as internal errors without leaking their text.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), appErr.Response())
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, data)
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, data)
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
