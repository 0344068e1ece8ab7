package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"github.com/matzehuels/stacklayout/pkg/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps an error code to the HTTP status returned to clients.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidRegion, errors.ErrCodeInvalidUnit,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotATree:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusUnsupportedMediaType
	case errors.ErrCodeExternalProcess:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a coded error. Oversized bodies become 413 and
// uncoded errors 500 with a generic message.
func writeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
			Code:    "REQUEST_TOO_LARGE",
			Message: "request body exceeds the configured limit",
		})
		return
	}

	code := errors.GetCode(err)
	if code == "" {
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: string(errors.ErrCodeInternal), Message: "internal error"})
		return
	}
	writeJSON(w, statusFor(code), errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

// decodeJSON strictly decodes a single JSON value.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request")
	}
	return nil
}
