package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every failed response.
type errorBody struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message, StatusCode: status})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// statusFor maps a service error to its HTTP status and client-facing message.
// The second return is false when the detail must not leave the server.
func statusFor(err error) (int, string, bool) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, err.Error(), true
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials", true
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "Unauthorized", true
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, err.Error(), true
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, err.Error(), true
	default:
		return http.StatusInternalServerError, "Internal server error", false
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message, public := statusFor(err)
	if !public {
		s.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "request_id", requestIDFrom(r.Context()), "error", err)
	}
	writeErrorMessage(w, status, message)
}

// decodeJSON reads a single JSON document from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", common.ErrorValidation)
		}
		return fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
	}
	return nil
}
