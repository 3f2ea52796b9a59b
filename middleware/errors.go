package middleware

import (
	"errors"
	"net/http"

	"boleteria/common"
)

// StatusFromError maps the common error taxonomy onto HTTP status codes.
// Anything unrecognised is a server error.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, common.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// SendError writes err with the status StatusFromError picks. Server errors
// get the fallback message; client errors carry err's own text so callers see
// which field or id was wrong.
func SendError(send func(Response), err error, fallback string) {
	code := StatusFromError(err)
	message := fallback
	if code < http.StatusInternalServerError {
		message = err.Error()
	}
	send(Response{Code: code, Message: message, Error: err})
}
