package apperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTPStatus maps a taxonomy code to the transport status the API exposes.
// Conflicts and illegal state transitions are surfaced as 400 rather than
// 409 to match the request/response contract of the surrounding services.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict, CodeInvalidState, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ToHTTP converts a domain error into an echo HTTPError. Untyped errors are
// hidden behind a generic 500 message so storage details never leak.
func ToHTTP(err error) *echo.HTTPError {
	var e *Error
	if errors.As(err, &e) {
		return echo.NewHTTPError(HTTPStatus(err), e.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
