package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/backend/internal/apperr"
	"github.com/memoria-app/backend/internal/middleware"
)

// getUserIDFromContext returns the authenticated user's id, or 0 for an
// anonymous request.
func getUserIDFromContext(c echo.Context) uint {
	if id, ok := c.Get(middleware.ContextUserIDKey).(uint); ok {
		return id
	}
	return 0
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperr.ErrInvalidArgument
	}
	return uint(id), nil
}

// httpError maps the error taxonomy onto HTTP statuses. Access denials
// deliberately render as not-found so a private memorial's existence
// never leaks to viewers who were not invited.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return echo.NewHTTPError(http.StatusUnauthorized, "Sign-in required")
	case errors.Is(err, apperr.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrAccessDenied):
		return echo.NewHTTPError(http.StatusNotFound, "Memorial not found")
	case errors.Is(err, apperr.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Conflicting request")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
