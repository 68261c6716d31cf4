package handler

import (
	"errors"
	"net/http"

	"github.com/josiahuma/ovipoint/internal/service"
	"github.com/labstack/echo/v4"
)

// toHTTPError maps the service error taxonomy onto HTTP statuses. Every
// expected outcome carries its user-facing message; anything unmapped is
// an internal error and the message is not exposed.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrOrganisationNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrBookingsClosed),
		errors.Is(err, service.ErrEventPast):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidSlot),
		errors.Is(err, service.ErrInvalidEventConfig):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDuplicatePhone),
		errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrSlugTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
