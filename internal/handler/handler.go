// Package handler contains the echo HTTP handlers. Handlers bind and
// validate the transport shapes in internal/dto, delegate to the service
// layer and translate service errors to HTTP statuses.
package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

func parseID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
