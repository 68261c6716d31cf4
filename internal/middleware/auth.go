package middleware

import (
	"net/http"
	"strings"

	"github.com/josiahuma/ovipoint/internal/auth"
	"github.com/labstack/echo/v4"
)

const organisationIDKey = "organisation_id"

// RequireAuth validates the Bearer session token and stores the
// authenticated organisation id on the request context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token format")
			}

			claims, err := auth.ParseToken(secret, tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			orgID, err := claims.OrganisationID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(organisationIDKey, orgID)
			return next(c)
		}
	}
}

// OrganisationID returns the authenticated organisation id, or 0 when the
// request did not pass RequireAuth.
func OrganisationID(c echo.Context) int64 {
	if id, ok := c.Get(organisationIDKey).(int64); ok {
		return id
	}
	return 0
}
