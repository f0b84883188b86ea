package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/core/domain"
)

// AdminOnly lets the request through only when the user attached by Auth is
// an admin.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := CurrentUser(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
			}
			if !user.IsAdmin {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
