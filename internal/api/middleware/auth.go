package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ananses3m/shop-api/internal/core/domain"
	"github.com/ananses3m/shop-api/internal/core/ports"
)

// UserContextKey is the echo context key holding the authenticated *domain.User.
const UserContextKey = "user"

// Auth validates the bearer session token and stores the resolved user in
// the context.
func Auth(verifier ports.SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := verifier.VerifySession(c.Request().Context(), token)
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// ResetToken validates a password-reset token for the user named by the :id
// path parameter and stores that user in the context.
func ResetToken(verifier ports.ResetVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return err
			}

			user, err := verifier.VerifyReset(c.Request().Context(), c.Param("id"), token)
			if err != nil {
				return err
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the user stored by Auth or ResetToken.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(UserContextKey).(*domain.User)
	return u, ok && u != nil
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
