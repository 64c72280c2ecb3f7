// Package auth holds the route guards. RequireUser resolves the access
// token to a user; RequireAdmin layers the role check on top and must only
// be registered after RequireUser.
package auth

import (
	"github.com/labstack/echo/v4"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/service"
)

const userContextKey = "currentUser"

type Guard struct {
	Auth *service.AuthService
}

// RequireUser rejects requests without a valid, non-expired access token
// resolving to an existing user. Expired tokens fail with a distinct kind
// so clients know to refresh rather than re-login.
func (g *Guard) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("accessToken")
		if err != nil || cookie.Value == "" {
			return apperr.New(apperr.Unauthorized, "no access token provided")
		}

		user, err := g.Auth.ResolveAccessToken(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil {
			// The guard ran without RequireUser in front of it; a
			// wiring bug, not a client error.
			return apperr.New(apperr.Internal, "admin guard invoked without a resolved user")
		}
		if user.Role != models.RoleAdmin {
			return apperr.New(apperr.Forbidden, "access denied: admins only")
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) *models.User {
	if u, ok := c.Get(userContextKey).(*models.User); ok {
		return u
	}
	return nil
}
