package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/apperr"
	authmw "storefront/internal/middleware/auth"
	"storefront/internal/service"
)

type AuthHandler struct {
	Auth *service.AuthService
	// SecureCookies marks the session cookies Secure; on in production.
	SecureCookies bool
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	user, pair, err := h.Auth.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}

	setAuthCookies(c, pair, h.SecureCookies)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}

	user, pair, err := h.Auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	setAuthCookies(c, pair, h.SecureCookies)
	return c.JSON(http.StatusOK, user)
}

// Logout clears the cookies no matter what; revoking the server-side
// session is best effort.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.Auth.Logout(c.Request().Context(), cookieValue(c, refreshCookieName))
	clearAuthCookies(c, h.SecureCookies)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	access, _, err := h.Auth.Refresh(c.Request().Context(), cookieValue(c, refreshCookieName))
	if err != nil {
		return err
	}

	c.SetCookie(newCookie(accessCookieName, access, service.AccessTokenTTL, h.SecureCookies))
	return c.JSON(http.StatusOK, echo.Map{"message": "token refreshed"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	user := authmw.CurrentUser(c)
	if user == nil {
		return apperr.New(apperr.Unauthorized, "no user resolved")
	}
	return c.JSON(http.StatusOK, user)
}
