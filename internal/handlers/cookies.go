package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"storefront/internal/service"
)

const (
	accessCookieName  = "accessToken"
	refreshCookieName = "refreshToken"
)

// newCookie builds a session cookie: http-only, same-site strict, secure
// outside development, max-age matching the token lifetime.
func newCookie(name, value string, maxAge time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func setAuthCookies(c echo.Context, pair *service.TokenPair, secure bool) {
	c.SetCookie(newCookie(accessCookieName, pair.AccessToken, service.AccessTokenTTL, secure))
	c.SetCookie(newCookie(refreshCookieName, pair.RefreshToken, service.RefreshTokenTTL, secure))
}

func clearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(newCookie(accessCookieName, "", -time.Second, secure))
	c.SetCookie(newCookie(refreshCookieName, "", -time.Second, secure))
}

func cookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
