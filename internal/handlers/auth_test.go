package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/cache"
	"storefront/internal/service"
	"storefront/internal/store"
)

func newAuthHandler() *AuthHandler {
	return &AuthHandler{Auth: &service.AuthService{
		Users:         store.NewMemoryUserStore(),
		Cache:         cache.NewMemory(),
		AccessSecret:  []byte("handler-test-access"),
		RefreshSecret: []byte("handler-test-refresh"),
	}}
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func TestSignupHandlerSetsSessionCookies(t *testing.T) {
	h := newAuthHandler()
	c, rec := newJSONContext(http.MethodPost, "/api/auth/signup",
		`{"name":"Jane","email":"jane@example.com","password":"s3cretpw"}`)

	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	access := cookieByName(rec, "accessToken")
	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	require.True(t, access.HttpOnly)
	require.True(t, refresh.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, access.SameSite)
	require.Positive(t, access.MaxAge)

	// the password hash never leaves the server
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "jane@example.com", body["email"])
	require.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestSignupHandlerRejectsMalformedBody(t *testing.T) {
	h := newAuthHandler()
	c, _ := newJSONContext(http.MethodPost, "/api/auth/signup", `{"name":`)

	err := h.Signup(c)
	require.Error(t, err)
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestLoginHandlerWrongCredentials(t *testing.T) {
	h := newAuthHandler()
	c, _ := newJSONContext(http.MethodPost, "/api/auth/signup",
		`{"name":"Jane","email":"jane@example.com","password":"s3cretpw"}`)
	require.NoError(t, h.Signup(c))

	c, _ = newJSONContext(http.MethodPost, "/api/auth/login",
		`{"email":"jane@example.com","password":"wrongpass"}`)
	err := h.Login(c)
	require.Error(t, err)
	require.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestLogoutHandlerClearsCookiesAndRevokesSession(t *testing.T) {
	h := newAuthHandler()
	c, rec := newJSONContext(http.MethodPost, "/api/auth/signup",
		`{"name":"Jane","email":"jane@example.com","password":"s3cretpw"}`)
	require.NoError(t, h.Signup(c))
	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, refresh)

	c, rec = newJSONContext(http.MethodPost, "/api/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh.Value})
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := cookieByName(rec, "accessToken")
	require.NotNil(t, cleared)
	require.Negative(t, cleared.MaxAge)

	// the revoked refresh token no longer refreshes
	c, _ = newJSONContext(http.MethodPost, "/api/auth/refresh-token", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh.Value})
	err := h.Refresh(c)
	require.Error(t, err)
	require.Equal(t, apperr.InvalidToken, apperr.KindOf(err))
}

func TestRefreshHandlerSetsAccessCookieOnly(t *testing.T) {
	h := newAuthHandler()
	c, rec := newJSONContext(http.MethodPost, "/api/auth/signup",
		`{"name":"Jane","email":"jane@example.com","password":"s3cretpw"}`)
	require.NoError(t, h.Signup(c))
	refresh := cookieByName(rec, "refreshToken")
	require.NotNil(t, refresh)

	c, rec = newJSONContext(http.MethodPost, "/api/auth/refresh-token", "")
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: refresh.Value})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, cookieByName(rec, "accessToken"))
	require.Nil(t, cookieByName(rec, "refreshToken"))
}

func TestRefreshHandlerWithoutCookie(t *testing.T) {
	h := newAuthHandler()
	c, _ := newJSONContext(http.MethodPost, "/api/auth/refresh-token", "")

	err := h.Refresh(c)
	require.Error(t, err)
	require.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}
