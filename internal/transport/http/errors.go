package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/apperr"
)

// ErrorHandler renders every error as {"error": kind, "message": ...}.
// Errors outside the taxonomy become internal_error with a generic message
// so internals never leak to clients.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	kind := apperr.Internal
	message := "internal server error"
	status := http.StatusInternalServerError

	var appErr *apperr.Error
	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		kind = appErr.Kind
		message = appErr.Message
		status = appErr.HTTPStatus()
	case errors.As(err, &httpErr):
		status = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		if status == http.StatusNotFound {
			kind = apperr.NotFound
		}
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, echo.Map{"error": kind, "message": message})
	}
	if writeErr != nil {
		c.Logger().Errorf("error response write failed: %v", writeErr)
	}
}
