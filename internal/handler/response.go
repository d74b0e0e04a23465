package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"votely/internal/auth"
	apperrors "votely/internal/errors"
)

// fail renders err as a JSON ErrorResponse with the mapped status.
func fail(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// invalid renders a 400 validation error.
func invalid(c echo.Context, message string) error {
	return fail(c, apperrors.NewValidationError(message))
}

// claimsFrom returns the session claims set by the JWT middleware.
func claimsFrom(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get("user").(*auth.Claims)
	return claims, ok && claims != nil
}
