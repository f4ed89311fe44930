// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/cafe-directory/internal/templates"
	"github.com/labstack/echo/v4"
)

// NotFound renders the 404 error page.
func NotFound(c echo.Context) error {
	return Render(c, http.StatusNotFound, templates.Error(http.StatusNotFound))
}

// Forbidden renders the 403 error page.
func Forbidden(c echo.Context) error {
	return Render(c, http.StatusForbidden, templates.Error(http.StatusForbidden))
}

// HTTPErrorHandler renders error pages for HTML requests. Errors that are not
// an *echo.HTTPError are store or programming failures and become a 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	} else {
		slog.ErrorContext(c.Request().Context(), "request_failed",
			"error", err,
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
		)
	}

	var renderErr error
	switch {
	case c.Request().Method == http.MethodHead:
		renderErr = c.NoContent(code)
	case code == http.StatusNotFound || code == http.StatusForbidden || code >= http.StatusInternalServerError:
		renderErr = Render(c, code, templates.Error(code))
	default:
		renderErr = c.String(code, http.StatusText(code))
	}
	if renderErr != nil {
		slog.Error("error_page_failed", "error", renderErr, "status", code)
	}
}
