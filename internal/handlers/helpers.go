// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"context"
	"net/http"
	"strconv"

	"codeberg.org/oliverandrich/cafe-directory/internal/appcontext"
	"codeberg.org/oliverandrich/cafe-directory/internal/templates"
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render renders a templ component with the given status code.
// Pending flash notices are shown on the rendered page.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	ctx := c.Request().Context()
	if cc, ok := c.(*appcontext.Context); ok {
		ctx = context.WithValue(ctx, appcontext.User{}, cc.User)
		ctx = templates.WithFlashes(ctx, cc.PopFlashes())
	}

	buf := templ.GetBuffer()
	defer templ.ReleaseBuffer(buf)

	if err := component.Render(ctx, buf); err != nil {
		return err
	}

	return c.HTML(statusCode, buf.String())
}

// Redirect sends the client to url with a notice for the next page.
func Redirect(c echo.Context, url, category, messageID string) error {
	if cc, ok := c.(*appcontext.Context); ok {
		cc.AddFlash(category, messageID)
	}
	return c.Redirect(http.StatusSeeOther, url)
}

// addFlash queues a notice shown by the next Render in this or a later request.
func addFlash(c echo.Context, category, messageID string) {
	if cc, ok := c.(*appcontext.Context); ok {
		cc.AddFlash(category, messageID)
	}
}

// paramID parses an integer path parameter. Anything else is a 404.
func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}
