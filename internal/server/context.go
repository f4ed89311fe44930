// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"codeberg.org/oliverandrich/cafe-directory/internal/appcontext"
	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/handlers"
	"github.com/labstack/echo/v4"
)

// customContext wraps the Echo context with our custom Context.
// Errors are rendered here so error pages see the user and pending notices.
func customContext(flashes *flash.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &appcontext.Context{
				Context: c,
				Flash:   flashes,
			}
			if err := next(cc); err != nil {
				handlers.HTTPErrorHandler(err, cc)
			}
			return nil
		}
	}
}
