// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package appcontext provides the custom Echo context and context keys.
package appcontext

import (
	"log/slog"

	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"github.com/labstack/echo/v4"
)

// Context keys for storing values in context.Context.
type (
	// CSRFToken is the context key for the CSRF token.
	CSRFToken struct{}
	// User is the context key for the current user.
	User struct{}
)

// Context is a custom Echo context carrying the current user of the request.
type Context struct {
	echo.Context
	User  *models.User // nil for anonymous visitors
	Flash *flash.Store // nil disables notices
}

// GetUser returns the current user, or nil if anonymous.
func (c *Context) GetUser() *models.User {
	return c.User
}

// IsAuthenticated returns true if the user is authenticated.
func (c *Context) IsAuthenticated() bool {
	return c.User != nil
}

// IsAdmin returns true if the current user holds the admin role.
func (c *Context) IsAdmin() bool {
	return c.User.IsAdmin()
}

// CurrentUser returns the user of any echo context, or nil when c is not
// an *appcontext.Context or the visitor is anonymous.
func CurrentUser(c echo.Context) *models.User {
	if cc, ok := c.(*Context); ok {
		return cc.User
	}
	return nil
}

// AddFlash queues a notice for the next rendered page.
func (c *Context) AddFlash(category, messageID string) {
	if c.Flash == nil {
		return
	}
	if err := c.Flash.Add(c.Response(), c.Request(), category, messageID); err != nil {
		slog.Error("flash_add_failed", "error", err, "message_id", messageID)
	}
}

// PopFlashes returns and clears the pending notices.
func (c *Context) PopFlashes() []flash.Message {
	if c.Flash == nil {
		return nil
	}
	messages, err := c.Flash.Pop(c.Response(), c.Request())
	if err != nil {
		slog.Error("flash_pop_failed", "error", err)
	}
	return messages
}
