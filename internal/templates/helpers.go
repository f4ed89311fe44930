// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package templates

import (
	"context"

	"codeberg.org/oliverandrich/cafe-directory/internal/appcontext"
	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/i18n"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
)

type flashesKey struct{}

// CSRFToken returns the CSRF token from the context.
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(appcontext.CSRFToken{}).(string); ok {
		return token
	}
	return ""
}

// Locale returns the current locale.
func Locale(ctx context.Context) string {
	return i18n.GetLocale(ctx)
}

// GetUser returns the current user from context, or nil if not logged in.
func GetUser(ctx context.Context) *models.User {
	if user, ok := ctx.Value(appcontext.User{}).(*models.User); ok {
		return user
	}
	return nil
}

// WithFlashes attaches the notices to show on the rendered page.
func WithFlashes(ctx context.Context, messages []flash.Message) context.Context {
	return context.WithValue(ctx, flashesKey{}, messages)
}

// Flashes returns the notices attached with WithFlashes.
func Flashes(ctx context.Context) []flash.Message {
	messages, _ := ctx.Value(flashesKey{}).([]flash.Message)
	return messages
}
