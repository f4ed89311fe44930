// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package policy decides whether an identity may perform a mutation.
// A nil user is the anonymous visitor and is never allowed anything.
package policy

import "codeberg.org/oliverandrich/cafe-directory/internal/models"

// IsAdmin guards admin-only routes.
func IsAdmin(user *models.User) bool {
	return user.IsAdmin()
}

// CanDeleteCafe allows the cafe's owner and admins.
func CanDeleteCafe(user *models.User, cafe *models.Cafe) bool {
	if user == nil || cafe == nil {
		return false
	}
	return user.IsAdmin() || cafe.OwnedBy(user.ID)
}
