// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"codeberg.org/oliverandrich/cafe-directory/internal/appcontext"
	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/forms"
	"codeberg.org/oliverandrich/cafe-directory/internal/policy"
	"codeberg.org/oliverandrich/cafe-directory/internal/repository"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/directory"
	"codeberg.org/oliverandrich/cafe-directory/internal/templates"
	"github.com/labstack/echo/v4"
)

// Handlers contains the cafe directory handlers.
type Handlers struct {
	repo  *repository.Repository
	cafes *directory.Service
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{
		repo:  repo,
		cafes: directory.NewService(repo),
	}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Index lists every cafe.
func (h *Handlers) Index(c echo.Context) error {
	cafes, err := h.cafes.List(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.Index(cafes))
}

// Show renders a cafe's detail page.
func (h *Handlers) Show(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	cafe, err := h.cafes.Get(c.Request().Context(), id)
	if errors.Is(err, directory.ErrNotFound) {
		return echo.ErrNotFound
	}
	if err != nil {
		return err
	}

	canDelete := policy.CanDeleteCafe(appcontext.CurrentUser(c), cafe)
	return Render(c, http.StatusOK, templates.Cafe(cafe, canDelete))
}

// Search looks the query up by name, then by location.
func (h *Handlers) Search(c echo.Context) error {
	query := c.FormValue("query")

	result, err := h.cafes.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	if result.Empty() {
		addFlash(c, flash.Danger, "search_no_matches")
	}
	return Render(c, http.StatusOK, templates.Search(query, result))
}

// AddPage renders the add-cafe form.
func (h *Handlers) AddPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.AddCafe(forms.CafeForm{}, nil))
}

// Add stores a submitted cafe owned by the current user.
func (h *Handlers) Add(c echo.Context) error {
	var form forms.CafeForm
	if err := c.Bind(&form); err != nil {
		return echo.ErrBadRequest
	}
	if errs := forms.Validate(&form); errs != nil {
		return Render(c, http.StatusUnprocessableEntity, templates.AddCafe(form, errs))
	}

	_, err := h.cafes.Create(c.Request().Context(), appcontext.CurrentUser(c), form.Input())
	switch {
	case errors.Is(err, directory.ErrDuplicateKey):
		addFlash(c, flash.Danger, "cafe_duplicate_name")
		return Render(c, http.StatusConflict, templates.AddCafe(form, nil))
	case errors.Is(err, directory.ErrUnauthenticated):
		return Redirect(c, "/login", flash.Danger, "login_required")
	case err != nil:
		return err
	}

	return Redirect(c, "/", flash.Success, "cafe_added")
}

// Delete removes a cafe when the current user owns it or is an admin.
func (h *Handlers) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}

	_, err = h.cafes.Delete(c.Request().Context(), appcontext.CurrentUser(c), id)
	switch {
	case errors.Is(err, directory.ErrNotFound):
		return echo.ErrNotFound
	case errors.Is(err, directory.ErrNotAuthorized):
		return Redirect(c, "/", flash.Danger, "cafe_not_authorized")
	case errors.Is(err, directory.ErrUnauthenticated):
		return Redirect(c, "/login", flash.Danger, "login_required")
	case err != nil:
		return err
	}

	return Redirect(c, "/", flash.Success, "cafe_deleted")
}

// AdminUsers lists all registered users.
func (h *Handlers) AdminUsers(c echo.Context) error {
	users, err := h.repo.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, http.StatusOK, templates.AdminUsers(users))
}
