// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/forms"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/auth"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/session"
	"codeberg.org/oliverandrich/cafe-directory/internal/templates"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for authentication.
type AuthHandlers struct {
	auth     *auth.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(authSvc *auth.Service, sess *session.Manager) *AuthHandlers {
	return &AuthHandlers{
		auth:     authSvc,
		sessions: sess,
	}
}

// RegisterPage renders the registration page.
func (h *AuthHandlers) RegisterPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Register(forms.RegisterForm{}, nil))
}

// Register creates an account and logs it in.
func (h *AuthHandlers) Register(c echo.Context) error {
	var form forms.RegisterForm
	if err := c.Bind(&form); err != nil {
		return echo.ErrBadRequest
	}
	if errs := forms.Validate(&form); errs != nil {
		return Render(c, http.StatusUnprocessableEntity, templates.Register(form, errs))
	}

	user, err := h.auth.Register(c.Request().Context(), form.Params())
	switch {
	case errors.Is(err, auth.ErrUserExists):
		return Redirect(c, "/login", flash.Info, "already_signed_up")
	case errors.Is(err, auth.ErrPasswordTooLong):
		errs := forms.Errors{"password": "field_too_long"}
		return Render(c, http.StatusUnprocessableEntity, templates.Register(form, errs))
	case err != nil:
		return err
	}

	if err := h.login(c, user); err != nil {
		return err
	}
	return Redirect(c, "/", flash.Success, "welcome")
}

// LoginPage renders the login page.
func (h *AuthHandlers) LoginPage(c echo.Context) error {
	return Render(c, http.StatusOK, templates.Login(forms.LoginForm{}, nil))
}

// Login checks the credentials and starts a session.
func (h *AuthHandlers) Login(c echo.Context) error {
	var form forms.LoginForm
	if err := c.Bind(&form); err != nil {
		return echo.ErrBadRequest
	}
	if errs := forms.Validate(&form); errs != nil {
		return Render(c, http.StatusUnprocessableEntity, templates.Login(form, errs))
	}

	user, err := h.auth.Login(c.Request().Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		return Redirect(c, "/login", flash.Danger, "email_not_found")
	case errors.Is(err, auth.ErrPasswordIncorrect):
		return Redirect(c, "/login", flash.Danger, "password_incorrect")
	case err != nil:
		return err
	}

	if err := h.login(c, user); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return Redirect(c, "/", flash.Info, "logged_out")
}

func (h *AuthHandlers) login(c echo.Context, user *models.User) error {
	cookie, err := h.sessions.Create(user.ID, user.Email)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		return err
	}
	c.SetCookie(cookie)
	return nil
}
