// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package appcontext_test

import (
	"net/http/httptest"
	"testing"

	"codeberg.org/oliverandrich/cafe-directory/internal/appcontext"
	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_GetUser(t *testing.T) {
	user := &models.User{ID: 123, Email: "ann@example.com"}
	ctx := &appcontext.Context{User: user}

	result := ctx.GetUser()

	assert.Equal(t, user, result)
	assert.Equal(t, int64(123), result.ID)
}

func TestContext_GetUser_Nil(t *testing.T) {
	ctx := &appcontext.Context{User: nil}

	assert.Nil(t, ctx.GetUser())
}

func TestContext_IsAuthenticated(t *testing.T) {
	assert.True(t, (&appcontext.Context{User: &models.User{ID: 1}}).IsAuthenticated())
	assert.False(t, (&appcontext.Context{}).IsAuthenticated())
}

func TestContext_IsAdmin(t *testing.T) {
	assert.True(t, (&appcontext.Context{User: &models.User{ID: 7, Role: models.RoleAdmin}}).IsAdmin())
	assert.False(t, (&appcontext.Context{User: &models.User{ID: 1, Role: models.RoleUser}}).IsAdmin())
	assert.False(t, (&appcontext.Context{}).IsAdmin())
}

func TestCurrentUser(t *testing.T) {
	e := echo.New()
	plain := e.NewContext(httptest.NewRequest("GET", "/", nil), httptest.NewRecorder())
	user := &models.User{ID: 5}

	assert.Nil(t, appcontext.CurrentUser(plain))
	assert.Nil(t, appcontext.CurrentUser(&appcontext.Context{Context: plain}))
	assert.Same(t, user, appcontext.CurrentUser(&appcontext.Context{Context: plain, User: user}))
}

func TestContext_Flashes(t *testing.T) {
	e := echo.New()
	plain := e.NewContext(httptest.NewRequest("POST", "/add", nil), httptest.NewRecorder())
	cc := &appcontext.Context{Context: plain, Flash: flash.NewStore([]byte("0123456789abcdef0123456789abcdef"), false)}

	cc.AddFlash(flash.Success, "cafe_added")
	messages := cc.PopFlashes()

	require.Len(t, messages, 1)
	assert.Equal(t, "cafe_added", messages[0].ID)
	assert.Empty(t, cc.PopFlashes())
}

func TestContext_FlashesDisabled(t *testing.T) {
	cc := &appcontext.Context{}

	cc.AddFlash(flash.Success, "cafe_added")

	assert.Nil(t, cc.PopFlashes())
}
