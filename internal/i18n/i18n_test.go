// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package i18n_test

import (
	"context"
	"testing"

	"codeberg.org/oliverandrich/cafe-directory/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// noticeIDs are the flash notices handlers emit; each needs a translation.
var noticeIDs = []string{
	"already_signed_up",
	"email_not_found",
	"password_incorrect",
	"login_required",
	"logged_out",
	"welcome",
	"cafe_duplicate_name",
	"cafe_not_authorized",
	"cafe_deleted",
	"cafe_added",
	"search_no_matches",
}

func TestInit(t *testing.T) {
	require.NoError(t, i18n.Init())
	// repeated calls are fine
	require.NoError(t, i18n.Init())
}

func TestLanguages(t *testing.T) {
	require.NoError(t, i18n.Init())

	langs := i18n.Languages()

	require.Len(t, langs, 2)
	assert.Equal(t, language.English, langs[0])
	assert.Equal(t, language.German, langs[1])
}

func TestT(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "Cafe Directory", i18n.T(ctx, "app_name"))
}

func TestT_German(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "Café-Verzeichnis", i18n.T(ctx, "app_name"))
}

func TestT_AllNoticesTranslated(t *testing.T) {
	require.NoError(t, i18n.Init())

	for _, lang := range []language.Tag{language.English, language.German} {
		ctx := i18n.WithLocale(context.Background(), lang)
		for _, id := range noticeIDs {
			assert.NotEqual(t, id, i18n.T(ctx, id), "missing %s translation for %s", lang, id)
		}
	}
}

func TestT_UnknownKey(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	// Should return the key itself for unknown messages
	result := i18n.T(ctx, "unknown_key_that_does_not_exist")
	assert.Equal(t, "unknown_key_that_does_not_exist", result)
}

func TestT_NoLocaleContext(t *testing.T) {
	require.NoError(t, i18n.Init())

	// Without WithLocale, should fallback to English
	result := i18n.T(context.Background(), "app_name")
	assert.Equal(t, "Cafe Directory", result)
}

func TestTData(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	result := i18n.TData(ctx, "search_matched_location", map[string]any{"Query": "Soho"})
	assert.Equal(t, `Cafes located in "Soho"`, result)
}

func TestTPlural(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.English)

	assert.Equal(t, "1 cafe", i18n.TPlural(ctx, "cafe_count", 1))
	assert.Equal(t, "5 cafes", i18n.TPlural(ctx, "cafe_count", 5))
}

func TestMatchLanguage(t *testing.T) {
	require.NoError(t, i18n.Init())

	tests := []struct {
		expected       language.Tag
		acceptLanguage string
	}{
		{language.English, "en"},
		{language.English, "en-US"},
		{language.German, "de"},
		{language.German, "de-DE"},
		{language.German, "de-AT"},
		{language.English, "fr"}, // fallback to English
		{language.English, ""},   // empty defaults to English
		{language.German, "de, en;q=0.9"},
		{language.English, "en, de;q=0.9"},
	}

	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			tag := i18n.MatchLanguage(tt.acceptLanguage)
			// Compare base language (ignore region)
			assert.Equal(t, tt.expected.String()[:2], tag.String()[:2])
		})
	}
}

func TestWithLocale(t *testing.T) {
	require.NoError(t, i18n.Init())

	ctx := i18n.WithLocale(context.Background(), language.German)

	assert.Equal(t, "de", i18n.GetLocale(ctx))
}

func TestGetLocale_Default(t *testing.T) {
	// Without WithLocale, should return "en"
	assert.Equal(t, "en", i18n.GetLocale(context.Background()))
}
