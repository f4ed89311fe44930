// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the HTML pages.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"path"

	"codeberg.org/oliverandrich/cafe-directory/internal/flash"
	"codeberg.org/oliverandrich/cafe-directory/internal/forms"
	"codeberg.org/oliverandrich/cafe-directory/internal/i18n"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/directory"
	"github.com/a-h/templ"
)

//go:embed views/*.html
var viewsFS embed.FS

// shared by every page
var baseViews = []string{"views/layout.html", "views/partials.html"}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	files, err := fs.Glob(viewsFS, "views/*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template)
	for _, file := range files {
		if file == baseViews[0] || file == baseViews[1] {
			continue
		}
		name := path.Base(file)
		// page last so its blocks override the layout defaults
		patterns := append(append([]string{}, baseViews...), file)
		parsed[name] = template.Must(template.New(name).ParseFS(viewsFS, patterns...))
	}
	return parsed
}

// view is the value every page template executes against.
type view struct {
	ctx     context.Context
	Flashes []flash.Message
	Data    any
}

func (v view) T(messageID string) string {
	return i18n.T(v.ctx, messageID)
}

// TData translates with key/value pairs, e.g. {{.TData "id" "Query" .Data.Query}}.
func (v view) TData(messageID string, pairs ...any) string {
	data := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		data[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return i18n.TData(v.ctx, messageID, data)
}

func (v view) TPlural(messageID string, count int) string {
	return i18n.TPlural(v.ctx, messageID, count)
}

func (v view) YesNo(b bool) string {
	if b {
		return v.T("yes")
	}
	return v.T("no")
}

// With returns the view with Data replaced, for passing to partials.
func (v view) With(data any) view {
	v.Data = data
	return v
}

func (v view) CSRFToken() string { return CSRFToken(v.ctx) }
func (v view) Locale() string { return Locale(v.ctx) }
func (v view) User() *models.User { return GetUser(v.ctx) }
func (v view) IsAdmin() bool { return GetUser(v.ctx).IsAdmin() }
func (v view) IsAuthenticated() bool { return GetUser(v.ctx) != nil }

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return tmpl.ExecuteTemplate(w, "layout", view{ctx: ctx, Flashes: Flashes(ctx), Data: data})
	})
}

// FormPage is the data of a page showing a form.
type FormPage[F any] struct {
	Form   F
	Errors forms.Errors
}

type CafePage struct {
	Cafe      *models.Cafe
	CanDelete bool
}

type SearchPage struct {
	Query  string
	Result directory.SearchResult
}

type ErrorPage struct {
	Status  int
	TitleID string
	TextID  string
}

// Index lists cafes.
func Index(cafes []models.Cafe) templ.Component {
	return page("index.html", cafes)
}

func Register(form forms.RegisterForm, errs forms.Errors) templ.Component {
	// never echo the password back
	form.Password = ""
	return page("register.html", FormPage[forms.RegisterForm]{Form: form, Errors: errs})
}

func Login(form forms.LoginForm, errs forms.Errors) templ.Component {
	form.Password = ""
	return page("login.html", FormPage[forms.LoginForm]{Form: form, Errors: errs})
}

func AddCafe(form forms.CafeForm, errs forms.Errors) templ.Component {
	return page("add.html", FormPage[forms.CafeForm]{Form: form, Errors: errs})
}

func Cafe(cafe *models.Cafe, canDelete bool) templ.Component {
	return page("cafe.html", CafePage{Cafe: cafe, CanDelete: canDelete})
}

func Search(query string, result directory.SearchResult) templ.Component {
	return page("search.html", SearchPage{Query: query, Result: result})
}

func AdminUsers(users []models.User) templ.Component {
	return page("admin_users.html", users)
}

// Error renders the error page for an HTTP status.
func Error(status int) templ.Component {
	data := ErrorPage{Status: status, TitleID: "error_internal_title", TextID: "error_internal_text"}
	switch status {
	case http.StatusNotFound:
		data.TitleID, data.TextID = "error_not_found_title", "error_not_found_text"
	case http.StatusForbidden:
		data.TitleID, data.TextID = "error_forbidden_title", "error_forbidden_text"
	}
	return page("error.html", data)
}
