// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"codeberg.org/oliverandrich/cafe-directory/internal/config"
	"codeberg.org/oliverandrich/cafe-directory/internal/i18n"
	"codeberg.org/oliverandrich/cafe-directory/internal/models"
	"codeberg.org/oliverandrich/cafe-directory/internal/repository"
	"codeberg.org/oliverandrich/cafe-directory/internal/services/auth"
	"codeberg.org/oliverandrich/cafe-directory/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newTestServer(t *testing.T) (*httptest.Server, *repository.Repository) {
	t.Helper()
	require.NoError(t, i18n.Init())

	_, repo := testutil.NewTestDB(t)
	cfg := &config.Config{
		Server: config.ServerConfig{MaxBodySize: 1},
		Session: config.SessionConfig{
			CookieName: "_session",
			MaxAge:     3600,
			HashKey:    testHashKey,
		},
		Auth: config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
	authSvc := auth.NewService(repo, &cfg.Auth)
	sessMgr := newTestSessionManager(t)

	srv := httptest.NewServer(newEcho(cfg, repo, authSvc, sessMgr))
	t.Cleanup(srv.Close)
	return srv, repo
}

// browser keeps cookies between requests and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: srv.URL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(b.t, err)
	return resp, string(body)
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

// submit loads page for its CSRF token and posts form to action.
func (b *browser) submit(page, action string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	_, body := b.get(page)
	m := csrfInput.FindStringSubmatch(body)
	require.Len(b.t, m, 2, "no csrf token on %s", page)

	form.Set("csrf_token", m[1])
	return b.post(action, form)
}

func (b *browser) post(action string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, b.base+action, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) register(name, email string) {
	b.t.Helper()
	resp, _ := b.submit("/register", "/register", url.Values{
		"name":     {name},
		"email":    {email},
		"password": {testutil.TestPassword},
	})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get("Location"))
}

func (b *browser) login(email string) {
	b.t.Helper()
	resp, _ := b.submit("/login", "/login", url.Values{
		"email":    {email},
		"password": {testutil.TestPassword},
	})
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(b.t, "/", resp.Header.Get("Location"))
}

func (b *browser) logout() {
	b.t.Helper()
	resp, _ := b.get("/logout")
	require.Equal(b.t, http.StatusSeeOther, resp.StatusCode)
}

func TestEndToEnd_AdminDeletesMemberCafe(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()
	b := newBrowser(t, srv)

	// first account becomes the admin
	b.register("Root", "root@example.com")
	b.logout()

	b.register("Ann", "ann@example.com")
	b.logout()
	b.login("ann@example.com")

	resp, _ := b.submit("/add", "/add", url.Values{
		"name":       {"Cafe X"},
		"map_url":    {"https://maps.example.com/x"},
		"img_url":    {"https://img.example.com/x.jpg"},
		"location":   {"Soho"},
		"has_wifi":   {"true"},
		"seats":      {"10-20"},
		"has_toilet": {"true"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	ann, err := repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, ann.Role)
	cafes, err := repo.ListCafesByUser(ctx, ann.ID)
	require.NoError(t, err)
	require.Len(t, cafes, 1)
	cafeX := cafes[0]

	_, body := b.get("/")
	assert.Contains(t, body, "Cafe X")
	assert.Contains(t, body, "The cafe has been added.")
	b.logout()

	b.login("root@example.com")
	cafePath := "/cafe/" + itoa(cafeX.ID)
	resp, _ = b.submit(cafePath, "/delete/"+itoa(cafeX.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	_, body = b.get("/")
	assert.NotContains(t, body, "Cafe X")
	assert.Contains(t, body, "The cafe has been deleted.")

	_, err = repo.GetCafeByID(ctx, cafeX.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNonOwnerCannotDelete(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()
	owner := testutil.NewTestUser(t, repo, "ann@example.com", models.RoleUser)
	cafe := testutil.NewTestCafe(t, repo, owner.ID, "Blue Bottle", "Soho")
	testutil.NewTestUser(t, repo, "bob@example.com", models.RoleUser)

	b := newBrowser(t, srv)
	b.login("bob@example.com")

	resp, _ := b.submit("/", "/delete/"+itoa(cafe.ID), url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body := b.get("/")
	assert.Contains(t, body, "You are not authorized to delete this cafe.")

	_, err := repo.GetCafeByID(ctx, cafe.ID)
	assert.NoError(t, err)
}

func TestFlashShownOnce(t *testing.T) {
	srv, repo := newTestServer(t)
	testutil.NewTestUser(t, repo, "ann@example.com", models.RoleUser)
	b := newBrowser(t, srv)

	resp, _ := b.submit("/login", "/login", url.Values{
		"email":    {"ann@example.com"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := b.get("/login")
	assert.Contains(t, body, "Password incorrect, please try again.")

	_, body = b.get("/login")
	assert.NotContains(t, body, "Password incorrect, please try again.")
}

func TestSearchThroughStack(t *testing.T) {
	srv, repo := newTestServer(t)
	owner := testutil.NewTestUser(t, repo, "ann@example.com", models.RoleUser)
	testutil.NewTestCafe(t, repo, owner.ID, "Blue Bottle", "Soho")
	testutil.NewTestCafe(t, repo, owner.ID, "Soho Diner", "Downtown")
	b := newBrowser(t, srv)

	resp, body := b.submit("/", "/search", url.Values{"query": {"soho"}})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Soho Diner")
	assert.NotContains(t, body, "Blue Bottle")
}

func TestPostWithoutValidCSRFToken(t *testing.T) {
	srv, repo := newTestServer(t)
	b := newBrowser(t, srv)
	b.get("/register")

	resp, _ := b.post("/register", url.Values{
		"name":       {"Ann"},
		"email":      {"ann@example.com"},
		"password":   {testutil.TestPassword},
		"csrf_token": {"forged"},
	})

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	count, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRouteGuards(t *testing.T) {
	srv, repo := newTestServer(t)
	testutil.NewTestUser(t, repo, "ann@example.com", models.RoleUser)

	t.Run("anonymous add redirects to login", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, _ := b.get("/add")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))

		_, body := b.get("/login")
		assert.Contains(t, body, "Please log in to continue.")
	})

	t.Run("anonymous delete redirects to login", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, _ := b.get("/delete/1")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("non-admin gets forbidden page", func(t *testing.T) {
		b := newBrowser(t, srv)
		b.login("ann@example.com")
		resp, body := b.get("/admin/users")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Contains(t, body, "Forbidden")
		assert.Contains(t, body, "Signed in as ann")
	})

	t.Run("anonymous admin page is forbidden without redirect", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, _ := b.get("/admin/users")
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Location"))
	})

	t.Run("unknown cafe is not found", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, body := b.get("/cafe/999")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "Not found")
	})

	t.Run("unknown path is not found", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, _ := b.get("/nope")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("trailing slash redirects", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, _ := b.get("/login/")
		assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
	})

	t.Run("health", func(t *testing.T) {
		b := newBrowser(t, srv)
		resp, body := b.get("/health")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"ok"}`, body)
		assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
	})
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
