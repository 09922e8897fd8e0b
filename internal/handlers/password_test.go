package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLink returns the path and query of the link in the last mail.
func resetLink(t *testing.T, app *testApp) string {
	t.Helper()
	msgs := app.mail.messages()
	require.NotEmpty(t, msgs)
	for _, line := range strings.Split(msgs[len(msgs)-1].Text, "\n") {
		if strings.HasPrefix(line, testBaseURL) {
			return "/" + strings.TrimPrefix(line, testBaseURL)
		}
	}
	t.Fatal("no reset link in mail")
	return ""
}

func TestForgotPassword_NoEnumeration(t *testing.T) {
	app := newTestApp(t)
	app.browser(t).signUp("known@example.com", "correct-horse")

	known := app.browser(t).post("/forgot-password", "/forgot-password", url.Values{
		"email": {"known@example.com"},
	})
	unknown := app.browser(t).post("/forgot-password", "/forgot-password", url.Values{
		"email": {"unknown@example.com"},
	})

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Contains(t, known.Body.String(), "If an account exists for that address")
	assert.Contains(t, unknown.Body.String(), "If an account exists for that address")
	require.Len(t, app.mail.messages(), 1)
	assert.Equal(t, "known@example.com", app.mail.messages()[0].To)
}

func TestForgotPassword_InvalidEmail(t *testing.T) {
	app := newTestApp(t)
	w := app.browser(t).post("/forgot-password", "/forgot-password", url.Values{
		"email": {"nope"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Enter a valid email address")
	assert.Empty(t, app.mail.messages())
}

func TestPasswordResetFlow(t *testing.T) {
	app := newTestApp(t)
	app.browser(t).signUp("reset@example.com", "old-password")

	b := app.browser(t)
	w := b.post("/forgot-password?redirect=/account", "/forgot-password", url.Values{
		"email":    {"reset@example.com"},
		"redirect": {"/account"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	link := resetLink(t, app)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/reset-password", u.Path)
	assert.Equal(t, "/account", u.Query().Get("redirect"))

	page := b.get(link)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `action="/reset-password"`)
	assert.Equal(t, "/account", hiddenRedirect(page.Body.String()))

	mismatch := b.post(link, "/reset-password", url.Values{
		"token":            {u.Query().Get("token")},
		"password":         {"new-password"},
		"confirm_password": {"different"},
		"redirect":         {"/account"},
	})
	assert.Equal(t, http.StatusBadRequest, mismatch.Code)
	assert.Contains(t, mismatch.Body.String(), "Passwords do not match")

	done := b.post(link, "/reset-password", url.Values{
		"token":            {u.Query().Get("token")},
		"password":         {"new-password"},
		"confirm_password": {"new-password"},
		"redirect":         {"/account"},
	})
	require.Equal(t, http.StatusFound, done.Code)
	assert.Equal(t, "/login?reset=1&redirect=%2Faccount", done.Header().Get("Location"))

	login := b.get("/login?reset=1&redirect=%2Faccount")
	assert.Contains(t, login.Body.String(), "Your password has been changed")

	w = b.post("/login", "/login", url.Values{
		"email":    {"reset@example.com"},
		"password": {"new-password"},
		"redirect": {"/account"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	reused := app.browser(t).get(link)
	assert.Equal(t, http.StatusGone, reused.Code)
	assert.Contains(t, reused.Body.String(), "already been used")
}

func TestResetPassword_RedirectDefaultsToLogin(t *testing.T) {
	app := newTestApp(t)
	app.browser(t).signUp("plain@example.com", "old-password")

	b := app.browser(t)
	b.post("/forgot-password", "/forgot-password", url.Values{"email": {"plain@example.com"}})
	link := resetLink(t, app)
	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("redirect"))

	w := b.post(link, "/reset-password", url.Values{
		"token":            {u.Query().Get("token")},
		"password":         {"new-password"},
		"confirm_password": {"new-password"},
		"redirect":         {"//evil.example.com"},
	})
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?reset=1", w.Header().Get("Location"))
}

func TestForgotPassword_RedirectFromForm(t *testing.T) {
	app := newTestApp(t)
	app.browser(t).signUp("form@example.com", "old-password")
	app.browser(t).signUp("space@example.com", "old-password")

	w := app.browser(t).post("/forgot-password", "/forgot-password", url.Values{
		"email":    {"form@example.com"},
		"redirect": {"/events/go-meetup"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	u, err := url.Parse(resetLink(t, app))
	require.NoError(t, err)
	assert.Equal(t, "/events/go-meetup", u.Query().Get("redirect"))

	w = app.browser(t).post("/forgot-password", "/forgot-password", url.Values{
		"email":    {"space@example.com"},
		"redirect": {" /events/go-meetup"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	u, err = url.Parse(resetLink(t, app))
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("redirect"))
}

func TestResetPassword_PasswordOverBcryptLimit(t *testing.T) {
	app := newTestApp(t)
	app.browser(t).signUp("euro@example.com", "old-password")

	b := app.browser(t)
	b.post("/forgot-password", "/forgot-password", url.Values{"email": {"euro@example.com"}})
	link := resetLink(t, app)
	u, err := url.Parse(link)
	require.NoError(t, err)

	long := strings.Repeat("€", 40)
	w := b.post(link, "/reset-password", url.Values{
		"token":            {u.Query().Get("token")},
		"password":         {long},
		"confirm_password": {long},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Password is too long")

	page := b.get(link)
	assert.Equal(t, http.StatusOK, page.Code, "the link stays usable")
}

func TestResetPasswordPage_BadToken(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/reset-password", "/reset-password?token=not-a-jwt"} {
		w := app.browser(t).get(target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.Contains(t, w.Body.String(), "This password reset link is invalid.", target)
		assert.NotContains(t, w.Body.String(), `action="/reset-password"`, target)
	}
}
