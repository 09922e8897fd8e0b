package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/middleware"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const invalidCredentials = "Invalid email or password"

type AuthHandler struct {
	accounts  *services.AccountService
	redirects *RedirectGuard
}

func NewAuthHandler(accounts *services.AccountService, redirects *RedirectGuard) *AuthHandler {
	return &AuthHandler{accounts: accounts, redirects: redirects}
}

// startSession replaces whatever the session held with a fresh login.
func startSession(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserID, user.ID)
	now := time.Now().Unix()
	session.Set(middleware.SessionLoginTime, now)
	session.Set(middleware.SessionLastActivity, now)
	return session.Save()
}

// LoginPage renders the login form, or sends a signed-in user straight on.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	target := h.redirects.Target(c.Request.Context(), flowLogin, c.Query("redirect"))
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, target)
		return
	}

	props := templates.LoginPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Redirect:    target,
	}
	if c.Query("reset") == "1" {
		props.Notice = "Your password has been changed. Log in with the new one."
	}
	templates.RenderTempl(c, http.StatusOK, templates.LoginPage(props))
}

// Login handles the login form submission
func (h *AuthHandler) Login(c *gin.Context) {
	var form forms.LoginForm
	errs := forms.Bind(c, &form)
	target := h.redirects.Target(c.Request.Context(), flowLogin, form.Redirect)

	render := func(status int, message string) {
		templates.RenderTempl(c, status, templates.LoginPage(templates.LoginPageProps{
			BaseProps:   baseProps(c),
			NavbarProps: navbarProps(c, ""),
			Email:       form.Email,
			Redirect:    target,
			Error:       message,
			Errors:      errs,
		}))
	}

	if !errs.Valid() {
		render(http.StatusBadRequest, "")
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		render(http.StatusUnauthorized, invalidCredentials)
		return
	}
	if err != nil {
		slog.ErrorContext(c, "login failed", "error", err)
		render(http.StatusInternalServerError, "We could not log you in right now. Please try again.")
		return
	}

	if err := startSession(c, user); err != nil {
		slog.ErrorContext(c, "failed to save session", "error", err)
		render(http.StatusInternalServerError, "Failed to create session")
		return
	}

	c.Redirect(http.StatusFound, target)
}

func (h *AuthHandler) SignUpPage(c *gin.Context) {
	target := h.redirects.Target(c.Request.Context(), flowSignUp, c.Query("redirect"))
	if currentUser(c) != nil {
		c.Redirect(http.StatusFound, target)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.SignUpPage(templates.SignUpPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Redirect:    target,
	}))
}

// SignUp creates the account and logs the new user in.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form forms.SignUpForm
	errs := forms.Bind(c, &form)
	target := h.redirects.Target(c.Request.Context(), flowSignUp, form.Redirect)

	render := func(status int) {
		templates.RenderTempl(c, status, templates.SignUpPage(templates.SignUpPageProps{
			BaseProps:   baseProps(c),
			NavbarProps: navbarProps(c, ""),
			Email:       form.Email,
			FullName:    form.FullName,
			Redirect:    target,
			Errors:      errs,
		}))
	}

	if !errs.Valid() {
		render(http.StatusBadRequest)
		return
	}

	user, err := h.accounts.SignUp(c.Request.Context(), form.Email, form.Password, form.FullName)
	if errors.Is(err, services.ErrEmailTaken) {
		errs.Add("email", "An account with this email already exists")
		render(http.StatusConflict)
		return
	}
	if err != nil {
		slog.ErrorContext(c, "sign up failed", "error", err)
		errs.Add(forms.GeneralKey, "We could not create your account. Please try again.")
		render(http.StatusInternalServerError)
		return
	}

	if err := startSession(c, user); err != nil {
		slog.ErrorContext(c, "failed to save session", "error", err)
		c.Redirect(http.StatusFound, middleware.LoginURL(target))
		return
	}

	c.Redirect(http.StatusFound, target)
}

// Logout ends the session and goes back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)

	if user := currentUser(c); user != nil {
		var age time.Duration
		if loginAt, ok := session.Get(middleware.SessionLoginTime).(int64); ok {
			age = time.Since(time.Unix(loginAt, 0))
		}
		h.accounts.RecordLogout(c.Request.Context(), user.ID, age)
	}

	session.Clear()
	if err := session.Save(); err != nil {
		slog.WarnContext(c, "failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}
