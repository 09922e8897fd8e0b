package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/redirect"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/templates"
	"github.com/go-authgate/eventgate/internal/token"

	"github.com/gin-gonic/gin"
)

// PasswordHandler serves the forgot-password and reset-password flows.
type PasswordHandler struct {
	accounts  *services.AccountService
	redirects *RedirectGuard
}

func NewPasswordHandler(accounts *services.AccountService, redirects *RedirectGuard) *PasswordHandler {
	return &PasswordHandler{accounts: accounts, redirects: redirects}
}

func (h *PasswordHandler) ForgotPasswordPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.ForgotPasswordPage(templates.ForgotPasswordPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Redirect:    h.redirects.Target(c.Request.Context(), flowForgot, c.Query("redirect")),
	}))
}

// ForgotPassword answers every well-formed request with the same page, so the
// response does not reveal whether the email has an account.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var form forms.ForgotPasswordForm
	errs := forms.Bind(c, &form)
	target := h.redirects.Target(c.Request.Context(), flowForgot, form.Redirect)

	props := templates.ForgotPasswordPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Email:       form.Email,
		Redirect:    target,
		Errors:      errs,
	}
	if !errs.Valid() {
		templates.RenderTempl(c, http.StatusBadRequest, templates.ForgotPasswordPage(props))
		return
	}

	if err := h.accounts.RequestPasswordReset(c.Request.Context(), form.Email, target); err != nil {
		slog.ErrorContext(c, "password reset request failed", "error", err)
	}

	props.Sent = true
	props.Email = ""
	templates.RenderTempl(c, http.StatusOK, templates.ForgotPasswordPage(props))
}

// ResetPasswordPage checks the token from the mailed link before showing the
// form, so a dead link fails before the user types a new password.
func (h *PasswordHandler) ResetPasswordPage(c *gin.Context) {
	tokenString := c.Query("token")
	props := templates.ResetPasswordPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Token:       tokenString,
		Redirect:    h.redirects.Target(c.Request.Context(), flowReset, c.Query("redirect")),
	}

	if _, err := h.accounts.CheckResetToken(c.Request.Context(), tokenString); err != nil {
		props.Token = ""
		props.Error = resetTokenMessage(c, err)
		templates.RenderTempl(c, resetTokenStatus(err), templates.ResetPasswordPage(props))
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.ResetPasswordPage(props))
}

func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var form forms.ResetPasswordForm
	errs := forms.Bind(c, &form)
	target := h.redirects.Target(c.Request.Context(), flowReset, form.Redirect)

	props := templates.ResetPasswordPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Token:       form.Token,
		Redirect:    target,
		Errors:      errs,
	}
	if !errs.Valid() {
		if _, missing := errs["token"]; missing {
			props.Error = "This password reset link is invalid."
		}
		templates.RenderTempl(c, http.StatusBadRequest, templates.ResetPasswordPage(props))
		return
	}

	if _, err := h.accounts.ResetPassword(c.Request.Context(), form.Token, form.Password); err != nil {
		props.Token = ""
		props.Error = resetTokenMessage(c, err)
		templates.RenderTempl(c, resetTokenStatus(err), templates.ResetPasswordPage(props))
		return
	}

	c.Redirect(http.StatusFound, afterResetURL(target))
}

// afterResetURL sends the user to log in with the new password, then on to
// target when there is somewhere to go back to.
func afterResetURL(target string) string {
	if target == redirect.Default {
		return "/login?reset=1"
	}
	return "/login?reset=1&redirect=" + url.QueryEscape(target)
}

func resetTokenStatus(err error) int {
	switch {
	case errors.Is(err, token.ErrExpiredToken), errors.Is(err, token.ErrTokenUsed):
		return http.StatusGone
	case errors.Is(err, token.ErrInvalidToken):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func resetTokenMessage(c *gin.Context, err error) string {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return "This password reset link has expired."
	case errors.Is(err, token.ErrTokenUsed):
		return "This password reset link has already been used."
	case errors.Is(err, token.ErrInvalidToken):
		return "This password reset link is invalid."
	default:
		slog.ErrorContext(c, "password reset failed", "error", err)
		return "We could not reset your password right now. Please try again."
	}
}
