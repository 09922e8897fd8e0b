package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-gonic/gin"
)

const recentActivityLimit = 10

// AccountHandler serves the settings page of the signed-in user. All routes
// sit behind middleware.RequireAuth.
type AccountHandler struct {
	accounts  *services.AccountService
	audit     *services.AuditService
	redirects *RedirectGuard
}

func NewAccountHandler(
	accounts *services.AccountService,
	audit *services.AuditService,
	redirects *RedirectGuard,
) *AccountHandler {
	return &AccountHandler{accounts: accounts, audit: audit, redirects: redirects}
}

func (h *AccountHandler) page(c *gin.Context, status int, props templates.AccountPageProps) {
	user := currentUser(c)
	props.BaseProps = baseProps(c)
	props.NavbarProps = navbarProps(c, "account")
	props.User = user
	if props.Email == "" {
		props.Email = user.Email
	}
	if props.FullName == "" {
		props.FullName = user.FullName
	}

	activity, err := h.audit.RecentActivity(c.Request.Context(), user.ID, recentActivityLimit)
	if err != nil {
		slog.WarnContext(c, "failed to load recent activity", "user_id", user.ID, "error", err)
	}
	props.Activity = activity

	templates.RenderTempl(c, status, templates.AccountPage(props))
}

// AccountPage renders the settings page. ?updated=email|profile shows a
// confirmation.
func (h *AccountHandler) AccountPage(c *gin.Context) {
	props := templates.AccountPageProps{
		Redirect: h.redirects.Target(c.Request.Context(), flowAccountReturn, c.Query("redirect")),
	}
	switch c.Query("updated") {
	case "email":
		props.Notice = "Your email address has been updated."
	case "profile":
		props.Notice = "Your profile has been saved."
	}
	h.page(c, http.StatusOK, props)
}

// UpdateEmail changes the email, then continues to the sanitised redirect.
func (h *AccountHandler) UpdateEmail(c *gin.Context) {
	var form forms.UpdateEmailForm
	errs := forms.Bind(c, &form)
	target := h.redirects.Target(c.Request.Context(), flowUpdateEmail, form.Redirect)

	render := func(status int) {
		h.page(c, status, templates.AccountPageProps{
			Redirect:    target,
			Email:       form.Email,
			EmailErrors: errs,
		})
	}

	if !errs.Valid() {
		render(http.StatusBadRequest)
		return
	}

	err := h.accounts.UpdateEmail(c.Request.Context(), currentUser(c), form.Email)
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		errs.Add("email", "This email address is already in use")
		render(http.StatusConflict)
		return
	case err != nil:
		slog.ErrorContext(c, "failed to update email", "error", err)
		errs.Add(forms.GeneralKey, "We could not update your email. Please try again.")
		render(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, target)
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var form forms.UpdateProfileForm
	errs := forms.Bind(c, &form)

	render := func(status int) {
		h.page(c, status, templates.AccountPageProps{
			FullName:      form.FullName,
			ProfileErrors: errs,
		})
	}

	if !errs.Valid() {
		render(http.StatusBadRequest)
		return
	}

	if err := h.accounts.UpdateProfile(c.Request.Context(), currentUser(c), form.FullName); err != nil {
		slog.ErrorContext(c, "failed to update profile", "error", err)
		errs.Add(forms.GeneralKey, "We could not save your profile. Please try again.")
		render(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, "/account?updated=profile")
}
