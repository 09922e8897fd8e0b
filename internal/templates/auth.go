package templates

import (
	"context"

	"github.com/go-authgate/eventgate/internal/forms"

	"github.com/a-h/templ"
)

// Every auth form carries the already sanitised redirect in a hidden field
// and in the links between the pages, so the return path survives the trip.

func LoginPage(p LoginPageProps) templ.Component {
	return layout("Log in", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Log in</h1>\n")
		paragraph(h, "notice", p.Notice)
		paragraph(h, "error", p.Error)
		fieldError(h, p.Errors, forms.GeneralKey)

		formStart(h, "/login", p.CSRFToken)
		hiddenInput(h, "redirect", p.Redirect)
		field{label: "Email", kind: "email", name: "email", value: p.Email,
			extra: `autocomplete="username" required`}.write(h, p.Errors)
		field{label: "Password", kind: "password", name: "password",
			extra: `autocomplete="current-password" required`}.write(h, p.Errors)
		submit(h, "Log in")

		h.raw("<p>")
		link(h, withRedirect("/forgot-password", p.Redirect), "Forgot your password?")
		h.raw("</p>\n<p>No account yet? ")
		link(h, withRedirect("/signup", p.Redirect), "Sign up")
		h.raw("</p>\n")
	}))
}

func SignUpPage(p SignUpPageProps) templ.Component {
	return layout("Sign up", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Create an account</h1>\n")
		fieldError(h, p.Errors, forms.GeneralKey)

		formStart(h, "/signup", p.CSRFToken)
		hiddenInput(h, "redirect", p.Redirect)
		field{label: "Email", kind: "email", name: "email", value: p.Email,
			extra: `autocomplete="username" required`}.write(h, p.Errors)
		field{label: "Full name", hint: "(optional)", kind: "text", name: "full_name",
			value: p.FullName, extra: `autocomplete="name"`}.write(h, p.Errors)
		field{label: "Password", kind: "password", name: "password",
			extra: `autocomplete="new-password" minlength="8" required`}.write(h, p.Errors)
		submit(h, "Sign up")

		h.raw("<p>Already registered? ")
		link(h, withRedirect("/login", p.Redirect), "Log in")
		h.raw("</p>\n")
	}))
}

func ForgotPasswordPage(p ForgotPasswordPageProps) templ.Component {
	return layout("Forgot password", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Forgot your password?</h1>\n")
		if p.Sent {
			paragraph(h, "notice", "If an account exists for that address, we have sent a link "+
				"to reset its password. The link expires in one hour.")
			h.raw("<p>")
			link(h, withRedirect("/login", p.Redirect), "Back to log in")
			h.raw("</p>\n")
			return
		}

		fieldError(h, p.Errors, forms.GeneralKey)
		formStart(h, "/forgot-password", p.CSRFToken)
		hiddenInput(h, "redirect", p.Redirect)
		field{label: "Email", kind: "email", name: "email", value: p.Email,
			extra: `autocomplete="username" required`}.write(h, p.Errors)
		submit(h, "Send reset link")
	}))
}

// ResetPasswordPage hides the form when the link itself is unusable.
func ResetPasswordPage(p ResetPasswordPageProps) templ.Component {
	return layout("Reset password", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Choose a new password</h1>\n")
		if p.Error != "" {
			paragraph(h, "error", p.Error)
			h.raw("<p>")
			link(h, withRedirect("/forgot-password", p.Redirect), "Request a new link")
			h.raw("</p>\n")
			return
		}

		fieldError(h, p.Errors, forms.GeneralKey)
		fieldError(h, p.Errors, "token")
		formStart(h, "/reset-password", p.CSRFToken)
		hiddenInput(h, "token", p.Token)
		hiddenInput(h, "redirect", p.Redirect)
		field{label: "New password", kind: "password", name: "password",
			extra: `autocomplete="new-password" minlength="8" required`}.write(h, p.Errors)
		field{label: "Confirm password", kind: "password", name: "confirm_password",
			extra: `autocomplete="new-password" required`}.write(h, p.Errors)
		submit(h, "Set password")
	}))
}
