package templates

import (
	"context"

	"github.com/go-authgate/eventgate/internal/forms"

	"github.com/a-h/templ"
)

// AccountPage shows the email and profile forms side by side; each keeps its
// own errors so a failed email change does not mark the profile form.
func AccountPage(p AccountPageProps) templ.Component {
	return layout("Account", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Account settings</h1>\n")
		paragraph(h, "notice", p.Notice)

		h.raw("<h2>Email</h2>\n")
		fieldError(h, p.EmailErrors, forms.GeneralKey)
		formStart(h, "/account/email", p.CSRFToken)
		hiddenInput(h, "redirect", p.Redirect)
		field{label: "Email", kind: "email", name: "email", value: p.Email,
			extra: "required"}.write(h, p.EmailErrors)
		submit(h, "Update email")

		h.raw("<h2>Profile</h2>\n")
		fieldError(h, p.ProfileErrors, forms.GeneralKey)
		formStart(h, "/account/profile", p.CSRFToken)
		field{label: "Full name", kind: "text", name: "full_name", value: p.FullName,
			extra: "required"}.write(h, p.ProfileErrors)
		submit(h, "Save profile")

		h.raw("<h2>Recent activity</h2>\n")
		if len(p.Activity) == 0 {
			paragraph(h, "muted", "No recorded activity.")
			return
		}
		h.raw("<ul>\n")
		for _, entry := range p.Activity {
			h.raw("<li>")
			h.text(entry.Action)
			h.raw(` <span class="muted">`)
			h.text(datetime(entry.EventTime))
			if entry.ActorIP != "" {
				h.text(" from " + entry.ActorIP)
			}
			h.raw("</span></li>\n")
		}
		h.raw("</ul>\n")
	}))
}
