package templates

import (
	"context"
	"net/url"

	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/models"

	"github.com/a-h/templ"
)

const stylesheet = `<style>
    body { font-family: system-ui, sans-serif; margin: 0; color: #1f2933; background: #f5f7fa; }
    nav { display: flex; gap: 1rem; align-items: center; padding: .75rem 1.5rem; background: #243b53; }
    nav a { color: #d9e2ec; text-decoration: none; }
    nav a.active { color: #fff; font-weight: 600; }
    nav .spacer { flex: 1; }
    main { max-width: 44rem; margin: 2rem auto; padding: 0 1rem; }
    form { display: grid; gap: .75rem; margin-bottom: 1.5rem; }
    label { display: grid; gap: .25rem; }
    input, textarea { padding: .5rem; border: 1px solid #bcccdc; border-radius: 4px; font: inherit; }
    button { justify-self: start; padding: .5rem 1rem; border: 0; border-radius: 4px; background: #334e68; color: #fff; }
    .error { color: #b91c1c; }
    .notice { color: #166534; }
    .field-error { color: #b91c1c; font-size: .875rem; }
    .muted { color: #627d98; }
  </style>`

// layout wraps content in the page shell shared by every page.
func layout(title string, nav NavbarProps, content templ.Component) templ.Component {
	return component(func(ctx context.Context, h *writer) {
		h.raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n",
			"  <meta charset=\"utf-8\">\n",
			"  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n",
			"  <title>")
		h.text(title)
		h.raw(" · EventGate</title>\n  ", stylesheet, "\n</head>\n<body>\n")
		h.render(ctx, navbar(nav))
		h.raw("<main>\n")
		h.render(ctx, content)
		h.raw("</main>\n</body>\n</html>\n")
	})
}

func navbar(p NavbarProps) templ.Component {
	return component(func(_ context.Context, h *writer) {
		h.raw("<nav>\n")
		navLink(h, "/", "EventGate", p.ActiveLink == "home")
		navLink(h, "/events", "Events", p.ActiveLink == "events")
		if p.UserEmail != "" {
			navLink(h, "/events/new", "New event", p.ActiveLink == "new-event")
			h.raw(`<span class="spacer"></span>`, "\n")
			navLink(h, "/account", p.UserEmail, p.ActiveLink == "account")
			navLink(h, "/logout", "Log out", false)
		} else {
			h.raw(`<span class="spacer"></span>`, "\n")
			navLink(h, "/login", "Log in", false)
			navLink(h, "/signup", "Sign up", false)
		}
		h.raw("</nav>\n")
	})
}

func navLink(h *writer, href, label string, active bool) {
	h.raw("<a")
	h.href(href)
	if active {
		h.raw(` class="active"`)
	}
	h.raw(">")
	h.text(label)
	h.raw("</a>\n")
}

// link writes <a href="href">label</a>.
func link(h *writer, href, label string) {
	h.raw("<a")
	h.href(href)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// withRedirect appends the sanitised return path to a page URL.
func withRedirect(path, redirect string) string {
	return path + "?redirect=" + url.QueryEscape(redirect)
}

func paragraph(h *writer, class, text string) {
	if text == "" {
		return
	}
	h.raw("<p")
	if class != "" {
		h.attr("class", class)
	}
	h.raw(">")
	h.text(text)
	h.raw("</p>\n")
}

func fieldError(h *writer, errs forms.Errors, field string) {
	if msg := errs.Get(field); msg != "" {
		h.raw(`<span class="field-error">`)
		h.text(msg)
		h.raw("</span>\n")
	}
}

func hiddenInput(h *writer, name, value string) {
	h.raw(`<input type="hidden"`)
	h.attr("name", name)
	h.attr("value", value)
	h.raw(">\n")
}

// formStart opens a POST form carrying the CSRF token.
func formStart(h *writer, action, csrfToken string) {
	h.raw(`<form method="post"`)
	h.attr("action", action)
	h.raw(">\n")
	hiddenInput(h, "csrf_token", csrfToken)
}

// field is one labelled input followed by its validation message. extra holds
// trusted attributes such as `required`.
type field struct {
	label, hint string
	kind, name  string
	value       string
	extra       string
}

func (f field) write(h *writer, errs forms.Errors) {
	h.raw("<label>")
	h.text(f.label)
	if f.hint != "" {
		h.raw(` <span class="muted">`)
		h.text(f.hint)
		h.raw("</span>")
	}
	h.raw("\n")
	if f.kind == "textarea" {
		h.raw("<textarea")
		h.attr("name", f.name)
		h.raw(" ", f.extra, ">")
		h.text(f.value)
		h.raw("</textarea>\n")
	} else {
		h.raw("<input")
		h.attr("type", f.kind)
		h.attr("name", f.name)
		if f.kind != "password" {
			h.attr("value", f.value)
		}
		if f.extra != "" {
			h.raw(" ", f.extra)
		}
		h.raw(">\n")
	}
	fieldError(h, errs, f.name)
	h.raw("</label>\n")
}

func submit(h *writer, label string) {
	h.raw(`<button type="submit">`)
	h.text(label)
	h.raw("</button>\n</form>\n")
}

// eventList writes upcoming events as links with their time and place.
func eventList(h *writer, events []models.Event) {
	h.raw("<ul>\n")
	for i := range events {
		e := &events[i]
		h.raw("<li>")
		link(h, e.Path(), e.Title)
		h.raw(` <span class="muted">`)
		h.text(datetime(e.StartsAt))
		if e.Location != "" {
			h.raw(" · ")
			h.text(e.Location)
		}
		h.raw("</span></li>\n")
	}
	h.raw("</ul>\n")
}

func ErrorPage(p ErrorPageProps) templ.Component {
	return layout(p.Error, p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>")
		h.text(p.Error)
		h.raw("</h1>\n")
		paragraph(h, "", p.Message)
		h.raw("<p>")
		link(h, "/", "Back to the home page")
		h.raw("</p>\n")
	}))
}
