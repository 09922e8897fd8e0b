package templates

import (
	"context"
	"net/url"
	"strconv"

	"github.com/go-authgate/eventgate/internal/forms"

	"github.com/a-h/templ"
)

func HomePage(p HomePageProps) templ.Component {
	return layout("Home", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Upcoming events</h1>\n")
		if len(p.Upcoming) > 0 {
			eventList(h, p.Upcoming)
			h.raw("<p>")
			link(h, "/events", "All events")
			h.raw("</p>\n")
			return
		}

		h.raw(`<p class="muted">Nothing scheduled yet.`)
		if p.UserEmail != "" {
			h.raw(" ")
			link(h, "/events/new", "Create the first event")
			h.raw(".")
		}
		h.raw("</p>\n")
	}))
}

func EventsPage(p EventsPageProps) templ.Component {
	return layout("Events", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Upcoming events</h1>\n", `<form method="get" action="/events">`, "\n")
		h.raw(`<label>Search <input type="search" name="q"`)
		h.attr("value", p.Search)
		h.raw("></label>\n", `<button type="submit">Search</button>`, "\n</form>\n")

		if len(p.Events) > 0 {
			eventList(h, p.Events)
		} else {
			h.raw(`<p class="muted">No upcoming events`)
			if p.Search != "" {
				h.raw(" match “")
				h.text(p.Search)
				h.raw("”")
			}
			h.raw(".</p>\n")
		}

		pg := p.Pagination
		if pg.TotalPages <= 1 {
			return
		}
		pageURL := func(n int) string {
			return "/events?page=" + strconv.Itoa(n) + "&q=" + url.QueryEscape(p.Search)
		}
		h.raw("<p>\n")
		if pg.HasPrev {
			link(h, pageURL(pg.PrevPage), "Previous")
			h.raw("\n")
		}
		h.text("Page " + strconv.Itoa(pg.CurrentPage) + " of " + strconv.Itoa(pg.TotalPages))
		if pg.HasNext {
			h.raw("\n")
			link(h, pageURL(pg.NextPage), "Next")
		}
		h.raw("\n</p>\n")
	}))
}

func EventPage(p EventPageProps) templ.Component {
	e := p.Event
	return layout(e.Title, p.NavbarProps, component(func(_ context.Context, h *writer) {
		if p.Created {
			paragraph(h, "notice", "Your event is live at this address.")
		}
		h.raw("<h1>")
		h.text(e.Title)
		h.raw("</h1>\n", `<p class="muted">`)
		h.text(datetime(e.StartsAt))
		if e.Location != "" {
			h.raw(" · ")
			h.text(e.Location)
		}
		if p.IsPast {
			h.raw(" · this event has already started")
		}
		h.raw("</p>\n")
		paragraph(h, "", e.Description)

		if e.Capacity > 0 {
			paragraph(h, "", "Capacity: "+strconv.Itoa(e.Capacity)+" people")
		} else {
			paragraph(h, "", "Open to everyone")
		}
		if p.IsOwner {
			paragraph(h, "muted", "You organise this event.")
		}
		h.raw("<p>")
		link(h, "/events", "All events")
		h.raw("</p>\n")
	}))
}

func NewEventPage(p NewEventPageProps) templ.Component {
	f := p.Form
	return layout("New event", p.NavbarProps, component(func(_ context.Context, h *writer) {
		h.raw("<h1>Create an event</h1>\n")
		fieldError(h, p.Errors, forms.GeneralKey)

		formStart(h, "/events", p.CSRFToken)
		for _, fld := range []field{
			{label: "Title", kind: "text", name: "title", value: f.Title,
				extra: `maxlength="120" required`},
			{label: "URL slug", hint: "(optional, derived from the title when empty)", kind: "text",
				name: "slug", value: f.Slug, extra: `maxlength="64" pattern="[a-z0-9]([a-z0-9-]*[a-z0-9])?"`},
			{label: "Starts at", hint: "(UTC)", kind: "datetime-local", name: "starts_at",
				value: f.StartsAt, extra: "required"},
			{label: "Location", kind: "text", name: "location", value: f.Location,
				extra: `maxlength="200"`},
			{label: "Capacity", hint: "(0 for unlimited)", kind: "number", name: "capacity",
				value: strconv.Itoa(f.Capacity), extra: `min="0" max="100000"`},
			{label: "Description", kind: "textarea", name: "description", value: f.Description,
				extra: `rows="6" maxlength="2000"`},
		} {
			fld.write(h, p.Errors)
		}
		submit(h, "Create event")
	}))
}
