package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-authgate/eventgate/internal/forms"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-gonic/gin"
)

const eventsPageSize = 10

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListEvents shows upcoming events, optionally filtered by ?q= on the title.
func (h *EventHandler) ListEvents(c *gin.Context) {
	search := c.Query("q")
	params := store.NewPaginationParams(queryInt(c, "page", 1), eventsPageSize, search)

	events, pagination, err := h.events.ListUpcoming(c.Request.Context(), params)
	if err != nil {
		slog.ErrorContext(c, "failed to list events", "error", err)
		renderServerError(c)
		return
	}

	templates.RenderTempl(c, http.StatusOK, templates.EventsPage(templates.EventsPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, "events"),
		Events:      events,
		Pagination:  pagination,
		Search:      params.Search,
	}))
}

func (h *EventHandler) NewEventPage(c *gin.Context) {
	templates.RenderTempl(c, http.StatusOK, templates.NewEventPage(templates.NewEventPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, "new-event"),
		Form: forms.CreateEventForm{
			StartsAt: time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour).Format(forms.StartsAtLayout),
		},
	}))
}

// CreateEvent stores the event and redirects to its page.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var form forms.CreateEventForm
	errs := forms.Bind(c, &form)

	render := func(status int) {
		templates.RenderTempl(c, status, templates.NewEventPage(templates.NewEventPageProps{
			BaseProps:   baseProps(c),
			NavbarProps: navbarProps(c, "new-event"),
			Form:        form,
			Errors:      errs,
		}))
	}

	if !errs.Valid() {
		render(http.StatusBadRequest)
		return
	}

	event, err := h.events.Create(c.Request.Context(), currentUser(c), form)
	switch {
	case errors.Is(err, services.ErrSlugTaken):
		errs.Add("slug", "This URL slug is already in use")
		render(http.StatusConflict)
		return
	case errors.Is(err, services.ErrInvalidStart):
		errs.Add("starts_at", "Enter a valid date and time")
		render(http.StatusBadRequest)
		return
	case err != nil:
		slog.ErrorContext(c, "failed to create event", "error", err)
		errs.Add(forms.GeneralKey, "We could not create the event. Please try again.")
		render(http.StatusInternalServerError)
		return
	}

	c.Redirect(http.StatusFound, event.Path()+"?created=1")
}

// ShowEvent renders /events/:slug. Unknown slugs and slugs that could never
// have been created both get the 404 page.
func (h *EventHandler) ShowEvent(c *gin.Context) {
	event, err := h.events.GetBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, services.ErrEventNotFound) {
		renderNotFound(c)
		return
	}
	if err != nil {
		slog.ErrorContext(c, "failed to load event", "slug", c.Param("slug"), "error", err)
		renderServerError(c)
		return
	}

	user := currentUser(c)
	templates.RenderTempl(c, http.StatusOK, templates.EventPage(templates.EventPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, "events"),
		Event:       event,
		IsPast:      event.IsPast(time.Now()),
		IsOwner:     user != nil && user.ID == event.OwnerID,
		Created:     c.Query("created") == "1",
	}))
}
