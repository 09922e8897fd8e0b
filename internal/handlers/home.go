package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-gonic/gin"
)

const homeUpcomingCount = 5

type HomeHandler struct {
	events *services.EventService
}

func NewHomeHandler(events *services.EventService) *HomeHandler {
	return &HomeHandler{events: events}
}

// Home lists the next few events. A failing listing still renders the page.
func (h *HomeHandler) Home(c *gin.Context) {
	upcoming, _, err := h.events.ListUpcoming(
		c.Request.Context(),
		store.NewPaginationParams(1, homeUpcomingCount, ""),
	)
	if err != nil {
		slog.ErrorContext(c, "failed to list upcoming events", "error", err)
	}

	templates.RenderTempl(c, http.StatusOK, templates.HomePage(templates.HomePageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, "home"),
		Upcoming:    upcoming,
	}))
}

// NotFound is the router's fallback for unknown routes.
func NotFound(c *gin.Context) {
	renderNotFound(c)
}
