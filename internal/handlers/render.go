package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-authgate/eventgate/internal/middleware"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/templates"

	"github.com/gin-gonic/gin"
)

func baseProps(c *gin.Context) templates.BaseProps {
	return templates.BaseProps{CSRFToken: middleware.GetCSRFToken(c)}
}

func navbarProps(c *gin.Context, active string) templates.NavbarProps {
	return templates.NavbarProps{
		UserEmail:  models.GetUserEmailFromContext(c),
		ActiveLink: active,
	}
}

// currentUser returns the user loaded by middleware.LoadUser.
func currentUser(c *gin.Context) *models.User {
	return models.UserFromContext(c)
}

func renderError(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		BaseProps:   baseProps(c),
		NavbarProps: navbarProps(c, ""),
		Error:       http.StatusText(status),
		Message:     message,
	}))
}

func renderNotFound(c *gin.Context) {
	renderError(c, http.StatusNotFound, "The page you are looking for does not exist.")
}

func renderServerError(c *gin.Context) {
	renderError(c, http.StatusInternalServerError, "Something went wrong on our side. Please try again.")
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
