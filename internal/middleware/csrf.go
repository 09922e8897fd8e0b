package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-authgate/eventgate/internal/templates"
	"github.com/go-authgate/eventgate/internal/util"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	csrfTokenKey    = "csrf_token"
	csrfFormField   = "csrf_token"
	csrfHeaderField = "X-CSRF-Token"
	csrfTokenBytes  = 32
)

// CSRFMiddleware keeps a per-session token and rejects state-changing
// requests that do not echo it back in the form or the X-CSRF-Token header.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		token, _ := session.Get(csrfTokenKey).(string)
		if token == "" {
			var err error
			token, err = util.CryptoRandomToken(csrfTokenBytes)
			if err == nil {
				session.Set(csrfTokenKey, token)
				err = session.Save()
			}
			if err != nil {
				slog.ErrorContext(c, "failed to issue CSRF token", "error", err)
				csrfError(c, http.StatusInternalServerError,
					"We could not start a secure session. Please try again.")
				return
			}
		}

		// Make token available to templates
		c.Set(csrfTokenKey, token)

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			submitted := c.PostForm(csrfFormField)
			if submitted == "" {
				submitted = c.GetHeader(csrfHeaderField)
			}
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(token)) != 1 {
				csrfError(c, http.StatusForbidden,
					"CSRF token validation failed. Please refresh the page and try again.")
				return
			}
		}

		c.Next()
	}
}

func csrfError(c *gin.Context, status int, message string) {
	templates.RenderTempl(c, status, templates.ErrorPage(templates.ErrorPageProps{
		Error:   http.StatusText(status),
		Message: message,
	}))
	c.Abort()
}

// GetCSRFToken retrieves the CSRF token from the context
func GetCSRFToken(c *gin.Context) string {
	if token, exists := c.Get(csrfTokenKey); exists {
		if tokenStr, ok := token.(string); ok {
			return tokenStr
		}
	}
	return ""
}
