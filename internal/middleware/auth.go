package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/redirect"
	"github.com/go-authgate/eventgate/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Session keys
const (
	SessionUserID       = "user_id"
	SessionLoginTime    = "login_time"    // unix seconds
	SessionLastActivity = "last_activity" // unix seconds
)

// LoginURL returns the login page URL that brings the user back to target
// afterwards. target is sanitised first.
func LoginURL(target string) string {
	return "/login?redirect=" + url.QueryEscape(redirect.Sanitize(target))
}

// LoadUser resolves the session's user and stores it under the "user" key and
// in the request context. Stale sessions (deleted users) are cleared.
func LoadUser(accounts *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get(SessionUserID).(string)
		if !ok || userID == "" {
			c.Next()
			return
		}

		user, err := accounts.GetUser(c.Request.Context(), userID)
		if err != nil {
			if !errors.Is(err, services.ErrUserNotFound) {
				slog.ErrorContext(c, "failed to load session user", "user_id", userID, "error", err)
			}
			session.Clear()
			_ = session.Save()
			c.Next()
			return
		}

		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Request = c.Request.WithContext(models.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// RequireAuth redirects anonymous users to the login page, carrying the
// current request URI as the return path. Must run after LoadUser.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if models.UserFromContext(c) == nil {
			c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// SessionIdleTimeout ends sessions with no request for longer than timeout.
// A zero timeout disables the check.
func SessionIdleTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		session := sessions.Default(c)
		if session.Get(SessionUserID) == nil {
			c.Next()
			return
		}

		now := time.Now()
		if last, ok := session.Get(SessionLastActivity).(int64); ok {
			if now.Sub(time.Unix(last, 0)) > timeout {
				session.Clear()
				_ = session.Save()
				c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
				c.Abort()
				return
			}
		}

		session.Set(SessionLastActivity, now.Unix())
		if err := session.Save(); err != nil {
			slog.WarnContext(c, "failed to save session activity", "error", err)
		}
		c.Next()
	}
}
