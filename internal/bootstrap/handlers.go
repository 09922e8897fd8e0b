package bootstrap

import (
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/handlers"
	"github.com/go-authgate/eventgate/internal/store"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	home     *handlers.HomeHandler
	auth     *handlers.AuthHandler
	password *handlers.PasswordHandler
	account  *handlers.AccountHandler
	activity *handlers.ActivityHandler
	events   *handlers.EventHandler
	health   *handlers.HealthHandler
}

// initializeHandlers creates all HTTP handlers. Every flow that accepts a
// "return to" value shares one RedirectGuard.
func initializeHandlers(
	db *store.Store,
	s serviceSet,
	recorder core.Recorder,
	healthComponents map[string]handlers.HealthChecker,
) handlerSet {
	redirects := handlers.NewRedirectGuard(recorder, s.audit)

	return handlerSet{
		home:     handlers.NewHomeHandler(s.events),
		auth:     handlers.NewAuthHandler(s.accounts, redirects),
		password: handlers.NewPasswordHandler(s.accounts, redirects),
		account:  handlers.NewAccountHandler(s.accounts, s.audit, redirects),
		activity: handlers.NewActivityHandler(s.audit),
		events:   handlers.NewEventHandler(s.events),
		health:   handlers.NewHealthHandler(db, healthComponents),
	}
}
