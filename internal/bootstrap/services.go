package bootstrap

import (
	"github.com/go-authgate/eventgate/internal/config"
	"github.com/go-authgate/eventgate/internal/core"
	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/token"
)

const resetTokenIssuer = "eventgate"

// serviceSet holds the business services shared by handlers and jobs
type serviceSet struct {
	audit    *services.AuditService
	accounts *services.AccountService
	events   *services.EventService
}

// initializeServices creates all business logic services
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	eventCache core.Cache[models.Event],
	mail core.Mailer,
	recorder core.Recorder,
) serviceSet {
	// Audit service first; the others record through it
	audit := services.NewAuditService(db, cfg.EnableAuditLogging, cfg.AuditLogBufferSize)

	accounts := services.NewAccountService(
		db,
		token.NewResetTokenProvider(cfg.JWTSecret, resetTokenIssuer, cfg.PasswordResetTTL),
		mail,
		audit,
		recorder,
		services.AccountConfig{
			BaseURL:  cfg.BaseURL,
			MailFrom: cfg.MailerFrom,
		},
	)
	events := services.NewEventService(db, eventCache, cfg.EventCacheTTL, audit, recorder)

	return serviceSet{audit: audit, accounts: accounts, events: events}
}
