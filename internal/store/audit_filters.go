package store

import (
	"time"

	"github.com/go-authgate/eventgate/internal/models"
)

// AuditLogFilters narrows ListAuditLogs. Zero values match everything.
type AuditLogFilters struct {
	EventType   models.EventType
	ActorUserID string
	Success     *bool
	Since       time.Time
}
