package services

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/util"

	"github.com/google/uuid"
)

const (
	auditBatchSize     = 100
	auditFlushInterval = time.Second
	auditWriteTimeout  = 5 * time.Second
)

// AuditLogEntry represents the data needed to create an audit log entry
type AuditLogEntry struct {
	EventType     models.EventType
	Severity      models.EventSeverity
	ActorUserID   string
	ActorEmail    string
	ActorIP       string
	ResourceType  models.ResourceType
	ResourceID    string
	ResourceName  string
	Action        string
	Details       models.AuditDetails
	Success       bool
	ErrorMessage  string
	UserAgent     string
	RequestPath   string
	RequestMethod string
}

// AuditService writes audit entries in the background so Log never blocks a
// request. The worker goroutine owns the pending batch and inserts it when it
// reaches auditBatchSize entries or every auditFlushInterval.
type AuditService struct {
	store   *store.Store
	enabled bool

	queue   chan *models.AuditLog
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func NewAuditService(s *store.Store, enabled bool, bufferSize int) *AuditService {
	if bufferSize <= 0 {
		bufferSize = 1000
	}

	svc := &AuditService{
		store:   s,
		enabled: enabled,
		queue:   make(chan *models.AuditLog, bufferSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	if !enabled {
		slog.Info("audit service is disabled")
		return svc
	}

	go svc.run()
	slog.Info("audit service started", "buffer_size", bufferSize)
	return svc
}

func (s *AuditService) run() {
	defer close(s.stopped)

	batch := make([]*models.AuditLog, 0, auditBatchSize)
	flush := func() {
		if len(batch) > 0 {
			s.write(batch)
			batch = batch[:0]
		}
	}
	add := func(entry *models.AuditLog) {
		batch = append(batch, entry)
		if len(batch) >= auditBatchSize {
			flush()
		}
	}

	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	for {
		select {
		case entry := <-s.queue:
			add(entry)
		case <-ticker.C:
			flush()
		case <-s.stop:
			for {
				select {
				case entry := <-s.queue:
					add(entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

func (s *AuditService) write(batch []*models.AuditLog) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := s.store.CreateAuditLogBatch(ctx, batch); err != nil {
		slog.Error("failed to write audit log batch", "count", len(batch), "error", err)
	}
}

// Log queues entry. When the queue is full the entry is dropped with a
// warning.
func (s *AuditService) Log(ctx context.Context, entry AuditLogEntry) {
	if !s.enabled {
		return
	}

	select {
	case s.queue <- s.build(ctx, entry):
	default:
		slog.WarnContext(ctx, "audit log buffer full, dropping event",
			"event_type", entry.EventType,
			"action", entry.Action,
		)
	}
}

// LogSync writes the entry before returning.
func (s *AuditService) LogSync(ctx context.Context, entry AuditLogEntry) error {
	if !s.enabled {
		return nil
	}
	return s.store.CreateAuditLog(ctx, s.build(ctx, entry))
}

// build completes entry from the request info and signed-in user carried by
// ctx, then masks secrets in Details.
func (s *AuditService) build(ctx context.Context, entry AuditLogEntry) *models.AuditLog {
	info := util.RequestInfoFromContext(ctx)
	entry.ActorIP = cmp.Or(entry.ActorIP, info.IP)
	entry.UserAgent = cmp.Or(entry.UserAgent, info.UserAgent)
	entry.RequestPath = cmp.Or(entry.RequestPath, info.Path)
	entry.RequestMethod = cmp.Or(entry.RequestMethod, info.Method)
	entry.Severity = cmp.Or(entry.Severity, models.SeverityInfo)

	if user := models.UserFromContext(ctx); user != nil {
		entry.ActorUserID = cmp.Or(entry.ActorUserID, user.ID)
		entry.ActorEmail = cmp.Or(entry.ActorEmail, user.Email)
	}

	now := time.Now()
	return &models.AuditLog{
		ID:            uuid.New().String(),
		EventType:     entry.EventType,
		EventTime:     now,
		Severity:      entry.Severity,
		ActorUserID:   entry.ActorUserID,
		ActorEmail:    entry.ActorEmail,
		ActorIP:       entry.ActorIP,
		ResourceType:  entry.ResourceType,
		ResourceID:    entry.ResourceID,
		ResourceName:  entry.ResourceName,
		Action:        entry.Action,
		Details:       maskSensitiveDetails(entry.Details),
		Success:       entry.Success,
		ErrorMessage:  entry.ErrorMessage,
		UserAgent:     truncate(entry.UserAgent, 500),
		RequestPath:   truncate(entry.RequestPath, 500),
		RequestMethod: entry.RequestMethod,
		CreatedAt:     now,
	}
}

// GetAuditLogs retrieves audit logs with pagination and filtering
func (s *AuditService) GetAuditLogs(
	ctx context.Context,
	params store.PaginationParams,
	filters store.AuditLogFilters,
) ([]models.AuditLog, store.PaginationResult, error) {
	return s.store.ListAuditLogs(ctx, params, filters)
}

// RecentActivity returns the newest entries where userID is the actor.
func (s *AuditService) RecentActivity(
	ctx context.Context,
	userID string,
	limit int,
) ([]models.AuditLog, error) {
	logs, _, err := s.store.ListAuditLogs(
		ctx,
		store.NewPaginationParams(1, limit, ""),
		store.AuditLogFilters{ActorUserID: userID},
	)
	return logs, err
}

// CleanupOldLogs deletes audit logs older than the retention period
func (s *AuditService) CleanupOldLogs(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteOldAuditLogs(ctx, time.Now().Add(-retention))
}

// Shutdown flushes queued entries and stops the worker. Safe to call more
// than once.
func (s *AuditService) Shutdown(ctx context.Context) error {
	if !s.enabled {
		return nil
	}

	s.once.Do(func() { close(s.stop) })

	select {
	case <-s.stopped:
		slog.Info("audit service shut down gracefully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit service shutdown timeout: %w", ctx.Err())
	}
}

// sensitiveKeys are matched as substrings of lower-cased detail keys, so
// "new_password" and "reset_token" are both caught.
var sensitiveKeys = []string{"password", "token", "secret"}

func maskSensitiveDetails(details models.AuditDetails) models.AuditDetails {
	if details == nil {
		return nil
	}

	masked := make(models.AuditDetails, len(details))
	for key, value := range details {
		lower := strings.ToLower(key)
		if slices.ContainsFunc(sensitiveKeys, func(k string) bool { return strings.Contains(lower, k) }) {
			value = "***REDACTED***"
		}
		masked[key] = value
	}
	return masked
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
