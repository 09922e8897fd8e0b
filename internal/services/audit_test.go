package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/store"
	"github.com/go-authgate/eventgate/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_FlushOnShutdown(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)

	reqCtx := util.WithRequestInfo(ctx, util.RequestInfo{
		IP:        "192.0.2.10",
		UserAgent: "test-agent",
		Path:      "/login",
		Method:    http.MethodPost,
	})
	reqCtx = models.WithUser(reqCtx, &models.User{ID: "user-1", Email: "ada@example.com"})

	svc.Log(reqCtx, AuditLogEntry{
		EventType:    models.EventAuthenticationSuccess,
		ResourceType: models.ResourceUser,
		Action:       "Login succeeded",
		Details:      models.AuditDetails{"password": "hunter2", "slug": "go-meetup"},
		Success:      true,
	})

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, svc.Shutdown(shutdownCtx))
	require.NoError(t, svc.Shutdown(shutdownCtx), "second shutdown is a no-op")

	logs, page, err := svc.GetAuditLogs(ctx, store.NewPaginationParams(1, 10, ""), store.AuditLogFilters{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(1), page.Total)

	entry := logs[0]
	assert.Equal(t, models.EventAuthenticationSuccess, entry.EventType)
	assert.Equal(t, models.SeverityInfo, entry.Severity)
	assert.Equal(t, "user-1", entry.ActorUserID)
	assert.Equal(t, "ada@example.com", entry.ActorEmail)
	assert.Equal(t, "192.0.2.10", entry.ActorIP)
	assert.Equal(t, "test-agent", entry.UserAgent)
	assert.Equal(t, "/login", entry.RequestPath)
	assert.Equal(t, "***REDACTED***", entry.Details["password"])
	assert.Equal(t, "go-meetup", entry.Details["slug"])
}

func TestAuditService_Disabled(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewAuditService(s, false, 0)

	svc.Log(ctx, AuditLogEntry{EventType: models.EventLogout, Action: "x"})
	require.NoError(t, svc.LogSync(ctx, AuditLogEntry{EventType: models.EventLogout, Action: "x"}))
	require.NoError(t, svc.Shutdown(ctx))

	logs, _, err := svc.GetAuditLogs(ctx, store.NewPaginationParams(1, 10, ""), store.AuditLogFilters{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAuditService_LogSyncAndRecentActivity(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	for _, event := range []models.EventType{
		models.EventUserSignedUp,
		models.EventAuthenticationSuccess,
		models.EventEmailUpdated,
	} {
		require.NoError(t, svc.LogSync(ctx, AuditLogEntry{
			EventType:   event,
			ActorUserID: "user-1",
			Action:      string(event),
			Success:     true,
		}))
	}
	require.NoError(t, svc.LogSync(ctx, AuditLogEntry{
		EventType:   models.EventLogout,
		ActorUserID: "user-2",
		Action:      "other user",
		Success:     true,
	}))

	logs, err := svc.RecentActivity(ctx, "user-1", 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, "user-1", l.ActorUserID)
	}
}

func TestAuditService_GinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewAuditService(s, true, 10)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/account", nil)
	c.Request.RemoteAddr = "198.51.100.1:1234"
	c.Set("user", &models.User{ID: "user-9", Email: "grace@example.com"})

	require.NoError(t, svc.LogSync(c, AuditLogEntry{
		EventType: models.EventProfileUpdated,
		Action:    "Profile updated",
		Success:   true,
	}))

	logs, err := svc.RecentActivity(ctx, "user-9", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "198.51.100.1", logs[0].ActorIP)
	assert.Equal(t, "grace@example.com", logs[0].ActorEmail)
	assert.Equal(t, "/account", logs[0].RequestPath)
}

func TestAuditService_CleanupOldLogs(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)
	svc := NewAuditService(s, false, 0)

	old := &models.AuditLog{
		ID:        "old",
		EventType: models.EventLogout,
		EventTime: time.Now().Add(-48 * time.Hour),
		Severity:  models.SeverityInfo,
		Action:    "old",
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}
	fresh := &models.AuditLog{
		ID:        "fresh",
		EventType: models.EventLogout,
		EventTime: time.Now(),
		Severity:  models.SeverityInfo,
		Action:    "fresh",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateAuditLogBatch(ctx, []*models.AuditLog{old, fresh}))

	deleted, err := svc.CleanupOldLogs(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestMaskSensitiveDetails(t *testing.T) {
	assert.Nil(t, maskSensitiveDetails(nil))

	masked := maskSensitiveDetails(models.AuditDetails{
		"new_password":  "x",
		"reset_token":   "y",
		"client_secret": "z",
		"email":         "ada@example.com",
	})
	assert.Equal(t, "***REDACTED***", masked["new_password"])
	assert.Equal(t, "***REDACTED***", masked["reset_token"])
	assert.Equal(t, "***REDACTED***", masked["client_secret"])
	assert.Equal(t, "ada@example.com", masked["email"])
}
