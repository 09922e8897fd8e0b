package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/go-authgate/eventgate/internal/models"
	"github.com/go-authgate/eventgate/internal/services"
	"github.com/go-authgate/eventgate/internal/store"

	"github.com/gin-gonic/gin"
)

const (
	// queryValueTrue represents the string "true" used in query parameters
	queryValueTrue = "true"

	maxExportRows = 1000
)

// ActivityHandler lets signed-in users read their own audit trail.
type ActivityHandler struct {
	audit *services.AuditService
}

func NewActivityHandler(audit *services.AuditService) *ActivityHandler {
	return &ActivityHandler{audit: audit}
}

// filters scopes every query to the current user.
func (h *ActivityHandler) filters(c *gin.Context) store.AuditLogFilters {
	filters := store.AuditLogFilters{
		EventType:   models.EventType(c.Query("event_type")),
		ActorUserID: currentUser(c).ID,
	}
	if successStr := c.Query("success"); successStr != "" {
		success := successStr == queryValueTrue
		filters.Success = &success
	}
	if since := c.Query("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			filters.Since = t
		}
	}
	return filters
}

// ListActivity returns a page of the user's audit entries as JSON.
func (h *ActivityHandler) ListActivity(c *gin.Context) {
	params := store.NewPaginationParams(queryInt(c, "page", 1), queryInt(c, "page_size", 20), "")

	logs, pagination, err := h.audit.GetAuditLogs(c.Request.Context(), params, h.filters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       logs,
		"pagination": pagination,
	})
}

// ExportActivity writes the user's audit entries as CSV.
func (h *ActivityHandler) ExportActivity(c *gin.Context) {
	params := store.PaginationParams{Page: 1, PageSize: maxExportRows}

	logs, _, err := h.audit.GetAuditLogs(c.Request.Context(), params, h.filters(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve activity"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(
		"attachment; filename=activity_%s.csv",
		time.Now().UTC().Format("2006-01-02"),
	))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	if err := writer.Write([]string{
		"Event Time",
		"Event Type",
		"Severity",
		"Actor IP",
		"Resource Type",
		"Resource Name",
		"Action",
		"Success",
	}); err != nil {
		return
	}

	for _, entry := range logs {
		successStr := "Yes"
		if !entry.Success {
			successStr = "No"
		}
		if err := writer.Write([]string{
			entry.EventTime.UTC().Format(time.RFC3339),
			string(entry.EventType),
			string(entry.Severity),
			entry.ActorIP,
			string(entry.ResourceType),
			entry.ResourceName,
			entry.Action,
			successStr,
		}); err != nil {
			return
		}
	}
}
