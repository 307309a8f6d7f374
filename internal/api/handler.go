package api

import (
	"fmt"
	"net/http"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/internal/dispatch"
	"aqua_project/internal/monitor"
	"aqua_project/internal/repository"
	"aqua_project/internal/staleness"
	"aqua_project/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests
type Handler struct {
	svc              *monitor.Service
	feed             *dispatch.Feed
	telemetry        repository.TelemetryRepo
	offlineThreshold time.Duration
}

// NewHandler creates a new handler
func NewHandler(svc *monitor.Service, feed *dispatch.Feed, telemetry repository.TelemetryRepo, offlineThreshold time.Duration) *Handler {
	return &Handler{
		svc:              svc,
		feed:             feed,
		telemetry:        telemetry,
		offlineThreshold: offlineThreshold,
	}
}

type startRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
	OwnerID  string `json:"ownerId" binding:"required"`
}

type stopRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
}

type ownerRequest struct {
	OwnerID string `json:"ownerId"`
}

// StartMonitoring handles POST /api/monitoring/start
func (h *Handler) StartMonitoring(c *gin.Context) {
	requestID := uuid.New().String()[:16]

	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Start(req.DeviceID, req.OwnerID); err != nil {
		logger.WriteLog(constants.LOG_LEVEL_ERROR, requestID, "API",
			fmt.Sprintf("Start failed: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "monitoring",
		"device_id": req.DeviceID,
	})
}

// StopMonitoring handles POST /api/monitoring/stop
func (h *Handler) StopMonitoring(c *gin.Context) {
	var req stopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.svc.Stop(req.DeviceID)

	c.JSON(http.StatusOK, gin.H{
		"status":    "stopped",
		"device_id": req.DeviceID,
	})
}

// StartAllMonitoring handles POST /api/monitoring/start-all
func (h *Handler) StartAllMonitoring(c *gin.Context) {
	requestID := uuid.New().String()[:16]

	var req ownerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	started, err := h.svc.StartAll(c.Request.Context(), req.OwnerID)
	if err != nil {
		logger.WriteLog(constants.LOG_LEVEL_ERROR, requestID, "API",
			fmt.Sprintf("StartAll failed: %v", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "monitoring",
		"started": started,
	})
}

// StopAllMonitoring handles POST /api/monitoring/stop-all
func (h *Handler) StopAllMonitoring(c *gin.Context) {
	h.svc.StopAll()
	c.JSON(http.StatusOK, gin.H{"status": "stopped"})
}

// CheckNow handles POST /api/monitoring/check/:deviceId
func (h *Handler) CheckNow(c *gin.Context) {
	deviceID := c.Param("deviceId")

	if err := h.svc.CheckNow(c.Request.Context(), deviceID); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "checked",
		"device_id": deviceID,
	})
}

// GetSessions handles GET /api/monitoring/sessions
func (h *Handler) GetSessions(c *gin.Context) {
	sessions := h.svc.Sessions()
	c.JSON(http.StatusOK, gin.H{
		"count":    len(sessions),
		"sessions": sessions,
	})
}

// GetNotifications handles GET /api/notifications
func (h *Handler) GetNotifications(c *gin.Context) {
	items := h.feed.List()
	c.JSON(http.StatusOK, gin.H{
		"count":         len(items),
		"unread":        h.feed.UnreadCount(),
		"notifications": items,
	})
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (h *Handler) GetUnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unread": h.feed.UnreadCount()})
}

// MarkNotificationRead handles POST /api/notifications/:id/read
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id := c.Param("id")

	if !h.feed.MarkAsRead(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read", "id": id})
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	changed := h.feed.MarkAllAsRead()
	c.JSON(http.StatusOK, gin.H{"status": "read", "changed": changed})
}

// GetDeviceStatus handles GET /api/devices/:id/status
func (h *Handler) GetDeviceStatus(c *gin.Context) {
	deviceID := c.Param("id")

	snap, err := h.telemetry.LatestSnapshot(c.Request.Context(), deviceID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var last *time.Time
	if snap != nil && !snap.CapturedAt.IsZero() {
		t := snap.CapturedAt
		last = &t
	}

	offline := staleness.IsOffline(last, h.offlineThreshold)

	response := gin.H{
		"device_id":   deviceID,
		"online":      !offline,
		"offline_for": nil,
	}
	if last != nil {
		response["last_seen"] = last
	}
	if offline {
		response["offline_for"] = staleness.OfflineFor(last)
	}

	c.JSON(http.StatusOK, response)
}
