package api

import (
	"time"

	"aqua_project/internal/dispatch"
	"aqua_project/internal/monitor"
	"aqua_project/internal/repository"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, svc *monitor.Service, feed *dispatch.Feed, telemetry repository.TelemetryRepo, offlineThreshold time.Duration) {
	h := NewHandler(svc, feed, telemetry, offlineThreshold)

	api := r.Group("/api")
	{
		monitoring := api.Group("/monitoring")
		{
			monitoring.POST("/start", h.StartMonitoring)
			monitoring.POST("/stop", h.StopMonitoring)
			monitoring.POST("/start-all", h.StartAllMonitoring)
			monitoring.POST("/stop-all", h.StopAllMonitoring)
			monitoring.POST("/check/:deviceId", h.CheckNow)
			monitoring.GET("/sessions", h.GetSessions)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.GetNotifications)
			notifications.GET("/unread-count", h.GetUnreadCount)
			notifications.GET("/ws", h.NotificationStream)
			notifications.POST("/:id/read", h.MarkNotificationRead)
			notifications.POST("/read-all", h.MarkAllNotificationsRead)
		}

		api.GET("/devices/:id/status", h.GetDeviceStatus)
	}
}
