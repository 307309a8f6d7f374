package api

import (
	"fmt"
	"net/http"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/internal/domain"
	"aqua_project/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API already handles CORS; the UI may connect from any origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NotificationStream handles GET /api/notifications/ws. Every feed
// mutation (new notification, read-state change) is pushed to the client
// as the full current feed, so the bell icon can render without a
// follow-up fetch.
func (h *Handler) NotificationStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WriteLog(constants.LOG_LEVEL_ERROR, "", "WS",
			fmt.Sprintf("Upgrade failed: %v", err))
		return
	}
	defer conn.Close()

	// Buffered so a slow client drops frames instead of blocking the
	// feed's synchronous notify path
	updates := make(chan []domain.Notification, 8)

	unsubscribe := h.feed.Subscribe(func(items []domain.Notification) {
		select {
		case updates <- items:
		default:
		}
	})
	defer unsubscribe()

	// Initial state so the client does not wait for the next mutation
	if err := conn.WriteJSON(h.feed.List()); err != nil {
		return
	}

	done := make(chan struct{})

	// Reader only detects disconnects; clients never send payloads
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case items := <-updates:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(items); err != nil {
				return
			}
		}
	}
}
