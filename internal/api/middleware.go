package api

import (
	"fmt"
	"net/http"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Logger logs each request with method, path, status and latency
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WriteLog(constants.LOG_LEVEL_DEBUG, "", "HTTP",
			fmt.Sprintf("%s %s -> %d (%v)",
				c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start)))
	}
}

// CORS allows the UI to call the API from another origin
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
