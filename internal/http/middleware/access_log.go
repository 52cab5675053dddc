package middleware

import (
	"time"

	"webapp_validator/internal/logger"

	"github.com/gin-gonic/gin"
)

// AccessLog writes one structured line per request. Bodies are never logged
// since they carry signed user data.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithContext(c.Request.Context()).Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
	}
}
