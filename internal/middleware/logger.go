package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clipperline/barbershop-api/pkg/logger"
)

// Logger logs one line per request after it completes.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []interface{}{
			"request_id", c.GetString(ContextRequestID),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}

		if len(c.Errors) > 0 {
			log.Error(c.Errors.Last().Err, "Request failed", fields...)
			return
		}
		log.Info("Request completed", fields...)
	}
}
