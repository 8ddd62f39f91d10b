package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/helpdesk/helpdesk/pkg/logger"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per request once the handler chain
// has finished.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithPrefix("http").WithFields(logrus.Fields{
			"status":  status,
			"method":  c.Request.Method,
			"path":    path,
			"ip":      c.ClientIP(),
			"latency": time.Since(start).String(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}
		msg := "request handled"
		switch {
		case status >= 500:
			entry.Error(msg)
		case status >= 400:
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}
