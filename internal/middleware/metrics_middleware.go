package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/spayd_api/internal/metrics"
)

// MetricsMiddleware records request durations by route, method and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(path, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
