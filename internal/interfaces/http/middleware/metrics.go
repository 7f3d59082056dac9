package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"tutorlink.backend/internal/infrastructure/metrics"
)

// MetricsMiddleware records request latency labelled by route template
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
