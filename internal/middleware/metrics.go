package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/packarma/admin-api/internal/service"
)

// Metrics captures per-request latency and status counters. The route
// template is used as the path label so /categories/:id stays one series
// regardless of how many IDs pass through; unmatched requests are bucketed
// together to keep forged paths from growing the label set.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metricsSvc.ObserveRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
