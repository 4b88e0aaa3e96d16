package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/infrastructure/metrics"
)

// probe routes are scraped constantly and would drown the API series.
var unmeteredRoutes = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// MetricsMiddleware counts requests and observes their latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := routeOf(c)
		if _, skip := unmeteredRoutes[route]; skip {
			c.Next()
			return
		}

		started := time.Now()
		c.Next()
		metrics.RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(started).Seconds())
	}
}
