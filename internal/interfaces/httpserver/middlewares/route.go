package middlewares

import "github.com/gin-gonic/gin"

const unmatchedRoute = "unmatched"

// routeOf returns the registered route template so labels stay low-cardinality.
func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
