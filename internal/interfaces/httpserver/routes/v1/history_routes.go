package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

func registerHistoryRoutes(router gin.IRoutes, handler *handlers.HistoryHandler) {
	router.GET("/history", handler.List)
	router.GET("/history/", handler.List)
	router.GET("/history/bookmarked", handler.ListBookmarked)
	router.PUT("/history/:id/bookmark", handler.Bookmark)
}
