package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

func registerConversationRoutes(router gin.IRouter, handler *handlers.ConversationHandler) {
	conversations := router.Group("/conversations")
	// Served with and without the trailing slash.
	for _, root := range []string{"", "/"} {
		conversations.GET(root, handler.List)
		conversations.POST(root, handler.Create)
	}
	conversations.PUT("/:id", handler.Update)
	conversations.DELETE("/:id", handler.Delete)
}
