package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

func registerAskRoutes(router gin.IRoutes, handler *handlers.AskHandler) {
	router.POST("/ask", handler.Ask)
	router.POST("/ask/", handler.Ask)
}
