package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

const prefix = "/v1"

// Routes mounts the conversation, ask and history endpoints under /v1.
type Routes struct {
	handlers *handlers.Provider
}

func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{handlers: handlerProvider}
}

func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group(prefix)
	registerConversationRoutes(group, r.handlers.Conversation)
	registerAskRoutes(group, r.handlers.Ask)
	registerHistoryRoutes(group, r.handlers.History)
}
