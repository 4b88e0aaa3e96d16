package handlers

import (
	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/qa"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Conversation *ConversationHandler
	Ask          *AskHandler
	History      *HistoryHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	conversationService conversation.Service,
	historyService history.Service,
	qaService qa.Service,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Conversation: NewConversationHandler(conversationService, log),
		Ask:          NewAskHandler(qaService, log),
		History:      NewHistoryHandler(historyService, log),
	}
}
