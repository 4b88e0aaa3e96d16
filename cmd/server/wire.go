//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/title"
	"github.com/janhq/qa-api/internal/infrastructure/database/transaction"
	"github.com/janhq/qa-api/internal/infrastructure/embedding"
	"github.com/janhq/qa-api/internal/infrastructure/llm"
	"github.com/janhq/qa-api/internal/infrastructure/logger"
	"github.com/janhq/qa-api/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/qa-api/internal/infrastructure/repository/historyrepo"
	"github.com/janhq/qa-api/internal/interfaces/httpserver"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

var repositorySet = wire.NewSet(
	transaction.NewDatabase,
	wire.Bind(new(conversation.Transactor), new(*transaction.Database)),
	conversationrepo.NewConversationGormRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.ConversationGormRepository)),
	wire.Bind(new(history.ConversationFinder), new(*conversationrepo.ConversationGormRepository)),
	historyrepo.NewHistoryGormRepository,
	wire.Bind(new(history.Repository), new(*historyrepo.HistoryGormRepository)),
	wire.Bind(new(conversation.HistoryPurger), new(*historyrepo.HistoryGormRepository)),
)

var serviceSet = wire.NewSet(
	newPolicy,
	llm.Load,
	history.NewService,
	newTitleGenerator,
	wire.Bind(new(conversation.TitleGenerator), new(*title.Generator)),
	conversation.NewService,
	embedding.Load,
	newRetriever,
	newAnswerChain,
	newQAService,
)

// BuildApplication assembles the QA service with Wire.
func BuildApplication(ctx context.Context) (*Application, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		repositorySet,
		serviceSet,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil, nil
}
