package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/domain/qa"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/domain/title"
	"github.com/janhq/qa-api/internal/infrastructure/database"
	"github.com/janhq/qa-api/internal/infrastructure/database/transaction"
	"github.com/janhq/qa-api/internal/infrastructure/embedding"
	"github.com/janhq/qa-api/internal/infrastructure/llm"
	"github.com/janhq/qa-api/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/qa-api/internal/infrastructure/repository/historyrepo"
	"github.com/janhq/qa-api/internal/infrastructure/retriever"
	"github.com/janhq/qa-api/internal/interfaces/httpserver"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, dbCfg database.Config, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(ctx, dbCfg)
	if err != nil {
		return nil, err
	}
	if !cfg.AutoMigrate {
		log.Info().Msg("AUTO_MIGRATE disabled, skipping migrations")
		return db, nil
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newPolicy(cfg *config.Config) policy.Policy {
	return policy.Policy{
		EmptyListIsNotFound:  cfg.EmptyListNotFound,
		RejectUnchangedTitle: cfg.RejectUnchangedTitle,
		RequireTitleOnCreate: cfg.RequireTitleOnCreate,
	}
}

func newTitleGenerator(histories history.Service, client rag.LLM, log zerolog.Logger) *title.Generator {
	return title.NewGenerator(histories, client, log)
}

func newRetriever(ctx context.Context, cfg *config.Config, embedder embedding.Embedder, log zerolog.Logger) (rag.Retriever, func(), error) {
	return retriever.Load(ctx, retriever.ConfigFrom(cfg), embedder, log)
}

func newAnswerChain(client rag.LLM, r rag.Retriever) *rag.AnswerChain {
	return rag.BuildAnswerChain(client, r)
}

func newQAService(
	cfg *config.Config,
	conversations conversation.Service,
	histories history.Service,
	chain *rag.AnswerChain,
	tx *transaction.Database,
	log zerolog.Logger,
) qa.Service {
	return qa.NewService(conversations, histories, chain, tx, qa.Config{
		Timeout:   cfg.AskTimeout,
		SourceKey: cfg.SourceMetadataKey,
	}, log)
}

// buildApplication assembles the dependency graph by hand; wire.go
// describes the same graph for code generation.
func buildApplication(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Application, func(), error) {
	db, err := newGormDB(ctx, newDatabaseConfig(cfg), cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	tx := transaction.NewDatabase(db)

	conversationRepository := conversationrepo.NewConversationGormRepository(tx)
	historyRepository := historyrepo.NewHistoryGormRepository(tx)
	pol := newPolicy(cfg)

	llmClient := llm.Load(cfg, log)
	historyService := history.NewService(historyRepository, conversationRepository, pol, log)
	conversationService := conversation.NewService(
		conversationRepository,
		historyRepository,
		newTitleGenerator(historyService, llmClient, log),
		tx,
		pol,
		log,
	)

	embedder, err := embedding.Load(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("embedding: %w", err)
	}
	r, cleanup, err := newRetriever(ctx, cfg, embedder, log)
	if err != nil {
		return nil, nil, fmt.Errorf("retriever: %w", err)
	}
	qaService := newQAService(cfg, conversationService, historyService, newAnswerChain(llmClient, r), tx, log)

	handlerProvider := handlers.NewProvider(conversationService, historyService, qaService, log)
	httpServer := httpserver.New(cfg, log, db, handlerProvider)
	return NewApplication(cfg, httpServer, log), cleanup, nil
}
