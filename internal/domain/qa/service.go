package qa

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// UnknownSource stands in for documents without a source metadata value.
const UnknownSource = "Unknown"

// Answerer turns a question into an answer with its source documents.
type Answerer interface {
	Invoke(ctx context.Context, question string) (rag.Result, error)
}

// Conversations is the slice of the conversation service the orchestrator needs.
type Conversations interface {
	Get(ctx context.Context, id uint64) (*conversation.Conversation, error)
	CreateDefault(ctx context.Context) (*conversation.Conversation, error)
	Touch(ctx context.Context, id uint64) error
}

// Histories records answered questions.
type Histories interface {
	Append(ctx context.Context, conversationID uint64, question, answer string) (*history.Record, error)
}

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config tunes the orchestrator.
type Config struct {
	// Timeout bounds the answer collaborator call.
	Timeout time.Duration
	// SourceKey names the metadata entry reported as a document's source.
	SourceKey string
}

// Request is a question, optionally continuing an existing conversation.
type Request struct {
	ConversationID *uint64
	Question       string
}

// Answer is the outcome of a successful question.
type Answer struct {
	Answer         string    `json:"answer"`
	Sources        []string  `json:"sources"`
	CreatedAt      time.Time `json:"createdAt"`
	ConversationID uint64    `json:"conversationId"`
	HistoryID      uint64    `json:"-"`
}

// Service answers questions and records them in history.
type Service interface {
	Ask(ctx context.Context, req Request) (*Answer, error)
}

type service struct {
	conversations Conversations
	histories     Histories
	answerer      Answerer
	tx            Transactor
	cfg           Config
	tracer        trace.Tracer
	log           zerolog.Logger
}

// NewService wires the orchestrator.
func NewService(conversations Conversations, histories Histories, answerer Answerer, tx Transactor, cfg Config, log zerolog.Logger) Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.SourceKey == "" {
		cfg.SourceKey = "section_code"
	}
	return &service{
		conversations: conversations,
		histories:     histories,
		answerer:      answerer,
		tx:            tx,
		cfg:           cfg,
		tracer:        otel.Tracer("qa-service"),
		log:           log.With().Str("component", "qa-service").Logger(),
	}
}

// Ask validates the question, resolves the conversation, calls the answer
// collaborator outside of any transaction and finally persists the
// conversation change and the history record atomically. A failure before
// the last step leaves the store untouched.
func (s *service) Ask(ctx context.Context, req Request) (*Answer, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, platformerrors.NewMissingFieldError(ctx, platformerrors.LayerDomain, "", "question")
	}

	ctx, span := s.tracer.Start(ctx, "qa.Ask")
	defer span.End()

	if req.ConversationID != nil {
		span.SetAttributes(attribute.Int64("conversation.id", int64(*req.ConversationID)))
		if _, err := s.conversations.Get(ctx, *req.ConversationID); err != nil {
			recordSpanError(span, err)
			return nil, err
		}
	}

	result, err := s.generate(ctx, question)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	sources := make([]string, 0, len(result.SourceDocuments))
	for _, doc := range result.SourceDocuments {
		sources = append(sources, rag.SourceOf(doc, s.cfg.SourceKey, UnknownSource))
	}

	var (
		conversationID uint64
		record         *history.Record
	)
	err = s.tx.Transaction(ctx, func(ctx context.Context) error {
		if req.ConversationID == nil {
			conv, err := s.conversations.CreateDefault(ctx)
			if err != nil {
				return err
			}
			conversationID = conv.ID
		} else {
			conversationID = *req.ConversationID
			if err := s.conversations.Touch(ctx, conversationID); err != nil {
				return err
			}
		}

		appended, err := s.histories.Append(ctx, conversationID, question, result.Answer)
		if err != nil {
			return err
		}
		record = appended
		return nil
	})
	if err != nil {
		recordSpanError(span, err)
		var platformErr *platformerrors.PlatformError
		if errors.As(err, &platformErr) {
			return nil, platformErr
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record answer")
	}

	span.SetAttributes(
		attribute.Int64("conversation.id", int64(conversationID)),
		attribute.Int("rag.sources", len(sources)),
	)
	s.log.Info().
		Uint64("conversation_id", conversationID).
		Uint64("history_id", record.ID).
		Int("sources", len(sources)).
		Msg("question answered")

	return &Answer{
		Answer:         record.Answer,
		Sources:        sources,
		CreatedAt:      record.CreatedAt,
		ConversationID: conversationID,
		HistoryID:      record.ID,
	}, nil
}

func (s *service) generate(ctx context.Context, question string) (rag.Result, error) {
	ctx, span := s.tracer.Start(ctx, "qa.generate")
	defer span.End()

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	result, err := s.answerer.Invoke(callCtx, question)
	if err == nil {
		return result, nil
	}

	if errors.Is(err, rag.ErrTimeout) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return rag.Result{}, platformerrors.NewErrorWithContext(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeTimeout,
			"Answer generation timed out",
			errors.Join(rag.ErrTimeout, err),
			"c51f9a08-7d2e-4b36-9e4a-0b8d6f3a2e91",
			map[string]any{"timeout": s.cfg.Timeout.String()},
		)
	}
	return rag.Result{}, platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeExternal,
		"Answer generation failed",
		errors.Join(rag.ErrCollaborator, err),
		"e8a3b7c2-5f14-4d90-a6e2-3c9b1f7d0a58",
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
