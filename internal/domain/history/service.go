package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// ConversationFinder resolves the parent conversation of a record.
type ConversationFinder interface {
	FindByID(ctx context.Context, id uint64) (*conversation.Conversation, error)
}

// Service manages question/answer history and bookmarks.
type Service interface {
	Append(ctx context.Context, conversationID uint64, question, answer string) (*Record, error)
	ListByConversation(ctx context.Context, conversationID uint64, page Page) ([]*Record, error)
	ListBookmarked(ctx context.Context, page Page) ([]*Record, error)
	ToggleBookmark(ctx context.Context, id uint64) (*Record, error)
	SetBookmark(ctx context.Context, id uint64, bookmarked bool) (*Record, error)
	// Latest returns nil when no history exists anywhere.
	Latest(ctx context.Context) (*Record, error)
}

type service struct {
	repo          Repository
	conversations ConversationFinder
	policy        policy.Policy
	now           func() time.Time
	log           zerolog.Logger
}

// NewService wires the history service.
func NewService(repo Repository, conversations ConversationFinder, pol policy.Policy, log zerolog.Logger) Service {
	return &service{
		repo:          repo,
		conversations: conversations,
		policy:        pol,
		now:           func() time.Time { return time.Now().UTC() },
		log:           log.With().Str("component", "history-service").Logger(),
	}
}

func (s *service) Append(ctx context.Context, conversationID uint64, question, answer string) (*Record, error) {
	var missing []string
	if strings.TrimSpace(question) == "" {
		missing = append(missing, "question")
	}
	if strings.TrimSpace(answer) == "" {
		missing = append(missing, "answer")
	}
	if len(missing) > 0 {
		return nil, platformerrors.NewMissingFieldError(ctx, platformerrors.LayerDomain, "", missing...)
	}

	if err := s.requireConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	record := &Record{
		ConversationID: conversationID,
		Question:       question,
		Answer:         answer,
		CreatedAt:      s.now(),
	}
	if err := s.repo.Append(ctx, record); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "append history")
	}

	s.log.Debug().Uint64("history_id", record.ID).Uint64("conversation_id", conversationID).Msg("history appended")
	return record, nil
}

func (s *service) ListByConversation(ctx context.Context, conversationID uint64, page Page) ([]*Record, error) {
	records, err := s.repo.ListByConversation(ctx, conversationID, page.Normalize(DefaultPageLimit))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list history")
	}
	if len(records) > 0 {
		return records, nil
	}

	if s.policy.EmptyListIsNotFound {
		return nil, conversation.NotFoundError(ctx, conversationID)
	}
	if err := s.requireConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return []*Record{}, nil
}

func (s *service) ListBookmarked(ctx context.Context, page Page) ([]*Record, error) {
	records, err := s.repo.ListBookmarked(ctx, page.Normalize(DefaultBookmarkedLimit))
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list bookmarked history")
	}
	if records == nil {
		records = []*Record{}
	}
	return records, nil
}

func (s *service) ToggleBookmark(ctx context.Context, id uint64) (*Record, error) {
	record, err := s.repo.ToggleBookmark(ctx, id)
	if err != nil {
		return nil, s.recordError(ctx, id, err, "toggle bookmark")
	}
	s.log.Debug().Uint64("history_id", id).Bool("bookmarked", record.Bookmarked).Msg("bookmark toggled")
	return record, nil
}

func (s *service) SetBookmark(ctx context.Context, id uint64, bookmarked bool) (*Record, error) {
	record, err := s.repo.SetBookmark(ctx, id, bookmarked)
	if err != nil {
		return nil, s.recordError(ctx, id, err, "set bookmark")
	}
	return record, nil
}

func (s *service) Latest(ctx context.Context) (*Record, error) {
	record, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "find latest history")
	}
	return record, nil
}

func (s *service) requireConversation(ctx context.Context, conversationID uint64) error {
	if _, err := s.conversations.FindByID(ctx, conversationID); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return conversation.NotFoundError(ctx, conversationID)
		}
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "find conversation")
	}
	return nil
}

func (s *service) recordError(ctx context.Context, id uint64, err error, message string) error {
	if errors.Is(err, ErrNotFound) {
		return platformerrors.NewErrorWithContext(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound,
			"History not found",
			ErrNotFound,
			"4b8e2f61-d03a-47c9-8e15-a9c7b3d0e528",
			map[string]any{"history_id": id},
		)
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, message)
}
