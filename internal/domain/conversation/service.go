package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// maxTitleAttempts bounds the retries when a generated title races with a
// concurrent insert of the same title.
const maxTitleAttempts = 5

// TitleGenerator produces a title when the caller did not supply one.
type TitleGenerator interface {
	Generate(ctx context.Context, explicit string) (string, error)
}

// HistoryPurger removes the history records owned by a conversation.
type HistoryPurger interface {
	DeleteByConversation(ctx context.Context, conversationID uint64) (int64, error)
}

// Transactor runs fn inside a single database transaction.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service describes the conversation lifecycle.
type Service interface {
	// Create stores a conversation. A blank title is generated, unless the
	// policy requires one.
	Create(ctx context.Context, title string) (*Conversation, error)
	// CreateDefault stores a conversation titled DefaultTitle, suffixed with
	// " (n)" when that title is already taken.
	CreateDefault(ctx context.Context) (*Conversation, error)
	Get(ctx context.Context, id uint64) (*Conversation, error)
	List(ctx context.Context) ([]*Conversation, error)
	Rename(ctx context.Context, id uint64, title string) (*Conversation, error)
	// Delete removes the conversation together with its history.
	Delete(ctx context.Context, id uint64) error
	Touch(ctx context.Context, id uint64) error
}

type service struct {
	repo   Repository
	purger HistoryPurger
	titles TitleGenerator
	tx     Transactor
	policy policy.Policy
	now    func() time.Time
	log    zerolog.Logger
}

// NewService wires the conversation service.
func NewService(repo Repository, purger HistoryPurger, titles TitleGenerator, tx Transactor, pol policy.Policy, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		purger: purger,
		titles: titles,
		tx:     tx,
		policy: pol,
		now:    func() time.Time { return time.Now().UTC() },
		log:    log.With().Str("component", "conversation-service").Logger(),
	}
}

func (s *service) Create(ctx context.Context, title string) (*Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		if s.policy.RequireTitleOnCreate {
			return nil, platformerrors.NewMissingFieldError(ctx, platformerrors.LayerDomain, "", "title")
		}
		generated, err := s.titles.Generate(ctx, "")
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "generate conversation title")
		}
		return s.createUnique(ctx, generated)
	}

	if err := validateTitle(ctx, title); err != nil {
		return nil, err
	}

	// Fast path only; the unique index is what actually guarantees uniqueness.
	exists, err := s.repo.ExistsByTitle(ctx, title)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "check conversation title")
	}
	if exists {
		return nil, duplicateTitleError(ctx, title)
	}

	conv := s.newConversation(title)
	if err := s.repo.Create(ctx, conv); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return nil, duplicateTitleError(ctx, title)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create conversation")
	}

	s.log.Info().Uint64("conversation_id", conv.ID).Msg("conversation created")
	return conv, nil
}

func (s *service) CreateDefault(ctx context.Context) (*Conversation, error) {
	return s.createUnique(ctx, DefaultTitle)
}

// createUnique inserts a conversation under base, or under the first free
// "base (n)" variant when base is taken.
func (s *service) createUnique(ctx context.Context, base string) (*Conversation, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultTitle
	}
	base = truncateRunes(base, MaxTitleLength)

	for attempt := 0; attempt < maxTitleAttempts; attempt++ {
		taken, err := s.repo.FindTitlesWithPrefix(ctx, base)
		if err != nil {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "look up conversation titles")
		}

		conv := s.newConversation(NextFreeTitle(base, taken))
		err = s.repo.Create(ctx, conv)
		if err == nil {
			s.log.Info().Uint64("conversation_id", conv.ID).Str("title", conv.Title).Msg("conversation created")
			return conv, nil
		}
		if !errors.Is(err, ErrDuplicateTitle) {
			return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "create conversation")
		}
		s.log.Debug().Str("title", conv.Title).Int("attempt", attempt+1).Msg("generated title taken concurrently, retrying")
	}
	return nil, duplicateTitleError(ctx, base)
}

func (s *service) Get(ctx context.Context, id uint64) (*Conversation, error) {
	conv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, id, err, "get conversation")
	}
	return conv, nil
}

func (s *service) List(ctx context.Context) ([]*Conversation, error) {
	conversations, err := s.repo.List(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list conversations")
	}
	if len(conversations) == 0 && s.policy.EmptyListIsNotFound {
		return nil, NotFoundError(ctx, 0)
	}
	return conversations, nil
}

func (s *service) Rename(ctx context.Context, id uint64, title string) (*Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, platformerrors.NewMissingFieldError(ctx, platformerrors.LayerDomain, "", "title")
	}
	if err := validateTitle(ctx, title); err != nil {
		return nil, err
	}

	conv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, id, err, "rename conversation")
	}
	if conv.Title == title {
		if s.policy.RejectUnchangedTitle {
			return nil, duplicateTitleError(ctx, title)
		}
		return conv, nil
	}

	now := s.now()
	if err := s.repo.UpdateTitle(ctx, id, title, now); err != nil {
		if errors.Is(err, ErrDuplicateTitle) {
			return nil, duplicateTitleError(ctx, title)
		}
		return nil, s.lookupError(ctx, id, err, "rename conversation")
	}

	conv.Title = title
	conv.UpdatedAt = now
	s.log.Info().Uint64("conversation_id", id).Msg("conversation renamed")
	return conv, nil
}

func (s *service) Delete(ctx context.Context, id uint64) error {
	var purged int64
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		n, err := s.purger.DeleteByConversation(ctx, id)
		if err != nil {
			return err
		}
		purged = n
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return s.lookupError(ctx, id, err, "delete conversation")
	}

	s.log.Info().Uint64("conversation_id", id).Int64("history_deleted", purged).Msg("conversation deleted")
	return nil
}

func (s *service) Touch(ctx context.Context, id uint64) error {
	if err := s.repo.Touch(ctx, id, s.now()); err != nil {
		return s.lookupError(ctx, id, err, "touch conversation")
	}
	return nil
}

func (s *service) newConversation(title string) *Conversation {
	now := s.now()
	return &Conversation{Title: title, CreatedAt: now, UpdatedAt: now}
}

func (s *service) lookupError(ctx context.Context, id uint64, err error, message string) error {
	if errors.Is(err, ErrNotFound) {
		return NotFoundError(ctx, id)
	}
	return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, message)
}

// NextFreeTitle returns base when it is not in taken, otherwise the first
// "base (n)" with n >= 2 that is free.
func NextFreeTitle(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncateRunes(base, MaxTitleLength-len(suffix)) + suffix
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

func validateTitle(ctx context.Context, title string) error {
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("title must be at most %d characters", MaxTitleLength),
			nil,
			"6f1d0c2a-3b7e-4e59-9a41-5d2c8b7e0f13",
		)
	}
	return nil
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

// NotFoundError is the error reported for an unknown conversation id.
func NotFoundError(ctx context.Context, id uint64) error {
	fields := map[string]any{}
	if id != 0 {
		fields["conversation_id"] = id
	}
	return platformerrors.NewErrorWithContext(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeNotFound,
		"Conversation not found",
		ErrNotFound,
		"2c9e7d41-8a0f-4b6c-b3d5-71e0f4a9c862",
		fields,
	)
}

func duplicateTitleError(ctx context.Context, title string) error {
	return platformerrors.NewErrorWithContext(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypeConflict,
		"Conversation title already exists",
		ErrDuplicateTitle,
		"9d4a6b20-1e3f-4c87-a5b9-0f2e6d8c1a74",
		map[string]any{"title": title},
	)
}
