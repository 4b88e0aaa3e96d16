package qa_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/domain/qa"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/infrastructure/database/dbtest"
	"github.com/janhq/qa-api/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/qa-api/internal/infrastructure/repository/historyrepo"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

type answererFunc func(ctx context.Context, question string) (rag.Result, error)

func (f answererFunc) Invoke(ctx context.Context, question string) (rag.Result, error) {
	return f(ctx, question)
}

type harness struct {
	svc           qa.Service
	conversations conversation.Service
	histories     history.Service
	calls         int
}

func newHarness(t *testing.T, answer answererFunc, timeout time.Duration) *harness {
	db := dbtest.New(t)
	convRepo := conversationrepo.NewConversationGormRepository(db)
	histRepo := historyrepo.NewHistoryGormRepository(db)
	pol := policy.Policy{}

	h := &harness{}
	h.conversations = conversation.NewService(convRepo, histRepo, staticTitle{}, db, pol, zerolog.Nop())
	h.histories = history.NewService(histRepo, convRepo, pol, zerolog.Nop())
	counting := answererFunc(func(ctx context.Context, q string) (rag.Result, error) {
		h.calls++
		return answer(ctx, q)
	})
	h.svc = qa.NewService(h.conversations, h.histories, counting, db, qa.Config{Timeout: timeout}, zerolog.Nop())
	return h
}

type staticTitle struct{}

func (staticTitle) Generate(context.Context, string) (string, error) {
	return conversation.DefaultTitle, nil
}

func answered(text string, docs ...rag.Document) answererFunc {
	return func(context.Context, string) (rag.Result, error) {
		return rag.Result{Answer: text, SourceDocuments: docs}, nil
	}
}

func ptr(v uint64) *uint64 { return &v }

func TestAskWithoutConversationCreatesOne(t *testing.T) {
	h := newHarness(t, answered("42",
		rag.Document{Text: "a", Metadata: map[string]any{"section_code": "4.1"}},
		rag.Document{Text: "b", Metadata: map[string]any{"page": 3}},
	), time.Second)
	ctx := context.Background()

	answer, err := h.svc.Ask(ctx, qa.Request{Question: "what is it?"})
	require.NoError(t, err)
	assert.Equal(t, "42", answer.Answer)
	assert.Equal(t, []string{"4.1", qa.UnknownSource}, answer.Sources)
	assert.NotZero(t, answer.ConversationID)
	assert.NotZero(t, answer.HistoryID)

	conversations, err := h.conversations.List(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, conversation.DefaultTitle, conversations[0].Title)

	records, err := h.histories.ListByConversation(ctx, answer.ConversationID, history.Page{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "what is it?", records[0].Question)
	assert.Equal(t, "42", records[0].Answer)

	again, err := h.svc.Ask(ctx, qa.Request{Question: "again"})
	require.NoError(t, err)
	assert.NotEqual(t, answer.ConversationID, again.ConversationID)
}

func TestAskContinuesConversation(t *testing.T) {
	h := newHarness(t, answered("yes"), time.Second)
	ctx := context.Background()
	conv, err := h.conversations.Create(ctx, "existing")
	require.NoError(t, err)

	answer, err := h.svc.Ask(ctx, qa.Request{ConversationID: ptr(conv.ID), Question: "q"})
	require.NoError(t, err)
	assert.Equal(t, conv.ID, answer.ConversationID)
	assert.Empty(t, answer.Sources)
	assert.NotNil(t, answer.Sources)

	list, err := h.conversations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	touched, err := h.conversations.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.False(t, touched.UpdatedAt.Before(conv.UpdatedAt))
}

func TestAskUnknownConversationSkipsAnswerer(t *testing.T) {
	h := newHarness(t, answered("never"), time.Second)

	_, err := h.svc.Ask(context.Background(), qa.Request{ConversationID: ptr(77), Question: "q"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.Zero(t, h.calls)
}

func TestAskBlankQuestion(t *testing.T) {
	h := newHarness(t, answered("never"), time.Second)

	_, err := h.svc.Ask(context.Background(), qa.Request{Question: "  "})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnprocessable))
	assert.Zero(t, h.calls)
}

func TestAskFailureWritesNothing(t *testing.T) {
	h := newHarness(t, func(context.Context, string) (rag.Result, error) {
		return rag.Result{}, errors.New("llm down")
	}, time.Second)
	ctx := context.Background()

	_, err := h.svc.Ask(ctx, qa.Request{Question: "q"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.ErrorIs(t, err, rag.ErrCollaborator)

	conversations, err := h.conversations.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, conversations)
	latest, err := h.histories.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAskTimeout(t *testing.T) {
	h := newHarness(t, func(ctx context.Context, _ string) (rag.Result, error) {
		<-ctx.Done()
		return rag.Result{}, ctx.Err()
	}, 20*time.Millisecond)
	ctx := context.Background()
	conv, err := h.conversations.Create(ctx, "existing")
	require.NoError(t, err)

	_, err = h.svc.Ask(ctx, qa.Request{ConversationID: ptr(conv.ID), Question: "slow"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout))
	assert.ErrorIs(t, err, rag.ErrTimeout)

	latest, err := h.histories.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)
}
