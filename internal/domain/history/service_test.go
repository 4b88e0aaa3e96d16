package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/infrastructure/database/dbtest"
	"github.com/janhq/qa-api/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/qa-api/internal/infrastructure/repository/historyrepo"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

type harness struct {
	svc           history.Service
	conversations *conversationrepo.ConversationGormRepository
}

func newHarness(t *testing.T, pol policy.Policy) *harness {
	db := dbtest.New(t)
	conversations := conversationrepo.NewConversationGormRepository(db)
	return &harness{
		svc:           history.NewService(historyrepo.NewHistoryGormRepository(db), conversations, pol, zerolog.Nop()),
		conversations: conversations,
	}
}

func (h *harness) conversation(t *testing.T, title string) uint64 {
	t.Helper()
	now := time.Now().UTC()
	c := &conversation.Conversation{Title: title, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, h.conversations.Create(context.Background(), c))
	return c.ID
}

func TestAppendValidatesFields(t *testing.T) {
	h := newHarness(t, policy.Compatible())
	conv := h.conversation(t, "c")

	_, err := h.svc.Append(context.Background(), conv, " ", "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnprocessable))

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "Missing required fields: question, answer", platformErr.Message)
}

func TestAppendRequiresConversation(t *testing.T) {
	h := newHarness(t, policy.Compatible())

	_, err := h.svc.Append(context.Background(), 12, "q", "a")
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestAppendAndList(t *testing.T) {
	h := newHarness(t, policy.Compatible())
	ctx := context.Background()
	conv := h.conversation(t, "c")

	first, err := h.svc.Append(ctx, conv, "q1", "a1")
	require.NoError(t, err)
	assert.False(t, first.Bookmarked)
	_, err = h.svc.Append(ctx, conv, "q2", "a2")
	require.NoError(t, err)

	records, err := h.svc.ListByConversation(ctx, conv, history.Page{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "q1", records[0].Question)
	assert.Equal(t, "q2", records[1].Question)
}

func TestListByConversationEmptyPolicy(t *testing.T) {
	ctx := context.Background()

	strict := newHarness(t, policy.Compatible())
	conv := strict.conversation(t, "c")
	_, err := strict.svc.ListByConversation(ctx, conv, history.Page{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound), "existing but empty conversation")
	_, err = strict.svc.ListByConversation(ctx, conv+1, history.Page{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))

	lenient := newHarness(t, policy.Policy{})
	conv = lenient.conversation(t, "c")
	records, err := lenient.svc.ListByConversation(ctx, conv, history.Page{})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	_, err = lenient.svc.ListByConversation(ctx, conv+1, history.Page{})
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestBookmarks(t *testing.T) {
	h := newHarness(t, policy.Compatible())
	ctx := context.Background()
	conv := h.conversation(t, "c")

	empty, err := h.svc.ListBookmarked(ctx, history.Page{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	record, err := h.svc.Append(ctx, conv, "q", "a")
	require.NoError(t, err)

	toggled, err := h.svc.ToggleBookmark(ctx, record.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Bookmarked)

	marked, err := h.svc.ListBookmarked(ctx, history.Page{})
	require.NoError(t, err)
	require.Len(t, marked, 1)
	assert.Equal(t, record.ID, marked[0].ID)

	toggled, err = h.svc.ToggleBookmark(ctx, record.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Bookmarked)

	set, err := h.svc.SetBookmark(ctx, record.ID, true)
	require.NoError(t, err)
	assert.True(t, set.Bookmarked)

	_, err = h.svc.ToggleBookmark(ctx, record.ID+1)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, "History not found", platformErr.Message)

	_, err = h.svc.SetBookmark(ctx, record.ID+1, false)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound))
}

func TestLatest(t *testing.T) {
	h := newHarness(t, policy.Compatible())
	ctx := context.Background()

	latest, err := h.svc.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	_, err = h.svc.Append(ctx, h.conversation(t, "c"), "hello", "world")
	require.NoError(t, err)
	latest, err = h.svc.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "hello", latest.Question)
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, history.Page{Limit: 20}, history.Page{}.Normalize(history.DefaultPageLimit))
	assert.Equal(t, history.Page{Limit: 1}, history.Page{Limit: -3, Offset: -1}.Normalize(history.DefaultPageLimit))
	assert.Equal(t, history.Page{Limit: history.MaxPageLimit, Offset: 5}, history.Page{Limit: 1000, Offset: 5}.Normalize(history.DefaultPageLimit))
}
