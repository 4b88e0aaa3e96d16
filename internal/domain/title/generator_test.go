package title

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
)

type stubLatest struct {
	record *history.Record
	err    error
	calls  int
}

func (s *stubLatest) Latest(ctx context.Context) (*history.Record, error) {
	s.calls++
	return s.record, s.err
}

type stubLLM struct {
	prompts []string
	reply   string
	err     error
}

func (s *stubLLM) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestGenerateExplicitTitleIsVerbatim(t *testing.T) {
	latest := &stubLatest{}
	llm := &stubLLM{reply: "ignored"}
	g := NewGenerator(latest, llm, zerolog.Nop())

	got, err := g.Generate(context.Background(), "  Trip planning ")
	require.NoError(t, err)

	assert.Equal(t, "Trip planning", got)
	assert.Zero(t, latest.calls)
	assert.Empty(t, llm.prompts)
}

func TestGenerateSummarisesLatestQuestion(t *testing.T) {
	latest := &stubLatest{record: &history.Record{Question: "What is the SFF-8071 pinout?"}}
	llm := &stubLLM{reply: "\"SFF pinout\"\nextra line"}
	g := NewGenerator(latest, llm, zerolog.Nop())

	got, err := g.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "SFF pinout", got)
	require.Len(t, llm.prompts, 1)
	assert.True(t, strings.HasSuffix(llm.prompts[0], "What is the SFF-8071 pinout?"))
}

func TestGenerateUsesEmptyContextWithoutHistory(t *testing.T) {
	llm := &stubLLM{reply: "Hello"}
	g := NewGenerator(&stubLatest{}, llm, zerolog.Nop())

	got, err := g.Generate(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "Hello", got)
	assert.True(t, strings.HasSuffix(llm.prompts[0], EmptyContext))
}

func TestGenerateFallsBackToDefaultTitle(t *testing.T) {
	t.Run("no llm", func(t *testing.T) {
		got, err := NewGenerator(&stubLatest{}, nil, zerolog.Nop()).Generate(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, conversation.DefaultTitle, got)
	})

	t.Run("llm error", func(t *testing.T) {
		got, err := NewGenerator(&stubLatest{}, &stubLLM{err: errors.New("down")}, zerolog.Nop()).Generate(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, conversation.DefaultTitle, got)
	})

	t.Run("blank reply", func(t *testing.T) {
		got, err := NewGenerator(&stubLatest{}, &stubLLM{reply: " \n "}, zerolog.Nop()).Generate(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, conversation.DefaultTitle, got)
	})
}

func TestGeneratePropagatesHistoryErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewGenerator(&stubLatest{err: boom}, &stubLLM{reply: "x"}, zerolog.Nop()).Generate(context.Background(), "")
	assert.ErrorIs(t, err, boom)
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Pinout", Clean("Title: \"Pinout\""))
	assert.Equal(t, "Cables", Clean("\n\n  'Cables'  \nmore"))
	assert.Equal(t, "", Clean("   "))
	assert.Len(t, []rune(Clean(strings.Repeat("가", 400))), conversation.MaxTitleLength)
}
