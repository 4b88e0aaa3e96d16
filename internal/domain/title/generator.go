package title

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/rag"
)

// EmptyContext is summarised when no history exists anywhere.
const EmptyContext = "conversation start"

const promptTemplate = "Summarize the following conversation into a title of at most 10 characters. Reply with the title only.\n%s"

// LatestFinder returns the newest history record in the store, or nil.
type LatestFinder interface {
	Latest(ctx context.Context) (*history.Record, error)
}

// Generator derives conversation titles.
//
// Without an explicit title it summarises the newest question in the whole
// store, not one scoped to the conversation being created. A new
// conversation has no history of its own, so this is the only context
// available; see DESIGN.md before changing it.
type Generator struct {
	history LatestFinder
	llm     rag.LLM
	log     zerolog.Logger
}

// NewGenerator builds a Generator. A nil llm disables summarisation and
// every generated title becomes conversation.DefaultTitle.
func NewGenerator(history LatestFinder, llm rag.LLM, log zerolog.Logger) *Generator {
	return &Generator{
		history: history,
		llm:     llm,
		log:     log.With().Str("component", "title-generator").Logger(),
	}
}

// Generate returns explicit verbatim when it is non-blank, otherwise a
// summary produced by the LLM. LLM failures fall back to the default title.
func (g *Generator) Generate(ctx context.Context, explicit string) (string, error) {
	if trimmed := strings.TrimSpace(explicit); trimmed != "" {
		return trimmed, nil
	}
	if g.llm == nil {
		return conversation.DefaultTitle, nil
	}

	latest, err := g.history.Latest(ctx)
	if err != nil {
		return "", err
	}
	summaryContext := EmptyContext
	if latest != nil {
		summaryContext = latest.Question
	}

	raw, err := g.llm.Generate(ctx, fmt.Sprintf(promptTemplate, summaryContext))
	if err != nil {
		g.log.Warn().Err(err).Msg("title summarisation failed, using default title")
		return conversation.DefaultTitle, nil
	}

	title := Clean(raw)
	if title == "" {
		return conversation.DefaultTitle, nil
	}
	return title, nil
}

// Clean normalises raw LLM output into a storable title: first non-empty
// line, surrounding quotes and a "Title:" prefix stripped, capped at
// conversation.MaxTitleLength characters.
func Clean(raw string) string {
	line := ""
	for _, candidate := range strings.Split(raw, "\n") {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			line = candidate
			break
		}
	}
	if len(line) >= len("title:") && strings.EqualFold(line[:len("title:")], "title:") {
		line = strings.TrimSpace(line[len("title:"):])
	}
	line = strings.Trim(line, "\"'`*")
	line = strings.TrimSpace(line)

	if utf8.RuneCountInString(line) > conversation.MaxTitleLength {
		line = string([]rune(line)[:conversation.MaxTitleLength])
	}
	return line
}
