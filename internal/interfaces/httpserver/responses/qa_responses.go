package responses

import (
	"time"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/qa"
)

type ConversationResponse struct {
	ConversationID uint64    `json:"conversationId"`
	Title          string    `json:"title"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ConversationCreatedResponse struct {
	ConversationID uint64 `json:"conversationId"`
	Title          string `json:"title"`
}

type ConversationUpdatedResponse struct {
	ConversationID uint64 `json:"conversationId"`
}

type AskResponse struct {
	Answer         string    `json:"answer"`
	Sources        []string  `json:"sources"`
	CreatedAt      time.Time `json:"createdAt"`
	ConversationID uint64    `json:"conversationId"`
}

type HistoryResponse struct {
	HistoryID    uint64    `json:"historyId"`
	Question     string    `json:"question"`
	Answer       string    `json:"answer"`
	IsBookmarked bool      `json:"isBookmarked"`
	CreatedAt    time.Time `json:"createdAt"`
}

type BookmarkResponse struct {
	HistoryID    uint64 `json:"historyId"`
	IsBookmarked bool   `json:"isBookmarked"`
}

func MapConversations(items []*conversation.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(items))
	for _, c := range items {
		out = append(out, ConversationResponse{
			ConversationID: c.ID,
			Title:          c.Title,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
		})
	}
	return out
}

func MapAnswer(a *qa.Answer) AskResponse {
	sources := a.Sources
	if sources == nil {
		sources = []string{}
	}
	return AskResponse{
		Answer:         a.Answer,
		Sources:        sources,
		CreatedAt:      a.CreatedAt,
		ConversationID: a.ConversationID,
	}
}

func MapHistory(records []*history.Record) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(records))
	for _, r := range records {
		out = append(out, HistoryResponse{
			HistoryID:    r.ID,
			Question:     r.Question,
			Answer:       r.Answer,
			IsBookmarked: r.Bookmarked,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}
