package entities

import (
	"time"

	"github.com/janhq/qa-api/internal/domain/history"
)

// ChatHistory mirrors the chat_history table.
type ChatHistory struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"not null;index:idx_chat_history_conversation_created,priority:1"`
	Question       string    `gorm:"type:text;not null"`
	Answer         string    `gorm:"type:text;not null"`
	IsBookmarked   bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"not null;index:idx_chat_history_conversation_created,priority:2"`
}

func (ChatHistory) TableName() string {
	return "chat_history"
}

// NewChatHistory maps a domain record onto its row.
func NewChatHistory(r *history.Record) *ChatHistory {
	return &ChatHistory{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		Question:       r.Question,
		Answer:         r.Answer,
		IsBookmarked:   r.Bookmarked,
		CreatedAt:      r.CreatedAt,
	}
}

// EtoD converts the row into the domain model.
func (e *ChatHistory) EtoD() *history.Record {
	return &history.Record{
		ID:             e.ID,
		ConversationID: e.ConversationID,
		Question:       e.Question,
		Answer:         e.Answer,
		Bookmarked:     e.IsBookmarked,
		CreatedAt:      e.CreatedAt,
	}
}
