package entities

import (
	"time"

	"github.com/janhq/qa-api/internal/domain/conversation"
)

// Conversation mirrors the conversation table.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_conversation_title"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Histories []ChatHistory `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversation"
}

// NewConversation maps a domain conversation onto its row.
func NewConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// EtoD converts the row into the domain model.
func (e *Conversation) EtoD() *conversation.Conversation {
	return &conversation.Conversation{
		ID:        e.ID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
