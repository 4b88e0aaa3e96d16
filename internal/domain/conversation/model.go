package conversation

import (
	"errors"
	"time"
)

const (
	// DefaultTitle is given to conversations opened implicitly by a question.
	DefaultTitle = "New Conversation"
	// MaxTitleLength is the column width of conversation.title.
	MaxTitleLength = 255
)

var (
	ErrNotFound       = errors.New("conversation not found")
	ErrDuplicateTitle = errors.New("conversation title already exists")
)

// Conversation is a named container for question/answer exchanges.
type Conversation struct {
	ID        uint64    `json:"conversationId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
