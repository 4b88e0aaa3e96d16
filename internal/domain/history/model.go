package history

import (
	"errors"
	"time"
)

const (
	DefaultPageLimit       = 20
	DefaultBookmarkedLimit = 50
	MaxPageLimit           = 100
)

var ErrNotFound = errors.New("history not found")

// Record is one persisted question/answer pair.
type Record struct {
	ID             uint64    `json:"historyId"`
	ConversationID uint64    `json:"conversationId"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
	Bookmarked     bool      `json:"isBookmarked"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Page is a limit/offset window.
type Page struct {
	Limit  int
	Offset int
}

// Normalize applies defaultLimit to a zero limit and clamps the limit into
// [1, MaxPageLimit]. Offsets below zero are reset to zero.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
