package history

import "context"

// Repository persists history records. Missing rows are reported by
// wrapping ErrNotFound.
type Repository interface {
	Append(ctx context.Context, r *Record) error
	// ListByConversation orders by created_at ascending, then id ascending.
	ListByConversation(ctx context.Context, conversationID uint64, page Page) ([]*Record, error)
	// ListBookmarked orders by created_at descending, then id descending.
	ListBookmarked(ctx context.Context, page Page) ([]*Record, error)
	// ToggleBookmark flips the flag in a single statement and returns the new row.
	ToggleBookmark(ctx context.Context, id uint64) (*Record, error)
	SetBookmark(ctx context.Context, id uint64, bookmarked bool) (*Record, error)
	// Latest returns the most recently created record across every conversation.
	Latest(ctx context.Context) (*Record, error)
	DeleteByConversation(ctx context.Context, conversationID uint64) (int64, error)
}
