package conversation

import (
	"context"
	"time"
)

// Repository persists conversations. Implementations wrap ErrNotFound and
// ErrDuplicateTitle so callers can match them with errors.Is; title
// uniqueness is guaranteed by the store itself.
type Repository interface {
	Create(ctx context.Context, c *Conversation) error
	FindByID(ctx context.Context, id uint64) (*Conversation, error)
	ExistsByTitle(ctx context.Context, title string) (bool, error)
	// FindTitlesWithPrefix returns titles equal to base or of the form "base (n)".
	FindTitlesWithPrefix(ctx context.Context, base string) ([]string, error)
	List(ctx context.Context) ([]*Conversation, error)
	UpdateTitle(ctx context.Context, id uint64, title string, at time.Time) error
	Touch(ctx context.Context, id uint64, at time.Time) error
	Delete(ctx context.Context, id uint64) error
}
