package conversationrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/infrastructure/database/entities"
	"github.com/janhq/qa-api/internal/infrastructure/database/transaction"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

const uniqueViolationCode = "23505"

// ConversationGormRepository stores conversations through GORM.
type ConversationGormRepository struct {
	db *transaction.Database
}

var _ conversation.Repository = (*ConversationGormRepository)(nil)

func NewConversationGormRepository(db *transaction.Database) *ConversationGormRepository {
	return &ConversationGormRepository{db: db}
}

// Create inserts c inside a savepoint so a title conflict does not poison an
// enclosing transaction.
func (repo *ConversationGormRepository) Create(ctx context.Context, c *conversation.Conversation) error {
	model := entities.NewConversation(c)
	err := repo.db.GetTx(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(model).Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"conversation title already exists", errors.Join(conversation.ErrDuplicateTitle, err), "")
		}
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation", err, "")
	}
	*c = *model.EtoD()
	return nil
}

func (repo *ConversationGormRepository) FindByID(ctx context.Context, id uint64) (*conversation.Conversation, error) {
	var model entities.Conversation
	if err := repo.db.GetTx(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ctx, err)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find conversation")
	}
	return model.EtoD(), nil
}

func (repo *ConversationGormRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var count int64
	err := repo.db.GetTx(ctx).Model(&entities.Conversation{}).Where("title = ?", title).Count(&count).Error
	if err != nil {
		return false, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to check conversation title")
	}
	return count > 0, nil
}

func (repo *ConversationGormRepository) FindTitlesWithPrefix(ctx context.Context, base string) ([]string, error) {
	var titles []string
	err := repo.db.GetTx(ctx).
		Model(&entities.Conversation{}).
		Where("title = ? OR title LIKE ? ESCAPE '\\'", base, escapeLike(base)+" (%)").
		Pluck("title", &titles).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list conversation titles")
	}
	return titles, nil
}

func (repo *ConversationGormRepository) List(ctx context.Context) ([]*conversation.Conversation, error) {
	var rows []entities.Conversation
	if err := repo.db.GetTx(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list conversations")
	}
	result := make([]*conversation.Conversation, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].EtoD())
	}
	return result, nil
}

func (repo *ConversationGormRepository) UpdateTitle(ctx context.Context, id uint64, title string, at time.Time) error {
	var affected int64
	err := repo.db.GetTx(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Conversation{}).
			Where("id = ?", id).
			UpdateColumns(map[string]any{"title": title, "updated_at": at})
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeConflict,
				"conversation title already exists", errors.Join(conversation.ErrDuplicateTitle, err), "")
		}
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update conversation title")
	}
	if affected == 0 {
		return notFound(ctx, nil)
	}
	return nil
}

func (repo *ConversationGormRepository) Touch(ctx context.Context, id uint64, at time.Time) error {
	res := repo.db.GetTx(ctx).Model(&entities.Conversation{}).Where("id = ?", id).UpdateColumn("updated_at", at)
	if res.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, res.Error, "failed to touch conversation")
	}
	if res.RowsAffected == 0 {
		return notFound(ctx, nil)
	}
	return nil
}

// Delete removes the conversation row only; callers purge history first.
func (repo *ConversationGormRepository) Delete(ctx context.Context, id uint64) error {
	res := repo.db.GetTx(ctx).Where("id = ?", id).Delete(&entities.Conversation{})
	if res.Error != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerRepository, res.Error, "failed to delete conversation")
	}
	if res.RowsAffected == 0 {
		return notFound(ctx, nil)
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// PostgreSQL or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

func notFound(ctx context.Context, err error) error {
	cause := conversation.ErrNotFound
	if err != nil {
		cause = errors.Join(conversation.ErrNotFound, err)
	}
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"conversation not found", cause, "")
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
