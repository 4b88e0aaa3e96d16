package historyrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/infrastructure/database/entities"
	"github.com/janhq/qa-api/internal/infrastructure/database/transaction"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// HistoryGormRepository stores chat history through GORM.
type HistoryGormRepository struct {
	db *transaction.Database
}

var _ history.Repository = (*HistoryGormRepository)(nil)

func NewHistoryGormRepository(db *transaction.Database) *HistoryGormRepository {
	return &HistoryGormRepository{db: db}
}

func (repo *HistoryGormRepository) Append(ctx context.Context, r *history.Record) error {
	model := entities.NewChatHistory(r)
	if err := repo.db.GetTx(ctx).Create(model).Error; err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
			"failed to append history", err, "")
	}
	*r = *model.EtoD()
	return nil
}

func (repo *HistoryGormRepository) ListByConversation(ctx context.Context, conversationID uint64, page history.Page) ([]*history.Record, error) {
	var rows []entities.ChatHistory
	err := repo.db.GetTx(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list history")
	}
	return toDomain(rows), nil
}

func (repo *HistoryGormRepository) ListBookmarked(ctx context.Context, page history.Page) ([]*history.Record, error) {
	var rows []entities.ChatHistory
	err := repo.db.GetTx(ctx).
		Where("is_bookmarked = ?", true).
		Order("created_at DESC, id DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to list bookmarked history")
	}
	return toDomain(rows), nil
}

// ToggleBookmark negates the flag in the UPDATE itself so concurrent toggles
// never read a stale value.
func (repo *HistoryGormRepository) ToggleBookmark(ctx context.Context, id uint64) (*history.Record, error) {
	return repo.updateBookmark(ctx, id, gorm.Expr("NOT is_bookmarked"))
}

func (repo *HistoryGormRepository) SetBookmark(ctx context.Context, id uint64, bookmarked bool) (*history.Record, error) {
	return repo.updateBookmark(ctx, id, bookmarked)
}

func (repo *HistoryGormRepository) updateBookmark(ctx context.Context, id uint64, value any) (*history.Record, error) {
	var model entities.ChatHistory
	err := repo.db.GetTx(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.ChatHistory{}).Where("id = ?", id).UpdateColumn("is_bookmarked", value)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ctx, err)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to update bookmark")
	}
	return model.EtoD(), nil
}

func (repo *HistoryGormRepository) Latest(ctx context.Context) (*history.Record, error) {
	var model entities.ChatHistory
	if err := repo.db.GetTx(ctx).Order("created_at DESC, id DESC").First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound(ctx, err)
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerRepository, err, "failed to find latest history")
	}
	return model.EtoD(), nil
}

func (repo *HistoryGormRepository) DeleteByConversation(ctx context.Context, conversationID uint64) (int64, error) {
	res := repo.db.GetTx(ctx).Where("conversation_id = ?", conversationID).Delete(&entities.ChatHistory{})
	if res.Error != nil {
		return 0, platformerrors.AsError(ctx, platformerrors.LayerRepository, res.Error, "failed to delete history")
	}
	return res.RowsAffected, nil
}

func toDomain(rows []entities.ChatHistory) []*history.Record {
	result := make([]*history.Record, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].EtoD())
	}
	return result
}

func notFound(ctx context.Context, err error) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound,
		"history not found", errors.Join(history.ErrNotFound, err), "")
}
