package repository

import (
	"context"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerSettingsRepository interface {
	CreateIfNotExists(ctx context.Context, settings *entity.LedgerSettings) error
	Get(ctx context.Context) (*entity.LedgerSettings, error)
	IncreasePlays(ctx context.Context, wins int64, now int64) error
	Touch(ctx context.Context, now int64) error
	Upsert(ctx context.Context, settings *entity.LedgerSettings) error
	Delete(ctx context.Context) error
}

type ledgerSettingsRepository struct{}

func NewLedgerSettingsRepository() *ledgerSettingsRepository {
	return &ledgerSettingsRepository{}
}

func (r *ledgerSettingsRepository) CreateIfNotExists(
	ctx context.Context, settings *entity.LedgerSettings,
) error {
	settings.ID = entity.SingletonID
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(settings).Error
}

func (r *ledgerSettingsRepository) Get(ctx context.Context) (*entity.LedgerSettings, error) {
	var result entity.LedgerSettings
	if err := xcontext.DB(ctx).Take(&result, "id=?", entity.SingletonID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *ledgerSettingsRepository) IncreasePlays(ctx context.Context, wins int64, now int64) error {
	tx := xcontext.DB(ctx).Model(&entity.LedgerSettings{}).
		Where("id=?", entity.SingletonID).
		Updates(map[string]any{
			"total_plays":  gorm.Expr("total_plays+?", 1),
			"total_wins":   gorm.Expr("total_wins+?", wins),
			"last_updated": now,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ledgerSettingsRepository) Touch(ctx context.Context, now int64) error {
	return xcontext.DB(ctx).Model(&entity.LedgerSettings{}).
		Where("id=?", entity.SingletonID).
		Update("last_updated", now).Error
}

func (r *ledgerSettingsRepository) Upsert(ctx context.Context, settings *entity.LedgerSettings) error {
	settings.ID = entity.SingletonID
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_plays", "total_wins", "last_updated"}),
	}).Create(settings).Error
}

func (r *ledgerSettingsRepository) Delete(ctx context.Context) error {
	return xcontext.DB(ctx).Delete(&entity.LedgerSettings{}, "id=?", entity.SingletonID).Error
}
