package repository

import (
	"context"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminConfigRepository interface {
	CreateCredentialsIfNotExists(ctx context.Context, credentials *entity.AdminCredentials) error
	GetCredentials(ctx context.Context) (*entity.AdminCredentials, error)
	UpdateCredentials(ctx context.Context, email, passwordHash string) error

	CreateGameSettingIfNotExists(ctx context.Context, setting *entity.GameSetting) error
	GetGameSetting(ctx context.Context, key entity.GameKey) (*entity.GameSetting, error)
	GetGameSettings(ctx context.Context) ([]entity.GameSetting, error)
	UpdateGameSetting(ctx context.Context, setting *entity.GameSetting) error
}

type adminConfigRepository struct{}

func NewAdminConfigRepository() *adminConfigRepository {
	return &adminConfigRepository{}
}

func (r *adminConfigRepository) CreateCredentialsIfNotExists(
	ctx context.Context, credentials *entity.AdminCredentials,
) error {
	credentials.ID = entity.SingletonID
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(credentials).Error
}

func (r *adminConfigRepository) GetCredentials(ctx context.Context) (*entity.AdminCredentials, error) {
	var result entity.AdminCredentials
	if err := xcontext.DB(ctx).Take(&result, "id=?", entity.SingletonID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adminConfigRepository) UpdateCredentials(ctx context.Context, email, passwordHash string) error {
	tx := xcontext.DB(ctx).Model(&entity.AdminCredentials{}).
		Where("id=?", entity.SingletonID).
		Updates(map[string]any{
			"email":         email,
			"password_hash": passwordHash,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *adminConfigRepository) CreateGameSettingIfNotExists(
	ctx context.Context, setting *entity.GameSetting,
) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(setting).Error
}

func (r *adminConfigRepository) GetGameSetting(
	ctx context.Context, key entity.GameKey,
) (*entity.GameSetting, error) {
	var result entity.GameSetting
	if err := xcontext.DB(ctx).Take(&result, "game_key=?", key).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *adminConfigRepository) GetGameSettings(ctx context.Context) ([]entity.GameSetting, error) {
	var result []entity.GameSetting
	if err := xcontext.DB(ctx).Order("game_key").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *adminConfigRepository) UpdateGameSetting(ctx context.Context, setting *entity.GameSetting) error {
	tx := xcontext.DB(ctx).Model(&entity.GameSetting{}).
		Where("game_key=?", setting.Key).
		Updates(map[string]any{
			"enabled": setting.Enabled,
			"rewards": setting.Rewards,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
