package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"gorm.io/gorm"
)

type GameResultFilter struct {
	Game    entity.GameName
	Claimed *bool

	// DateFrom and DateTo are inclusive unix milliseconds, zero means unbounded.
	DateFrom int64
	DateTo   int64

	// Reward is matched as a case-insensitive substring.
	Reward string

	Offset int
	Limit  int
}

type GameResultStatistic struct {
	TotalPlays   int64
	TotalWins    int64
	TotalClaimed int64
	SpinPlays    int64
	ScratchPlays int64
	RecentPlays  int64
}

type GameResultRepository interface {
	Create(ctx context.Context, result *entity.GameResult) error
	GetByID(ctx context.Context, id string) (*entity.GameResult, error)
	GetList(ctx context.Context, filter GameResultFilter) ([]entity.GameResult, error)
	ExistsCode(ctx context.Context, code string) (bool, error)
	UpdateClaimed(ctx context.Context, id string, claimedAt sql.NullTime) error
	Statistic(ctx context.Context, recentSince int64) (*GameResultStatistic, error)
	DeleteAll(ctx context.Context) error
}

type gameResultRepository struct{}

func NewGameResultRepository() *gameResultRepository {
	return &gameResultRepository{}
}

func (r *gameResultRepository) Create(ctx context.Context, result *entity.GameResult) error {
	return xcontext.DB(ctx).Create(result).Error
}

func (r *gameResultRepository) GetByID(ctx context.Context, id string) (*entity.GameResult, error) {
	var result entity.GameResult
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *gameResultRepository) GetList(
	ctx context.Context, filter GameResultFilter,
) ([]entity.GameResult, error) {
	tx := xcontext.DB(ctx).Model(&entity.GameResult{})

	if filter.Game != "" {
		tx = tx.Where("game=?", filter.Game)
	}

	if filter.Claimed != nil {
		tx = tx.Where("claimed=?", *filter.Claimed)
	}

	if filter.DateFrom > 0 {
		tx = tx.Where("timestamp>=?", filter.DateFrom)
	}

	if filter.DateTo > 0 {
		tx = tx.Where("timestamp<=?", filter.DateTo)
	}

	if filter.Reward != "" {
		tx = tx.Where("LOWER(reward) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(filter.Reward))+"%")
	}

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit).Offset(filter.Offset)
	}

	var result []entity.GameResult
	if err := tx.Order("timestamp DESC").Order("id DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *gameResultRepository) ExistsCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.GameResult{}).Where("code=?", code).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *gameResultRepository) UpdateClaimed(ctx context.Context, id string, claimedAt sql.NullTime) error {
	tx := xcontext.DB(ctx).Model(&entity.GameResult{}).
		Where("id=?", id).
		Updates(map[string]any{
			"claimed":    claimedAt.Valid,
			"claimed_at": claimedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *gameResultRepository) Statistic(
	ctx context.Context, recentSince int64,
) (*GameResultStatistic, error) {
	var result GameResultStatistic
	err := xcontext.DB(ctx).Model(&entity.GameResult{}).
		Select(
			"COUNT(*) AS total_plays, "+
				"COALESCE(SUM(CASE WHEN reward<>? THEN 1 ELSE 0 END), 0) AS total_wins, "+
				"COALESCE(SUM(CASE WHEN claimed=? THEN 1 ELSE 0 END), 0) AS total_claimed, "+
				"COALESCE(SUM(CASE WHEN game=? THEN 1 ELSE 0 END), 0) AS spin_plays, "+
				"COALESCE(SUM(CASE WHEN game=? THEN 1 ELSE 0 END), 0) AS scratch_plays, "+
				"COALESCE(SUM(CASE WHEN timestamp>=? THEN 1 ELSE 0 END), 0) AS recent_plays",
			entity.NoWin, true, entity.SpinAndWin, entity.ScratchAndWin, recentSince,
		).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *gameResultRepository) DeleteAll(ctx context.Context) error {
	return xcontext.DB(ctx).Unscoped().Where("1=1").Delete(&entity.GameResult{}).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
