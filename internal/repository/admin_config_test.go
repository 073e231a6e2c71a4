package repository_test

import (
	"testing"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_adminConfigRepository_Credentials(t *testing.T) {
	ctx := testutil.NewMockContext()
	repo := repository.NewAdminConfigRepository()

	require.ErrorIs(t, repo.UpdateCredentials(ctx, "a@b.c", "hash"), gorm.ErrRecordNotFound)

	require.NoError(t, repo.CreateCredentialsIfNotExists(ctx, &entity.AdminCredentials{
		Email: "admin@example.com", PasswordHash: "first",
	}))
	require.NoError(t, repo.CreateCredentialsIfNotExists(ctx, &entity.AdminCredentials{
		Email: "other@example.com", PasswordHash: "second",
	}))

	credentials, err := repo.GetCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", credentials.Email)
	require.Equal(t, "first", credentials.PasswordHash)

	require.NoError(t, repo.UpdateCredentials(ctx, "staff@example.com", "third"))
	credentials, err = repo.GetCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, "staff@example.com", credentials.Email)
	require.Equal(t, "third", credentials.PasswordHash)
}

func Test_adminConfigRepository_GameSettings(t *testing.T) {
	ctx := testutil.NewMockContext()
	repo := repository.NewAdminConfigRepository()

	_, err := repo.GetGameSetting(ctx, entity.SpinGame)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, key := range []entity.GameKey{entity.SpinGame, entity.ScratchGame} {
		require.NoError(t, repo.CreateGameSettingIfNotExists(ctx, &entity.GameSetting{
			Key: key, Enabled: true, Rewards: entity.DefaultRewards(key),
		}))
	}

	rewards := []entity.RewardEntry{{Text: "Free Coffee", Probability: 1}}
	require.NoError(t, repo.UpdateGameSetting(ctx, &entity.GameSetting{
		Key: entity.SpinGame, Enabled: false, Rewards: rewards,
	}))

	setting, err := repo.GetGameSetting(ctx, entity.SpinGame)
	require.NoError(t, err)
	require.False(t, setting.Enabled)
	require.Equal(t, entity.Array[entity.RewardEntry](rewards), setting.Rewards)

	settings, err := repo.GetGameSettings(ctx)
	require.NoError(t, err)
	require.Len(t, settings, 2)
	require.Equal(t, entity.ScratchGame, settings[0].Key)

	err = repo.UpdateGameSetting(ctx, &entity.GameSetting{Key: "chessGame"})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
