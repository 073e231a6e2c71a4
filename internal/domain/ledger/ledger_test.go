package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/testutil"
	"github.com/questx-lab/spinwin/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, redisClient xredis.Client) (context.Context, *Ledger) {
	ctx := testutil.NewMockContext()
	l := New(
		repository.NewGameResultRepository(),
		repository.NewLedgerSettingsRepository(),
		repository.NewAdminConfigRepository(),
		redisClient,
	)
	l.now = func() time.Time { return testutil.FixtureNow }

	require.NoError(t, l.Initialize(ctx))
	return ctx, l
}

func validInput() GameResultInput {
	return GameResultInput{
		Name:      "Alice",
		WhatsApp:  "+911234567890",
		Game:      entity.SpinAndWin,
		Reward:    "10% Off",
		Code:      "ABCD12345678",
		IPAddress: "10.1.1.1",
		UserAgent: "Mozilla/5.0",
	}
}

func Test_Initialize_Idempotent(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	require.NoError(t, l.Initialize(ctx))

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), settings.TotalPlays)
	require.Equal(t, int64(0), settings.TotalWins)

	require.True(t, l.ValidateAdminCredentials(ctx, "admin@example.com", "adminPass"))

	spin := l.GetGameSettings(ctx, entity.SpinGame)
	require.NotNil(t, spin)
	require.True(t, spin.Enabled)
	require.Equal(t, entity.DefaultSpinRewards(), []entity.RewardEntry(spin.Rewards))

	scratch := l.GetGameSettings(ctx, entity.ScratchGame)
	require.NotNil(t, scratch)
	require.Equal(t, entity.DefaultScratchRewards(), []entity.RewardEntry(scratch.Rewards))

	require.Len(t, l.GetAllGameSettings(ctx), 2)
}

func Test_Append(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	result, err := l.Append(ctx, validInput())
	require.NoError(t, err)
	require.NotEmpty(t, result.ID)
	require.False(t, result.Claimed)
	require.Equal(t, testutil.FixtureNow.UnixMilli(), result.Timestamp)

	input := validInput()
	input.Reward = entity.NoWin
	input.Code = "ZZZZ00000000"
	_, err = l.Append(ctx, input)
	require.NoError(t, err)

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), settings.TotalPlays)
	require.Equal(t, int64(1), settings.TotalWins)
	require.Equal(t, testutil.FixtureNow.UnixMilli(), settings.LastUpdated)

	results := l.Query(ctx, repository.GameResultFilter{})
	require.Len(t, results, 2)
}

func Test_Append_Sanitize(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	input := validInput()
	input.Name = "  <b>Tom & 'Jerry'</b>  "
	input.IPAddress = ""
	input.UserAgent = strings.Repeat("a", 150)

	result, err := l.Append(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "&lt;b&gt;Tom &amp; &#x27;Jerry&#x27;&lt;/b&gt;", result.Name)
	require.Equal(t, "Client-Side", result.IPAddress)
	require.Len(t, result.UserAgent, 100)
}

func Test_Append_Invalid(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	testCases := []struct {
		name   string
		modify func(*GameResultInput)
		field  string
	}{
		{name: "missing name", modify: func(i *GameResultInput) { i.Name = "" }, field: "name"},
		{name: "blank whatsapp", modify: func(i *GameResultInput) { i.WhatsApp = "   " }, field: "whatsapp"},
		{name: "missing reward", modify: func(i *GameResultInput) { i.Reward = "" }, field: "reward"},
		{name: "missing code", modify: func(i *GameResultInput) { i.Code = "" }, field: "code"},
		{name: "unknown game", modify: func(i *GameResultInput) { i.Game = "Dice" }, field: "game"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(&input)

			_, err := l.Append(ctx, input)
			require.Error(t, err)

			var errx errorx.Error
			require.True(t, errors.As(err, &errx))
			require.Equal(t, errorx.BadRequest, errx.Code)
			require.Contains(t, errx.Details, tt.field)
		})
	}

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), settings.TotalPlays)
}

func Test_Append_DuplicateCode(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	_, err := l.Append(ctx, validInput())
	require.NoError(t, err)

	_, err = l.Append(ctx, validInput())
	require.ErrorIs(t, err, errorx.New(errorx.AlreadyExists, ""))

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), settings.TotalPlays)
}

func Test_Query(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	testutil.InsertGameResults(ctx)

	claimed := true
	unclaimed := false

	testCases := []struct {
		name   string
		filter repository.GameResultFilter
		want   []string
	}{
		{
			name:   "all newest first",
			filter: repository.GameResultFilter{},
			want:   []string{"result1", "result2", "result3"},
		},
		{
			name:   "by game",
			filter: repository.GameResultFilter{Game: entity.ScratchAndWin},
			want:   []string{"result2", "result3"},
		},
		{
			name:   "claimed",
			filter: repository.GameResultFilter{Claimed: &claimed},
			want:   []string{"result3"},
		},
		{
			name:   "unclaimed",
			filter: repository.GameResultFilter{Claimed: &unclaimed},
			want:   []string{"result1", "result2"},
		},
		{
			name: "date range inclusive",
			filter: repository.GameResultFilter{
				DateFrom: testutil.GameResult2.Timestamp,
				DateTo:   testutil.GameResult1.Timestamp,
			},
			want: []string{"result1", "result2"},
		},
		{
			name:   "reward substring ignores case",
			filter: repository.GameResultFilter{Reward: "avil"},
			want:   []string{"result3"},
		},
		{
			name:   "paging",
			filter: repository.GameResultFilter{Offset: 1, Limit: 1},
			want:   []string{"result2"},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			results := l.Query(ctx, tt.filter)

			ids := []string{}
			for _, r := range results {
				ids = append(ids, r.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func Test_SetClaimed(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	testutil.InsertGameResults(ctx)

	require.True(t, l.SetClaimed(ctx, testutil.GameResult1.ID, true))

	result, err := l.resultRepo.GetByID(ctx, testutil.GameResult1.ID)
	require.NoError(t, err)
	require.True(t, result.Claimed)
	require.True(t, result.ClaimedAt.Valid)
	require.Equal(t, testutil.FixtureNow.UnixMilli(), result.ClaimedAt.Time.UnixMilli())

	require.True(t, l.SetClaimed(ctx, testutil.GameResult1.ID, false))

	result, err = l.resultRepo.GetByID(ctx, testutil.GameResult1.ID)
	require.NoError(t, err)
	require.False(t, result.Claimed)
	require.False(t, result.ClaimedAt.Valid)

	require.False(t, l.SetClaimed(ctx, "unknown", true))
}

func Test_Statistics(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	stats := l.Statistics(ctx)
	require.NotNil(t, stats)
	require.Equal(t, int64(0), stats.TotalPlays)
	require.Equal(t, float64(0), stats.WinRate)
	require.Equal(t, float64(0), stats.ClaimRate)

	testutil.InsertGameResults(ctx)

	stats = l.Statistics(ctx)
	require.NotNil(t, stats)
	require.Equal(t, int64(3), stats.TotalPlays)
	require.Equal(t, int64(2), stats.TotalWins)
	require.Equal(t, int64(1), stats.TotalClaimed)
	require.Equal(t, 66.7, stats.WinRate)
	require.Equal(t, 50.0, stats.ClaimRate)
	require.Equal(t, int64(1), stats.SpinPlays)
	require.Equal(t, int64(2), stats.ScratchPlays)
	require.Equal(t, int64(2), stats.RecentPlays)
}

func Test_Statistics_Cache(t *testing.T) {
	cached := Statistics{TotalPlays: 42, TotalWins: 21, WinRate: 50}
	deleted := []string{}
	stored := 0

	redisClient := &testutil.MockRedisClient{
		GetObjFunc: func(ctx context.Context, key string, v any) error {
			require.Equal(t, common.RedisKeyStatistics, key)
			b, err := json.Marshal(cached)
			require.NoError(t, err)
			return json.Unmarshal(b, v)
		},
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			stored++
			return nil
		},
		DelFunc: func(ctx context.Context, key ...string) error {
			deleted = append(deleted, key...)
			return nil
		},
	}

	ctx, l := newTestLedger(t, redisClient)

	stats := l.Statistics(ctx)
	require.Equal(t, cached, *stats)
	require.Equal(t, 0, stored)

	_, err := l.Append(ctx, validInput())
	require.NoError(t, err)
	require.Equal(t, []string{common.RedisKeyStatistics}, deleted)
}

func Test_Statistics_CacheMiss(t *testing.T) {
	var storedTTL time.Duration
	redisClient := &testutil.MockRedisClient{
		SetObjFunc: func(ctx context.Context, key string, obj any, ttl time.Duration) error {
			storedTTL = ttl
			return nil
		},
	}

	ctx, l := newTestLedger(t, redisClient)
	require.NotNil(t, l.Statistics(ctx))
	require.Equal(t, time.Minute, storedTTL)
}

func Test_IsCodeUnique(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	testutil.InsertGameResults(ctx)

	require.False(t, l.IsCodeUnique(ctx, testutil.GameResult1.Code))
	require.True(t, l.IsCodeUnique(ctx, "NEVERUSED000"))
}

func Test_AdminCredentials(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	require.False(t, l.ValidateAdminCredentials(ctx, "admin@example.com", "wrong"))
	require.False(t, l.ValidateAdminCredentials(ctx, "other@example.com", "adminPass"))

	err := l.UpdateAdminCredentials(ctx, "not-an-email", "newPassword")
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	err = l.UpdateAdminCredentials(ctx, "boss@example.com", "123")
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	require.NoError(t, l.UpdateAdminCredentials(ctx, "boss@example.com", "newPassword"))
	require.True(t, l.ValidateAdminCredentials(ctx, "boss@example.com", "newPassword"))
	require.False(t, l.ValidateAdminCredentials(ctx, "admin@example.com", "adminPass"))
}

func Test_UpdateGameSettings(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	rewards := []entity.RewardEntry{
		{Text: "Free Coffee", Probability: 0.4},
		{Text: entity.NoWin, Probability: 0.6},
	}

	require.NoError(t, l.UpdateGameSettings(ctx, entity.SpinGame, false, rewards))

	setting := l.GetGameSettings(ctx, entity.SpinGame)
	require.NotNil(t, setting)
	require.False(t, setting.Enabled)
	require.Equal(t, rewards, []entity.RewardEntry(setting.Rewards))

	err := l.UpdateGameSettings(ctx, entity.SpinGame, true, nil)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	err = l.UpdateGameSettings(ctx, entity.SpinGame, true, []entity.RewardEntry{{Text: "A", Probability: 1.5}})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	err = l.UpdateGameSettings(ctx, entity.SpinGame, true, []entity.RewardEntry{{Text: " ", Probability: 0.5}})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	err = l.UpdateGameSettings(ctx, "diceGame", true, rewards)
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))
}

func Test_ClearAllData(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	require.NoError(t, l.UpdateAdminCredentials(ctx, "boss@example.com", "newPassword"))

	_, err := l.Append(ctx, validInput())
	require.NoError(t, err)

	require.True(t, l.ClearAllData(ctx))
	require.Empty(t, l.Query(ctx, repository.GameResultFilter{}))

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), settings.TotalPlays)

	require.True(t, l.ValidateAdminCredentials(ctx, "boss@example.com", "newPassword"))

	// The code of a cleared result can be used again.
	_, err = l.Append(ctx, validInput())
	require.NoError(t, err)
}

func Test_Reconcile(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	testutil.InsertGameResults(ctx)

	require.NoError(t, l.Reconcile(ctx))

	settings, err := l.settingsRepo.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), settings.TotalPlays)
	require.Equal(t, int64(2), settings.TotalWins)
}

func Test_ExportCSV(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	require.Equal(t, "", l.ExportCSV(ctx, nil))
	require.Equal(t, "", l.ExportCSV(ctx, []entity.GameResult{}))

	testutil.InsertGameResults(ctx)

	lines := strings.Split(l.ExportCSV(ctx, nil), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "ID,Name,WhatsApp,Game,Reward,Code,Claimed,Timestamp,Date,IP Address", lines[0])
	require.Equal(t,
		`result1,"Alice",+911111111111,"Spin & Win","10% Off",AAAA00001111,No,`+
			strconv.FormatInt(testutil.GameResult1.Timestamp, 10)+`,"Mar 10, 2024, 11:00:00 AM",10.0.0.1`,
		lines[1],
	)
	require.True(t, strings.HasSuffix(lines[2], ",N/A"))
	require.Contains(t, lines[3], ",Yes,")

	only := l.ExportCSV(ctx, []entity.GameResult{testutil.GameResult2})
	require.Len(t, strings.Split(only, "\n"), 2)
}

func Test_Backup(t *testing.T) {
	ctx, l := newTestLedger(t, nil)
	testutil.InsertGameResults(ctx)

	backup, err := l.Backup(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.0", backup.Version)
	require.Equal(t, "2024-03-10T12:00:00Z", backup.BackupDate)
	require.Len(t, backup.GameData.GameResults, 3)
	require.Equal(t, "admin@example.com", backup.AdminData.Credentials.Email)
	require.Contains(t, backup.AdminData.GameSettings, "spinGame")
	require.Contains(t, backup.AdminData.GameSettings, "scratchGame")

	require.Nil(t, backup.GameData.GameResults[0].ClaimedAt)
	require.NotNil(t, backup.GameData.GameResults[2].ClaimedAt)

	b, err := json.Marshal(backup)
	require.NoError(t, err)
	require.NotContains(t, strings.ToLower(string(b)), "password")
	require.Contains(t, string(b), `"gameResults"`)
}

func Test_Sanitize(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "Alice"},
		{in: "  padded  ", want: "padded"},
		{in: `<script>alert("x")</script>`, want: "&lt;script&gt;alert(&quot;x&quot;)&lt;/script&gt;"},
		{in: "a&b", want: "a&amp;b"},
		{in: "it's", want: "it&#x27;s"},
	}

	for _, tt := range testCases {
		require.Equal(t, tt.want, Sanitize(tt.in))
	}
}

func Test_ValidateRewardTable(t *testing.T) {
	require.NoError(t, ValidateRewardTable(entity.DefaultSpinRewards()))
	require.Error(t, ValidateRewardTable([]entity.RewardEntry{{Text: "A", Probability: -0.1}}))
}

func Test_BackupObjects(t *testing.T) {
	ctx, l := newTestLedger(t, nil)

	objects, err := l.BackupObjects(ctx, "bucket", "backups")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	require.Equal(t, "backups/2024-03-10", objects[0].Prefix)
	require.Equal(t, "application/json", objects[0].Mime)

	testutil.InsertGameResults(ctx)

	objects, err = l.BackupObjects(ctx, "bucket", "backups")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	require.Equal(t, CSVFileName, objects[1].FileName)
	require.Equal(t, "bucket", objects[1].Bucket)

	var backup Backup
	require.NoError(t, json.Unmarshal(objects[0].Data, &backup))
	require.Len(t, backup.GameData.GameResults, 3)
}
