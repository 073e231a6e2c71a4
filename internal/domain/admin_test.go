package domain

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/model"
	"github.com/questx-lab/spinwin/pkg/authenticator"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/storage"
	"github.com/questx-lab/spinwin/pkg/testutil"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestAdminDomain(t *testing.T, ctx context.Context, s storage.Storage) *adminDomain {
	cfg := xcontext.Configs(ctx).Auth
	return NewAdminDomain(
		newTestLedger(t, ctx),
		s,
		authenticator.NewTokenEngine[model.AdminToken](cfg.TokenSecret, cfg.AccessToken.Expiration),
	)
}

func newAdminFixtureContext(t *testing.T) context.Context {
	ctx := testutil.NewMockContext()
	testutil.InsertGameResults(ctx)
	return xcontext.WithRequestAdmin(ctx, "admin@example.com")
}

func Test_adminDomain_Login(t *testing.T) {
	ctx := testutil.NewMockContext()
	domain := newTestAdminDomain(t, ctx, nil)

	_, err := domain.Login(ctx, &model.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	require.ErrorIs(t, err, errorx.New(errorx.Unauthenticated, ""))

	resp, err := domain.Login(ctx, &model.LoginRequest{Email: "admin@example.com", Password: "adminPass"})
	require.NoError(t, err)
	require.Equal(t, int64(60), resp.ExpiresIn)

	token, err := domain.tokenEngine.Verify(resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "admin@example.com", token.Email)
}

func Test_adminDomain_GetResults(t *testing.T) {
	testCases := []struct {
		name    string
		req     *model.GetResultsRequest
		wantIDs []string
		wantErr errorx.Code
	}{
		{
			name:    "all",
			req:     &model.GetResultsRequest{},
			wantIDs: []string{"result1", "result2", "result3"},
		},
		{
			name:    "by game key",
			req:     &model.GetResultsRequest{ResultFilter: model.ResultFilter{Game: "scratchGame"}},
			wantIDs: []string{"result2", "result3"},
		},
		{
			name:    "claimed",
			req:     &model.GetResultsRequest{ResultFilter: model.ResultFilter{Claimed: "true"}},
			wantIDs: []string{"result3"},
		},
		{
			name:    "limit",
			req:     &model.GetResultsRequest{Limit: 1},
			wantIDs: []string{"result1"},
		},
		{
			name:    "invalid claimed",
			req:     &model.GetResultsRequest{ResultFilter: model.ResultFilter{Claimed: "yes"}},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "invalid game",
			req:     &model.GetResultsRequest{ResultFilter: model.ResultFilter{Game: "chess"}},
			wantErr: errorx.BadRequest,
		},
		{
			name:    "exceed limit",
			req:     &model.GetResultsRequest{Limit: 51},
			wantErr: errorx.BadRequest,
		},
		{
			name: "invalid date range",
			req: &model.GetResultsRequest{
				ResultFilter: model.ResultFilter{DateFrom: 200, DateTo: 100},
			},
			wantErr: errorx.BadRequest,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newAdminFixtureContext(t)
			domain := newTestAdminDomain(t, ctx, nil)

			resp, err := domain.GetResults(ctx, tt.req)
			if tt.wantErr != 0 {
				require.ErrorIs(t, err, errorx.New(tt.wantErr, ""))
				return
			}

			require.NoError(t, err)
			ids := []string{}
			for _, r := range resp.Results {
				ids = append(ids, r.ID)
			}
			require.Equal(t, tt.wantIDs, ids)
		})
	}
}

func Test_adminDomain_SetClaimed(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	_, err := domain.SetClaimed(ctx, &model.SetClaimedRequest{ID: "missing", Claimed: true})
	require.ErrorIs(t, err, errorx.New(errorx.NotFound, ""))

	_, err = domain.SetClaimed(ctx, &model.SetClaimedRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = domain.SetClaimed(ctx, &model.SetClaimedRequest{ID: testutil.GameResult1.ID, Claimed: true})
	require.NoError(t, err)

	sample, err := testutil.SampleGameResult(ctx, &entity.GameResult{Game: entity.ScratchAndWin})
	require.NoError(t, err)
	_, err = domain.SetClaimed(ctx, &model.SetClaimedRequest{ID: sample.ID, Claimed: true})
	require.NoError(t, err)

	resp, err := domain.GetResults(ctx, &model.GetResultsRequest{
		ResultFilter: model.ResultFilter{Claimed: "true"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
}

func Test_adminDomain_GetStatistics(t *testing.T) {
	ctx := testutil.NewMockContextWithAdmin("admin@example.com")
	domain := newTestAdminDomain(t, ctx, nil)

	resp, err := domain.GetStatistics(ctx, &model.GetStatisticsRequest{})
	require.NoError(t, err)
	require.Zero(t, resp.Statistics.TotalPlays)
	require.Zero(t, resp.Statistics.WinRate)

	testutil.InsertGameResults(ctx)
	resp, err = domain.GetStatistics(ctx, &model.GetStatisticsRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(3), resp.Statistics.TotalPlays)
	require.Equal(t, 66.7, resp.Statistics.WinRate)
	require.Equal(t, 50.0, resp.Statistics.ClaimRate)
}

func Test_adminDomain_ExportCSV(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	resp, err := domain.ExportCSV(ctx, &model.ExportCSVRequest{
		ResultFilter: model.ResultFilter{Game: "spinGame"},
	})
	require.NoError(t, err)
	require.Equal(t, "game_results.csv", resp.FileName)

	lines := strings.Split(string(resp.Body), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[1], "result1,"))
}

func Test_adminDomain_Backup(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	resp, err := domain.Backup(ctx, &model.BackupRequest{})
	require.NoError(t, err)
	require.Equal(t, "application/json", resp.ContentType)
	require.Regexp(t, `^game_backup_\d+\.json$`, resp.FileName)

	var backup map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &backup))
	require.Equal(t, "1.0", backup["version"])
	require.Contains(t, backup, "gameData")
	require.Contains(t, backup, "adminData")
}

func Test_adminDomain_UploadBackup(t *testing.T) {
	ctx := newAdminFixtureContext(t)

	_, err := newTestAdminDomain(t, ctx, nil).UploadBackup(ctx, &model.UploadBackupRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.Unavailable, ""))

	mockStorage := &testutil.MockStorage{
		BulkUploadFunc: func(
			ctx context.Context, objs []*storage.UploadObject,
		) ([]*storage.UploadResponse, error) {
			resp := []*storage.UploadResponse{}
			for _, o := range objs {
				resp = append(resp, &storage.UploadResponse{FileName: o.FileName})
			}
			return resp, nil
		},
	}

	resp, err := newTestAdminDomain(t, ctx, mockStorage).UploadBackup(ctx, &model.UploadBackupRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Files, 2)
	require.Equal(t, "game_results.csv", resp.Files[1])

	_, err = newTestAdminDomain(t, ctx, &testutil.MockStorage{}).UploadBackup(ctx, &model.UploadBackupRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.Internal, ""))
}

func Test_adminDomain_UpdateGameSettings(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	_, err := domain.UpdateGameSettings(ctx, &model.UpdateGameSettingsRequest{
		Key:     "spinGame",
		Enabled: true,
		Rewards: []model.RewardEntry{{Text: "Nothing", Probability: 0}},
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = domain.UpdateGameSettings(ctx, &model.UpdateGameSettingsRequest{
		Key:     "chessGame",
		Rewards: []model.RewardEntry{{Text: "Free Coffee", Probability: 1}},
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = domain.UpdateGameSettings(ctx, &model.UpdateGameSettingsRequest{
		Key:     "spinGame",
		Enabled: false,
		Rewards: []model.RewardEntry{{Text: "Free Coffee", Probability: 1}},
	})
	require.NoError(t, err)

	resp, err := domain.GetGameSettings(ctx, &model.GetGameSettingsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Settings, 2)

	for _, s := range resp.Settings {
		if s.Key == string(entity.SpinGame) {
			require.False(t, s.Enabled)
			require.Equal(t, []model.RewardEntry{{Text: "Free Coffee", Probability: 1}}, s.Rewards)
		}
	}
}

func Test_adminDomain_UpdateCredentials(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	_, err := domain.UpdateCredentials(ctx, &model.UpdateCredentialsRequest{
		Email: "not-an-email", Password: "newPass1",
	})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = domain.UpdateCredentials(ctx, &model.UpdateCredentialsRequest{
		Email: "staff@example.com", Password: "newPass1",
	})
	require.NoError(t, err)

	_, err = domain.Login(ctx, &model.LoginRequest{Email: "admin@example.com", Password: "adminPass"})
	require.Error(t, err)

	_, err = domain.Login(ctx, &model.LoginRequest{Email: "staff@example.com", Password: "newPass1"})
	require.NoError(t, err)
}

func Test_adminDomain_ClearAllData(t *testing.T) {
	ctx := newAdminFixtureContext(t)
	domain := newTestAdminDomain(t, ctx, nil)

	_, err := domain.ClearAllData(ctx, &model.ClearAllDataRequest{})
	require.ErrorIs(t, err, errorx.New(errorx.BadRequest, ""))

	_, err = domain.ClearAllData(ctx, &model.ClearAllDataRequest{Confirm: true})
	require.NoError(t, err)

	resp, err := domain.GetResults(ctx, &model.GetResultsRequest{})
	require.NoError(t, err)
	require.Empty(t, resp.Results)
}
