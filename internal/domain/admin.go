package domain

import (
	"context"
	"encoding/json"

	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/domain/ledger"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/model"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/authenticator"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/router"
	"github.com/questx-lab/spinwin/pkg/storage"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"golang.org/x/exp/slices"
)

type AdminDomain interface {
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	GetResults(context.Context, *model.GetResultsRequest) (*model.GetResultsResponse, error)
	SetClaimed(context.Context, *model.SetClaimedRequest) (*model.SetClaimedResponse, error)
	GetStatistics(context.Context, *model.GetStatisticsRequest) (*model.GetStatisticsResponse, error)
	ExportCSV(context.Context, *model.ExportCSVRequest) (*router.RawResponse, error)
	Backup(context.Context, *model.BackupRequest) (*router.RawResponse, error)
	UploadBackup(context.Context, *model.UploadBackupRequest) (*model.UploadBackupResponse, error)
	GetGameSettings(context.Context, *model.GetGameSettingsRequest) (*model.GetGameSettingsResponse, error)
	UpdateGameSettings(context.Context, *model.UpdateGameSettingsRequest) (*model.UpdateGameSettingsResponse, error)
	UpdateCredentials(context.Context, *model.UpdateCredentialsRequest) (*model.UpdateCredentialsResponse, error)
	ClearAllData(context.Context, *model.ClearAllDataRequest) (*model.ClearAllDataResponse, error)
}

type adminDomain struct {
	ledger      *ledger.Ledger
	storage     storage.Storage
	tokenEngine authenticator.TokenEngine[model.AdminToken]
}

// NewAdminDomain returns the staff API. storage may be nil when no object
// storage is configured, uploading backups is unavailable then.
func NewAdminDomain(
	ledger *ledger.Ledger,
	storage storage.Storage,
	tokenEngine authenticator.TokenEngine[model.AdminToken],
) *adminDomain {
	return &adminDomain{
		ledger:      ledger,
		storage:     storage,
		tokenEngine: tokenEngine,
	}
}

func (d *adminDomain) Login(
	ctx context.Context, req *model.LoginRequest,
) (*model.LoginResponse, error) {
	if !d.ledger.ValidateAdminCredentials(ctx, req.Email, req.Password) {
		xcontext.Logger(ctx).Warnf("Failed admin login of %s", req.Email)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid email or password")
	}

	token, err := d.tokenEngine.Generate(req.Email, model.AdminToken{Email: req.Email})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(xcontext.Configs(ctx).Auth.AccessToken.Expiration.Seconds()),
	}, nil
}

func (d *adminDomain) GetResults(
	ctx context.Context, req *model.GetResultsRequest,
) (*model.GetResultsResponse, error) {
	cfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit < 0 || req.Offset < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit and offset must not be negative")
	}

	if req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	filter, err := convertResultFilter(req.ResultFilter)
	if err != nil {
		return nil, err
	}
	filter.Offset = req.Offset
	filter.Limit = req.Limit

	results := []model.GameResult{}
	for _, r := range d.ledger.Query(ctx, filter) {
		results = append(results, model.ConvertGameResult(&r))
	}

	return &model.GetResultsResponse{Results: results}, nil
}

func (d *adminDomain) SetClaimed(
	ctx context.Context, req *model.SetClaimedRequest,
) (*model.SetClaimedResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Missing result id")
	}

	if !d.ledger.SetClaimed(ctx, req.ID, req.Claimed) {
		return nil, errorx.New(errorx.NotFound, "Not found game result")
	}

	xcontext.Logger(ctx).Infof("Admin %s set claimed=%t on result %s",
		xcontext.RequestAdmin(ctx), req.Claimed, req.ID)
	return &model.SetClaimedResponse{}, nil
}

func (d *adminDomain) GetStatistics(
	ctx context.Context, req *model.GetStatisticsRequest,
) (*model.GetStatisticsResponse, error) {
	stats := d.ledger.Statistics(ctx)
	if stats == nil {
		return nil, errorx.Unknown
	}

	return &model.GetStatisticsResponse{Statistics: model.Statistics{
		TotalPlays:   stats.TotalPlays,
		TotalWins:    stats.TotalWins,
		TotalClaimed: stats.TotalClaimed,
		WinRate:      stats.WinRate,
		ClaimRate:    stats.ClaimRate,
		SpinPlays:    stats.SpinPlays,
		ScratchPlays: stats.ScratchPlays,
		RecentPlays:  stats.RecentPlays,
		LastUpdated:  formatMillis(stats.LastUpdated),
	}}, nil
}

func (d *adminDomain) ExportCSV(
	ctx context.Context, req *model.ExportCSVRequest,
) (*router.RawResponse, error) {
	filter, err := convertResultFilter(req.ResultFilter)
	if err != nil {
		return nil, err
	}

	return &router.RawResponse{
		ContentType: "text/csv; charset=utf-8",
		FileName:    ledger.CSVFileName,
		Body:        []byte(d.ledger.ExportCSV(ctx, d.ledger.Query(ctx, filter))),
	}, nil
}

func (d *adminDomain) Backup(
	ctx context.Context, req *model.BackupRequest,
) (*router.RawResponse, error) {
	backup, err := d.ledger.Backup(ctx)
	if err != nil {
		return nil, errorx.Unknown
	}

	b, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal backup: %v", err)
		return nil, errorx.Unknown
	}

	return &router.RawResponse{
		ContentType: "application/json",
		FileName:    ledger.BackupFileName(timeNow()),
		Body:        b,
	}, nil
}

func (d *adminDomain) UploadBackup(
	ctx context.Context, req *model.UploadBackupRequest,
) (*model.UploadBackupResponse, error) {
	cfg := xcontext.Configs(ctx).Storage
	if d.storage == nil {
		return nil, errorx.New(errorx.Unavailable, "Object storage is not configured")
	}

	objects, err := d.ledger.BackupObjects(ctx, cfg.BackupBucket, common.BackupPrefix)
	if err != nil {
		return nil, errorx.Unknown
	}

	uploaded, err := d.storage.BulkUpload(ctx, objects)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload backup: %v", err)
		return nil, errorx.New(errorx.Internal, "Cannot upload backup")
	}

	files := []string{}
	for _, u := range uploaded {
		files = append(files, u.FileName)
	}

	return &model.UploadBackupResponse{Files: files}, nil
}

func (d *adminDomain) GetGameSettings(
	ctx context.Context, req *model.GetGameSettingsRequest,
) (*model.GetGameSettingsResponse, error) {
	settings := []model.GameSetting{}
	for _, s := range d.ledger.GetAllGameSettings(ctx) {
		settings = append(settings, model.ConvertGameSetting(s))
	}

	return &model.GetGameSettingsResponse{Settings: settings}, nil
}

func (d *adminDomain) UpdateGameSettings(
	ctx context.Context, req *model.UpdateGameSettingsRequest,
) (*model.UpdateGameSettingsResponse, error) {
	key, err := parseGameKey(req.Key)
	if err != nil {
		return nil, err
	}

	rewards := model.ConvertToEntityRewardEntries(req.Rewards)
	if !slices.ContainsFunc(rewards, func(r entity.RewardEntry) bool { return r.Probability > 0 }) {
		return nil, errorx.New(errorx.BadRequest, "At least one reward must have a positive probability")
	}

	if err := d.ledger.UpdateGameSettings(ctx, key, req.Enabled, rewards); err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Admin %s updated settings of %s", xcontext.RequestAdmin(ctx), key)
	return &model.UpdateGameSettingsResponse{}, nil
}

func (d *adminDomain) UpdateCredentials(
	ctx context.Context, req *model.UpdateCredentialsRequest,
) (*model.UpdateCredentialsResponse, error) {
	if err := d.ledger.UpdateAdminCredentials(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Admin %s changed the credentials to %s", xcontext.RequestAdmin(ctx), req.Email)
	return &model.UpdateCredentialsResponse{}, nil
}

func (d *adminDomain) ClearAllData(
	ctx context.Context, req *model.ClearAllDataRequest,
) (*model.ClearAllDataResponse, error) {
	if !req.Confirm {
		return nil, errorx.New(errorx.BadRequest, "Clearing all data must be confirmed")
	}

	if !d.ledger.ClearAllData(ctx) {
		return nil, errorx.Unknown
	}

	xcontext.Logger(ctx).Warnf("Admin %s cleared all game data", xcontext.RequestAdmin(ctx))
	return &model.ClearAllDataResponse{}, nil
}

func convertResultFilter(f model.ResultFilter) (repository.GameResultFilter, error) {
	filter := repository.GameResultFilter{
		DateFrom: f.DateFrom,
		DateTo:   f.DateTo,
		Reward:   f.Reward,
	}

	if f.Game != "" {
		game, err := parseGame(f.Game)
		if err != nil {
			return filter, err
		}
		filter.Game = game
	}

	switch f.Claimed {
	case "":
	case "true":
		claimed := true
		filter.Claimed = &claimed
	case "false":
		claimed := false
		filter.Claimed = &claimed
	default:
		return filter, errorx.New(errorx.BadRequest, "Invalid claimed filter %s", f.Claimed)
	}

	if filter.DateFrom < 0 || filter.DateTo < 0 || (filter.DateTo > 0 && filter.DateFrom > filter.DateTo) {
		return filter, errorx.New(errorx.BadRequest, "Invalid date range")
	}

	return filter, nil
}
