package ledger

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/mail"
	"strings"
	"time"

	mathutil "github.com/pkg/math"
	"github.com/questx-lab/spinwin/internal/common"
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/dateutil"
	"github.com/questx-lab/spinwin/pkg/enum"
	"github.com/questx-lab/spinwin/pkg/errorx"
	"github.com/questx-lab/spinwin/pkg/idutil"
	"github.com/questx-lab/spinwin/pkg/xcontext"
	"github.com/questx-lab/spinwin/pkg/xredis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@example.com"
	defaultAdminPassword = "adminPass"
	clientSideIP         = "Client-Side"
	maxUserAgentLength   = 100
	minPasswordLength    = 6
	defaultRecentDays    = 7
)

type GameResultInput struct {
	Name      string
	WhatsApp  string
	Game      entity.GameName
	Reward    string
	Code      string
	IPAddress string
	UserAgent string
}

type Statistics struct {
	TotalPlays   int64   `json:"totalPlays"`
	TotalWins    int64   `json:"totalWins"`
	TotalClaimed int64   `json:"totalClaimed"`
	WinRate      float64 `json:"winRate"`
	ClaimRate    float64 `json:"claimRate"`
	SpinPlays    int64   `json:"spinPlays"`
	ScratchPlays int64   `json:"scratchPlays"`
	RecentPlays  int64   `json:"recentPlays"`
	LastUpdated  int64   `json:"lastUpdated"`
}

// Ledger owns game results, the aggregate settings and the admin config.
// Read operations never fail, storage errors are logged and turned into an
// empty value.
type Ledger struct {
	resultRepo   repository.GameResultRepository
	settingsRepo repository.LedgerSettingsRepository
	adminRepo    repository.AdminConfigRepository
	redisClient  xredis.Client

	now func() time.Time
}

// New returns a Ledger. redisClient may be nil, statistics are not cached in
// that case.
func New(
	resultRepo repository.GameResultRepository,
	settingsRepo repository.LedgerSettingsRepository,
	adminRepo repository.AdminConfigRepository,
	redisClient xredis.Client,
) *Ledger {
	return &Ledger{
		resultRepo:   resultRepo,
		settingsRepo: settingsRepo,
		adminRepo:    adminRepo,
		redisClient:  redisClient,
		now:          time.Now,
	}
}

func (l *Ledger) Initialize(ctx context.Context) error {
	err := l.settingsRepo.CreateIfNotExists(ctx, &entity.LedgerSettings{
		LastUpdated: l.now().UnixMilli(),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot initialize ledger settings: %v", err)
		return err
	}

	_, err = l.adminRepo.GetCredentials(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get admin credentials: %v", err)
		return err
	}

	if err != nil {
		email, password := defaultCredentials(ctx)
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		err = l.adminRepo.CreateCredentialsIfNotExists(ctx, &entity.AdminCredentials{
			Email:        email,
			PasswordHash: string(hash),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create admin credentials: %v", err)
			return err
		}
	}

	for _, key := range []entity.GameKey{entity.SpinGame, entity.ScratchGame} {
		err := l.adminRepo.CreateGameSettingIfNotExists(ctx, &entity.GameSetting{
			Key:     key,
			Enabled: true,
			Rewards: entity.DefaultRewards(key),
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create game setting %s: %v", key, err)
			return err
		}
	}

	return nil
}

func (l *Ledger) Append(ctx context.Context, input GameResultInput) (*entity.GameResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	id, err := idutil.NewSnowflakeID()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate result id: %v", err)
		return nil, errorx.Unknown
	}

	now := l.now()
	result := &entity.GameResult{
		Base:      entity.Base{ID: id},
		Name:      Sanitize(input.Name),
		WhatsApp:  Sanitize(input.WhatsApp),
		Game:      input.Game,
		Reward:    input.Reward,
		Code:      input.Code,
		Claimed:   false,
		Timestamp: now.UnixMilli(),
		IPAddress: input.IPAddress,
		UserAgent: truncate(input.UserAgent, maxUserAgentLength),
	}

	if result.IPAddress == "" {
		result.IPAddress = clientSideIP
	}

	wins := int64(0)
	if result.IsWin() {
		wins = 1
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := l.resultRepo.Create(ctx, result); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Reward code %s was already used", result.Code)
		}

		xcontext.Logger(ctx).Errorf("Cannot create game result: %v", err)
		return nil, errorx.Unknown
	}

	err = l.settingsRepo.IncreasePlays(ctx, wins, result.Timestamp)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = l.settingsRepo.Upsert(ctx, &entity.LedgerSettings{
			TotalPlays:  1,
			TotalWins:   wins,
			LastUpdated: result.Timestamp,
		})
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update ledger settings: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit game result: %v", err)
		return nil, errorx.Unknown
	}

	l.invalidateStatistics(ctx)
	return result, nil
}

func (l *Ledger) Query(ctx context.Context, filter repository.GameResultFilter) []entity.GameResult {
	results, err := l.resultRepo.GetList(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get game results: %v", err)
		return []entity.GameResult{}
	}

	return results
}

func (l *Ledger) SetClaimed(ctx context.Context, id string, claimed bool) bool {
	if _, err := l.resultRepo.GetByID(ctx, id); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get game result: %v", err)
		}

		return false
	}

	now := l.now()
	claimedAt := sql.NullTime{}
	if claimed {
		claimedAt = sql.NullTime{Time: now, Valid: true}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := l.resultRepo.UpdateClaimed(ctx, id, claimedAt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update claimed status: %v", err)
		return false
	}

	if err := l.settingsRepo.Touch(ctx, now.UnixMilli()); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot touch ledger settings: %v", err)
		return false
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit claimed status: %v", err)
		return false
	}

	l.invalidateStatistics(ctx)
	return true
}

func (l *Ledger) Statistics(ctx context.Context) *Statistics {
	if l.redisClient != nil {
		var cached Statistics
		err := l.redisClient.GetObj(ctx, common.RedisKeyStatistics, &cached)
		if err == nil {
			return &cached
		}

		if !xredis.IsNil(err) {
			xcontext.Logger(ctx).Warnf("Cannot get cached statistics: %v", err)
		}
	}

	settings, err := l.settingsRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ledger settings: %v", err)
		return nil
	}

	recentDays := xcontext.Configs(ctx).Game.RecentDays
	if recentDays <= 0 {
		recentDays = defaultRecentDays
	}

	recentSince := dateutil.DaysAgo(l.now(), recentDays)
	stat, err := l.resultRepo.Statistic(ctx, recentSince)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get game result statistic: %v", err)
		return nil
	}

	result := &Statistics{
		TotalPlays:   stat.TotalPlays,
		TotalWins:    stat.TotalWins,
		TotalClaimed: stat.TotalClaimed,
		WinRate:      percentage(stat.TotalWins, stat.TotalPlays),
		ClaimRate:    percentage(stat.TotalClaimed, stat.TotalWins),
		SpinPlays:    stat.SpinPlays,
		ScratchPlays: stat.ScratchPlays,
		RecentPlays:  stat.RecentPlays,
		LastUpdated:  settings.LastUpdated,
	}

	if l.redisClient != nil {
		ttl := xcontext.Configs(ctx).Redis.StatsTTL
		if err := l.redisClient.SetObj(ctx, common.RedisKeyStatistics, result, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache statistics: %v", err)
		}
	}

	return result
}

func (l *Ledger) IsCodeUnique(ctx context.Context, code string) bool {
	exists, err := l.resultRepo.ExistsCode(ctx, code)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check code uniqueness: %v", err)
		return false
	}

	return !exists
}

func (l *Ledger) ValidateAdminCredentials(ctx context.Context, email, password string) bool {
	credentials, err := l.adminRepo.GetCredentials(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get admin credentials: %v", err)
		return false
	}

	if credentials.Email != email {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(credentials.PasswordHash), []byte(password)) == nil
}

func (l *Ledger) UpdateAdminCredentials(ctx context.Context, email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid email").WithDetail("email", "Invalid email")
	}

	if len(password) < minPasswordLength {
		return errorx.New(errorx.BadRequest, "Password must be at least %d characters", minPasswordLength).
			WithDetail("password", "Password is too short")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return errorx.Unknown
	}

	if err := l.adminRepo.UpdateCredentials(ctx, email, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Admin config is not initialized")
		}

		xcontext.Logger(ctx).Errorf("Cannot update admin credentials: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *Ledger) GetGameSettings(ctx context.Context, key entity.GameKey) *entity.GameSetting {
	setting, err := l.adminRepo.GetGameSetting(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get game setting %s: %v", key, err)
		}

		return nil
	}

	return setting
}

func (l *Ledger) GetAllGameSettings(ctx context.Context) []entity.GameSetting {
	settings, err := l.adminRepo.GetGameSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get game settings: %v", err)
		return []entity.GameSetting{}
	}

	return settings
}

func (l *Ledger) UpdateGameSettings(
	ctx context.Context, key entity.GameKey, enabled bool, rewards []entity.RewardEntry,
) error {
	if _, err := enum.ToEnum[entity.GameKey](string(key)); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid game key %s", key)
	}

	if err := ValidateRewardTable(rewards); err != nil {
		return err
	}

	if l.GetGameSettings(ctx, key) == nil {
		return errorx.New(errorx.NotFound, "Not found game setting %s", key)
	}

	err := l.adminRepo.UpdateGameSetting(ctx, &entity.GameSetting{
		Key:     key,
		Enabled: enabled,
		Rewards: rewards,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update game setting %s: %v", key, err)
		return errorx.Unknown
	}

	return nil
}

// ClearAllData removes every game result and resets the settings. The admin
// config is kept.
func (l *Ledger) ClearAllData(ctx context.Context) bool {
	err := func() error {
		ctx := xcontext.WithDBTransaction(ctx)
		defer xcontext.WithRollbackDBTransaction(ctx)

		if err := l.resultRepo.DeleteAll(ctx); err != nil {
			return err
		}

		if err := l.settingsRepo.Delete(ctx); err != nil {
			return err
		}

		return xcontext.WithCommitDBTransaction(ctx)
	}()
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot clear ledger: %v", err)
		return false
	}

	l.invalidateStatistics(ctx)
	return l.Initialize(ctx) == nil
}

// Reconcile recomputes the settings counters from the stored results.
func (l *Ledger) Reconcile(ctx context.Context) error {
	stat, err := l.resultRepo.Statistic(ctx, 0)
	if err != nil {
		return err
	}

	settings, err := l.settingsRepo.Get(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err == nil && settings.TotalPlays == stat.TotalPlays && settings.TotalWins == stat.TotalWins {
		return nil
	}

	xcontext.Logger(ctx).Warnf("Ledger settings drifted, plays %d -> %d, wins %d -> %d",
		valueOrZero(settings).TotalPlays, stat.TotalPlays, valueOrZero(settings).TotalWins, stat.TotalWins)

	err = l.settingsRepo.Upsert(ctx, &entity.LedgerSettings{
		TotalPlays:  stat.TotalPlays,
		TotalWins:   stat.TotalWins,
		LastUpdated: l.now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	l.invalidateStatistics(ctx)
	return nil
}

func (l *Ledger) invalidateStatistics(ctx context.Context) {
	if l.redisClient == nil {
		return
	}

	if err := l.redisClient.Del(ctx, common.RedisKeyStatistics); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate cached statistics: %v", err)
	}
}

func validateInput(input GameResultInput) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", input.Name},
		{"whatsapp", input.WhatsApp},
		{"game", string(input.Game)},
		{"reward", input.Reward},
		{"code", input.Code},
	}

	var verr *errorx.Error
	for _, f := range fields {
		if strings.TrimSpace(f.value) != "" {
			continue
		}

		if verr == nil {
			e := errorx.New(errorx.BadRequest, "Missing required field: %s", f.name)
			verr = &e
		}

		*verr = verr.WithDetail(f.name, "Missing required field")
	}

	if verr != nil {
		return *verr
	}

	if _, err := enum.ToEnum[entity.GameName](string(input.Game)); err != nil {
		return errorx.New(errorx.BadRequest, "Invalid game %s", input.Game).WithDetail("game", "Invalid game")
	}

	return nil
}

// ValidateRewardTable requires at least one entry, non-empty texts and
// probabilities within [0, 1].
func ValidateRewardTable(rewards []entity.RewardEntry) error {
	if len(rewards) == 0 {
		return errorx.New(errorx.BadRequest, "Reward table must not be empty")
	}

	for i, r := range rewards {
		if strings.TrimSpace(r.Text) == "" {
			return errorx.New(errorx.BadRequest, "Reward %d must have a text", i+1)
		}

		if math.IsNaN(r.Probability) || r.Probability < 0 || r.Probability > 1 {
			return errorx.New(errorx.BadRequest, "Probability of reward %d must be within [0, 1]", i+1)
		}
	}

	return nil
}

func defaultCredentials(ctx context.Context) (string, string) {
	cfg := xcontext.Configs(ctx).Auth
	email, password := cfg.DefaultAdminEmail, cfg.DefaultAdminPassword
	if email == "" {
		email = defaultAdminEmail
	}

	if password == "" {
		password = defaultAdminPassword
	}

	return email, password
}

// percentage returns a/b*100 rounded to one decimal, 0 when b is 0.
func percentage(a, b int64) float64 {
	if b == 0 {
		return 0
	}

	return math.Round(float64(a)/float64(b)*1000) / 10
}

func truncate(s string, n int) string {
	r := []rune(s)
	return string(r[:mathutil.MinInt(len(r), n)])
}

func valueOrZero(s *entity.LedgerSettings) entity.LedgerSettings {
	if s == nil {
		return entity.LedgerSettings{}
	}

	return *s
}
