package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
	"github.com/questx-lab/spinwin/pkg/dateutil"
	"github.com/questx-lab/spinwin/pkg/storage"
	"github.com/questx-lab/spinwin/pkg/xcontext"
)

const (
	BackupVersion = "1.0"
	csvDateLayout = "Jan 2, 2006, 3:04:05 PM"
	csvMissingIP  = "N/A"
	csvHeaderLine = "ID,Name,WhatsApp,Game,Reward,Code,Claimed,Timestamp,Date,IP Address"

	CSVFileName = "game_results.csv"
)

type BackupResult struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	WhatsApp  string `json:"whatsapp"`
	Game      string `json:"game"`
	Reward    string `json:"reward"`
	Code      string `json:"code"`
	Claimed   bool   `json:"claimed"`
	ClaimedAt *int64 `json:"claimedAt,omitempty"`
	Timestamp int64  `json:"timestamp"`
	IPAddress string `json:"ipAddress"`
	UserAgent string `json:"userAgent"`
}

type BackupSettings struct {
	TotalPlays  int64 `json:"totalPlays"`
	TotalWins   int64 `json:"totalWins"`
	LastUpdated int64 `json:"lastUpdated"`
}

type BackupGameData struct {
	GameResults []BackupResult `json:"gameResults"`
	Settings    BackupSettings `json:"settings"`
}

type BackupGameSetting struct {
	Enabled bool                 `json:"enabled"`
	Rewards []entity.RewardEntry `json:"rewards"`
}

type BackupCredentials struct {
	Email string `json:"email"`
}

type BackupAdminData struct {
	Credentials  BackupCredentials            `json:"credentials"`
	GameSettings map[string]BackupGameSetting `json:"gameSettings"`
}

// Backup is the snapshot written by the backup export. Password hashes are
// never included.
type Backup struct {
	GameData   BackupGameData  `json:"gameData"`
	AdminData  BackupAdminData `json:"adminData"`
	BackupDate string          `json:"backupDate"`
	Version    string          `json:"version"`
}

func (l *Ledger) Backup(ctx context.Context) (*Backup, error) {
	results, err := l.resultRepo.GetList(ctx, repository.GameResultFilter{})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get game results for backup: %v", err)
		return nil, err
	}

	settings, err := l.settingsRepo.Get(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ledger settings for backup: %v", err)
		return nil, err
	}

	credentials, err := l.adminRepo.GetCredentials(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get admin credentials for backup: %v", err)
		return nil, err
	}

	gameSettings, err := l.adminRepo.GetGameSettings(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get game settings for backup: %v", err)
		return nil, err
	}

	backup := &Backup{
		GameData: BackupGameData{
			GameResults: make([]BackupResult, 0, len(results)),
			Settings: BackupSettings{
				TotalPlays:  settings.TotalPlays,
				TotalWins:   settings.TotalWins,
				LastUpdated: settings.LastUpdated,
			},
		},
		AdminData: BackupAdminData{
			Credentials:  BackupCredentials{Email: credentials.Email},
			GameSettings: make(map[string]BackupGameSetting, len(gameSettings)),
		},
		BackupDate: l.now().UTC().Format(time.RFC3339),
		Version:    BackupVersion,
	}

	for _, r := range results {
		br := BackupResult{
			ID:        r.ID,
			Name:      r.Name,
			WhatsApp:  r.WhatsApp,
			Game:      string(r.Game),
			Reward:    r.Reward,
			Code:      r.Code,
			Claimed:   r.Claimed,
			Timestamp: r.Timestamp,
			IPAddress: r.IPAddress,
			UserAgent: r.UserAgent,
		}

		if r.ClaimedAt.Valid {
			claimedAt := r.ClaimedAt.Time.UnixMilli()
			br.ClaimedAt = &claimedAt
		}

		backup.GameData.GameResults = append(backup.GameData.GameResults, br)
	}

	for _, s := range gameSettings {
		backup.AdminData.GameSettings[string(s.Key)] = BackupGameSetting{
			Enabled: s.Enabled,
			Rewards: s.Rewards,
		}
	}

	return backup, nil
}

// ExportCSV renders results as CSV. A nil slice exports every stored result,
// an empty one yields an empty string.
func (l *Ledger) ExportCSV(ctx context.Context, results []entity.GameResult) string {
	if results == nil {
		results = l.Query(ctx, repository.GameResultFilter{})
	}

	if len(results) == 0 {
		return ""
	}

	lines := make([]string, 0, len(results)+1)
	lines = append(lines, csvHeaderLine)
	for _, r := range results {
		ip := r.IPAddress
		if ip == "" {
			ip = csvMissingIP
		}

		lines = append(lines, strings.Join([]string{
			r.ID,
			quote(r.Name),
			r.WhatsApp,
			quote(string(r.Game)),
			quote(r.Reward),
			r.Code,
			yesNo(r.Claimed),
			strconv.FormatInt(r.Timestamp, 10),
			quote(time.UnixMilli(r.Timestamp).UTC().Format(csvDateLayout)),
			ip,
		}, ","))
	}

	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func BackupFileName(t time.Time) string {
	return fmt.Sprintf("game_backup_%d.json", t.UnixMilli())
}

// BackupObjects returns the JSON backup and the CSV export as objects of
// bucket, both under a prefix naming the current day.
func (l *Ledger) BackupObjects(ctx context.Context, bucket, prefix string) ([]*storage.UploadObject, error) {
	backup, err := l.Backup(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(backup)
	if err != nil {
		return nil, err
	}

	now := l.now()
	prefix = prefix + "/" + dateutil.Day(now)
	objects := []*storage.UploadObject{{
		Bucket:   bucket,
		Prefix:   prefix,
		FileName: BackupFileName(now),
		Mime:     "application/json",
		Data:     data,
	}}

	if csv := l.ExportCSV(ctx, nil); csv != "" {
		objects = append(objects, &storage.UploadObject{
			Bucket:   bucket,
			Prefix:   prefix,
			FileName: CSVFileName,
			Mime:     "text/csv",
			Data:     []byte(csv),
		})
	}

	return objects, nil
}
