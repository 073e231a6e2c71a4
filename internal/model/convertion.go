package model

import (
	"time"

	"github.com/questx-lab/spinwin/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertRewardEntries(entries []entity.RewardEntry) []RewardEntry {
	result := []RewardEntry{}
	for _, e := range entries {
		result = append(result, RewardEntry{Text: e.Text, Probability: e.Probability})
	}
	return result
}

func ConvertToEntityRewardEntries(entries []RewardEntry) []entity.RewardEntry {
	result := []entity.RewardEntry{}
	for _, e := range entries {
		result = append(result, entity.RewardEntry{Text: e.Text, Probability: e.Probability})
	}
	return result
}

func ConvertGame(setting entity.GameSetting) Game {
	rewards := []string{}
	for _, r := range setting.Rewards {
		rewards = append(rewards, r.Text)
	}

	return Game{
		Key:     string(setting.Key),
		Name:    string(setting.Key.GameName()),
		Enabled: setting.Enabled,
		Rewards: rewards,
	}
}

func ConvertGameSetting(setting entity.GameSetting) GameSetting {
	return GameSetting{
		Key:       string(setting.Key),
		Name:      string(setting.Key.GameName()),
		Enabled:   setting.Enabled,
		Rewards:   ConvertRewardEntries(setting.Rewards),
		UpdatedAt: setting.UpdatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertGameResult(result *entity.GameResult) GameResult {
	if result == nil {
		return GameResult{}
	}

	claimedAt := ""
	if result.ClaimedAt.Valid {
		claimedAt = result.ClaimedAt.Time.Format(DefaultTimeLayout)
	}

	return GameResult{
		ID:        result.ID,
		Name:      result.Name,
		WhatsApp:  result.WhatsApp,
		Game:      string(result.Game),
		Reward:    result.Reward,
		Code:      result.Code,
		Claimed:   result.Claimed,
		ClaimedAt: claimedAt,
		Timestamp: result.Timestamp,
		Date:      time.UnixMilli(result.Timestamp).UTC().Format(DefaultTimeLayout),
		IPAddress: result.IPAddress,
		UserAgent: result.UserAgent,
	}
}
