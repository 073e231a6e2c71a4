package entity

import (
	"time"

	"github.com/questx-lab/spinwin/pkg/enum"
)

type GameKey string

var (
	SpinGame    = enum.New(GameKey("spinGame"), "spinGame")
	ScratchGame = enum.New(GameKey("scratchGame"), "scratchGame")
)

func (k GameKey) GameName() GameName {
	switch k {
	case SpinGame:
		return SpinAndWin
	case ScratchGame:
		return ScratchAndWin
	}

	return ""
}

type RewardEntry struct {
	Text        string  `json:"text"`
	Probability float64 `json:"probability"`
}

type AdminCredentials struct {
	ID           int `gorm:"primaryKey;autoIncrement:false"`
	Email        string
	PasswordHash string
	UpdatedAt    time.Time
}

type GameSetting struct {
	Key       GameKey `gorm:"primaryKey;column:game_key;size:32"`
	Enabled   bool
	Rewards   Array[RewardEntry]
	UpdatedAt time.Time
}

func DefaultSpinRewards() []RewardEntry {
	return []RewardEntry{
		{Text: "10% Off", Probability: 0.25},
		{Text: "20% Off", Probability: 0.15},
		{Text: "Free Avil Milk", Probability: 0.10},
		{Text: "5% Off", Probability: 0.20},
		{Text: NoWin, Probability: 0.25},
		{Text: "15% Off", Probability: 0.05},
	}
}

func DefaultScratchRewards() []RewardEntry {
	return []RewardEntry{
		{Text: "10% Off", Probability: 0.20},
		{Text: "20% Off", Probability: 0.10},
		{Text: "Free Avil Milk", Probability: 0.15},
		{Text: "5% Off", Probability: 0.25},
		{Text: NoWin, Probability: 0.25},
		{Text: "15% Off", Probability: 0.05},
	}
}

func DefaultRewards(key GameKey) []RewardEntry {
	switch key {
	case SpinGame:
		return DefaultSpinRewards()
	case ScratchGame:
		return DefaultScratchRewards()
	}

	return nil
}
