package entity

import (
	"database/sql"

	"github.com/questx-lab/spinwin/pkg/enum"
)

// NoWin is the reward text of a losing outcome.
const NoWin = "No Win"

type GameName string

var (
	SpinAndWin    = enum.New(GameName("Spin & Win"), "Spin & Win")
	ScratchAndWin = enum.New(GameName("Scratch & Win"), "Scratch & Win")
)

func (n GameName) Key() GameKey {
	switch n {
	case SpinAndWin:
		return SpinGame
	case ScratchAndWin:
		return ScratchGame
	}

	return ""
}

type GameResult struct {
	Base

	Name      string
	WhatsApp  string
	Game      GameName `gorm:"index"`
	Reward    string
	Code      string `gorm:"uniqueIndex;size:32"`
	Claimed   bool
	ClaimedAt sql.NullTime

	// Timestamp is the creation time in unix milliseconds.
	Timestamp int64 `gorm:"index"`
	IPAddress string
	UserAgent string
}

func (r *GameResult) IsWin() bool {
	return r.Reward != NoWin
}
