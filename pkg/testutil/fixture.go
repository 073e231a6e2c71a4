package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/internal/repository"
)

// FixtureNow is the reference time of the fixture results.
var FixtureNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

var (
	GameResult1 = entity.GameResult{
		Base:      entity.Base{ID: "result1"},
		Name:      "Alice",
		WhatsApp:  "+911111111111",
		Game:      entity.SpinAndWin,
		Reward:    "10% Off",
		Code:      "AAAA00001111",
		Timestamp: FixtureNow.Add(-time.Hour).UnixMilli(),
		IPAddress: "10.0.0.1",
	}

	GameResult2 = entity.GameResult{
		Base:      entity.Base{ID: "result2"},
		Name:      "Bob",
		WhatsApp:  "+912222222222",
		Game:      entity.ScratchAndWin,
		Reward:    entity.NoWin,
		Code:      "BBBB00002222",
		Timestamp: FixtureNow.Add(-2 * time.Hour).UnixMilli(),
	}

	GameResult3 = entity.GameResult{
		Base:      entity.Base{ID: "result3"},
		Name:      "Carol",
		WhatsApp:  "+913333333333",
		Game:      entity.ScratchAndWin,
		Reward:    "Free Avil Milk",
		Code:      "CCCC00003333",
		Claimed:   true,
		ClaimedAt: sql.NullTime{Time: FixtureNow.Add(-9 * 24 * time.Hour), Valid: true},
		Timestamp: FixtureNow.Add(-10 * 24 * time.Hour).UnixMilli(),
		IPAddress: "10.0.0.3",
	}

	GameResults = []entity.GameResult{GameResult1, GameResult2, GameResult3}
)

func InsertGameResults(ctx context.Context) {
	repo := repository.NewGameResultRepository()
	for i := range GameResults {
		r := GameResults[i]
		if err := repo.Create(ctx, &r); err != nil {
			panic(err)
		}
	}
}

func CreateFixtureDb() context.Context {
	ctx := NewMockContext()
	InsertGameResults(ctx)
	return ctx
}
