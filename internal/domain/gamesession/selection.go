package gamesession

import (
	"github.com/questx-lab/spinwin/internal/entity"
	"github.com/questx-lab/spinwin/pkg/crypto"
)

// Drawer returns a uniform random number in [0, 1).
type Drawer func() float64

var noWinEntry = entity.RewardEntry{Text: entity.NoWin, Probability: 1}

// SelectReward picks an entry with a chance proportional to its probability.
// The probabilities need not sum to one. An empty table, or one whose total
// mass is not positive, always yields No Win.
func SelectReward(rewards []entity.RewardEntry, draw Drawer) entity.RewardEntry {
	if draw == nil {
		draw = crypto.RandFloat64
	}

	total := 0.0
	for _, r := range rewards {
		if r.Probability > 0 {
			total += r.Probability
		}
	}

	if len(rewards) == 0 || total <= 0 {
		return noWinEntry
	}

	target := draw() * total
	cumulative := 0.0
	for _, r := range rewards {
		if r.Probability <= 0 {
			continue
		}

		cumulative += r.Probability
		if target <= cumulative {
			return r
		}
	}

	// Floating point drift.
	return rewards[len(rewards)-1]
}
