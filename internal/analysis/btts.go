package analysis

import (
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

const (
	goalFloor   = 0.40
	goalCeiling = 0.75
	goalWeight  = 0.8
	goalJitter  = 0.05
)

// BttsProbabilities computes Goal/NoGoal. Each side contributes
// attack * (1 - opponent defense) * 0.8 (ratings scaled to 0-1); the sum is
// clamped to [0.40, 0.75] and then jittered by ±5%.
func BttsProbabilities(home, away team.Team, src *rng.Source) odds.Probabilities[odds.BttsLabel] {
	offHome := float64(home.Attack) / 100
	offAway := float64(away.Attack) / 100
	defHome := float64(home.Defense) / 100
	defAway := float64(away.Defense) / 100

	pGoal := offHome*(1-defAway)*goalWeight + offAway*(1-defHome)*goalWeight
	pGoal = clamp(pGoal, goalFloor, goalCeiling)
	pGoal *= src.Jitter(goalJitter)

	return odds.Probabilities[odds.BttsLabel]{
		odds.Goal:   odds.FloorProbability(pGoal),
		odds.NoGoal: odds.FloorProbability(1 - pGoal),
	}
}

// BttsOdds prices the Goal/NoGoal market.
func BttsOdds(home, away team.Team, margin float64, src *rng.Source) (odds.Odds[odds.BttsLabel], error) {
	return odds.FromProbabilities(BttsProbabilities(home, away, src), margin)
}
