package analysis

import (
	"math"

	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

const (
	// decisiveCeiling caps each decisive outcome near 70%.
	decisiveCeiling = 0.7
	// strengthScale is the strength difference that moves the logistic one unit.
	strengthScale = 30.0
	// resultJitter is the independent ±5% noise applied to each 1X2 outcome.
	resultJitter = 0.05
)

// BaseResultProbabilities maps the strength difference to 1X2 probabilities
// before jitter. The two decisive outcomes share 70% between them, so the
// draw is always 30% here.
//
//	diff = 0  → 1: 35%, X: 30%, 2: 35%
//	diff = 30 → 1: 51%, X: 30%, 2: 19%
//	diff = 60 → 1: 62%, X: 30%, 2:  8%
func BaseResultProbabilities(home, away team.Team) odds.Probabilities[odds.ResultLabel] {
	diff := team.Strength(home) - team.Strength(away)

	pHome := decisiveCeiling / (1 + math.Exp(-diff/strengthScale))
	pAway := decisiveCeiling / (1 + math.Exp(diff/strengthScale))
	pDraw := 1 - pHome - pAway

	return odds.Probabilities[odds.ResultLabel]{
		odds.Home: pHome,
		odds.Draw: pDraw,
		odds.Away: pAway,
	}
}

// ResultProbabilities returns the 1X2 vector with three independent jitters
// (home, away, draw drawn in that order) and renormalised to sum to 1.
func ResultProbabilities(home, away team.Team, src *rng.Source) odds.Probabilities[odds.ResultLabel] {
	p := BaseResultProbabilities(home, away)

	p[odds.Home] = odds.FloorProbability(p[odds.Home] * src.Jitter(resultJitter))
	p[odds.Away] = odds.FloorProbability(p[odds.Away] * src.Jitter(resultJitter))
	p[odds.Draw] = odds.FloorProbability(p[odds.Draw] * src.Jitter(resultJitter))

	p.Normalize()
	return p
}

// ResultOdds prices the 1X2 market.
func ResultOdds(home, away team.Team, margin float64, src *rng.Source) (odds.Odds[odds.ResultLabel], error) {
	return odds.FromProbabilities(ResultProbabilities(home, away, src), margin)
}
