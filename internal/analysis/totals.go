package analysis

import (
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

const (
	overFloor   = 0.35
	overCeiling = 0.75
	totalJitter = 0.10
)

// TotalsProbabilities computes Under/Over 2.5.
//
// Combined attack raises the Over, combined defense lowers it:
// p_over = clamp(off*0.6 + (1-def)*0.4, 0.35, 0.75) * U(0.9, 1.1).
// The clamp comes before the jitter, so the final value can sit slightly
// outside [0.35, 0.75].
func TotalsProbabilities(home, away team.Team, src *rng.Source) odds.Probabilities[odds.TotalsLabel] {
	offense := float64(home.Attack+away.Attack) / 200
	defense := float64(home.Defense+away.Defense) / 200

	pOver := clamp(offense*0.6+(1-defense)*0.4, overFloor, overCeiling)
	pOver *= src.Jitter(totalJitter)

	return odds.Probabilities[odds.TotalsLabel]{
		odds.Under: odds.FloorProbability(1 - pOver),
		odds.Over:  odds.FloorProbability(pOver),
	}
}

// TotalsOdds prices the Under/Over 2.5 market.
func TotalsOdds(home, away team.Team, margin float64, src *rng.Source) (odds.Odds[odds.TotalsLabel], error) {
	return odds.FromProbabilities(TotalsProbabilities(home, away, src), margin)
}

func clamp(v, lo, hi float64) float64 {
	return max(min(v, hi), lo)
}
