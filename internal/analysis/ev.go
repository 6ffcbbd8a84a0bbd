package analysis

import (
	"virtual-odds/internal/odds"
)

// ExpectedReturn is the expected profit per unit stake of backing an outcome
// with probability p at decimal odds:
// EV = p*(odds-1) - (1-p) = p*odds - 1
func ExpectedReturn(p, decimalOdds float64) float64 {
	if p <= 0 || decimalOdds <= 0 {
		return 0
	}
	return p*decimalOdds - 1
}

// MarketReturns computes ExpectedReturn for every outcome priced in o.
// Outcomes missing from probs are skipped.
func MarketReturns[L odds.Label](probs odds.Probabilities[L], o odds.Odds[L]) map[L]float64 {
	out := make(map[L]float64, len(o))
	for label, price := range o {
		p, ok := probs[label]
		if !ok {
			continue
		}
		out[label] = ExpectedReturn(p, price)
	}
	return out
}

// ScoreReturns computes the expected return of every correct-score outcome at
// its published (shaped) price.
func ScoreReturns(t CorrectScoreTable) map[odds.ScoreLabel]float64 {
	return MarketReturns(t.Probabilities, t.Odds)
}
