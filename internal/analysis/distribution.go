package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
	"gonum.org/v1/gonum/stat/distuv"
)

// Goal-count helpers for the correct-score market.
// Total goals follow a Poisson law; a total is split between the sides
// with a binomial law over flattened strength shares.

// PoissonPMF calculates P(X = k) for Poisson distribution with mean λ
func PoissonPMF(k int, lambda float64) float64 {
	if k < 0 || lambda <= 0 {
		return 0
	}
	// P(X=k) = e^(-λ) * λ^k / k!
	return distuv.Poisson{Lambda: lambda}.Prob(float64(k))
}

// FlattenedShares raises each side's strength to exponent before taking its
// share of the total. An exponent below 1 pulls lopsided matchups toward
// 50/50 so no scoreline collapses to ~0.
func FlattenedShares(homeStrength, awayStrength, exponent float64) (float64, float64) {
	h := math.Pow(homeStrength, exponent)
	a := math.Pow(awayStrength, exponent)
	total := h + a
	if total <= 0 {
		return 0.5, 0.5
	}
	return h / total, a / total
}

// SplitProbability is P(home scores h of total goals) given the home share:
// C(total, h) * share^h * (1-share)^(total-h). A 0-0 has one split.
func SplitProbability(total, h int, homeShare, awayShare float64) float64 {
	if h < 0 || h > total {
		return 0
	}
	if total == 0 {
		return 1
	}
	return float64(combin.Binomial(total, h)) *
		math.Pow(homeShare, float64(h)) *
		math.Pow(awayShare, float64(total-h))
}
