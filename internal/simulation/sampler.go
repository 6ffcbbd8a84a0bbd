// Package simulation draws played results for priced fixtures and settles
// them against the published markets. It never reads odds.
package simulation

import (
	"gonum.org/v1/gonum/stat"

	"virtual-odds/internal/analysis"
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

// Rates returns the Poisson scoring rates for a fixture.
//
// Unlike the correct-score market these rates are not capped at
// analysis.MaxTotalGoalRate, so strong attacking pairings score more often
// here than the priced table implies.
func Rates(home, away team.Team) (float64, float64) {
	return analysis.GoalStrengths(home, away)
}

// SampleOutcome draws one played result: independent Poisson goals per side.
func SampleOutcome(home, away team.Team, src *rng.Source) (int, int) {
	lHome, lAway := Rates(home, away)
	return src.Poisson(lHome), src.Poisson(lAway)
}

// Settlement is a played result classified into every market's outcome.
type Settlement struct {
	HomeGoals int    `json:"home_goals"`
	AwayGoals int    `json:"away_goals"`
	Result    string `json:"result"`
	Totals    string `json:"totals"`
	Btts      string `json:"btts"`
	Score     string `json:"score"`
}

// Classify settles a result. The score label is "h-a" when the scoreline is
// priced in a correct-score table with the given cap and "Altro" otherwise.
func Classify(h, a, goalCap int) Settlement {
	s := Settlement{HomeGoals: h, AwayGoals: a}

	switch {
	case h > a:
		s.Result = odds.Home.String()
	case h < a:
		s.Result = odds.Away.String()
	default:
		s.Result = odds.Draw.String()
	}

	if float64(h+a) > odds.TotalsLine {
		s.Totals = odds.Over.String()
	} else {
		s.Totals = odds.Under.String()
	}

	if h > 0 && a > 0 {
		s.Btts = odds.Goal.String()
	} else {
		s.Btts = odds.NoGoal.String()
	}

	if h+a <= goalCap {
		s.Score = odds.Score(h, a).String()
	} else {
		s.Score = odds.OtherScore
	}
	return s
}

// Summary aggregates repeated draws of one fixture.
type Summary struct {
	Draws        int
	MeanHome     float64
	MeanAway     float64
	ResultCounts map[string]int
}

// Summarize samples a fixture n times and reports mean goals per side and
// how often each 1X2 outcome occurred.
func Summarize(home, away team.Team, n int, src *rng.Source) Summary {
	homeGoals := make([]float64, n)
	awayGoals := make([]float64, n)
	counts := make(map[string]int, len(odds.ResultLabels))

	for i := 0; i < n; i++ {
		h, a := SampleOutcome(home, away, src)
		homeGoals[i] = float64(h)
		awayGoals[i] = float64(a)
		counts[Classify(h, a, 0).Result]++
	}

	s := Summary{Draws: n, ResultCounts: counts}
	if n > 0 {
		s.MeanHome = stat.Mean(homeGoals, nil)
		s.MeanAway = stat.Mean(awayGoals, nil)
	}
	return s
}
