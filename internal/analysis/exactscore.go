package analysis

import (
	"fmt"
	"sort"

	"virtual-odds/internal/odds"
	"virtual-odds/internal/team"
)

const (
	// HomeGoalRate and AwayGoalRate are the historical average goals per
	// match for the home and away side.
	HomeGoalRate = 1.4
	AwayGoalRate = 1.1

	// formPivot is the form rating at which form neither helps nor hurts.
	formPivot = 85.0

	// MaxTotalGoalRate caps the total-goals Poisson rate used for pricing.
	MaxTotalGoalRate = 3.5

	// scoreMarginShare is the fraction of the operator margin used as the
	// correct-score base margin; each goal in the scoreline adds 10% of it.
	scoreMarginShare = 0.6
)

// AttackRatios returns each side's attack-vs-opposing-defense ratio scaled
// by its form: r = attack/defense_opp * form/85.
func AttackRatios(home, away team.Team) (float64, float64) {
	rHome := float64(home.Attack) / float64(away.Defense) * (float64(home.Form) / formPivot)
	rAway := float64(away.Attack) / float64(home.Defense) * (float64(away.Form) / formPivot)
	return rHome, rAway
}

// GoalStrengths scales the attack ratios by the home/away scoring rates.
func GoalStrengths(home, away team.Team) (float64, float64) {
	rHome, rAway := AttackRatios(home, away)
	return rHome * HomeGoalRate, rAway * AwayGoalRate
}

// CorrectScoreTable is the priced correct-score market for one fixture.
//
// Probabilities is the normalised base distribution. Odds has the shaping
// stage applied on top of Unshaped, so for the shaped scorelines
// sum(1/odds) no longer matches Probabilities.
type CorrectScoreTable struct {
	Cap           int
	Probabilities odds.Probabilities[odds.ScoreLabel]
	Unshaped      odds.Odds[odds.ScoreLabel]
	Odds          odds.Odds[odds.ScoreLabel]
}

// Labels returns the scorelines ordered by total goals, then home goals
// descending (1-0 before 0-1).
func (t CorrectScoreTable) Labels() []odds.ScoreLabel {
	labels := make([]odds.ScoreLabel, 0, len(t.Probabilities))
	for l := range t.Probabilities {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Total() != labels[j].Total() {
			return labels[i].Total() < labels[j].Total()
		}
		return labels[i].Home > labels[j].Home
	})
	return labels
}

// Contains reports whether a scoreline is priced in the table.
func (t CorrectScoreTable) Contains(l odds.ScoreLabel) bool {
	_, ok := t.Probabilities[l]
	return ok
}

// ScoreDistribution enumerates every scoreline with at most goalCap goals
// and returns the normalised joint distribution:
//
//	P(h, a) ∝ Poisson(h+a; λ) * C(h+a, h) * sh^h * sa^a * correction(h-a)
//
// with λ = min(s_home + s_away, 3.5) and (sh, sa) the flattened shares.
func ScoreDistribution(home, away team.Team, goalCap int, flatten float64, corrections CorrectionTable) odds.Probabilities[odds.ScoreLabel] {
	sHome, sAway := GoalStrengths(home, away)
	lambda := min(sHome+sAway, MaxTotalGoalRate)
	shareHome, shareAway := FlattenedShares(sHome, sAway, flatten)

	table := make(odds.Probabilities[odds.ScoreLabel], (goalCap+1)*(goalCap+2)/2)
	for total := 0; total <= goalCap; total++ {
		pTotal := PoissonPMF(total, lambda)
		for h := 0; h <= total; h++ {
			table[odds.Score(h, total-h)] = pTotal * SplitProbability(total, h, shareHome, shareAway)
		}
	}

	corrections.Apply(table)
	table.Normalize()
	return table
}

// ScoreMargin is the margin charged on a scoreline with the given goals:
// 0.6*margin*(1 + goals/10). High-scoring outcomes carry more margin.
func ScoreMargin(margin float64, goals int) float64 {
	return margin * scoreMarginShare * (1 + float64(goals)/10)
}

// ExactScoreOdds prices the correct-score market with the default
// flattening, correction and shaping tables.
func ExactScoreOdds(home, away team.Team, margin float64, goalCap int) (CorrectScoreTable, error) {
	p := DefaultParams()
	p.Margin = margin
	p.GoalCap = goalCap
	return ExactScoreOddsWith(home, away, p)
}

// ExactScoreOddsWith prices the correct-score market with explicit params.
func ExactScoreOddsWith(home, away team.Team, p Params) (CorrectScoreTable, error) {
	if err := p.Validate(); err != nil {
		return CorrectScoreTable{}, err
	}

	probs := ScoreDistribution(home, away, p.GoalCap, p.FlatteningExponent, p.Corrections)

	unshaped := make(odds.Odds[odds.ScoreLabel], len(probs))
	for label, prob := range probs {
		o, err := odds.DecimalOdds(odds.FloorProbability(prob), ScoreMargin(p.Margin, label.Total()))
		if err != nil {
			return CorrectScoreTable{}, fmt.Errorf("pricing score %s: %w", label, err)
		}
		unshaped[label] = o
	}

	return CorrectScoreTable{
		Cap:           p.GoalCap,
		Probabilities: probs,
		Unshaped:      unshaped,
		Odds:          p.Shaping.Apply(unshaped),
	}, nil
}
