package engine

import (
	"fmt"
	"time"

	"virtual-odds/internal/analysis"
	"virtual-odds/internal/board"
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

// Fixture is one scheduled virtual match.
type Fixture struct {
	ID      string    `json:"id"`
	Index   int       `json:"index"`
	Home    team.Team `json:"home"`
	Away    team.Team `json:"away"`
	Kickoff time.Time `json:"kickoff"`
}

// Markets holds every priced market of a fixture.
type Markets struct {
	ResultProbabilities odds.Probabilities[odds.ResultLabel]
	Result              odds.Odds[odds.ResultLabel]
	Totals              odds.Odds[odds.TotalsLabel]
	Btts                odds.Odds[odds.BttsLabel]
	CorrectScore        analysis.CorrectScoreTable
}

// PricedFixture is a fixture with its published markets.
type PricedFixture struct {
	Fixture
	Markets Markets
}

// PriceFixture prices all four markets of f. Draws are taken from src in a
// fixed order (1X2, totals, BTTS) so the same source always yields the same
// board. Any failure rejects the whole fixture.
func PriceFixture(f Fixture, p analysis.Params, src *rng.Source) (PricedFixture, error) {
	if err := p.Validate(); err != nil {
		return PricedFixture{}, err
	}

	probs := analysis.ResultProbabilities(f.Home, f.Away, src)
	result, err := odds.FromProbabilities(probs, p.Margin)
	if err != nil {
		return PricedFixture{}, fmt.Errorf("fixture %d 1x2: %w", f.Index, err)
	}

	totals, err := analysis.TotalsOdds(f.Home, f.Away, p.Margin, src)
	if err != nil {
		return PricedFixture{}, fmt.Errorf("fixture %d totals: %w", f.Index, err)
	}

	btts, err := analysis.BttsOdds(f.Home, f.Away, p.Margin, src)
	if err != nil {
		return PricedFixture{}, fmt.Errorf("fixture %d btts: %w", f.Index, err)
	}

	score, err := analysis.ExactScoreOddsWith(f.Home, f.Away, p)
	if err != nil {
		return PricedFixture{}, fmt.Errorf("fixture %d correct score: %w", f.Index, err)
	}

	return PricedFixture{
		Fixture: f,
		Markets: Markets{
			ResultProbabilities: probs,
			Result:              result,
			Totals:              totals,
			Btts:                btts,
			CorrectScore:        score,
		},
	}, nil
}

// Payouts returns the payout ratio of each uniformly-margined market.
func (pf PricedFixture) Payouts() map[odds.MarketType]float64 {
	return map[odds.MarketType]float64{
		odds.MarketResult: odds.Payout(pf.Markets.Result),
		odds.MarketTotals: odds.Payout(pf.Markets.Totals),
		odds.MarketBtts:   odds.Payout(pf.Markets.Btts),
	}
}

// Quotes flattens the fixture into board rows in display order.
func (pf PricedFixture) Quotes(roundID string) []board.Quote {
	base := board.Quote{
		RoundID:   roundID,
		FixtureID: pf.ID,
		Position:  pf.Index,
		HomeTeam:  pf.Home.Name,
		AwayTeam:  pf.Away.Name,
		Kickoff:   pf.Kickoff,
	}

	var out []board.Quote
	add := func(market odds.MarketType, outcome string, o float64) {
		q := base
		q.Market = string(market)
		q.Outcome = outcome
		q.Odds = odds.Decimal(o)
		out = append(out, q)
	}

	for _, l := range odds.ResultLabels {
		add(odds.MarketResult, l.String(), pf.Markets.Result[l])
	}
	for _, l := range odds.TotalsLabels {
		add(odds.MarketTotals, l.String(), pf.Markets.Totals[l])
	}
	for _, l := range odds.BttsLabels {
		add(odds.MarketBtts, l.String(), pf.Markets.Btts[l])
	}
	cs := pf.Markets.CorrectScore
	for _, l := range cs.Labels() {
		add(odds.MarketCorrectScore, l.String(), cs.Odds[l])
	}
	return out
}
