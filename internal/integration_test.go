package internal

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"virtual-odds/internal/alerts"
	"virtual-odds/internal/analysis"
	"virtual-odds/internal/board"
	"virtual-odds/internal/config"
	"virtual-odds/internal/engine"
	"virtual-odds/internal/metrics"
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

// TestFullPipeline tests the entire flow from roster to published board and
// simulated results.
func TestFullPipeline(t *testing.T) {
	cfg := config.Config{
		Margin:             0.10,
		GoalCap:            6,
		FlatteningExponent: 0.5,
		RosterSize:         20,
		FixturesPerRound:   10,
		RoundInterval:      3 * time.Minute,
		KickoffSpacing:     3 * time.Minute,
		PricingWorkers:     4,
		PayoutTolerance:    0.02,
		DBPath:             filepath.Join(t.TempDir(), "board.db"),
		Port:               "8080",
		LogLevel:           "info",
	}
	if err := config.Validate(cfg); err != nil {
		t.Fatalf("config should be valid: %v", err)
	}

	params, err := analysis.ParamsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Step 1: Build the roster
	src := rng.New(2026)
	roster, err := team.NewRandomRoster(src, cfg.RosterSize)
	if err != nil {
		t.Fatal(err)
	}

	db, err := board.NewDB(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	m := metrics.NewOddsMetrics()
	eng := engine.New(roster, params, cfg, src, alerts.NewNotifier(time.Minute), db, m)

	// Step 2: Price and publish a round
	round, err := eng.GenerateRound(context.Background(), cfg.FixturesPerRound)
	if err != nil {
		t.Fatalf("GenerateRound: %v", err)
	}
	eng.Publish(round)

	payoutSum := 0.0
	for _, pf := range round.Fixtures {
		if s := pf.Markets.ResultProbabilities.Sum(); math.Abs(s-1) > 1e-9 {
			t.Errorf("fixture %d: 1X2 probabilities sum to %v", pf.Index, s)
		}
		if s := pf.Markets.CorrectScore.Probabilities.Sum(); math.Abs(s-1) > 1e-6 {
			t.Errorf("fixture %d: correct-score table sums to %v", pf.Index, s)
		}
		for _, o := range pf.Markets.CorrectScore.Odds {
			if o < 1 {
				t.Errorf("fixture %d: correct-score odds %v below 1", pf.Index, o)
			}
		}
		payoutSum += odds.Payout(pf.Markets.Result)
	}

	meanPayout := payoutSum / float64(len(round.Fixtures))
	t.Logf("Mean 1X2 payout: %.4f", meanPayout)
	if math.Abs(meanPayout-config.TargetPayout(cfg.Margin)) > cfg.PayoutTolerance {
		t.Errorf("mean 1X2 payout %v outside %v ± %v", meanPayout, config.TargetPayout(cfg.Margin), cfg.PayoutTolerance)
	}

	// Step 3: The board store holds every published quote
	quotes, err := db.ListRound(round.ID)
	if err != nil {
		t.Fatal(err)
	}
	perFixture := 3 + 2 + 2 + (cfg.GoalCap+1)*(cfg.GoalCap+2)/2
	if len(quotes) != perFixture*len(round.Fixtures) {
		t.Errorf("stored %d quotes, want %d", len(quotes), perFixture*len(round.Fixtures))
	}

	latest, err := db.LatestRoundID()
	if err != nil {
		t.Fatal(err)
	}
	if latest != round.ID {
		t.Errorf("latest round = %q, want %q", latest, round.ID)
	}

	// Step 4: Play the round
	results := eng.SimulateRound(round)
	if len(results) != len(round.Fixtures) {
		t.Fatalf("got %d results, want %d", len(results), len(round.Fixtures))
	}
	for i, r := range results {
		pf := round.Fixtures[i]
		inTable := pf.Markets.CorrectScore.Contains(odds.Score(r.HomeGoals, r.AwayGoals))
		if inTable && r.Score == odds.OtherScore {
			t.Errorf("result %d-%d is priced but settled as %s", r.HomeGoals, r.AwayGoals, r.Score)
		}
		if !inTable && r.Score != odds.OtherScore {
			t.Errorf("result %d-%d is not priced but settled as %s", r.HomeGoals, r.AwayGoals, r.Score)
		}
		t.Logf("%s %d-%d %s (%s, %s, %s, %s)", r.HomeTeam, r.HomeGoals, r.AwayGoals, r.AwayTeam,
			r.Result, r.Totals, r.Btts, r.Score)
	}
	eng.Settle(results)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) == 0 {
		t.Error("expected metrics to be recorded")
	}
}
