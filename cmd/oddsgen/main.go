package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"virtual-odds/internal/alerts"
	"virtual-odds/internal/analysis"
	"virtual-odds/internal/config"
	"virtual-odds/internal/engine"
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/simulation"
	"virtual-odds/internal/team"
)

// summaryDraws is how many plays of the first fixture feed the goal averages.
const summaryDraws = 10000

func main() {
	cfg := config.Load()
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	params, err := analysis.ParamsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid pricing tables: %v", err)
	}

	src := rng.NewFromClock()
	if cfg.Seed != 0 {
		src = rng.New(cfg.Seed)
	}

	roster, err := team.NewRandomRoster(src, cfg.RosterSize)
	if err != nil {
		log.Fatalf("Building roster: %v", err)
	}

	eng := engine.New(roster, params, cfg, src, alerts.NewNotifier(config.DefaultAlertCooldown), nil, nil)
	round, err := eng.GenerateRound(context.Background(), cfg.FixturesPerRound)
	if err != nil {
		log.Fatalf("Generating round: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Println("=== VIRTUAL TEAMS ===")
	fmt.Fprintln(w, "ID\tTEAM\tATT\tDEF\tFORM\tSTRENGTH")
	for _, t := range roster.Teams() {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.1f\n", t.ID, t.Name, t.Attack, t.Defense, t.Form, team.Strength(t))
	}
	w.Flush()

	fmt.Printf("\n=== ROUND %s (margin %.0f%%) ===\n", round.ID, params.Margin*100)
	fmt.Fprintln(w, "#\tKICKOFF\tHOME\tAWAY\t1\tX\t2\tU2.5\tO2.5\tGG\tNG")
	for _, pf := range round.Fixtures {
		m := pf.Markets
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			pf.Index+1, pf.Kickoff.Format("15:04"), pf.Home.Name, pf.Away.Name,
			m.Result[odds.Home], m.Result[odds.Draw], m.Result[odds.Away],
			m.Totals[odds.Under], m.Totals[odds.Over],
			m.Btts[odds.Goal], m.Btts[odds.NoGoal])
	}
	w.Flush()

	printDetail(w, round.Fixtures[0])

	fmt.Println("\n=== SIMULATED RESULTS ===")
	fmt.Fprintln(w, "HOME\tSCORE\tAWAY\t1X2\tU/O\tGG/NG\tCORRECT SCORE")
	for _, r := range eng.SimulateRound(round) {
		fmt.Fprintf(w, "%s\t%d-%d\t%s\t%s\t%s\t%s\t%s\n",
			r.HomeTeam, r.HomeGoals, r.AwayGoals, r.AwayTeam, r.Result, r.Totals, r.Btts, r.Score)
	}
	w.Flush()

	first := round.Fixtures[0]
	s := simulation.Summarize(first.Home, first.Away, summaryDraws, src)
	fmt.Printf("\n%s vs %s over %d plays: %.2f - %.2f goals, 1=%d X=%d 2=%d\n",
		first.Home.Name, first.Away.Name, s.Draws, s.MeanHome, s.MeanAway,
		s.ResultCounts[odds.Home.String()], s.ResultCounts[odds.Draw.String()], s.ResultCounts[odds.Away.String()])

	total := 0.0
	for _, pf := range round.Fixtures {
		total += odds.Payout(pf.Markets.Result)
	}
	fmt.Printf("Mean 1X2 payout: %.2f%% (target %.2f%%)\n",
		total/float64(len(round.Fixtures))*100, config.TargetPayout(params.Margin)*100)
}

func printDetail(w *tabwriter.Writer, pf engine.PricedFixture) {
	m := pf.Markets
	fmt.Printf("\n=== %s vs %s ===\n", pf.Home.Name, pf.Away.Name)

	fmt.Fprintln(w, "MARKET\tOUTCOME\tPROB\tODDS\tRETURN")
	returns := analysis.MarketReturns(m.ResultProbabilities, m.Result)
	for _, l := range odds.ResultLabels {
		fmt.Fprintf(w, "1X2\t%s\t%.1f%%\t%.2f\t%+.1f%%\n", l, m.ResultProbabilities[l]*100, m.Result[l], returns[l]*100)
	}
	for _, l := range odds.TotalsLabels {
		fmt.Fprintf(w, "U/O\t%s\t-\t%.2f\t-\n", l, m.Totals[l])
	}
	for _, l := range odds.BttsLabels {
		fmt.Fprintf(w, "GG/NG\t%s\t-\t%.2f\t-\n", l, m.Btts[l])
	}
	cs := m.CorrectScore
	scoreReturns := analysis.ScoreReturns(cs)
	for _, l := range cs.Labels() {
		fmt.Fprintf(w, "CS\t%s\t%.2f%%\t%.2f\t%+.1f%%\n", l, cs.Probabilities[l]*100, cs.Odds[l], scoreReturns[l]*100)
	}
	w.Flush()
}
