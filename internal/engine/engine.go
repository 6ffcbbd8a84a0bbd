package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"virtual-odds/internal/alerts"
	"virtual-odds/internal/analysis"
	"virtual-odds/internal/board"
	"virtual-odds/internal/config"
	"virtual-odds/internal/metrics"
	"virtual-odds/internal/odds"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/simulation"
	"virtual-odds/internal/team"
)

// simulationStream offsets the per-fixture rng streams used to play a round
// so they never overlap the pricing streams of the same round.
const simulationStream = 1 << 20

// Round is a priced set of fixtures published together.
type Round struct {
	ID       string
	Seed     uint64
	Start    time.Time
	Fixtures []PricedFixture
}

// Result is a simulated, settled fixture.
type Result struct {
	FixtureID string
	HomeTeam  string
	AwayTeam  string
	simulation.Settlement
}

// Engine is the orchestrator that builds rounds from the roster, prices them,
// publishes the board and plays the previous round.
type Engine struct {
	mu      sync.Mutex
	roster  *team.Roster
	src     *rng.Source // round seeds and form updates
	current *Round

	params   analysis.Params
	cfg      config.Config
	notifier *alerts.Notifier
	db       *board.DB
	metrics  *metrics.OddsMetrics

	now func() time.Time
}

// New creates a new Engine. db and m may be nil.
func New(
	roster *team.Roster,
	params analysis.Params,
	cfg config.Config,
	src *rng.Source,
	notifier *alerts.Notifier,
	db *board.DB,
	m *metrics.OddsMetrics,
) *Engine {
	return &Engine{
		roster:   roster,
		src:      src,
		params:   params,
		cfg:      cfg,
		notifier: notifier,
		db:       db,
		metrics:  m,
		now:      time.Now,
	}
}

// Roster returns the roster the next round will be drawn from.
func (e *Engine) Roster() *team.Roster {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roster
}

// Current returns the last published round, or nil before the first one.
func (e *Engine) Current() *Round {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// GenerateRound draws n fixtures of two distinct teams and prices them.
// Kickoffs are spaced cfg.KickoffSpacing apart from the current minute.
// The round is rejected as a whole if any fixture fails to price.
func (e *Engine) GenerateRound(ctx context.Context, n int) (Round, error) {
	started := time.Now()
	round, err := e.generateRound(ctx, n)
	if err != nil {
		e.recordError("pricing")
		if e.metrics != nil {
			e.metrics.RecordRound("error", 0, 0)
		}
		return Round{}, err
	}
	if e.metrics != nil {
		e.metrics.RecordRound("ok", len(round.Fixtures), time.Since(started).Seconds())
	}
	return round, nil
}

func (e *Engine) generateRound(ctx context.Context, n int) (Round, error) {
	if n < 1 {
		return Round{}, fmt.Errorf("%w: fixtures per round must be positive, got %d", config.ErrInvalidConfiguration, n)
	}

	e.mu.Lock()
	roster := e.roster
	seed := e.src.Uint64()
	e.mu.Unlock()

	if roster.Len() < 2 {
		return Round{}, fmt.Errorf("%w: need at least 2 teams, roster has %d", team.ErrInvalidTeamReference, roster.Len())
	}

	start := e.now().Truncate(time.Minute)
	fixtures, err := drawFixtures(roster, n, start, e.cfg.KickoffSpacing, rng.New(seed))
	if err != nil {
		return Round{}, err
	}

	priced, err := priceAll(ctx, fixtures, e.params, seed, e.cfg.PricingWorkers)
	if err != nil {
		return Round{}, err
	}

	return Round{
		ID:       uuid.NewString(),
		Seed:     seed,
		Start:    start,
		Fixtures: priced,
	}, nil
}

// drawFixtures pairs random distinct teams for each slot.
func drawFixtures(roster *team.Roster, n int, start time.Time, spacing time.Duration, src *rng.Source) ([]Fixture, error) {
	last := roster.Len() - 1
	fixtures := make([]Fixture, n)
	for i := range fixtures {
		h := src.IntRange(0, last)
		a := src.IntRange(0, last)
		for a == h {
			a = src.IntRange(0, last)
		}

		home, err := roster.At(h)
		if err != nil {
			return nil, err
		}
		away, err := roster.At(a)
		if err != nil {
			return nil, err
		}

		fixtures[i] = Fixture{
			ID:      uuid.NewString(),
			Index:   i,
			Home:    home,
			Away:    away,
			Kickoff: start.Add(time.Duration(i) * spacing),
		}
	}
	return fixtures, nil
}

// priceAll prices fixtures on a bounded worker pool. Fixture i always uses
// the stream rng.Child(seed, i), so the board does not depend on scheduling.
func priceAll(ctx context.Context, fixtures []Fixture, p analysis.Params, seed uint64, workers int) ([]PricedFixture, error) {
	workers = max(1, min(workers, len(fixtures)))

	jobs := make(chan int, len(fixtures))
	priced := make([]PricedFixture, len(fixtures))
	errs := make([]error, len(fixtures))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					errs[i] = err
					continue
				}
				priced[i], errs[i] = PriceFixture(fixtures[i], p, rng.Child(seed, i))
			}
		}()
	}

	for i := range fixtures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return priced, nil
}

// SimulateRound plays every fixture of a round. Results are settled against
// the round's correct-score cap.
func (e *Engine) SimulateRound(round Round) []Result {
	results := make([]Result, len(round.Fixtures))
	for i, pf := range round.Fixtures {
		h, a := simulation.SampleOutcome(pf.Home, pf.Away, rng.Child(round.Seed, simulationStream+i))
		results[i] = Result{
			FixtureID:  pf.ID,
			HomeTeam:   pf.Home.Name,
			AwayTeam:   pf.Away.Name,
			Settlement: simulation.Classify(h, a, pf.Markets.CorrectScore.Cap),
		}
	}
	return results
}

// Publish makes round the current board, persists it and checks payouts.
func (e *Engine) Publish(round Round) {
	if e.db != nil {
		var quotes []board.Quote
		for _, pf := range round.Fixtures {
			quotes = append(quotes, pf.Quotes(round.ID)...)
		}
		if err := e.db.SaveRound(round.ID, quotes); err != nil {
			e.notifier.LogError("saving board", err)
			e.recordError("board")
		}
	}

	target := config.TargetPayout(e.params.Margin)
	for _, pf := range round.Fixtures {
		for market, payout := range pf.Payouts() {
			if e.metrics != nil {
				e.metrics.RecordPayout(string(market), payout)
			}
			if market == odds.MarketResult && alerts.Drifted(payout, target, e.cfg.PayoutTolerance) {
				e.notifier.AlertPayoutDrift(alerts.PayoutDrift{
					FixtureID: pf.ID,
					HomeTeam:  pf.Home.Name,
					AwayTeam:  pf.Away.Name,
					Market:    string(market),
					Payout:    payout,
					Target:    target,
					Tolerance: e.cfg.PayoutTolerance,
				})
			}
		}
	}

	e.mu.Lock()
	e.current = &round
	e.mu.Unlock()

	if len(round.Fixtures) > 0 {
		e.notifier.LogRoundPublished(round.ID, len(round.Fixtures), round.Fixtures[0].Kickoff)
	}
}

// Settle records simulated results in the log and metrics.
func (e *Engine) Settle(results []Result) {
	for _, r := range results {
		e.notifier.LogResult(r.HomeTeam, r.AwayTeam, r.Settlement)
		if e.metrics != nil {
			e.metrics.RecordOutcome(string(odds.MarketResult), r.Result)
			e.metrics.RecordOutcome(string(odds.MarketTotals), r.Totals)
			e.metrics.RecordOutcome(string(odds.MarketBtts), r.Btts)
			e.metrics.RecordOutcome(string(odds.MarketCorrectScore), r.Score)
		}
	}
}

// Step plays the current round, evolves form and publishes the next round.
func (e *Engine) Step(ctx context.Context) error {
	if prev := e.Current(); prev != nil {
		e.Settle(e.SimulateRound(*prev))
		e.evolveForm()
	}

	round, err := e.GenerateRound(ctx, e.cfg.FixturesPerRound)
	if err != nil {
		e.notifier.LogError("generating round", err)
		return err
	}
	e.Publish(round)
	return nil
}

func (e *Engine) evolveForm() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.roster = e.roster.UpdateForm(e.src)
}

func (e *Engine) cleanup() {
	e.notifier.CleanupOldAlerts()
	if e.db == nil {
		return
	}
	n, err := e.db.DeleteBefore(e.now().Add(-config.DefaultBoardRetention))
	if err != nil {
		e.notifier.LogError("pruning board", err)
		e.recordError("board")
		return
	}
	if n > 0 {
		slog.Info("Pruned board", "quotes", n)
	}
}

func (e *Engine) recordError(stage string) {
	if e.metrics != nil {
		e.metrics.RecordError(stage)
	}
}

// Run publishes a round immediately and then one every cfg.RoundInterval.
// It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	if _, err := c.AddFunc("@every "+e.cfg.RoundInterval.String(), func() {
		_ = e.Step(ctx)
	}); err != nil {
		return fmt.Errorf("scheduling rounds: %w", err)
	}
	if _, err := c.AddFunc("@every "+config.DefaultCleanupInterval.String(), e.cleanup); err != nil {
		return fmt.Errorf("scheduling cleanup: %w", err)
	}

	slog.Info("Starting round loop", "interval", e.cfg.RoundInterval, "fixtures", e.cfg.FixturesPerRound)
	if err := e.Step(ctx); err != nil {
		slog.Error("First round failed", "err", err)
	}

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	slog.Info("Odds generator stopped gracefully")
	return nil
}
