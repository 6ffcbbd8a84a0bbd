// Package metrics provides Prometheus metrics for the odds generator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OddsMetrics collects round, pricing and settlement metrics.
type OddsMetrics struct {
	registry *prometheus.Registry

	// Round metrics
	RoundsTotal   *prometheus.CounterVec
	RoundDuration *prometheus.HistogramVec
	FixturesTotal *prometheus.CounterVec

	// Pricing metrics
	PayoutRatio *prometheus.HistogramVec
	ErrorsTotal *prometheus.CounterVec

	// Simulation metrics
	OutcomesTotal *prometheus.CounterVec

	// Board metrics
	BoardFixtures *prometheus.GaugeVec
}

// NewOddsMetrics creates the collectors on a private registry.
func NewOddsMetrics() *OddsMetrics {
	registry := prometheus.NewRegistry()

	m := &OddsMetrics{
		registry: registry,

		RoundsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "virtual_odds_rounds_total",
				Help: "Total number of rounds generated",
			},
			[]string{"status"},
		),
		RoundDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "virtual_odds_round_duration_seconds",
				Help:    "Time to price a full round",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
			},
			[]string{},
		),
		FixturesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "virtual_odds_fixtures_total",
				Help: "Total number of fixtures priced",
			},
			[]string{},
		),
		PayoutRatio: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "virtual_odds_payout_ratio",
				Help:    "Sum of inverse odds per priced market",
				Buckets: prometheus.LinearBuckets(0.90, 0.02, 16),
			},
			[]string{"market"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "virtual_odds_errors_total",
				Help: "Total number of errors by stage",
			},
			[]string{"stage"},
		),
		OutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "virtual_odds_simulated_outcomes_total",
				Help: "Simulated results by market and outcome",
			},
			[]string{"market", "label"},
		),
		BoardFixtures: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "virtual_odds_board_fixtures",
				Help: "Fixtures on the current board",
			},
			[]string{},
		),
	}

	m.registerAll()
	return m
}

func (m *OddsMetrics) registerAll() {
	m.registry.MustRegister(
		m.RoundsTotal,
		m.RoundDuration,
		m.FixturesTotal,
		m.PayoutRatio,
		m.ErrorsTotal,
		m.OutcomesTotal,
		m.BoardFixtures,
	)
}

// Registry returns the prometheus registry.
func (m *OddsMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordRound records a generated round.
func (m *OddsMetrics) RecordRound(status string, fixtures int, durationSec float64) {
	m.RoundsTotal.WithLabelValues(status).Inc()
	if status != "ok" {
		return
	}
	m.RoundDuration.WithLabelValues().Observe(durationSec)
	m.FixturesTotal.WithLabelValues().Add(float64(fixtures))
	m.BoardFixtures.WithLabelValues().Set(float64(fixtures))
}

// RecordPayout records the payout ratio of one priced market.
func (m *OddsMetrics) RecordPayout(market string, payout float64) {
	m.PayoutRatio.WithLabelValues(market).Observe(payout)
}

// RecordError counts a failure in the given stage.
func (m *OddsMetrics) RecordError(stage string) {
	m.ErrorsTotal.WithLabelValues(stage).Inc()
}

// RecordOutcome counts one settled market outcome.
func (m *OddsMetrics) RecordOutcome(market, label string) {
	m.OutcomesTotal.WithLabelValues(market, label).Inc()
}
