package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"virtual-odds/internal/alerts"
	"virtual-odds/internal/analysis"
	"virtual-odds/internal/board"
	"virtual-odds/internal/config"
	"virtual-odds/internal/engine"
	"virtual-odds/internal/metrics"
	"virtual-odds/internal/rng"
	"virtual-odds/internal/team"
)

func main() {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

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

	notifier := alerts.NewNotifier(config.DefaultAlertCooldown)
	oddsMetrics := metrics.NewOddsMetrics()

	db, err := board.NewDB(cfg.DBPath)
	if err != nil {
		log.Printf("DB disabled: %v", err)
		db = nil
	} else {
		defer db.Close()
	}

	eng := engine.New(roster, params, cfg, src, notifier, db, oddsMetrics)

	notifier.LogStartup(fmt.Sprintf(" margin=%.1f%% cap=%d flatten=%.2f roster=%d fixtures=%d interval=%s workers=%d db=%s",
		cfg.Margin*100, cfg.GoalCap, cfg.FlatteningExponent, cfg.RosterSize,
		cfg.FixturesPerRound, cfg.RoundInterval, cfg.PricingWorkers, cfg.DBPath))

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	var store quoteStore
	if db != nil {
		store = db
	}
	mux := newMux(eng, store)
	mux.Handle("/metrics", promhttp.HandlerFor(oddsMetrics.Registry(), promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "err", err)
		}
	}()

	if err := eng.Run(ctx); err != nil {
		log.Fatalf("Engine: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown", "err", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
