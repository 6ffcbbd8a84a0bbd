package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ErrInvalidConfiguration is returned for out-of-range settings such as a
// negative margin or goal cap.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Defaults for configuration values.
const (
	DefaultMargin             = 0.10
	DefaultGoalCap            = 6
	DefaultFlatteningExponent = 0.5
	DefaultRosterSize         = 20
	DefaultFixturesPerRound   = 10
	DefaultRoundInterval      = 3 * time.Minute
	DefaultKickoffSpacing     = 3 * time.Minute
	DefaultDBPath             = "/data/board.db"
	DefaultPort               = "8080"
	DefaultPricingWorkers     = 4
	DefaultPayoutTolerance    = 0.02
	DefaultAlertCooldown      = 5 * time.Minute
	DefaultCleanupInterval    = 10 * time.Minute
	DefaultBoardRetention     = 1 * time.Hour
	DefaultLogLevel           = "info"
)

// Config holds all application configuration.
type Config struct {
	// Pricing
	Margin             float64 // Operator overbooking, 0.10 = 10%
	GoalCap            int     // Correct-score enumeration bound (max total goals)
	FlatteningExponent float64 // Correct-score split shaping
	ShapingFile        string  // Optional YAML file overriding the correct-score shaping table

	// League
	RosterSize       int
	FixturesPerRound int
	RoundInterval    time.Duration
	KickoffSpacing   time.Duration
	Seed             uint64 // 0 = seed from the clock

	// Runtime
	DBPath          string
	Port            string
	PricingWorkers  int
	PayoutTolerance float64 // Allowed drift of the 1X2 payout from TargetPayout(margin)
	LogLevel        string
}

// Load reads configuration from environment variables (and .env file if present).
func Load() Config {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := Config{
		Margin:             DefaultMargin,
		GoalCap:            DefaultGoalCap,
		FlatteningExponent: DefaultFlatteningExponent,
		ShapingFile:        os.Getenv("SHAPING_FILE"),

		RosterSize:       DefaultRosterSize,
		FixturesPerRound: DefaultFixturesPerRound,
		RoundInterval:    DefaultRoundInterval,
		KickoffSpacing:   DefaultKickoffSpacing,

		DBPath:          DefaultDBPath,
		Port:            DefaultPort,
		PricingWorkers:  DefaultPricingWorkers,
		PayoutTolerance: DefaultPayoutTolerance,
		LogLevel:        DefaultLogLevel,
	}

	if v := os.Getenv("MARGIN_OPERATOR"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Margin = f
		}
	}

	if v := os.Getenv("GOAL_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.GoalCap = n
		}
	}

	if v := os.Getenv("FLATTENING_EXPONENT"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FlatteningExponent = f
		}
	}

	if v := os.Getenv("ROSTER_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RosterSize = n
		}
	}

	if v := os.Getenv("FIXTURES_PER_ROUND"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.FixturesPerRound = n
		}
	}

	if v := os.Getenv("ROUND_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RoundInterval = d
		}
	}

	if v := os.Getenv("KICKOFF_SPACING"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.KickoffSpacing = d
		}
	}

	if v := os.Getenv("SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Seed = n
		}
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}

	if v := os.Getenv("PRICING_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.PricingWorkers = n
		}
	}

	if v := os.Getenv("PAYOUT_TOLERANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.PayoutTolerance = f
		}
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// Validate checks that configuration values are within acceptable ranges.
func Validate(cfg Config) error {
	if cfg.Margin < 0 {
		return fmt.Errorf("%w: MARGIN_OPERATOR must be non-negative, got %f", ErrInvalidConfiguration, cfg.Margin)
	}
	if cfg.GoalCap < 0 {
		return fmt.Errorf("%w: GOAL_CAP must be non-negative, got %d", ErrInvalidConfiguration, cfg.GoalCap)
	}
	if cfg.FlatteningExponent <= 0 {
		return fmt.Errorf("%w: FLATTENING_EXPONENT must be positive, got %f", ErrInvalidConfiguration, cfg.FlatteningExponent)
	}
	if cfg.RosterSize < 2 {
		return fmt.Errorf("%w: ROSTER_SIZE must be at least 2, got %d", ErrInvalidConfiguration, cfg.RosterSize)
	}
	if cfg.RosterSize > 26 {
		return fmt.Errorf("%w: ROSTER_SIZE must be at most 26, got %d", ErrInvalidConfiguration, cfg.RosterSize)
	}
	if cfg.FixturesPerRound < 1 {
		return fmt.Errorf("%w: FIXTURES_PER_ROUND must be positive, got %d", ErrInvalidConfiguration, cfg.FixturesPerRound)
	}
	if cfg.RoundInterval < time.Second {
		return fmt.Errorf("%w: ROUND_INTERVAL must be at least 1s, got %v", ErrInvalidConfiguration, cfg.RoundInterval)
	}
	if cfg.KickoffSpacing < 0 {
		return fmt.Errorf("%w: KICKOFF_SPACING must be non-negative, got %v", ErrInvalidConfiguration, cfg.KickoffSpacing)
	}
	if cfg.PricingWorkers < 1 {
		return fmt.Errorf("%w: PRICING_WORKERS must be positive, got %d", ErrInvalidConfiguration, cfg.PricingWorkers)
	}
	if cfg.PayoutTolerance < 0 || cfg.PayoutTolerance > 1 {
		return fmt.Errorf("%w: PAYOUT_TOLERANCE must be between 0 and 1, got %f", ErrInvalidConfiguration, cfg.PayoutTolerance)
	}
	return nil
}

// TargetPayout is the 1X2 payout ratio (1 / sum of 1/odds) that a market
// priced at odds = (1+margin)/p converges to.
func TargetPayout(margin float64) float64 {
	return 1 + margin
}
