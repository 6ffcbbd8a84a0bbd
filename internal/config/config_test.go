package config

import (
	"errors"
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// Clear env vars that could affect defaults
	for _, key := range []string{
		"MARGIN_OPERATOR", "GOAL_CAP", "FLATTENING_EXPONENT", "SHAPING_FILE",
		"ROSTER_SIZE", "FIXTURES_PER_ROUND", "ROUND_INTERVAL", "KICKOFF_SPACING",
		"SEED", "DB_PATH", "PORT", "PRICING_WORKERS", "PAYOUT_TOLERANCE", "LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Margin != DefaultMargin {
		t.Errorf("Margin = %f, want %f", cfg.Margin, DefaultMargin)
	}
	if cfg.GoalCap != DefaultGoalCap {
		t.Errorf("GoalCap = %d, want %d", cfg.GoalCap, DefaultGoalCap)
	}
	if cfg.FlatteningExponent != DefaultFlatteningExponent {
		t.Errorf("FlatteningExponent = %f, want %f", cfg.FlatteningExponent, DefaultFlatteningExponent)
	}
	if cfg.RosterSize != DefaultRosterSize {
		t.Errorf("RosterSize = %d, want %d", cfg.RosterSize, DefaultRosterSize)
	}
	if cfg.RoundInterval != DefaultRoundInterval {
		t.Errorf("RoundInterval = %v, want %v", cfg.RoundInterval, DefaultRoundInterval)
	}
	if cfg.DBPath != DefaultDBPath {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, DefaultDBPath)
	}
	if cfg.Seed != 0 {
		t.Errorf("Seed = %d, want 0", cfg.Seed)
	}
	if cfg.ShapingFile != "" {
		t.Errorf("ShapingFile = %q, want empty", cfg.ShapingFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MARGIN_OPERATOR", "0.15")
	t.Setenv("GOAL_CAP", "4")
	t.Setenv("FLATTENING_EXPONENT", "0.75")
	t.Setenv("ROUND_INTERVAL", "90s")
	t.Setenv("SEED", "42")
	t.Setenv("PRICING_WORKERS", "8")

	cfg := Load()

	if cfg.Margin != 0.15 {
		t.Errorf("Margin = %f, want 0.15", cfg.Margin)
	}
	if cfg.GoalCap != 4 {
		t.Errorf("GoalCap = %d, want 4", cfg.GoalCap)
	}
	if cfg.FlatteningExponent != 0.75 {
		t.Errorf("FlatteningExponent = %f, want 0.75", cfg.FlatteningExponent)
	}
	if cfg.RoundInterval != 90*time.Second {
		t.Errorf("RoundInterval = %v, want 90s", cfg.RoundInterval)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.PricingWorkers != 8 {
		t.Errorf("PricingWorkers = %d, want 8", cfg.PricingWorkers)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("MARGIN_OPERATOR", "ten percent")
	t.Setenv("GOAL_CAP", "six")

	cfg := Load()

	if cfg.Margin != DefaultMargin {
		t.Errorf("Margin = %f, want default %f", cfg.Margin, DefaultMargin)
	}
	if cfg.GoalCap != DefaultGoalCap {
		t.Errorf("GoalCap = %d, want default %d", cfg.GoalCap, DefaultGoalCap)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		Margin:             0.10,
		GoalCap:            6,
		FlatteningExponent: 0.5,
		RosterSize:         20,
		FixturesPerRound:   10,
		RoundInterval:      3 * time.Minute,
		KickoffSpacing:     3 * time.Minute,
		PricingWorkers:     4,
		PayoutTolerance:    0.02,
	}

	if err := Validate(valid); err != nil {
		t.Errorf("valid config should pass: %v", err)
	}

	zeroCap := valid
	zeroCap.GoalCap = 0
	zeroCap.Margin = 0
	if err := Validate(zeroCap); err != nil {
		t.Errorf("zero margin and zero goal cap should pass: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative margin", func(c *Config) { c.Margin = -0.01 }},
		{"negative goal cap", func(c *Config) { c.GoalCap = -1 }},
		{"zero flattening", func(c *Config) { c.FlatteningExponent = 0 }},
		{"roster too small", func(c *Config) { c.RosterSize = 1 }},
		{"roster too large", func(c *Config) { c.RosterSize = 27 }},
		{"no fixtures", func(c *Config) { c.FixturesPerRound = 0 }},
		{"interval too short", func(c *Config) { c.RoundInterval = time.Millisecond }},
		{"negative spacing", func(c *Config) { c.KickoffSpacing = -time.Second }},
		{"no workers", func(c *Config) { c.PricingWorkers = 0 }},
		{"tolerance > 1", func(c *Config) { c.PayoutTolerance = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.modify(&c)
			err := Validate(c)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("error %v should wrap ErrInvalidConfiguration", err)
			}
		})
	}
}

func TestTargetPayout(t *testing.T) {
	if got := TargetPayout(0); got != 1 {
		t.Errorf("TargetPayout(0) = %f, want 1", got)
	}
	if got := TargetPayout(0.25); got != 1.25 {
		t.Errorf("TargetPayout(0.25) = %f, want 1.25", got)
	}
}
