package analysis

import (
	"fmt"

	"virtual-odds/internal/config"
)

// Params holds the pricing configuration shared by every market.
type Params struct {
	Margin             float64 // Operator margin, e.g. 0.10
	GoalCap            int     // Max total goals enumerated by the correct-score table
	FlatteningExponent float64 // Exponent applied to goal-split strengths
	Corrections        CorrectionTable
	Shaping            ShapingTable
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		Margin:             config.DefaultMargin,
		GoalCap:            config.DefaultGoalCap,
		FlatteningExponent: config.DefaultFlatteningExponent,
		Corrections:        DefaultCorrections(),
		Shaping:            DefaultShaping(),
	}
}

// ParamsFromConfig builds pricing params from application config, loading
// the correction and shaping tables from cfg.ShapingFile when set.
func ParamsFromConfig(cfg config.Config) (Params, error) {
	p := Params{
		Margin:             cfg.Margin,
		GoalCap:            cfg.GoalCap,
		FlatteningExponent: cfg.FlatteningExponent,
		Corrections:        DefaultCorrections(),
		Shaping:            DefaultShaping(),
	}
	if cfg.ShapingFile != "" {
		tables, err := LoadTables(cfg.ShapingFile)
		if err != nil {
			return Params{}, err
		}
		p.Corrections = tables.Corrections
		p.Shaping = tables.Shaping
	}
	return p, p.Validate()
}

// Validate rejects settings no market can be priced with.
func (p Params) Validate() error {
	if p.Margin < 0 {
		return fmt.Errorf("%w: margin must be non-negative, got %f", config.ErrInvalidConfiguration, p.Margin)
	}
	if p.GoalCap < 0 {
		return fmt.Errorf("%w: goal cap must be non-negative, got %d", config.ErrInvalidConfiguration, p.GoalCap)
	}
	if p.FlatteningExponent <= 0 {
		return fmt.Errorf("%w: flattening exponent must be positive, got %f", config.ErrInvalidConfiguration, p.FlatteningExponent)
	}
	for label, f := range p.Corrections {
		if f <= 0 {
			return fmt.Errorf("%w: correction for %s must be positive, got %f", config.ErrInvalidConfiguration, label, f)
		}
	}
	for label, f := range p.Shaping {
		if f <= 0 {
			return fmt.Errorf("%w: shaping factor for %s must be positive, got %f", config.ErrInvalidConfiguration, label, f)
		}
	}
	return nil
}
