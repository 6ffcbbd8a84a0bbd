package odds

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"virtual-odds/internal/config"
)

// ErrDegenerateProbability is returned when an outcome probability is not
// strictly positive, so no finite odds exist for it.
var ErrDegenerateProbability = errors.New("degenerate probability")

// MinProbability is the floor calculators apply before pricing so that
// every emitted outcome has finite odds.
const MinProbability = 1e-6

// Probabilities maps each outcome of a market to its probability.
type Probabilities[L Label] map[L]float64

// Odds maps each outcome of a market to decimal odds.
type Odds[L Label] map[L]float64

// Sum returns the total probability mass.
func (p Probabilities[L]) Sum() float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}

// Normalize rescales the vector in place so it sums to 1.
func (p Probabilities[L]) Normalize() {
	total := p.Sum()
	if total <= 0 {
		return
	}
	for k, v := range p {
		p[k] = v / total
	}
}

// FloorProbability clamps p to MinProbability.
func FloorProbability(p float64) float64 {
	return max(p, MinProbability)
}

// DecimalOdds converts a single probability to decimal odds carrying margin:
// odds = 1 / (p / (1+margin)), rounded to 2 decimals.
func DecimalOdds(p, margin float64) (float64, error) {
	if margin < 0 {
		return 0, fmt.Errorf("%w: negative margin %f", config.ErrInvalidConfiguration, margin)
	}
	if p <= 0 {
		return 0, fmt.Errorf("%w: p=%v", ErrDegenerateProbability, p)
	}
	withMargin := p / (1 + margin)
	return Round2(1 / withMargin), nil
}

// FromProbabilities converts a probability vector to odds with the operator
// margin applied uniformly to every outcome.
func FromProbabilities[L Label](probs Probabilities[L], margin float64) (Odds[L], error) {
	out := make(Odds[L], len(probs))
	for label, p := range probs {
		o, err := DecimalOdds(p, margin)
		if err != nil {
			return nil, fmt.Errorf("pricing %q: %w", label.String(), err)
		}
		out[label] = o
	}
	return out, nil
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Wire returns the odds keyed by their wire labels ("1", "Over 2.5", "2-1", ...)
// as fixed-point decimals.
func (o Odds[L]) Wire() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(o))
	for label, v := range o {
		out[label.String()] = Decimal(v)
	}
	return out
}

// Decimal returns odds as a 2-place fixed-point decimal.
func Decimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
