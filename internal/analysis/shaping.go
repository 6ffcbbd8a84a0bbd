package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"virtual-odds/internal/odds"
)

// MinShapedOdds is the lowest price the shaping stage may produce.
const MinShapedOdds = 1.01

// CorrectionTable multiplies base scoreline probabilities before the
// correct-score table is renormalised. It nudges mass toward low scores and
// draws, which a pure Poisson split underweights.
type CorrectionTable map[odds.ScoreLabel]float64

// DefaultCorrections returns the empirical low-score correction.
func DefaultCorrections() CorrectionTable {
	return CorrectionTable{
		odds.Score(0, 0): 1.25,
		odds.Score(1, 1): 1.15,
		odds.Score(2, 2): 1.05,
	}
}

// Apply scales the matching entries of probs in place. Entries outside the
// table's scorelines are ignored.
func (c CorrectionTable) Apply(probs odds.Probabilities[odds.ScoreLabel]) {
	for label, f := range c {
		if p, ok := probs[label]; ok {
			probs[label] = p * f
		}
	}
}

// ShapingTable multiplies final correct-score odds for specific scorelines.
//
// It runs after pricing and is NOT renormalised against the rest of the
// table: shaped outcomes pay less than their probability implies while every
// other outcome keeps its price.
type ShapingTable map[odds.ScoreLabel]float64

// DefaultShaping shortens the rare lopsided scorelines that would otherwise
// pay out extreme prices.
func DefaultShaping() ShapingTable {
	return ShapingTable{
		odds.Score(5, 1): 0.85,
		odds.Score(1, 5): 0.85,
		odds.Score(5, 0): 0.80,
		odds.Score(0, 5): 0.80,
		odds.Score(6, 0): 0.75,
		odds.Score(0, 6): 0.75,
	}
}

// Apply returns a shaped copy of priced odds. Shaped prices are re-rounded
// to 2 decimals and never drop below MinShapedOdds.
func (s ShapingTable) Apply(priced odds.Odds[odds.ScoreLabel]) odds.Odds[odds.ScoreLabel] {
	out := make(odds.Odds[odds.ScoreLabel], len(priced))
	for label, o := range priced {
		if f, ok := s[label]; ok {
			o = max(odds.Round2(o*f), MinShapedOdds)
		}
		out[label] = o
	}
	return out
}

// Tables is the file form of the correct-score adjustment tables.
type Tables struct {
	Corrections CorrectionTable
	Shaping     ShapingTable
}

type tablesFile struct {
	Corrections map[string]float64 `yaml:"corrections"`
	Shaping     map[string]float64 `yaml:"shaping"`
}

// LoadTables reads correction and shaping tables from a YAML file:
//
//	corrections:
//	  "0-0": 1.25
//	shaping:
//	  "5-0": 0.8
//
// A section missing from the file keeps its default.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("reading shaping file: %w", err)
	}
	return ParseTables(data)
}

// ParseTables decodes the YAML form documented on LoadTables.
func ParseTables(data []byte) (Tables, error) {
	var raw tablesFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Tables{}, fmt.Errorf("parsing shaping file: %w", err)
	}

	tables := Tables{
		Corrections: DefaultCorrections(),
		Shaping:     DefaultShaping(),
	}
	if raw.Corrections != nil {
		c, err := parseScoreMap(raw.Corrections)
		if err != nil {
			return Tables{}, fmt.Errorf("corrections: %w", err)
		}
		tables.Corrections = CorrectionTable(c)
	}
	if raw.Shaping != nil {
		s, err := parseScoreMap(raw.Shaping)
		if err != nil {
			return Tables{}, fmt.Errorf("shaping: %w", err)
		}
		tables.Shaping = ShapingTable(s)
	}
	return tables, nil
}

func parseScoreMap(raw map[string]float64) (map[odds.ScoreLabel]float64, error) {
	out := make(map[odds.ScoreLabel]float64, len(raw))
	for key, f := range raw {
		label, err := odds.ParseScoreLabel(key)
		if err != nil {
			return nil, err
		}
		out[label] = f
	}
	return out, nil
}
