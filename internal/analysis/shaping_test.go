package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-odds/internal/config"
	"virtual-odds/internal/odds"
)

func TestShapingApply(t *testing.T) {
	priced := odds.Odds[odds.ScoreLabel]{
		odds.Score(5, 0): 120.00,
		odds.Score(1, 0): 7.50,
		odds.Score(6, 0): 1.20,
	}
	shaped := ShapingTable{
		odds.Score(5, 0): 0.8,
		odds.Score(6, 0): 0.5,
	}.Apply(priced)

	assert.Equal(t, 96.0, shaped[odds.Score(5, 0)])
	assert.Equal(t, 7.50, shaped[odds.Score(1, 0)])
	assert.Equal(t, MinShapedOdds, shaped[odds.Score(6, 0)], "shaped odds are floored")
	assert.Equal(t, 120.00, priced[odds.Score(5, 0)], "input must not be mutated")
}

func TestCorrectionApply(t *testing.T) {
	probs := odds.Probabilities[odds.ScoreLabel]{
		odds.Score(0, 0): 0.1,
		odds.Score(1, 0): 0.2,
	}
	CorrectionTable{
		odds.Score(0, 0): 2,
		odds.Score(9, 9): 3, // outside the table, ignored
	}.Apply(probs)

	assert.InDelta(t, 0.2, probs[odds.Score(0, 0)], 1e-12)
	assert.InDelta(t, 0.2, probs[odds.Score(1, 0)], 1e-12)
	assert.Len(t, probs, 2)
}

func TestParseTables(t *testing.T) {
	tables, err := ParseTables([]byte(`
shaping:
  "5-0": 0.7
  "0-5": 0.7
`))
	require.NoError(t, err)

	assert.Equal(t, ShapingTable{odds.Score(5, 0): 0.7, odds.Score(0, 5): 0.7}, tables.Shaping)
	assert.Equal(t, DefaultCorrections(), tables.Corrections, "missing section keeps defaults")
}

func TestParseTablesEmptySectionDisables(t *testing.T) {
	tables, err := ParseTables([]byte("corrections: {}\n"))
	require.NoError(t, err)
	assert.Empty(t, tables.Corrections)
	assert.Equal(t, DefaultShaping(), tables.Shaping)
}

func TestParseTablesBadKey(t *testing.T) {
	_, err := ParseTables([]byte(`
shaping:
  "five-nil": 0.7
`))
	assert.Error(t, err)

	_, err = ParseTables([]byte("shaping: [1, 2"))
	assert.Error(t, err)
}

func TestLoadTablesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("corrections:\n  \"0-0\": 1.4\n"), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)
	assert.Equal(t, CorrectionTable{odds.Score(0, 0): 1.4}, tables.Corrections)

	_, err = LoadTables(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"negative margin", func(p *Params) { p.Margin = -0.1 }},
		{"negative cap", func(p *Params) { p.GoalCap = -1 }},
		{"zero flattening", func(p *Params) { p.FlatteningExponent = 0 }},
		{"zero correction", func(p *Params) { p.Corrections = CorrectionTable{odds.Score(0, 0): 0} }},
		{"negative shaping", func(p *Params) { p.Shaping = ShapingTable{odds.Score(5, 0): -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, config.ErrInvalidConfiguration))
		})
	}
}

func TestParamsFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shaping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("shaping:\n  \"6-0\": 0.6\n"), 0o644))

	p, err := ParamsFromConfig(config.Config{
		Margin:             0.12,
		GoalCap:            5,
		FlatteningExponent: 0.5,
		ShapingFile:        path,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.12, p.Margin)
	assert.Equal(t, 5, p.GoalCap)
	assert.Equal(t, ShapingTable{odds.Score(6, 0): 0.6}, p.Shaping)

	_, err = ParamsFromConfig(config.Config{Margin: -1, FlatteningExponent: 0.5})
	assert.True(t, errors.Is(err, config.ErrInvalidConfiguration))
}
