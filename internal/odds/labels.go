package odds

import (
	"fmt"
	"strconv"
	"strings"
)

// Label is an outcome of one market. String returns the wire key.
type Label interface {
	comparable
	String() string
}

// MarketType identifies a market on the board.
type MarketType string

const (
	MarketResult       MarketType = "1x2"
	MarketTotals       MarketType = "under_over_2_5"
	MarketBtts         MarketType = "goal_nogoal"
	MarketCorrectScore MarketType = "correct_score"
)

// ResultLabel is an outcome of the 1X2 market.
type ResultLabel string

const (
	Home ResultLabel = "1"
	Draw ResultLabel = "X"
	Away ResultLabel = "2"
)

// ResultLabels lists the 1X2 outcomes in display order.
var ResultLabels = []ResultLabel{Home, Draw, Away}

func (l ResultLabel) String() string { return string(l) }

// TotalsLabel is an outcome of the Under/Over 2.5 goals market.
type TotalsLabel string

const (
	Under TotalsLabel = "Under 2.5"
	Over  TotalsLabel = "Over 2.5"
)

// TotalsLine is the goal threshold of the totals market.
const TotalsLine = 2.5

// TotalsLabels lists the totals outcomes in display order.
var TotalsLabels = []TotalsLabel{Under, Over}

func (l TotalsLabel) String() string { return string(l) }

// BttsLabel is an outcome of the both-teams-to-score market.
type BttsLabel string

const (
	Goal   BttsLabel = "Goal"
	NoGoal BttsLabel = "NoGoal"
)

// BttsLabels lists the Goal/NoGoal outcomes in display order.
var BttsLabels = []BttsLabel{Goal, NoGoal}

func (l BttsLabel) String() string { return string(l) }

// OtherScore is the settlement label for a simulated scoreline that is not
// in the capped correct-score table.
const OtherScore = "Altro"

// ScoreLabel is a correct-score outcome.
type ScoreLabel struct {
	Home int
	Away int
}

// Score builds a ScoreLabel.
func Score(home, away int) ScoreLabel {
	return ScoreLabel{Home: home, Away: away}
}

// Total returns the number of goals in the scoreline.
func (s ScoreLabel) Total() int {
	return s.Home + s.Away
}

func (s ScoreLabel) String() string {
	return fmt.Sprintf("%d-%d", s.Home, s.Away)
}

// MarshalText encodes the label as "h-a" so ScoreLabel works as a map key in
// JSON and YAML.
func (s ScoreLabel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses "h-a".
func (s *ScoreLabel) UnmarshalText(text []byte) error {
	parsed, err := ParseScoreLabel(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScoreLabel parses a "h-a" key.
func ParseScoreLabel(key string) (ScoreLabel, error) {
	h, a, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok {
		return ScoreLabel{}, fmt.Errorf("score label %q: missing '-'", key)
	}
	home, err := strconv.Atoi(h)
	if err != nil {
		return ScoreLabel{}, fmt.Errorf("score label %q: home goals: %w", key, err)
	}
	away, err := strconv.Atoi(a)
	if err != nil {
		return ScoreLabel{}, fmt.Errorf("score label %q: away goals: %w", key, err)
	}
	if home < 0 || away < 0 {
		return ScoreLabel{}, fmt.Errorf("score label %q: negative goals", key)
	}
	return ScoreLabel{Home: home, Away: away}, nil
}
