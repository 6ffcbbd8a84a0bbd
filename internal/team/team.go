package team

import (
	"errors"
	"fmt"

	"virtual-odds/internal/rng"
)

// ErrInvalidTeamReference is returned when a team id or index is not in the roster.
var ErrInvalidTeamReference = errors.New("invalid team reference")

// Rating bounds used by the roster generator and form updates.
const (
	MinRating = 50
	MaxRating = 95 // exclusive upper bound for generated attack/defense
	MinForm   = 70
	MaxForm   = 100 // exclusive upper bound for generated form
	FormFloor = 60
	FormCeil  = 100
	FormSwing = 5
)

// Team is a virtual club. Ratings are immutable while a fixture is priced.
type Team struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Attack  int    `json:"attack"`
	Defense int    `json:"defense"`
	Form    int    `json:"form"`
}

// Strength is the scalar used by the 1X2 market:
// 0.4*attack + 0.3*defense + 0.3*form.
func Strength(t Team) float64 {
	return float64(t.Attack)*0.4 + float64(t.Defense)*0.3 + float64(t.Form)*0.3
}

// Roster is an ordered collection of teams with id lookup.
type Roster struct {
	teams []Team
	index map[string]int
}

// NewRoster builds a roster, rejecting duplicate or empty ids.
func NewRoster(teams []Team) (*Roster, error) {
	r := &Roster{
		teams: make([]Team, len(teams)),
		index: make(map[string]int, len(teams)),
	}
	for i, t := range teams {
		if t.ID == "" {
			return nil, fmt.Errorf("team at position %d has no id", i)
		}
		if _, dup := r.index[t.ID]; dup {
			return nil, fmt.Errorf("duplicate team id %q", t.ID)
		}
		r.teams[i] = t
		r.index[t.ID] = i
	}
	return r, nil
}

// NewRandomRoster creates n teams named "Squadra A", "Squadra B", ... with
// attack and defense in [50, 95) and form in [70, 100).
func NewRandomRoster(src *rng.Source, n int) (*Roster, error) {
	if n < 1 || n > 26 {
		return nil, fmt.Errorf("roster size must be between 1 and 26, got %d", n)
	}
	teams := make([]Team, n)
	for i := range teams {
		letter := string(rune('A' + i))
		teams[i] = Team{
			ID:      letter,
			Name:    "Squadra " + letter,
			Attack:  src.IntRange(MinRating, MaxRating-1),
			Defense: src.IntRange(MinRating, MaxRating-1),
			Form:    src.IntRange(MinForm, MaxForm-1),
		}
	}
	return NewRoster(teams)
}

// Len returns the number of teams.
func (r *Roster) Len() int {
	return len(r.teams)
}

// Teams returns a copy of the teams in roster order.
func (r *Roster) Teams() []Team {
	out := make([]Team, len(r.teams))
	copy(out, r.teams)
	return out
}

// Lookup returns the team with the given id.
func (r *Roster) Lookup(id string) (Team, error) {
	i, ok := r.index[id]
	if !ok {
		return Team{}, fmt.Errorf("%w: id %q", ErrInvalidTeamReference, id)
	}
	return r.teams[i], nil
}

// At returns the team at position i.
func (r *Roster) At(i int) (Team, error) {
	if i < 0 || i >= len(r.teams) {
		return Team{}, fmt.Errorf("%w: index %d (roster has %d teams)", ErrInvalidTeamReference, i, len(r.teams))
	}
	return r.teams[i], nil
}

// UpdateForm returns a new roster where each team's form has moved by a
// uniform integer in [-5, 5], clamped to [60, 100]. The receiver is left
// untouched so rounds already being priced keep their inputs.
func (r *Roster) UpdateForm(src *rng.Source) *Roster {
	next := &Roster{
		teams: make([]Team, len(r.teams)),
		index: r.index,
	}
	for i, t := range r.teams {
		t.Form = clampForm(t.Form + src.IntRange(-FormSwing, FormSwing))
		next.teams[i] = t
	}
	return next
}

func clampForm(form int) int {
	return max(min(form, FormCeil), FormFloor)
}
