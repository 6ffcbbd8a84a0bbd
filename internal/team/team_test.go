package team

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-odds/internal/rng"
)

func TestStrength(t *testing.T) {
	a := Team{ID: "A", Attack: 80, Defense: 70, Form: 90}
	assert.InDelta(t, 80*0.4+70*0.3+90*0.3, Strength(a), 1e-12)

	// Pure: same input, same output
	assert.Equal(t, Strength(a), Strength(a))
}

func TestNewRosterRejectsDuplicates(t *testing.T) {
	_, err := NewRoster([]Team{{ID: "A"}, {ID: "A"}})
	require.Error(t, err)

	_, err = NewRoster([]Team{{ID: ""}})
	require.Error(t, err)
}

func TestLookupAndAt(t *testing.T) {
	r, err := NewRoster([]Team{
		{ID: "A", Name: "Squadra A", Attack: 80, Defense: 70, Form: 90},
		{ID: "B", Name: "Squadra B", Attack: 70, Defense: 80, Form: 80},
	})
	require.NoError(t, err)

	b, err := r.Lookup("B")
	require.NoError(t, err)
	assert.Equal(t, "Squadra B", b.Name)

	a, err := r.At(0)
	require.NoError(t, err)
	assert.Equal(t, "A", a.ID)

	_, err = r.Lookup("Z")
	assert.True(t, errors.Is(err, ErrInvalidTeamReference))

	_, err = r.At(2)
	assert.True(t, errors.Is(err, ErrInvalidTeamReference))
	_, err = r.At(-1)
	assert.True(t, errors.Is(err, ErrInvalidTeamReference))
}

func TestNewRandomRosterRanges(t *testing.T) {
	r, err := NewRandomRoster(rng.New(11), 20)
	require.NoError(t, err)
	require.Equal(t, 20, r.Len())

	for i, tm := range r.Teams() {
		assert.Equal(t, "Squadra "+string(rune('A'+i)), tm.Name)
		assert.GreaterOrEqual(t, tm.Attack, 50)
		assert.Less(t, tm.Attack, 95)
		assert.GreaterOrEqual(t, tm.Defense, 50)
		assert.Less(t, tm.Defense, 95)
		assert.GreaterOrEqual(t, tm.Form, 70)
		assert.Less(t, tm.Form, 100)
	}

	_, err = NewRandomRoster(rng.New(1), 27)
	assert.Error(t, err)
}

func TestNewRandomRosterReproducible(t *testing.T) {
	a, err := NewRandomRoster(rng.New(5), 10)
	require.NoError(t, err)
	b, err := NewRandomRoster(rng.New(5), 10)
	require.NoError(t, err)
	assert.Equal(t, a.Teams(), b.Teams())
}

func TestUpdateFormClamped(t *testing.T) {
	r, err := NewRoster([]Team{
		{ID: "A", Form: 100},
		{ID: "B", Form: 60},
		{ID: "C", Form: 80},
	})
	require.NoError(t, err)

	src := rng.New(9)
	for i := 0; i < 200; i++ {
		next := r.UpdateForm(src)
		for j, tm := range next.Teams() {
			before, _ := r.At(j)
			assert.GreaterOrEqual(t, tm.Form, FormFloor)
			assert.LessOrEqual(t, tm.Form, FormCeil)
			assert.LessOrEqual(t, abs(tm.Form-before.Form), FormSwing)
		}
		r = next
	}

	// Lookup still works on the derived roster
	_, err = r.Lookup("C")
	assert.NoError(t, err)
}

func TestUpdateFormLeavesOriginal(t *testing.T) {
	r, err := NewRoster([]Team{{ID: "A", Form: 80}})
	require.NoError(t, err)
	_ = r.UpdateForm(rng.New(1))
	a, _ := r.At(0)
	assert.Equal(t, 80, a.Form)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
