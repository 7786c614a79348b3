package swiss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/swisspair/pkg/tournament"
)

func meet(e *Entity, others ...*Entity) {
	if e.opponents == nil {
		e.opponents = map[string]bool{}
	}
	for _, o := range others {
		if o.opponents == nil {
			o.opponents = map[string]bool{}
		}
		e.opponents[o.ID] = true
		o.opponents[e.ID] = true
	}
}

func newAbsolute(topScore float64) *absolute {
	return &absolute{topScore: topScore, completable: map[string]bool{}}
}

func TestCanComplete(t *testing.T) {
	tests := []struct {
		name  string
		setup func() ([]*Entity, []scoreGroup)
		want  bool
	}{
		{
			name:  "nothing left",
			setup: func() ([]*Entity, []scoreGroup) { return nil, nil },
			want:  true,
		},
		{
			name: "last player takes the bye",
			setup: func() ([]*Entity, []scoreGroup) {
				return []*Entity{{ID: "a"}}, nil
			},
			want: true,
		},
		{
			name: "last player already had a bye",
			setup: func() ([]*Entity, []scoreGroup) {
				return []*Entity{{ID: "a", byes: 1}}, nil
			},
			want: false,
		},
		{
			name: "two players left over",
			setup: func() ([]*Entity, []scoreGroup) {
				return []*Entity{{ID: "a"}, {ID: "b"}}, nil
			},
			want: false,
		},
		{
			name: "downfloater meets lower group",
			setup: func() ([]*Entity, []scoreGroup) {
				a, c := &Entity{ID: "a"}, &Entity{ID: "c"}
				return []*Entity{a}, []scoreGroup{{score: 0, members: []*Entity{c}}}
			},
			want: true,
		},
		{
			name: "downfloater has met the whole lower group",
			setup: func() ([]*Entity, []scoreGroup) {
				a := &Entity{ID: "a"}
				c, d, e := &Entity{ID: "c"}, &Entity{ID: "d"}, &Entity{ID: "e"}
				meet(a, c, d, e)
				return []*Entity{a}, []scoreGroup{{score: 0, members: []*Entity{c, d, e}}}
			},
			want: false,
		},
		{
			name: "odd total gives the bye to an eligible player",
			setup: func() ([]*Entity, []scoreGroup) {
				a := &Entity{ID: "a"}
				c, d := &Entity{ID: "c", byes: 1}, &Entity{ID: "d"}
				meet(a, c)
				return []*Entity{a}, []scoreGroup{{score: 0, members: []*Entity{c, d}}}
			},
			want: true,
		},
		{
			name: "odd total with no eligible bye",
			setup: func() ([]*Entity, []scoreGroup) {
				a := &Entity{ID: "a", byes: 1}
				c, d := &Entity{ID: "c", byes: 1}, &Entity{ID: "d", byes: 1}
				meet(a, c)
				return []*Entity{a}, []scoreGroup{{score: 0, members: []*Entity{c, d}}}
			},
			want: false,
		},
		{
			name: "same strong colour preference",
			setup: func() ([]*Entity, []scoreGroup) {
				a, c := &Entity{ID: "a", ColourIndex: 2}, &Entity{ID: "c", ColourIndex: 3}
				return []*Entity{a}, []scoreGroup{{score: 0, members: []*Entity{c}}}
			},
			want: false,
		},
		{
			name: "lower groups are paired across",
			setup: func() ([]*Entity, []scoreGroup) {
				a := &Entity{ID: "a"}
				c, d := &Entity{ID: "c"}, &Entity{ID: "d"}
				meet(a, c)
				meet(c, d)
				e := &Entity{ID: "e"}
				return []*Entity{a}, []scoreGroup{
					{score: 1, members: []*Entity{c, d}},
					{score: 0, members: []*Entity{e}},
				}
			},
			want: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			downfloaters, lower := tt.setup()
			abs := newAbsolute(10)
			got, err := abs.canComplete(downfloaters, lower)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// The verdict is cached per downfloater set.
			again, err := abs.canComplete(downfloaters, lower)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestEvaluateByeCriteria(t *testing.T) {
	pab := &Entity{ID: "x", Score: 1.5, unplayed: 2}
	c := &candidate{downfloaters: []*Entity{pab}}

	ev := &evaluator{abs: newAbsolute(10), round: 3, last: true}
	require.NoError(t, ev.evaluate(c))
	assert.Equal(t, []float64{1.5}, c.report[critPABScore])
	assert.Equal(t, []float64{2}, c.report[critPABUnplayed])
	assert.Equal(t, []float64{1}, c.report[critDownfloaters])
	assert.Equal(t, []float64{1.5}, c.report[critDownfloaterScores])
	assert.Equal(t, []float64{0}, c.report[critProbe])

	// Outside the last bracket the bye criteria stay empty.
	ev.last = false
	require.NoError(t, ev.evaluate(c))
	assert.Nil(t, c.report[critPABScore])
	assert.Nil(t, c.report[critPABUnplayed])
}

func TestEvaluateNextBracket(t *testing.T) {
	a, b := &Entity{ID: "a", Score: 2}, &Entity{ID: "b", Score: 2}
	c, d := &Entity{ID: "c", Score: 1}, &Entity{ID: "d", Score: 1}
	meet(a, c, d)

	ev := &evaluator{
		abs:   newAbsolute(10),
		round: 3,
		lower: []scoreGroup{{score: 1, members: []*Entity{c, d}}},
	}
	cand := &candidate{downfloaters: []*Entity{a, b}}
	require.NoError(t, ev.evaluate(cand))

	// a can only meet b, which leaves c and d for each other.
	assert.Equal(t, []float64{0}, cand.report[critProbe])
	assert.Equal(t, []float64{2, 2}, cand.report[critDownfloaterScores])

	meet(b, c, d)
	require.NoError(t, ev.evaluate(cand))
	assert.Equal(t, []float64{0}, cand.report[critProbe])

	meet(c, d)
	require.NoError(t, ev.evaluate(cand))
	assert.Equal(t, []float64{2}, cand.report[critProbe])
}

func TestEvaluateColourCriteria(t *testing.T) {
	W, B := tournament.White, tournament.Black
	tests := []struct {
		name         string
		topScore     float64
		white, black *Entity
		// C10, C11, C12, C13
		want [4]int
	}{
		{
			name:     "colour index past two for a topscorer",
			topScore: 3,
			white:    &Entity{ID: "a", Score: 3, ColourIndex: 2},
			black:    &Entity{ID: "b", Score: 2},
			want:     [4]int{1, 0, 1, 1},
		},
		{
			name:     "third white in a row for a topscorer",
			topScore: 3,
			white:    &Entity{ID: "a", Score: 3, colours: []tournament.Colour{B, W, W}},
			black:    &Entity{ID: "b", Score: 3, colours: []tournament.Colour{W, B}},
			want:     [4]int{0, 1, 0, 0},
		},
		{
			name:     "third black in a row for a topscorer",
			topScore: 3,
			white:    &Entity{ID: "a", Score: 3},
			black:    &Entity{ID: "b", Score: 2, colours: []tournament.Colour{B, B}},
			want:     [4]int{0, 1, 0, 0},
		},
		{
			name:     "runs do not count below the top",
			topScore: 5,
			white:    &Entity{ID: "a", Score: 3, colours: []tournament.Colour{W, W}},
			black:    &Entity{ID: "b", Score: 3, ColourIndex: -3, colours: []tournament.Colour{B, B}},
			want:     [4]int{0, 0, 1, 1},
		},
		{
			name:     "mild and strong preferences missed",
			topScore: 5,
			white:    &Entity{ID: "a", Score: 2, ColourIndex: 1},
			black:    &Entity{ID: "b", Score: 2, ColourIndex: -2},
			want:     [4]int{0, 0, 2, 1},
		},
		{
			name:     "preferences met",
			topScore: 5,
			white:    &Entity{ID: "a", Score: 2, ColourIndex: -2},
			black:    &Entity{ID: "b", Score: 2, ColourIndex: 1},
			want:     [4]int{0, 0, 0, 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &evaluator{abs: newAbsolute(tt.topScore), round: 4}
			c := &candidate{pairs: []pairing{{White: tt.white, Black: tt.black}}}
			require.NoError(t, ev.evaluate(c))

			got := [4]int{
				int(c.report[critTopColourDiff][0]),
				int(c.report[critTopColourRun][0]),
				int(c.report[critPreference][0]),
				int(c.report[critStrongPreference][0]),
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateFloats(t *testing.T) {
	// Round 5: the previous round is 4 and the one before is 3.
	d1 := &Entity{ID: "d1", Score: 2, floats: map[int]float{4: floatDown}}
	d2 := &Entity{ID: "d2", Score: 2, floats: map[int]float{3: floatDown}}
	d3 := &Entity{ID: "d3", Score: 2, floats: map[int]float{3: floatDown, 4: floatDown}}
	d4 := &Entity{ID: "d4", Score: 2, floats: map[int]float{4: floatUp}}

	hi1 := &Entity{ID: "h1", Score: 3, floats: map[int]float{3: floatDown}}
	lo1 := &Entity{ID: "l1", Score: 2, floats: map[int]float{4: floatUp}}
	hi2 := &Entity{ID: "h2", Score: 4, floats: map[int]float{4: floatDown}}
	lo2 := &Entity{ID: "l2", Score: 2.5, floats: map[int]float{3: floatUp}}
	hi3 := &Entity{ID: "h3", Score: 3}
	lo3 := &Entity{ID: "l3", Score: 1, floats: map[int]float{4: floatUp}}
	// Equal scores count for neither direction.
	eq1 := &Entity{ID: "e1", Score: 2, floats: map[int]float{4: floatDown}}
	eq2 := &Entity{ID: "e2", Score: 2, floats: map[int]float{4: floatUp}}

	c := &candidate{
		pairs: []pairing{
			{White: hi1, Black: lo1},
			{White: lo2, Black: hi2},
			{White: hi3, Black: lo3},
			{White: eq1, Black: eq2},
		},
		downfloaters: []*Entity{d1, d2, d3, d4},
	}
	ev := &evaluator{abs: newAbsolute(10), round: 5}
	require.NoError(t, ev.evaluate(c))

	r := c.report
	assert.Equal(t, []float64{2}, r[critDownfloatPrev], "C14")
	assert.Equal(t, []float64{2}, r[critUpfloatPrev], "C15")
	assert.Equal(t, []float64{2}, r[critDownfloatPrev2], "C16")
	assert.Equal(t, []float64{1}, r[critUpfloatPrev2], "C17")
	assert.Equal(t, []float64{1.5}, r[critDownfloatDiffPrev], "C18")
	assert.Equal(t, []float64{2, 1}, r[critUpfloatDiffPrev], "C19")
	assert.Equal(t, []float64{1}, r[critDownfloatDiffPrev2], "C20")
	assert.Equal(t, []float64{1.5}, r[critUpfloatDiffPrev2], "C21")
	assert.Equal(t, []float64{4}, r[critDownfloaters])
}

func TestEvaluateFloatsFirstRounds(t *testing.T) {
	e := &Entity{ID: "a", Score: 1, floats: map[int]float{0: floatDown}}
	c := &candidate{downfloaters: []*Entity{e}}
	ev := &evaluator{abs: newAbsolute(10), round: 1}
	require.NoError(t, ev.evaluate(c))
	assert.Equal(t, []float64{0}, c.report[critDownfloatPrev])
	assert.Equal(t, []float64{0}, c.report[critDownfloatPrev2])
	assert.Empty(t, c.report[critDownfloatDiffPrev])
}
