package swiss

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/swisspair/pkg/combin"
)

func collectGroups(t *testing.T, g Groups) []Groups {
	t.Helper()
	a := &alterations{}
	var out []Groups
	for x := range a.sequence(g) {
		out = append(out, x)
	}
	require.NoError(t, a.err)
	return out
}

func TestHomogeneousOrder(t *testing.T) {
	got := collectGroups(t, Homogeneous{S1: []int{0, 1}, S2: []int{2, 3}})

	// Every way to choose S1 times every ordering of S2.
	require.Len(t, got, combin.Binomial(4, 2)*combin.Factorial(2))

	want := []Homogeneous{
		{S1: []int{0, 1}, S2: []int{2, 3}},
		{S1: []int{0, 1}, S2: []int{3, 2}},
		// Exchange the highest S1 member with the lowest S2 member first.
		{S1: []int{0, 2}, S2: []int{1, 3}},
		{S1: []int{0, 2}, S2: []int{3, 1}},
		{S1: []int{0, 3}, S2: []int{1, 2}},
		{S1: []int{0, 3}, S2: []int{2, 1}},
		{S1: []int{1, 2}, S2: []int{0, 3}},
	}
	for i, w := range want {
		assert.Equal(t, w, got[i], "alteration %d", i)
	}
	assert.Equal(t, Homogeneous{S1: []int{2, 3}, S2: []int{1, 0}}, got[len(got)-1])
}

func TestHomogeneousOddBracket(t *testing.T) {
	got := collectGroups(t, Homogeneous{S1: []int{0}, S2: []int{1, 2}})

	// S1 = {0}: S2 prefix 1 or 2; exchanges put 1 or 2 in S1.
	require.Len(t, got, 6)
	assert.Equal(t, []int{2}, got[0].Downfloaters())
	assert.Equal(t, []int{1}, got[1].Downfloaters())
	assert.Equal(t, [][2]int{{0, 2}}, got[1].Pairs())
	assert.Equal(t, Homogeneous{S1: []int{1}, S2: []int{0, 2}}, got[2])
}

func TestHomogeneousDistinct(t *testing.T) {
	got := collectGroups(t, Homogeneous{S1: []int{0, 1, 2}, S2: []int{3, 4, 5, 6}})
	require.Len(t, got, combin.Binomial(7, 3)*combin.Arrangements(4, 3))

	seen := make(map[string]bool)
	for _, g := range got {
		key := fmt.Sprint(g.Pairs(), g.Downfloaters())
		require.False(t, seen[key], "duplicate arrangement %s", key)
		seen[key] = true
	}
}

func TestHeterogeneousOrder(t *testing.T) {
	start := Heterogeneous{S1: []int{0}, S2: []int{2}, S1R: []int{3}, S2R: []int{4}, Limbo: []int{1}}
	got := collectGroups(t, start)

	// Per S1/Limbo split: 3 choices of S2, each with 2 remainder
	// alterations. One S1/Limbo exchange doubles that.
	require.Len(t, got, 12)
	assert.Equal(t, start, got[0])

	// Remainder-only alterations come before S2 changes.
	assert.Equal(t, Heterogeneous{S1: []int{0}, S2: []int{2}, S1R: []int{4}, S2R: []int{3}, Limbo: []int{1}}, got[1])
	assert.Equal(t, []int{3}, got[2].(Heterogeneous).S2, "S2 changes at the third alteration")

	// The second half swaps the moved-down players.
	for _, g := range got[6:] {
		h := g.(Heterogeneous)
		assert.Equal(t, []int{1}, h.S1)
		assert.Equal(t, []int{0}, h.Limbo)
	}
	for _, g := range got {
		assert.Equal(t, KindHeterogeneous, g.Kind())
		assert.Len(t, g.Pairs(), 2)
		assert.Len(t, g.Downfloaters(), 1)
	}
}

func TestHeterogeneousDownfloatersIncludeLimbo(t *testing.T) {
	g := Heterogeneous{S1: []int{0}, S2: []int{3}, S1R: []int{}, S2R: []int{4}, Limbo: []int{1, 2}}
	assert.Equal(t, []int{1, 2, 4}, g.Downfloaters())
	assert.Equal(t, [][2]int{{0, 3}}, g.Pairs())
}

func TestExchange(t *testing.T) {
	a, b := exchange([]int{0, 1, 2}, []int{3, 4, 5}, []int{2}, []int{0})
	assert.Equal(t, []int{0, 1, 3}, a)
	assert.Equal(t, []int{2, 4, 5}, b)
}
