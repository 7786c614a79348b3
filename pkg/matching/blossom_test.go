package matching

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, n int, edges [][2]int) *Graph {
	t.Helper()
	g := NewGraph(n)
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], e[1]))
	}
	return g
}

// requireValid checks that m is a matching of g: mates are symmetric and
// every matched pair is an edge.
func requireValid(t *testing.T, g *Graph, m *Matching) {
	t.Helper()
	adj := make(map[[2]int]bool)
	for _, e := range g.Edges() {
		adj[[2]int{e[0], e[1]}] = true
		adj[[2]int{e[1], e[0]}] = true
	}
	for v := range g.Order() {
		w := m.Mate(v)
		if w < 0 {
			continue
		}
		require.Equal(t, v, m.Mate(w), "mate of %d is %d but mate of %d is %d", v, w, w, m.Mate(w))
		require.True(t, adj[[2]int{v, w}], "matched pair (%d, %d) is not an edge", v, w)
	}
}

func TestMaximum(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		edges     [][2]int
		size      int
		blossoms  int
		unmatched []int
	}{
		{
			name:  "four cycle",
			n:     4,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
			size:  2,
		},
		{
			name:      "five cycle contracts a blossom",
			n:         5,
			edges:     [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}},
			size:      2,
			blossoms:  1,
			unmatched: []int{4},
		},
		{
			name:      "empty graph",
			n:         3,
			size:      0,
			unmatched: []int{0, 1, 2},
		},
		{
			name: "no vertices",
			n:    0,
			size: 0,
		},
		{
			name:      "star",
			n:         4,
			edges:     [][2]int{{0, 1}, {0, 2}, {0, 3}},
			size:      1,
			unmatched: []int{2, 3},
		},
		{
			name: "triangle with pendant path",
			// The greedy choice (0,1) must be undone through the blossom
			// {0,1,2} to reach the perfect matching.
			n:     6,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {2, 4}, {4, 5}},
			size:  3,
		},
		{
			name: "petersen graph",
			n:    10,
			edges: [][2]int{
				{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0},
				{0, 5}, {1, 6}, {2, 7}, {3, 8}, {4, 9},
				{5, 7}, {7, 9}, {9, 6}, {6, 8}, {8, 5},
			},
			size: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.n, tt.edges)
			m, err := Maximum(g)
			require.NoError(t, err)
			requireValid(t, g, m)
			assert.Equal(t, tt.size, m.Size())
			assert.Len(t, m.Pairs(), tt.size)
			assert.GreaterOrEqual(t, m.Blossoms(), tt.blossoms)
			if tt.unmatched != nil {
				assert.Equal(t, tt.unmatched, m.Unmatched())
			}
			assert.Equal(t, 2*tt.size == tt.n, m.Perfect())
		})
	}
}

func TestAddEdgeRange(t *testing.T) {
	g := NewGraph(3)
	assert.ErrorIs(t, g.AddEdge(0, 3), ErrVertexRange)
	assert.ErrorIs(t, g.AddEdge(-1, 1), ErrVertexRange)
	assert.ErrorIs(t, g.AddEdge(1, 1), ErrVertexRange)
	assert.NoError(t, g.AddEdge(1, 2))
	assert.Len(t, g.Edges(), 1)
}

func TestMateOutOfRange(t *testing.T) {
	m, err := Maximum(NewGraph(2))
	require.NoError(t, err)
	assert.Equal(t, -1, m.Mate(5))
	assert.Equal(t, -1, m.Mate(-1))
}

// bruteForce returns the size of a maximum matching by exhaustive search
// over vertex subsets.
func bruteForce(n int, edges [][2]int) int {
	best := make(map[uint32]int)
	var solve func(used uint32) int
	solve = func(used uint32) int {
		if v, ok := best[used]; ok {
			return v
		}
		// Pick the lowest free vertex and either leave it or match it.
		free := -1
		for v := range n {
			if used&(1<<v) == 0 {
				free = v
				break
			}
		}
		if free < 0 {
			return 0
		}
		result := solve(used | 1<<free)
		for _, e := range edges {
			var other int
			switch free {
			case e[0]:
				other = e[1]
			case e[1]:
				other = e[0]
			default:
				continue
			}
			if used&(1<<other) == 0 {
				result = max(result, 1+solve(used|1<<free|1<<other))
			}
		}
		best[used] = result
		return result
	}
	return solve(0)
}

func TestMaximumAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 300; trial++ {
		n := 1 + rng.Intn(12)
		density := rng.Float64()
		var edges [][2]int
		for u := 0; u < n; u++ {
			for v := u + 1; v < n; v++ {
				if rng.Float64() < density {
					edges = append(edges, [2]int{u, v})
				}
			}
		}
		rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })

		g := build(t, n, edges)
		m, err := Maximum(g)
		require.NoError(t, err, "trial %d", trial)
		requireValid(t, g, m)
		require.Equal(t, bruteForce(n, edges), m.Size(), "trial %d: n=%d edges=%v", trial, n, edges)
		require.Equal(t, n-2*m.Size(), len(m.Unmatched()))
		require.Len(t, m.Pairs(), m.Size())
	}
}

func TestMaximumDeterministic(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {0, 2}, {1, 3}}
	first, err := Maximum(build(t, 4, edges))
	require.NoError(t, err)
	for range 5 {
		again, err := Maximum(build(t, 4, edges))
		require.NoError(t, err)
		assert.Equal(t, first.Pairs(), again.Pairs())
	}
}
