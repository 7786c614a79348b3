package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrVertexRange is returned when an edge references a vertex outside
	// the graph, or connects a vertex to itself.
	ErrVertexRange = errors.New("matching: vertex out of range")

	// ErrInconsistentBlossom is returned when the search reaches a state that
	// a correct blossom structure cannot produce. It indicates a bug.
	ErrInconsistentBlossom = errors.New("matching: inconsistent blossom structure")
)

// Graph is an undirected graph over the vertices 0..n-1.
// The zero value is an empty graph with no vertices.
type Graph struct {
	n     int
	edges [][2]int
}

// NewGraph returns a graph with n vertices and no edges.
func NewGraph(n int) *Graph {
	return &Graph{n: max(n, 0)}
}

// AddEdge connects u and v. Parallel edges are allowed and harmless.
func (g *Graph) AddEdge(u, v int) error {
	if u < 0 || v < 0 || u >= g.n || v >= g.n || u == v {
		return fmt.Errorf("%w: edge (%d, %d) in graph of order %d", ErrVertexRange, u, v, g.n)
	}
	g.edges = append(g.edges, [2]int{u, v})
	return nil
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return g.n }

// Edges returns the edges in insertion order. The slice must not be modified.
func (g *Graph) Edges() [][2]int { return g.edges }

// Matching is the result of [Maximum].
type Matching struct {
	mate     []int
	blossoms int
}

// Mate returns the vertex matched to v, or -1 if v is free.
func (m *Matching) Mate(v int) int {
	if v < 0 || v >= len(m.mate) {
		return -1
	}
	return m.mate[v]
}

// Size returns the number of matched edges.
func (m *Matching) Size() int {
	n := 0
	for v, w := range m.mate {
		if w > v {
			n++
		}
	}
	return n
}

// Unmatched returns the free vertices in ascending order.
func (m *Matching) Unmatched() []int {
	var out []int
	for v, w := range m.mate {
		if w < 0 {
			out = append(out, v)
		}
	}
	return out
}

// Perfect reports whether every vertex is matched.
func (m *Matching) Perfect() bool {
	return 2*m.Size() == len(m.mate)
}

// Pairs returns the matched edges as (low, high) vertex pairs ordered by the
// lower vertex.
func (m *Matching) Pairs() [][2]int {
	var out [][2]int
	for v, w := range m.mate {
		if w > v {
			out = append(out, [2]int{v, w})
		}
	}
	return out
}

// Blossoms returns how many blossoms were contracted while the matching was
// computed.
func (m *Matching) Blossoms() int { return m.blossoms }
