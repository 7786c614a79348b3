package matching

import (
	"fmt"
	"slices"
)

type label uint8

const (
	unlabelled label = 0
	labelS     label = 1
	labelT     label = 2
	// labelBreadcrumb marks blossoms visited by scanBlossom.
	labelBreadcrumb label = 4
)

// Maximum returns a maximum-cardinality matching of g.
//
// An error is returned only if the internal blossom bookkeeping becomes
// inconsistent, which indicates a bug rather than a property of g.
func Maximum(g *Graph) (*Matching, error) {
	s := newSolver(g)
	if err := s.run(); err != nil {
		return nil, err
	}
	mate := make([]int, s.n)
	for v := range mate {
		mate[v] = -1
		if s.mate[v] >= 0 {
			mate[v] = s.endpoint[s.mate[v]]
		}
	}
	return &Matching{mate: mate, blossoms: s.contracted}, nil
}

// solver holds the state of one blossom search.
//
// Edge k joins endpoint[2k] and endpoint[2k+1]. An endpoint index p refers
// to the vertex endpoint[p]; p^1 is the opposite end of the same edge.
// Blossom indices 0..n-1 are the trivial blossoms (single vertices) and
// n..2n-1 are available for contracted blossoms.
type solver struct {
	n        int
	edges    [][2]int
	endpoint []int
	neighbor [][]int // remote endpoints of the edges incident to each vertex

	mate []int // remote endpoint of the matched edge, or -1

	label     []label
	labelEnd  []int // endpoint through which the blossom got its label
	inBlossom []int // top-level blossom containing each vertex

	parent []int
	childs [][]int
	base   []int
	endps  [][]int
	unused []int

	queue      []int
	contracted int
}

func newSolver(g *Graph) *solver {
	n := g.n
	s := &solver{
		n:         n,
		edges:     g.edges,
		endpoint:  make([]int, 2*len(g.edges)),
		neighbor:  make([][]int, n),
		mate:      make([]int, n),
		label:     make([]label, 2*n),
		labelEnd:  make([]int, 2*n),
		inBlossom: make([]int, n),
		parent:    make([]int, 2*n),
		childs:    make([][]int, 2*n),
		base:      make([]int, 2*n),
		endps:     make([][]int, 2*n),
	}
	for k, e := range g.edges {
		s.endpoint[2*k] = e[0]
		s.endpoint[2*k+1] = e[1]
		s.neighbor[e[0]] = append(s.neighbor[e[0]], 2*k+1)
		s.neighbor[e[1]] = append(s.neighbor[e[1]], 2*k)
	}
	for v := range s.mate {
		s.mate[v] = -1
	}
	return s
}

// run executes stages until one finds no augmenting path.
func (s *solver) run() error {
	for {
		augmented, err := s.stage()
		if err != nil {
			return err
		}
		if !augmented {
			return nil
		}
	}
}

// reset discards all labels and blossoms before a new stage.
func (s *solver) reset() {
	for b := range s.label {
		s.label[b] = unlabelled
		s.labelEnd[b] = -1
		s.parent[b] = -1
		s.childs[b] = nil
		s.endps[b] = nil
		s.base[b] = -1
	}
	for v := range s.n {
		s.inBlossom[v] = v
		s.base[v] = v
	}
	s.unused = s.unused[:0]
	for b := 2*s.n - 1; b >= s.n; b-- {
		s.unused = append(s.unused, b)
	}
	s.queue = s.queue[:0]
}

// stage grows alternating trees from every free vertex and reports whether
// the matching was augmented.
func (s *solver) stage() (bool, error) {
	s.reset()
	for v := range s.n {
		if s.mate[v] == -1 && s.label[s.inBlossom[v]] == unlabelled {
			if err := s.assignLabel(v, labelS, -1); err != nil {
				return false, err
			}
		}
	}

	for len(s.queue) > 0 {
		v := s.queue[0]
		s.queue = s.queue[1:]

		for _, p := range s.neighbor[v] {
			k := p / 2
			w := s.endpoint[p]
			if s.inBlossom[v] == s.inBlossom[w] {
				continue
			}
			switch s.label[s.inBlossom[w]] {
			case unlabelled:
				if err := s.assignLabel(w, labelT, p^1); err != nil {
					return false, err
				}
			case labelS:
				base := s.scanBlossom(v, w)
				if base >= 0 {
					if err := s.addBlossom(base, k); err != nil {
						return false, err
					}
					continue
				}
				if err := s.augmentMatching(k); err != nil {
					return false, err
				}
				return true, nil
			}
		}
	}
	return false, nil
}

// assignLabel labels the top-level blossom containing w with t, reached
// through endpoint p. A T-label propagates an S-label to the mate of the
// blossom base.
func (s *solver) assignLabel(w int, t label, p int) error {
	b := s.inBlossom[w]
	s.label[w], s.label[b] = t, t
	s.labelEnd[w], s.labelEnd[b] = p, p
	if t == labelS {
		s.queue = s.appendLeaves(s.queue, b)
		return nil
	}
	base := s.base[b]
	if s.mate[base] < 0 {
		return fmt.Errorf("%w: T-labelled base %d is free", ErrInconsistentBlossom, base)
	}
	return s.assignLabel(s.endpoint[s.mate[base]], labelS, s.mate[base]^1)
}

// scanBlossom walks from v and w toward their tree roots in alternation.
// It returns the base of the new blossom if both paths meet, or -1 if they
// reach different roots (an augmenting path).
func (s *solver) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inBlossom[v]
		if s.label[b]&labelBreadcrumb != 0 {
			base = s.base[b]
			break
		}
		path = append(path, b)
		s.label[b] = labelS | labelBreadcrumb
		if s.labelEnd[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelEnd[b]]
			b = s.inBlossom[v]
			v = s.endpoint[s.labelEnd[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = labelS
	}
	return base
}

// addBlossom contracts the odd cycle closed by edge k into a new S-blossom
// with the given base vertex.
func (s *solver) addBlossom(base, k int) error {
	v, w := s.edges[k][0], s.edges[k][1]
	bb := s.inBlossom[base]
	bv := s.inBlossom[v]
	bw := s.inBlossom[w]

	if len(s.unused) == 0 {
		return fmt.Errorf("%w: out of blossom slots", ErrInconsistentBlossom)
	}
	b := s.unused[len(s.unused)-1]
	s.unused = s.unused[:len(s.unused)-1]

	s.base[b] = base
	s.parent[b] = -1
	s.parent[bb] = b

	var path, endps []int
	for bv != bb {
		if s.labelEnd[bv] < 0 {
			return fmt.Errorf("%w: unlabelled blossom %d on cycle", ErrInconsistentBlossom, bv)
		}
		s.parent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelEnd[bv])
		v = s.endpoint[s.labelEnd[bv]]
		bv = s.inBlossom[v]
	}
	path = append(path, bb)
	slices.Reverse(path)
	slices.Reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		if s.labelEnd[bw] < 0 {
			return fmt.Errorf("%w: unlabelled blossom %d on cycle", ErrInconsistentBlossom, bw)
		}
		s.parent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelEnd[bw]^1)
		w = s.endpoint[s.labelEnd[bw]]
		bw = s.inBlossom[w]
	}

	s.label[b] = labelS
	s.labelEnd[b] = s.labelEnd[bb]
	s.childs[b] = path
	s.endps[b] = endps

	for _, u := range s.appendLeaves(nil, b) {
		if s.label[s.inBlossom[u]] == labelT {
			// Former T-vertices become S and must be scanned.
			s.queue = append(s.queue, u)
		}
		s.inBlossom[u] = b
	}
	s.contracted++
	return nil
}

// augmentBlossom swaps matched and unmatched edges inside blossom b along
// the even path from vertex v to the base, then rotates the child list so
// that v's sub-blossom becomes the new base.
func (s *solver) augmentBlossom(b, v int) error {
	t := v
	for s.parent[t] != b {
		if s.parent[t] == -1 {
			return fmt.Errorf("%w: vertex %d not inside blossom %d", ErrInconsistentBlossom, v, b)
		}
		t = s.parent[t]
	}
	if t >= s.n {
		if err := s.augmentBlossom(t, v); err != nil {
			return err
		}
	}

	childs := s.childs[b]
	endps := s.endps[b]
	size := len(childs)
	i := slices.Index(childs, t)
	j := i
	jstep, trick := -1, 1
	if i&1 == 1 {
		// Odd position: walk forward around the cycle.
		j -= size
		jstep, trick = 1, 0
	}
	at := func(xs []int, idx int) int { return xs[((idx%size)+size)%size] }

	for j != 0 {
		j += jstep
		t = at(childs, j)
		p := at(endps, j-trick) ^ trick
		if t >= s.n {
			if err := s.augmentBlossom(t, s.endpoint[p]); err != nil {
				return err
			}
		}
		j += jstep
		t = at(childs, j)
		if t >= s.n {
			if err := s.augmentBlossom(t, s.endpoint[p^1]); err != nil {
				return err
			}
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}

	s.childs[b] = append(slices.Clone(childs[i:]), childs[:i]...)
	s.endps[b] = append(slices.Clone(endps[i:]), endps[:i]...)
	s.base[b] = s.base[s.childs[b][0]]
	return nil
}

// augmentMatching flips the matching along the augmenting path through edge
// k, from both of its ends back to their tree roots.
func (s *solver) augmentMatching(k int) error {
	v, w := s.edges[k][0], s.edges[k][1]
	for _, start := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		vs, p := start[0], start[1]
		for {
			bs := s.inBlossom[vs]
			if bs >= s.n {
				if err := s.augmentBlossom(bs, vs); err != nil {
					return err
				}
			}
			s.mate[vs] = p
			if s.labelEnd[bs] == -1 {
				// Reached a tree root.
				break
			}
			t := s.endpoint[s.labelEnd[bs]]
			bt := s.inBlossom[t]
			if s.label[bt] != labelT {
				return fmt.Errorf("%w: expected T-blossom at vertex %d", ErrInconsistentBlossom, t)
			}
			vs = s.endpoint[s.labelEnd[bt]]
			j := s.endpoint[s.labelEnd[bt]^1]
			if bt >= s.n {
				if err := s.augmentBlossom(bt, j); err != nil {
					return err
				}
			}
			s.mate[j] = s.labelEnd[bt]
			p = s.labelEnd[bt] ^ 1
		}
	}
	return nil
}

// appendLeaves appends the vertices contained in blossom b to dst.
func (s *solver) appendLeaves(dst []int, b int) []int {
	if b < s.n {
		return append(dst, b)
	}
	for _, c := range s.childs[b] {
		dst = s.appendLeaves(dst, c)
	}
	return dst
}
