package swiss

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/swisspair/pkg/matching"
)

// absolute evaluates the criteria no pairing may violate.
type absolute struct {
	topScore float64
	// completable caches C4 verdicts by downfloater set for one bracket.
	completable map[string]bool
}

func (c *absolute) topscorer(e *Entity) bool { return e.Score == c.topScore }

// compatible reports whether a and b may meet: they have not played each
// other (C1) and, unless one of them is a topscorer, they do not both hold a
// strong preference for the same colour (C3).
func (c *absolute) compatible(a, b *Entity) bool {
	if a == b || a.HasPlayed(b.ID) || b.HasPlayed(a.ID) {
		return false
	}
	if c.topscorer(a) || c.topscorer(b) {
		return true
	}
	if !a.StrongPreference() || !b.StrongPreference() {
		return true
	}
	pa, _ := a.Preference()
	pb, _ := b.Preference()
	return pa != pb
}

// graph builds the compatibility graph over entities. When withBye is set,
// an extra last vertex stands for the pairing-allocated bye and is adjacent
// to every entity that may still receive one (C2).
func (c *absolute) graph(entities []*Entity, withBye bool) *matching.Graph {
	n := len(entities)
	if withBye {
		n++
	}
	g := matching.NewGraph(n)
	for i := range entities {
		for j := i + 1; j < len(entities); j++ {
			if c.compatible(entities[i], entities[j]) {
				_ = g.AddEdge(i, j)
			}
		}
		if withBye && entities[i].CanReceiveBye() {
			_ = g.AddEdge(i, len(entities))
		}
	}
	return g
}

// pairsAllowed checks C1 and C3 for every proposed pair.
func (c *absolute) pairsAllowed(pairs [][2]*Entity) bool {
	for _, p := range pairs {
		if !c.compatible(p[0], p[1]) {
			return false
		}
	}
	return true
}

// canComplete decides C4: the downfloaters together with every lower score
// group must still admit a complete pairing, with at most one bye going to
// an eligible entity. Without lower groups the downfloaters are what is
// left of the round, so at most one may remain and it takes the bye.
func (c *absolute) canComplete(downfloaters []*Entity, lower []scoreGroup) (bool, error) {
	if len(lower) == 0 {
		switch len(downfloaters) {
		case 0:
			return true, nil
		case 1:
			return downfloaters[0].CanReceiveBye(), nil
		}
		return false, nil
	}

	key := entityKey(downfloaters)
	if ok, hit := c.completable[key]; hit {
		return ok, nil
	}

	vertices := slices.Clone(downfloaters)
	for _, g := range lower {
		vertices = append(vertices, g.members...)
	}
	m, err := matching.Maximum(c.graph(vertices, len(vertices)%2 == 1))
	if err != nil {
		return false, fmt.Errorf("completability: %w", err)
	}
	ok := m.Perfect()
	c.completable[key] = ok
	return ok, nil
}

// probe estimates how well the next bracket can be paired: the number of
// entities a maximum matching over the downfloaters and the next score group
// leaves unpaired. It is zero when there is no next bracket.
func (c *absolute) probe(downfloaters []*Entity, lower []scoreGroup) (int, error) {
	if len(lower) == 0 {
		return 0, nil
	}
	next := append(slices.Clone(downfloaters), lower[0].members...)
	m, err := matching.Maximum(c.graph(next, false))
	if err != nil {
		return 0, fmt.Errorf("next bracket probe: %w", err)
	}
	return len(next) - 2*m.Size(), nil
}

func entityKey(entities []*Entity) string {
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
	}
	slices.Sort(ids)
	return strings.Join(ids, "\x00")
}
