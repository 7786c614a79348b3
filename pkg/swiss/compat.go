package swiss

import (
	"github.com/matzehuels/swisspair/pkg/matching"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Compatibility is the graph of who may meet whom in the next round,
// under the no-rematch, single-bye and colour rules.
type Compatibility struct {
	// Entities are the players still to be paired, in rank order.
	// Vertex i of Graph is Entities[i].
	Entities []*Entity
	Graph    *matching.Graph
	// Bye is the vertex standing for the pairing-allocated bye, or -1
	// when an even number of players needs pairing.
	Bye int
}

// NewCompatibility builds the compatibility graph of the players in s that
// have no game in s.Round yet.
func NewCompatibility(s *tournament.Snapshot) (*Compatibility, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	var entities []*Entity
	for _, g := range partition(buildEntities(s)) {
		entities = append(entities, g.members...)
	}
	abs := &absolute{topScore: topScore(entities)}
	odd := len(entities)%2 == 1
	c := &Compatibility{Entities: entities, Graph: abs.graph(entities, odd), Bye: -1}
	if odd {
		c.Bye = len(entities)
	}
	return c, nil
}

// Feasible reports whether the whole round can be paired at all and
// returns the maximum matching that decides it.
func (c *Compatibility) Feasible() (bool, *matching.Matching, error) {
	m, err := matching.Maximum(c.Graph)
	if err != nil {
		return false, nil, err
	}
	return m.Perfect(), m, nil
}
