package swiss

import (
	"fmt"
	"slices"

	"github.com/matzehuels/swisspair/pkg/combin"
)

// Kind distinguishes the two bracket shapes.
type Kind int

const (
	// KindHomogeneous is a bracket without moved-down players, or one where
	// they are treated like residents.
	KindHomogeneous Kind = iota
	// KindHeterogeneous is a bracket whose moved-down players are paired
	// first, against residents.
	KindHeterogeneous
)

func (k Kind) String() string {
	if k == KindHeterogeneous {
		return "heterogeneous"
	}
	return "homogeneous"
}

// Groups is one arrangement of a bracket. Values are BSN indices: position
// i in the bracket's entity list has BSN i+1. The two implementations are
// [Homogeneous] and [Heterogeneous].
type Groups interface {
	Kind() Kind
	// Pairs returns the index pairs formed by the arrangement, higher
	// half first.
	Pairs() [][2]int
	// Downfloaters returns the unpaired indices in ascending order.
	Downfloaters() []int

	sealed()
}

// Homogeneous pairs S1[i] with S2[i]. S2 may be longer than S1; its tail
// floats down.
type Homogeneous struct {
	S1 []int
	S2 []int
}

func (Homogeneous) Kind() Kind { return KindHomogeneous }
func (Homogeneous) sealed()    {}

func (h Homogeneous) Pairs() [][2]int {
	out := make([][2]int, len(h.S1))
	for i := range h.S1 {
		out[i] = [2]int{h.S1[i], h.S2[i]}
	}
	return out
}

func (h Homogeneous) Downfloaters() []int {
	out := slices.Clone(h.S2[len(h.S1):])
	slices.Sort(out)
	return out
}

// Heterogeneous pairs the moved-down players in S1 with the residents in S2,
// then pairs the remaining residents as a homogeneous sub-bracket S1R/S2R.
// Moved-down players in Limbo cannot be paired and float on.
type Heterogeneous struct {
	S1    []int
	S2    []int
	S1R   []int
	S2R   []int
	Limbo []int
}

func (Heterogeneous) Kind() Kind { return KindHeterogeneous }
func (Heterogeneous) sealed()    {}

func (h Heterogeneous) Pairs() [][2]int {
	out := make([][2]int, 0, len(h.S1)+len(h.S1R))
	for i := range h.S1 {
		out = append(out, [2]int{h.S1[i], h.S2[i]})
	}
	return append(out, Homogeneous{S1: h.S1R, S2: h.S2R}.Pairs()...)
}

func (h Heterogeneous) Downfloaters() []int {
	out := append(slices.Clone(h.S2R[len(h.S1R):]), h.Limbo...)
	slices.Sort(out)
	return out
}

// bracket is the working set of one pairing step: a score group plus the
// players moved down into it, indexed by BSN.
type bracket struct {
	score     float64
	entities  []*Entity // ordered by rank; index i holds BSN i+1
	movedDown map[*Entity]bool
}

func newBracket(score float64, residents, movedDown []*Entity) *bracket {
	b := &bracket{
		score:     score,
		entities:  make([]*Entity, 0, len(residents)+len(movedDown)),
		movedDown: make(map[*Entity]bool, len(movedDown)),
	}
	for _, e := range movedDown {
		b.movedDown[e] = true
	}
	b.entities = append(b.entities, movedDown...)
	b.entities = append(b.entities, residents...)
	slices.SortStableFunc(b.entities, byRank)
	return b
}

func (b *bracket) size() int { return len(b.entities) }

// at returns the entity with BSN i+1.
func (b *bracket) at(i int) (*Entity, error) {
	if i < 0 || i >= len(b.entities) {
		return nil, fmt.Errorf("%w: index %d in bracket of %d", ErrBSNLookup, i, len(b.entities))
	}
	return b.entities[i], nil
}

// split returns the BSN indices of moved-down players and residents.
func (b *bracket) split() (mdps, residents []int) {
	for i, e := range b.entities {
		if b.movedDown[e] {
			mdps = append(mdps, i)
		} else {
			residents = append(residents, i)
		}
	}
	return mdps, residents
}

// maxPairs returns the pair count a heterogeneous bracket aims for with m
// moved-down players and r residents.
func maxPairs(m, r int) int {
	if m <= r {
		return (r + m) / 2
	}
	return r
}

// level fixes how many pairs a bracket must produce and how many of them
// involve moved-down players.
type level struct {
	kind  Kind
	pairs int
	mdp   int
}

// remainder returns the number of resident-only pairs.
func (l level) remainder() int { return l.pairs - l.mdp }

// formGroups builds the initial arrangement for l: the top moved-down
// players face the top residents, the rest of the residents form the
// remainder sub-bracket.
func (b *bracket) formGroups(l level) Groups {
	if l.kind == KindHomogeneous {
		all := combin.Seq(b.size())
		return Homogeneous{S1: all[:l.pairs], S2: all[l.pairs:]}
	}
	mdps, residents := b.split()
	rem := residents[l.mdp:]
	return Heterogeneous{
		S1:    mdps[:l.mdp],
		S2:    residents[:l.mdp],
		S1R:   rem[:l.remainder()],
		S2R:   rem[l.remainder():],
		Limbo: mdps[l.mdp:],
	}
}
