package swiss

import (
	"iter"
	"slices"

	"github.com/matzehuels/swisspair/pkg/combin"
)

// alterations enumerates bracket arrangements in priority order. The
// sequences are lazy and may be abandoned at any point. A generator failure
// stops the sequence and is kept in err.
type alterations struct {
	err error
}

// sequence returns every arrangement reachable from g, starting with g.
func (a *alterations) sequence(g Groups) iter.Seq[Groups] {
	return func(yield func(Groups) bool) {
		switch g := g.(type) {
		case Homogeneous:
			for h := range a.homogeneous(g.S1, g.S2) {
				if !yield(h) {
					return
				}
			}
		case Heterogeneous:
			for h := range a.heterogeneous(g) {
				if !yield(h) {
					return
				}
			}
		}
	}
}

// homogeneous yields the transpositions of s2 and then, by increasing
// exchange size, every S1/S2 exchange followed by its own transpositions.
// Within one size, S1 members are picked from the highest BSN down and S2
// members from the lowest up.
func (a *alterations) homogeneous(s1, s2 []int) iter.Seq[Homogeneous] {
	return func(yield func(Homogeneous) bool) {
		if !a.transpositions(s1, s2, yield) {
			return
		}
		for size := 1; size <= min(len(s1), len(s2)); size++ {
			out, err := combin.ReversedCombinations(len(s1), size)
			if err != nil {
				a.err = err
				return
			}
			for c1 := range out {
				in, err := combin.Combinations(len(s2), size)
				if err != nil {
					a.err = err
					return
				}
				for c2 := range in {
					n1, n2 := exchange(s1, s2, c1, c2)
					if !a.transpositions(n1, n2, yield) {
						return
					}
				}
			}
		}
	}
}

// transpositions yields s2 rearranged so that its first len(s1) entries run
// through every ordering in lexicographic BSN order. It reports false when
// the consumer stopped.
func (a *alterations) transpositions(s1, s2 []int, yield func(Homogeneous) bool) bool {
	perms, err := combin.Permutations(len(s2), min(len(s1), len(s2)))
	if err != nil {
		a.err = err
		return false
	}
	for p := range perms {
		if !yield(Homogeneous{S1: s1, S2: combin.Pick(s2, p)}) {
			return false
		}
	}
	return true
}

// heterogeneous yields, for the current S1/Limbo split and then for every
// S1/Limbo exchange, each choice of S2 from the residents combined with
// every alteration of the resident remainder.
func (a *alterations) heterogeneous(g Heterogeneous) iter.Seq[Heterogeneous] {
	residents := slices.Concat(g.S2, g.S1R, g.S2R)
	slices.Sort(residents)
	remPairs := len(g.S1R)

	return func(yield func(Heterogeneous) bool) {
		if !a.residentChoices(g.S1, g.Limbo, residents, remPairs, yield) {
			return
		}
		for size := 1; size <= min(len(g.S1), len(g.Limbo)); size++ {
			out, err := combin.ReversedCombinations(len(g.S1), size)
			if err != nil {
				a.err = err
				return
			}
			for c1 := range out {
				in, err := combin.Combinations(len(g.Limbo), size)
				if err != nil {
					a.err = err
					return
				}
				for c2 := range in {
					s1, limbo := exchange(g.S1, g.Limbo, c1, c2)
					if !a.residentChoices(s1, limbo, residents, remPairs, yield) {
						return
					}
				}
			}
		}
	}
}

// residentChoices picks S2 as an ordered prefix of the residents, then runs
// the homogeneous alterations over what is left. The identity choice comes
// first, so the remainder-only alterations precede any change to S2.
func (a *alterations) residentChoices(s1, limbo, residents []int, remPairs int, yield func(Heterogeneous) bool) bool {
	k := len(s1)
	perms, err := combin.Permutations(len(residents), k)
	if err != nil {
		a.err = err
		return false
	}
	for p := range perms {
		arranged := combin.Pick(residents, p)
		s2, rem := arranged[:k], arranged[k:]
		for h := range a.homogeneous(rem[:remPairs], rem[remPairs:]) {
			if !yield(Heterogeneous{S1: s1, S2: s2, S1R: h.S1, S2R: h.S2, Limbo: limbo}) {
				return false
			}
		}
		if a.err != nil {
			return false
		}
	}
	return true
}

// exchange swaps the members of a at positions ia with the members of b at
// positions ib and returns both sides sorted by BSN.
func exchange(a, b []int, ia, ib []int) ([]int, []int) {
	na, nb := slices.Clone(a), slices.Clone(b)
	for i := range ia {
		na[ia[i]], nb[ib[i]] = b[ib[i]], a[ia[i]]
	}
	slices.Sort(na)
	slices.Sort(nb)
	return na, nb
}
