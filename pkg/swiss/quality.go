package swiss

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Criteria names the entries of a [Report], in comparison order.
var Criteria = [...]string{
	"C5", "C6", "C7", "C8", "C9", "C10", "C11", "C12", "C13",
	"C14", "C15", "C16", "C17", "C18", "C19", "C20", "C21",
}

// Report holds the quality criteria of one candidate pairing. Each entry
// is a list of values; counts are single-element lists. Lower is better.
type Report [len(Criteria)][]float64

// Compare orders reports lexicographically: the first differing entry
// decides, entries compare element by element, and a list that is a
// prefix of another is the smaller one.
func (r Report) Compare(other Report) int {
	for i := range r {
		if c := slices.Compare(r[i], other[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (r Report) String() string {
	var b strings.Builder
	for i, v := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s=%v", Criteria[i], v)
	}
	return b.String()
}

const (
	critPABScore = iota
	critDownfloaters
	critDownfloaterScores
	critProbe
	critPABUnplayed
	critTopColourDiff
	critTopColourRun
	critPreference
	critStrongPreference
	critDownfloatPrev
	critUpfloatPrev
	critDownfloatPrev2
	critUpfloatPrev2
	critDownfloatDiffPrev
	critUpfloatDiffPrev
	critDownfloatDiffPrev2
	critUpfloatDiffPrev2
)

// candidate is an arrangement that passed the absolute criteria.
type candidate struct {
	groups       Groups
	pairs        []pairing
	downfloaters []*Entity
	report       Report
}

// evaluator scores candidates within one bracket.
type evaluator struct {
	abs   *absolute
	round int
	lower []scoreGroup
	last  bool
}

func count(n int) []float64 { return []float64{float64(n)} }

func descending(v []float64) []float64 {
	slices.SortFunc(v, func(a, b float64) int { return cmp.Compare(b, a) })
	return v
}

// evaluate fills in the quality report of c.
func (ev *evaluator) evaluate(c *candidate) error {
	var r Report

	if ev.last && len(c.downfloaters) == 1 {
		pab := c.downfloaters[0]
		r[critPABScore] = []float64{pab.Score}
		r[critPABUnplayed] = count(pab.unplayed)
	}

	scores := make([]float64, len(c.downfloaters))
	for i, e := range c.downfloaters {
		scores[i] = e.Score
	}
	r[critDownfloaters] = count(len(c.downfloaters))
	r[critDownfloaterScores] = descending(scores)

	probe, err := ev.abs.probe(c.downfloaters, ev.lower)
	if err != nil {
		return err
	}
	r[critProbe] = count(probe)

	var topDiff, topRun, weak, strong int
	for _, p := range c.pairs {
		top := ev.abs.topscorer(p.White) || ev.abs.topscorer(p.Black)
		if top && (p.White.ColourIndex+1 > 2 || p.Black.ColourIndex-1 < -2) {
			topDiff++
		}
		if top && (p.White.lastColours(tournament.White) || p.Black.lastColours(tournament.Black)) {
			topRun++
		}
		for _, e := range []*Entity{p.White, p.Black} {
			want, ok := e.Preference()
			if !ok || want == p.colourOf(e) {
				continue
			}
			weak++
			if e.StrongPreference() {
				strong++
			}
		}
	}
	r[critTopColourDiff] = count(topDiff)
	r[critTopColourRun] = count(topRun)
	r[critPreference] = count(weak)
	r[critStrongPreference] = count(strong)

	prev, prev2 := ev.round-1, ev.round-2
	var down1, down2 int
	for _, e := range c.downfloaters {
		if e.floated(prev, floatDown) {
			down1++
		}
		if e.floated(prev2, floatDown) {
			down2++
		}
	}

	var up1, up2 int
	var downDiff1, downDiff2, upDiff1, upDiff2 []float64
	for _, p := range c.pairs {
		hi, lo := p.White, p.Black
		if hi.Score < lo.Score {
			hi, lo = lo, hi
		}
		if hi.Score == lo.Score {
			continue
		}
		diff := hi.Score - lo.Score
		if lo.floated(prev, floatUp) {
			up1++
			upDiff1 = append(upDiff1, diff)
		}
		if lo.floated(prev2, floatUp) {
			up2++
			upDiff2 = append(upDiff2, diff)
		}
		if hi.floated(prev, floatDown) {
			downDiff1 = append(downDiff1, diff)
		}
		if hi.floated(prev2, floatDown) {
			downDiff2 = append(downDiff2, diff)
		}
	}
	r[critDownfloatPrev] = count(down1)
	r[critUpfloatPrev] = count(up1)
	r[critDownfloatPrev2] = count(down2)
	r[critUpfloatPrev2] = count(up2)
	r[critDownfloatDiffPrev] = descending(downDiff1)
	r[critUpfloatDiffPrev] = descending(upDiff1)
	r[critDownfloatDiffPrev2] = descending(downDiff2)
	r[critUpfloatDiffPrev2] = descending(upDiff2)

	c.report = r
	return nil
}

// ideal returns a report no candidate of bracket b at level l can beat.
// A candidate that reaches it ends the search early.
func (ev *evaluator) ideal(b *bracket, l level) Report {
	var r Report
	floaters := b.size() - 2*l.pairs

	scores := make([]float64, b.size())
	for i, e := range b.entities {
		scores[i] = e.Score
	}
	descending(scores)
	lowest := slices.Clone(scores[b.size()-floaters:])

	if ev.last && floaters == 1 {
		r[critPABScore] = []float64{lowest[0]}
		r[critPABUnplayed] = count(0)
	}
	r[critDownfloaters] = count(floaters)
	r[critDownfloaterScores] = lowest

	parity := 0
	if len(ev.lower) > 0 {
		parity = (floaters + len(ev.lower[0].members)) % 2
	}
	r[critProbe] = count(parity)

	for _, i := range []int{
		critTopColourDiff, critTopColourRun, critPreference, critStrongPreference,
		critDownfloatPrev, critUpfloatPrev, critDownfloatPrev2, critUpfloatPrev2,
	} {
		r[i] = count(0)
	}
	return r
}

// MarshalJSON encodes r as a list of lists, writing empty entries as [].
func (r Report) MarshalJSON() ([]byte, error) {
	out := make([][]float64, len(r))
	for i, v := range r {
		out[i] = v
		if v == nil {
			out[i] = []float64{}
		}
	}
	return json.Marshal(out)
}
