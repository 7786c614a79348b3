package swiss

import (
	stderrors "errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/matching"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Options tunes a pairing run. The zero value is ready to use.
type Options struct {
	// MaxCandidates caps how many arrangements are examined per bracket
	// level. Zero means no limit. When the cap is hit, the best candidate
	// found so far is used; if there is none the next level is tried.
	MaxCandidates int

	// Logger receives per-bracket debug output. Defaults to log.Default().
	Logger *log.Logger
}

// BracketSummary describes how one bracket was paired.
type BracketSummary struct {
	Score        float64 `json:"score"`
	Kind         string  `json:"kind"`
	Size         int     `json:"size"`
	MovedDown    int     `json:"movedDown"`
	Pairs        int     `json:"pairs"`
	Downfloaters int     `json:"downfloaters"`
	Candidates   int     `json:"candidates"`
	Report       Report  `json:"report"`
}

// Result is a paired round.
type Result struct {
	// Games are the new games, numbered after any already recorded for the
	// round. A bye, if any, comes last.
	Games []tournament.Game `json:"games"`

	// Brackets lists the brackets in the order they were paired.
	Brackets []BracketSummary `json:"brackets"`
}

// Pair generates the games of round s.Round.
//
// Players that already have a game in that round are left alone. The
// result is deterministic: the same snapshot always produces the same games
// with the same ids.
//
// A snapshot for which no legal pairing exists yields an error with code
// NO_VALID_PAIRING wrapping a *NoPairingError. Errors with code INVARIANT
// indicate a bug.
func Pair(s *tournament.Snapshot, opts Options) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	entities := buildEntities(s)
	p := &pairer{
		round: s.Round,
		opts:  opts,
		abs:   &absolute{topScore: topScore(entities)},
	}

	res := &Result{}
	number := len(s.GamesInRound(s.Round))
	emit := func(white, black string) {
		number++
		res.Games = append(res.Games, tournament.Game{
			ID:           tournament.GameID(s.TournamentID, s.Round, number),
			TournamentID: s.TournamentID,
			Round:        s.Round,
			Number:       number,
			WhiteID:      white,
			BlackID:      black,
			Result:       tournament.ResultNone,
		})
	}

	groups := partition(entities)
	var moved []*Entity
	for i, g := range groups {
		b := newBracket(g.score, g.members, moved)
		best, summary, err := p.pairBracket(b, groups[i+1:])
		if err != nil {
			var npe *NoPairingError
			if stderrors.As(err, &npe) {
				return nil, errors.Wrap(errors.ErrCodeNoValidPairing, err, "round %d cannot be paired", s.Round)
			}
			return nil, errors.Wrap(errors.ErrCodeInvariant, err, "pairing round %d", s.Round)
		}
		for _, pr := range best.pairs {
			emit(pr.White.ID, pr.Black.ID)
		}
		res.Brackets = append(res.Brackets, summary)
		moved = best.downfloaters
	}

	switch len(moved) {
	case 0:
	case 1:
		emit(moved[0].ID, "")
	default:
		err := fmt.Errorf("%w: %d players left unpaired", ErrEntityLookup, len(moved))
		return nil, errors.Wrap(errors.ErrCodeInvariant, err, "pairing round %d", s.Round)
	}
	return res, nil
}

func topScore(entities []*Entity) float64 {
	var top float64
	for i, e := range entities {
		if i == 0 || e.Score > top {
			top = e.Score
		}
	}
	return top
}

// pairer carries the state of one Pair call.
type pairer struct {
	round int
	opts  Options
	abs   *absolute
}

// pairBracket finds the best arrangement of b, trying pair counts from the
// largest achievable downward.
func (p *pairer) pairBracket(b *bracket, lower []scoreGroup) (*candidate, BracketSummary, error) {
	p.abs.completable = make(map[string]bool)
	ev := &evaluator{abs: p.abs, round: p.round, lower: lower, last: len(lower) == 0}
	summary := BracketSummary{Score: b.score, Size: b.size(), MovedDown: len(b.movedDown)}

	levels, err := p.levels(b)
	if err != nil {
		return nil, summary, err
	}
	for _, l := range levels {
		best, examined, err := p.search(b, l, ev)
		summary.Candidates += examined
		if err != nil {
			return nil, summary, fmt.Errorf("bracket %.1f: %w", b.score, err)
		}
		if best == nil {
			p.opts.Logger.Debug("bracket level exhausted",
				"score", b.score, "kind", l.kind, "pairs", l.pairs, "mdp_pairs", l.mdp, "candidates", examined)
			continue
		}
		summary.Kind = l.kind.String()
		summary.Pairs = len(best.pairs)
		summary.Downfloaters = len(best.downfloaters)
		summary.Report = best.report
		p.opts.Logger.Debug("bracket paired",
			"score", b.score, "kind", l.kind, "size", b.size(), "moved_down", len(b.movedDown),
			"pairs", len(best.pairs), "downfloaters", len(best.downfloaters),
			"candidates", summary.Candidates, "report", best.report)
		return best, summary, nil
	}
	return nil, summary, &NoPairingError{
		Score:             b.score,
		BracketSize:       b.size(),
		MovedDown:         len(b.movedDown),
		RemainingBrackets: len(lower),
	}
}

// levels lists the (pairs, moved-down pairs) targets to try, best first.
// The pair count starts at the bracket's maximum, capped by a maximum
// matching of its compatibility graph. Heterogeneous brackets fall back to
// homogeneous treatment when every heterogeneous level fails.
func (p *pairer) levels(b *bracket) ([]level, error) {
	m, err := matching.Maximum(p.abs.graph(b.entities, false))
	if err != nil {
		return nil, fmt.Errorf("bracket %.1f bound: %w", b.score, err)
	}
	bound := m.Size()

	var out []level
	homogeneous := func() {
		for n := min(b.size()/2, bound); n >= 0; n-- {
			out = append(out, level{kind: KindHomogeneous, pairs: n})
		}
	}

	mdps, residents := b.split()
	if len(mdps) == 0 {
		homogeneous()
		return out, nil
	}
	r := len(residents)
	for n := min(maxPairs(len(mdps), r), bound); n >= 0; n-- {
		for mdp := min(len(mdps), n, r); mdp >= 0; mdp-- {
			if 2*(n-mdp) > r-mdp {
				continue
			}
			out = append(out, level{kind: KindHeterogeneous, pairs: n, mdp: mdp})
		}
	}
	homogeneous()
	return out, nil
}

// search walks the alteration sequence of one level and returns the best
// candidate, or nil if none passes the absolute criteria.
func (p *pairer) search(b *bracket, l level, ev *evaluator) (*candidate, int, error) {
	ideal := ev.ideal(b, l)
	alt := &alterations{}

	var best *candidate
	examined := 0
	for g := range alt.sequence(b.formGroups(l)) {
		if p.opts.MaxCandidates > 0 && examined >= p.opts.MaxCandidates {
			break
		}
		examined++

		c, err := p.consider(b, g, ev)
		if err != nil {
			return nil, examined, err
		}
		if c == nil {
			continue
		}
		if best == nil || c.report.Compare(best.report) < 0 {
			best = c
		}
		if best.report.Compare(ideal) <= 0 {
			break
		}
	}
	if alt.err != nil {
		return nil, examined, alt.err
	}
	return best, examined, nil
}

// consider applies the absolute criteria to g and scores it. It returns nil
// if g is not a legal arrangement.
func (p *pairer) consider(b *bracket, g Groups, ev *evaluator) (*candidate, error) {
	idx := g.Pairs()
	raw := make([][2]*Entity, len(idx))
	for i, pr := range idx {
		x, err := b.at(pr[0])
		if err != nil {
			return nil, err
		}
		y, err := b.at(pr[1])
		if err != nil {
			return nil, err
		}
		raw[i] = [2]*Entity{x, y}
	}
	if !p.abs.pairsAllowed(raw) {
		return nil, nil
	}

	var downs []*Entity
	for _, i := range g.Downfloaters() {
		e, err := b.at(i)
		if err != nil {
			return nil, err
		}
		downs = append(downs, e)
	}
	ok, err := p.abs.canComplete(downs, ev.lower)
	if err != nil || !ok {
		return nil, err
	}

	c := &candidate{groups: g, downfloaters: downs, pairs: make([]pairing, len(raw))}
	for i, pr := range raw {
		c.pairs[i] = assignColours(pr[0], pr[1], p.round)
	}
	if err := ev.evaluate(c); err != nil {
		return nil, err
	}
	return c, nil
}
