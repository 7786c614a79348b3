package swiss

import (
	"cmp"
	"slices"

	"github.com/matzehuels/swisspair/pkg/tournament"
)

// float is the direction a player moved between score brackets in a round.
type float int

const (
	floatNone float = iota
	floatDown
	floatUp
)

// Entity is a player prepared for pairing. Entities are rebuilt from the
// snapshot on every call and never outlive it.
type Entity struct {
	ID            string
	Nickname      string
	Title         string
	Rating        float64
	ColourIndex   int
	Score         float64
	GamesPlayed   int
	PairingNumber int

	// Games holds the entity's earlier games ordered by round.
	Games []tournament.Game

	opponents map[string]bool
	byes      int
	colours   []tournament.Colour // coloured games only, oldest first
	byRound   map[int]tournament.Colour
	floats    map[int]float
	unplayed  int
}

// Preference returns the colour the entity should get next and whether it
// has any preference at all. A negative colour index asks for white.
func (e *Entity) Preference() (tournament.Colour, bool) {
	switch {
	case e.ColourIndex < 0:
		return tournament.White, true
	case e.ColourIndex > 0:
		return tournament.Black, true
	}
	return tournament.White, false
}

// StrongPreference reports whether the colour imbalance is two or more.
func (e *Entity) StrongPreference() bool {
	return e.ColourIndex >= 2 || e.ColourIndex <= -2
}

// CanReceiveBye reports whether the entity has never had a pairing-allocated
// bye.
func (e *Entity) CanReceiveBye() bool { return e.byes == 0 }

// HasPlayed reports whether the entity has already met id.
func (e *Entity) HasPlayed(id string) bool { return e.opponents[id] }

func (e *Entity) firstColour() tournament.Colour {
	if len(e.colours) == 0 {
		return tournament.White
	}
	return e.colours[0]
}

// lastColours reports whether the entity's two most recent coloured games
// were both played with c.
func (e *Entity) lastColours(c tournament.Colour) bool {
	n := len(e.colours)
	return n >= 2 && e.colours[n-1] == c && e.colours[n-2] == c
}

func (e *Entity) floated(round int, f float) bool {
	return round >= 1 && e.floats[round] == f
}

// buildEntities converts the players of s who still need a game in the
// target round into entities. Players that already have a game recorded in
// that round are skipped.
func buildEntities(s *tournament.Snapshot) []*Entity {
	seated := make(map[string]bool)
	for _, g := range s.GamesInRound(s.Round) {
		seated[g.WhiteID] = true
		if !g.IsBye() {
			seated[g.BlackID] = true
		}
	}

	history := newScoreHistory(s.Games)

	var out []*Entity
	for _, p := range tournament.AssignPairingNumbers(s.Players) {
		if seated[p.ID] {
			continue
		}
		e := &Entity{
			ID:            p.ID,
			Nickname:      p.Nickname,
			Title:         p.Title,
			Rating:        p.Rating,
			ColourIndex:   p.ColourIndex,
			Score:         p.Score(),
			GamesPlayed:   p.GamesPlayed(),
			PairingNumber: p.PairingNumber,
			opponents:     make(map[string]bool),
			byRound:       make(map[int]tournament.Colour),
			floats:        make(map[int]float),
		}
		for _, g := range s.Games {
			if g.Round < s.Round && g.Involves(p.ID) {
				e.Games = append(e.Games, g)
			}
		}
		slices.SortStableFunc(e.Games, func(a, b tournament.Game) int { return cmp.Compare(a.Round, b.Round) })

		played := 0
		for _, g := range e.Games {
			if g.IsBye() {
				e.byes++
				e.floats[g.Round] = floatDown
				continue
			}
			opp := g.Opponent(p.ID)
			e.opponents[opp] = true
			played++
			if c, ok := g.ColourOf(p.ID); ok {
				e.colours = append(e.colours, c)
				e.byRound[g.Round] = c
			}
			own, theirs := history.before(p.ID, g.Round), history.before(opp, g.Round)
			switch {
			case own > theirs:
				e.floats[g.Round] = floatDown
			case own < theirs:
				e.floats[g.Round] = floatUp
			}
		}
		e.unplayed = max(s.Round-1-played, 0)
		out = append(out, e)
	}
	return out
}

// scoreHistory reconstructs what each player had scored before a round.
type scoreHistory map[string]map[int]float64

func newScoreHistory(games []tournament.Game) scoreHistory {
	h := make(scoreHistory)
	add := func(id string, round int, pts float64) {
		if h[id] == nil {
			h[id] = make(map[int]float64)
		}
		h[id][round] += pts
	}
	for _, g := range games {
		add(g.WhiteID, g.Round, g.PointsFor(g.WhiteID))
		if !g.IsBye() {
			add(g.BlackID, g.Round, g.PointsFor(g.BlackID))
		}
	}
	return h
}

// before returns the points id had collected in rounds before round.
func (h scoreHistory) before(id string, round int) float64 {
	var total float64
	for r, pts := range h[id] {
		if r < round {
			total += pts
		}
	}
	return total
}

// byRank orders entities by score descending, then pairing number ascending.
func byRank(a, b *Entity) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.PairingNumber, b.PairingNumber)
}

// scoreGroup is every entity sharing one score.
type scoreGroup struct {
	score   float64
	members []*Entity
}

// partition buckets entities by score, highest score first. Members of
// each group are ordered by pairing number.
func partition(entities []*Entity) []scoreGroup {
	buckets := make(map[float64][]*Entity)
	for _, e := range entities {
		buckets[e.Score] = append(buckets[e.Score], e)
	}
	groups := make([]scoreGroup, 0, len(buckets))
	for score, members := range buckets {
		slices.SortFunc(members, byRank)
		groups = append(groups, scoreGroup{score: score, members: members})
	}
	slices.SortFunc(groups, func(a, b scoreGroup) int { return cmp.Compare(b.score, a.score) })
	return groups
}
