package tournament

import (
	"cmp"
	"slices"

	"github.com/matzehuels/swisspair/pkg/errors"
)

// Snapshot is everything needed to pair one round: the players still in the
// tournament, every game recorded so far and the round to generate.
type Snapshot struct {
	TournamentID string   `json:"tournamentId" bson:"tournamentId"`
	Round        int      `json:"round" bson:"round"`
	Players      []Player `json:"players" bson:"players"`
	Games        []Game   `json:"games" bson:"games"`
}

// Validate checks the structural consistency of s. It does not check pairing
// rules; a valid snapshot may still have no legal pairing.
func (s *Snapshot) Validate() error {
	if s.Round < 1 {
		return errors.New(errors.ErrCodeInvalidRound, "round must be at least 1, got %d", s.Round)
	}

	if s.TournamentID != "" {
		if err := errors.ValidateID("tournament", s.TournamentID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "tournament")
		}
	}

	ids := make(map[string]bool, len(s.Players))
	numbers := make(map[int]string, len(s.Players))
	for i, p := range s.Players {
		if err := errors.ValidateID("player", p.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidSnapshot, err, "player %d", i)
		}
		if ids[p.ID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate player id %q", p.ID)
		}
		ids[p.ID] = true
		if p.Wins < 0 || p.Draws < 0 || p.Losses < 0 {
			return errors.New(errors.ErrCodeInvalidSnapshot, "player %q has a negative result count", p.ID)
		}
		if p.PairingNumber < 0 {
			return errors.New(errors.ErrCodeInvalidSnapshot, "player %q has negative pairing number %d", p.ID, p.PairingNumber)
		}
		if p.PairingNumber > 0 {
			if other, ok := numbers[p.PairingNumber]; ok {
				return errors.New(errors.ErrCodeInvalidSnapshot, "players %q and %q share pairing number %d", other, p.ID, p.PairingNumber)
			}
			numbers[p.PairingNumber] = p.ID
		}
	}

	for i, g := range s.Games {
		if g.WhiteID == "" {
			return errors.New(errors.ErrCodeInvalidSnapshot, "game %d has no white player", i)
		}
		if g.WhiteID == g.BlackID {
			return errors.New(errors.ErrCodeInvalidSnapshot, "game %d pairs %q with itself", i, g.WhiteID)
		}
		if g.Round < 1 || g.Round > s.Round {
			return errors.New(errors.ErrCodeInvalidSnapshot, "game %d has round %d outside 1..%d", i, g.Round, s.Round)
		}
	}
	return nil
}

// GamesInRound returns the games already recorded for round r, in input order.
func (s *Snapshot) GamesInRound(r int) []Game {
	var out []Game
	for _, g := range s.Games {
		if g.Round == r {
			out = append(out, g)
		}
	}
	return out
}

// Record applies the finished games to players and returns the updated
// copies: results are added to the win/draw/loss counters and coloured games
// move the colour index. Games whose result is still none are skipped, except
// byes, which score a win.
func Record(players []Player, games []Game) []Player {
	out := slices.Clone(players)
	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.ID] = i
	}

	for _, g := range games {
		if g.IsBye() {
			if i, ok := index[g.WhiteID]; ok {
				out[i].Wins++
			}
			continue
		}
		if g.Result == ResultNone {
			continue
		}
		w, wok := index[g.WhiteID]
		b, bok := index[g.BlackID]
		if wok {
			out[w].ColourIndex++
		}
		if bok {
			out[b].ColourIndex--
		}
		switch g.Result {
		case ResultWhiteWins:
			if wok {
				out[w].Wins++
			}
			if bok {
				out[b].Losses++
			}
		case ResultBlackWins:
			if wok {
				out[w].Losses++
			}
			if bok {
				out[b].Wins++
			}
		case ResultDraw:
			if wok {
				out[w].Draws++
			}
			if bok {
				out[b].Draws++
			}
		}
	}
	return out
}

// SeedOrder sorts players into the order pairing numbers are handed out in:
// successive stable sorts by nickname, title and rating, so rating is the
// dominant key and the earlier keys only break ties.
func SeedOrder(players []Player) []Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b Player) int { return cmp.Compare(a.Nickname, b.Nickname) })
	slices.SortStableFunc(out, func(a, b Player) int { return cmp.Compare(a.Title, b.Title) })
	slices.SortStableFunc(out, func(a, b Player) int { return cmp.Compare(a.Rating, b.Rating) })
	return out
}

// AssignPairingNumbers gives every player without a pairing number the next
// free number after the highest explicit one, in seed order. The result is
// in seed order, not input order.
func AssignPairingNumbers(players []Player) []Player {
	out := SeedOrder(players)
	next := 0
	for _, p := range out {
		next = max(next, p.PairingNumber)
	}
	for i := range out {
		if out[i].PairingNumber == 0 {
			next++
			out[i].PairingNumber = next
		}
	}
	return out
}
