// Package roundrobin schedules all-play-all tournaments with the circle
// method.
//
// Slot 0 stays in place while the other slots rotate one step per round.
// Each round the slot order is folded in half and the two halves are
// zipped into pairs, which gives every pair of slots exactly one meeting
// over n-1 rounds. An odd field is padded with a bye slot, and the player
// drawn against it sits the round out.
//
// Rounds beyond the first cycle repeat the schedule with colours reversed,
// so a double round robin needs no extra configuration.
package roundrobin

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/swisspair/pkg/tournament"
)

var (
	// ErrOddSlots is returned by Pairs when the slot count is odd. Callers
	// with an odd field add a bye slot first.
	ErrOddSlots = errors.New("roundrobin: odd number of slots")

	// ErrRound is returned for round numbers below 1.
	ErrRound = errors.New("roundrobin: round must be at least 1")
)

// Rounds returns the number of rounds in one cycle for n players.
func Rounds(n int) int {
	if n < 2 {
		return 0
	}
	if n%2 == 1 {
		return n
	}
	return n - 1
}

// Pairs returns the (white, black) slot pairs of a round for an even number
// of slots. Rounds are 1-based; round r+slots-1 repeats round r with
// colours reversed.
func Pairs(slots, round int) ([][2]int, error) {
	if slots%2 == 1 {
		return nil, fmt.Errorf("%w: %d", ErrOddSlots, slots)
	}
	if round < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrRound, round)
	}
	if slots == 0 {
		return nil, nil
	}

	cycle := slots - 1
	r := (round-1)%cycle + 1
	reversed := ((round-1)/cycle)%2 == 1

	rotating := make([]int, cycle)
	for i := range rotating {
		rotating[i] = 1 + (i+r)%cycle
	}
	order := append([]int{0}, rotating...)

	half := slots / 2
	top := order[:half]
	bottom := slices.Clone(order[half:])
	slices.Reverse(bottom)

	out := make([][2]int, half)
	for i := range half {
		white, black := top[i], bottom[i]
		if (r+i)%2 == 0 {
			white, black = black, white
		}
		if reversed {
			white, black = black, white
		}
		out[i] = [2]int{white, black}
	}
	return out, nil
}

// Schedule returns the pairs of every round of one cycle for n players,
// indexed by round-1. Pairs drawn against the bye slot of an odd field are
// left out.
func Schedule(n int) ([][][2]int, error) {
	out := make([][][2]int, 0, Rounds(n))
	for r := 1; r <= Rounds(n); r++ {
		pairs, err := roundPairs(n, r)
		if err != nil {
			return nil, err
		}
		out = append(out, pairs)
	}
	return out, nil
}

// DoubleSchedule returns two cycles: the rounds of Schedule followed by
// the same rounds with colours reversed.
func DoubleSchedule(n int) ([][][2]int, error) {
	out := make([][][2]int, 0, 2*Rounds(n))
	for r := 1; r <= 2*Rounds(n); r++ {
		pairs, err := roundPairs(n, r)
		if err != nil {
			return nil, err
		}
		out = append(out, pairs)
	}
	return out, nil
}

// roundPairs pads an odd field with a bye slot and drops the pair it lands in.
func roundPairs(n, round int) ([][2]int, error) {
	slots := n + n%2
	pairs, err := Pairs(slots, round)
	if err != nil {
		return nil, err
	}
	if slots == n {
		return pairs, nil
	}
	bye := slots - 1
	return slices.DeleteFunc(pairs, func(p [2]int) bool { return p[0] == bye || p[1] == bye }), nil
}

// Generate returns the games of round s.Round. Players take slots in
// pairing-number order, with missing numbers assigned first. Players that
// already have a game in the round are left out, and new games are numbered
// after the recorded ones.
func Generate(s *tournament.Snapshot) ([]tournament.Game, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	players := tournament.AssignPairingNumbers(s.Players)
	slices.SortStableFunc(players, func(a, b tournament.Player) int {
		return cmp.Compare(a.PairingNumber, b.PairingNumber)
	})

	recorded := s.GamesInRound(s.Round)
	seated := make(map[string]bool)
	for _, g := range recorded {
		seated[g.WhiteID] = true
		seated[g.BlackID] = true
	}

	pairs, err := roundPairs(len(players), s.Round)
	if err != nil {
		return nil, err
	}

	var games []tournament.Game
	number := len(recorded)
	for _, p := range pairs {
		white, black := players[p[0]].ID, players[p[1]].ID
		if seated[white] || seated[black] {
			continue
		}
		number++
		games = append(games, tournament.Game{
			ID:           tournament.GameID(s.TournamentID, s.Round, number),
			TournamentID: s.TournamentID,
			Round:        s.Round,
			Number:       number,
			WhiteID:      white,
			BlackID:      black,
			Result:       tournament.ResultNone,
		})
	}
	return games, nil
}
