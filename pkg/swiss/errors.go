package swiss

import (
	"errors"
	"fmt"
)

var (
	// ErrBSNLookup is returned when an arrangement refers to a bracket
	// position that does not exist. It indicates a bug.
	ErrBSNLookup = errors.New("swiss: bracket sequence number out of range")

	// ErrEntityLookup is returned when bookkeeping loses track of an entity,
	// for example when more than one player is left without a game once
	// every bracket is paired. It indicates a bug.
	ErrEntityLookup = errors.New("swiss: entity lookup failed")
)

// NoPairingError reports a bracket for which no arrangement satisfies the
// absolute criteria. It is an expected outcome for some tournaments, not a
// bug, and is meant to be shown to the organizer.
type NoPairingError struct {
	Score             float64 // score of the bracket's resident group
	BracketSize       int     // residents plus moved-down players
	MovedDown         int     // players carried into the bracket
	RemainingBrackets int     // score groups below this one
}

func (e *NoPairingError) Error() string {
	return fmt.Sprintf("no valid pairing for bracket %.1f: %d players (%d moved down), %d brackets remaining",
		e.Score, e.BracketSize, e.MovedDown, e.RemainingBrackets)
}
