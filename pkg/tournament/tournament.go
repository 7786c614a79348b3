// Package tournament defines the data exchanged between the pairing engines
// and their callers: players, games and the snapshot a round is paired from.
//
// The types carry JSON and BSON tags so that snapshots can be read from files,
// HTTP requests or a document store without conversion.
package tournament

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Colour is the side a player takes in a game.
type Colour int

const (
	White Colour = iota
	Black
)

// Opposite returns the other colour.
func (c Colour) Opposite() Colour {
	if c == White {
		return Black
	}
	return White
}

func (c Colour) String() string {
	if c == White {
		return "white"
	}
	return "black"
}

// Result is the outcome of a game.
type Result int

const (
	ResultNone Result = iota
	ResultWhiteWins
	ResultBlackWins
	ResultDraw
)

var resultNames = map[Result]string{
	ResultNone:      "none",
	ResultWhiteWins: "1-0",
	ResultBlackWins: "0-1",
	ResultDraw:      "1/2-1/2",
}

func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// MarshalText encodes r as "none", "1-0", "0-1" or "1/2-1/2".
func (r Result) MarshalText() ([]byte, error) {
	s, ok := resultNames[r]
	if !ok {
		return nil, fmt.Errorf("unknown result %d", int(r))
	}
	return []byte(s), nil
}

// UnmarshalText accepts the forms produced by MarshalText. An empty string
// decodes to ResultNone.
func (r *Result) UnmarshalText(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" {
		*r = ResultNone
		return nil
	}
	for res, name := range resultNames {
		if name == s {
			*r = res
			return nil
		}
	}
	return fmt.Errorf("unknown result %q", s)
}

// Player is a participant as seen by the pairing engines for one round.
type Player struct {
	ID       string  `json:"id" bson:"_id"`
	Nickname string  `json:"nickname" bson:"nickname"`
	Title    string  `json:"title,omitempty" bson:"title,omitempty"`
	Rating   float64 `json:"rating" bson:"rating"`

	// ColourIndex is the number of games played with white minus the number
	// played with black. Byes do not count.
	ColourIndex int `json:"colourIndex" bson:"colourIndex"`

	Wins   int `json:"wins" bson:"wins"`
	Draws  int `json:"draws" bson:"draws"`
	Losses int `json:"losses" bson:"losses"`

	// PairingNumber is the player's stable seed rank. Zero means unassigned.
	PairingNumber int `json:"pairingNumber" bson:"pairingNumber"`
}

// Score returns the player's points: one per win, one half per draw.
func (p Player) Score() float64 {
	return float64(p.Wins) + 0.5*float64(p.Draws)
}

// GamesPlayed returns the number of decided games, byes included.
func (p Player) GamesPlayed() int {
	return p.Wins + p.Draws + p.Losses
}

// Game is one pairing. A game without a black player is a pairing-allocated
// bye for the white player.
type Game struct {
	ID           string `json:"id" bson:"_id"`
	TournamentID string `json:"tournamentId" bson:"tournamentId"`
	Round        int    `json:"round" bson:"round"`
	Number       int    `json:"number" bson:"number"`
	WhiteID      string `json:"whiteId" bson:"whiteId"`
	BlackID      string `json:"blackId,omitempty" bson:"blackId,omitempty"`
	Result       Result `json:"result" bson:"result"`
}

// IsBye reports whether g is a pairing-allocated bye.
func (g Game) IsBye() bool { return g.BlackID == "" }

// Involves reports whether the player takes part in g.
func (g Game) Involves(id string) bool {
	return g.WhiteID == id || (!g.IsBye() && g.BlackID == id)
}

// ColourOf returns the colour id played in g. The second result is false
// when id did not play a coloured game in g, which includes byes.
func (g Game) ColourOf(id string) (Colour, bool) {
	switch {
	case g.IsBye():
		return White, false
	case g.WhiteID == id:
		return White, true
	case g.BlackID == id:
		return Black, true
	}
	return White, false
}

// Opponent returns the other player of g, or "" for a bye or if id did not
// play in g.
func (g Game) Opponent(id string) string {
	switch {
	case g.IsBye():
		return ""
	case g.WhiteID == id:
		return g.BlackID
	case g.BlackID == id:
		return g.WhiteID
	}
	return ""
}

// PointsFor returns the points id earned in g. A bye is worth a full point;
// an unfinished game is worth nothing.
func (g Game) PointsFor(id string) float64 {
	if g.IsBye() {
		if g.WhiteID == id {
			return 1
		}
		return 0
	}
	switch g.Result {
	case ResultDraw:
		if g.Involves(id) {
			return 0.5
		}
	case ResultWhiteWins:
		if g.WhiteID == id {
			return 1
		}
	case ResultBlackWins:
		if g.BlackID == id {
			return 1
		}
	}
	return 0
}

// gameNamespace scopes the name-based UUIDs of generated games.
var gameNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/swisspair/games"))

// GameID returns the identifier of game number in round of a tournament.
// The same inputs always give the same id, so regenerating a round yields
// games that compare equal to the first attempt.
func GameID(tournamentID string, round, number int) string {
	name := fmt.Sprintf("%s/%d/%d", tournamentID, round, number)
	return uuid.NewSHA1(gameNamespace, []byte(name)).String()
}
