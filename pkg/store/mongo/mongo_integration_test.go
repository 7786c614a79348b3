//go:build integration

package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("SWISSPAIR_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, err := Open(ctx, uri, "swisspair_test")
	if err != nil {
		t.Skipf("mongodb unavailable: %v", err)
	}
	t.Cleanup(func() { s.Close(context.Background()) })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	tid := fmt.Sprintf("it-%d", time.Now().UnixNano())
	t.Cleanup(func() { s.Drop(context.Background(), tid) })

	if _, err := s.LoadSnapshot(ctx, tid, 0); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("empty tournament: %v", err)
	}

	players := []tournament.Player{
		{ID: "p1", Nickname: "alice", Rating: 1800, Wins: 1, ColourIndex: 1, PairingNumber: 1},
		{ID: "p2", Nickname: "bob", Rating: 1700, Losses: 1, ColourIndex: -1, PairingNumber: 2},
	}
	if err := s.SavePlayers(ctx, tid, players); err != nil {
		t.Fatal(err)
	}
	game := tournament.Game{
		ID:           tournament.GameID(tid, 1, 1),
		TournamentID: tid,
		Round:        1,
		Number:       1,
		WhiteID:      "p1",
		BlackID:      "p2",
		Result:       tournament.ResultWhiteWins,
	}
	if err := s.SaveGames(ctx, []tournament.Game{game}); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGames(ctx, []tournament.Game{game}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	snap, err := s.LoadSnapshot(ctx, tid, 0)
	if err != nil {
		t.Fatal(err)
	}
	if snap.Round != 2 {
		t.Errorf("Round = %d, want 2", snap.Round)
	}
	if len(snap.Players) != 2 || snap.Players[0] != players[0] {
		t.Errorf("players = %+v", snap.Players)
	}
	if len(snap.Games) != 1 || snap.Games[0] != game {
		t.Errorf("games = %+v", snap.Games)
	}
	if err := snap.Validate(); err != nil {
		t.Errorf("loaded snapshot invalid: %v", err)
	}
}
