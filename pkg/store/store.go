// Package store persists tournaments between rounds.
//
// A [Store] hands out snapshots for the pairing engines and records the
// games they produce. [Memory] keeps everything in process; the mongo
// subpackage backs the same interface with MongoDB.
package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Store loads snapshots and saves games.
type Store interface {
	// LoadSnapshot returns the players and games of a tournament for the
	// given round. Round 0 means the round after the latest recorded one.
	LoadSnapshot(ctx context.Context, tournamentID string, round int) (*tournament.Snapshot, error)

	// SavePlayers inserts or replaces players.
	SavePlayers(ctx context.Context, tournamentID string, players []tournament.Player) error

	// SaveGames inserts or replaces games by id.
	SaveGames(ctx context.Context, games []tournament.Game) error

	Close(ctx context.Context) error
}

// NextRound returns one past the highest round in games, or 1.
func NextRound(games []tournament.Game) int {
	next := 1
	for _, g := range games {
		next = max(next, g.Round+1)
	}
	return next
}

// Memory is an in-process Store. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	players map[string]map[string]tournament.Player
	games   map[string]tournament.Game
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		players: make(map[string]map[string]tournament.Player),
		games:   make(map[string]tournament.Game),
	}
}

// LoadSnapshot implements [Store].
func (m *Memory) LoadSnapshot(_ context.Context, tournamentID string, round int) (*tournament.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roster, ok := m.players[tournamentID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "tournament %q", tournamentID)
	}
	s := &tournament.Snapshot{TournamentID: tournamentID}
	for _, p := range roster {
		s.Players = append(s.Players, p)
	}
	slices.SortFunc(s.Players, func(a, b tournament.Player) int { return cmp.Compare(a.ID, b.ID) })
	for _, g := range m.games {
		if g.TournamentID == tournamentID {
			s.Games = append(s.Games, g)
		}
	}
	sortGames(s.Games)

	s.Round = round
	if round == 0 {
		s.Round = NextRound(s.Games)
	}
	return s, nil
}

// SavePlayers implements [Store].
func (m *Memory) SavePlayers(_ context.Context, tournamentID string, players []tournament.Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	roster, ok := m.players[tournamentID]
	if !ok {
		roster = make(map[string]tournament.Player)
		m.players[tournamentID] = roster
	}
	for _, p := range players {
		roster[p.ID] = p
	}
	return nil
}

// SaveGames implements [Store].
func (m *Memory) SaveGames(_ context.Context, games []tournament.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range games {
		if g.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "game %d of round %d has no id", g.Number, g.Round)
		}
		m.games[g.ID] = g
	}
	return nil
}

// Close implements [Store].
func (m *Memory) Close(context.Context) error { return nil }

// sortGames orders games by round, then board number.
func sortGames(games []tournament.Game) {
	slices.SortFunc(games, func(a, b tournament.Game) int {
		return cmp.Or(cmp.Compare(a.Round, b.Round), cmp.Compare(a.Number, b.Number))
	})
}

var _ Store = (*Memory)(nil)
