package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Round is the file form of one generated round.
type Round struct {
	TournamentID string            `json:"tournamentId,omitempty"`
	Round        int               `json:"round"`
	Games        []tournament.Game `json:"games"`
}

// NewRound groups games under their tournament and round.
func NewRound(tournamentID string, round int, games []tournament.Game) *Round {
	if games == nil {
		games = []tournament.Game{}
	}
	return &Round{TournamentID: tournamentID, Round: round, Games: games}
}

// WriteRound encodes rd as indented JSON.
func WriteRound(rd *Round, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rd); err != nil {
		return fmt.Errorf("encode round: %w", err)
	}
	return nil
}

// ExportRound writes rd to path, replacing any existing file.
func ExportRound(rd *Round, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteRound(rd, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteSnapshot encodes s as indented JSON. The CLI uses it to emit a
// snapshot with the new round appended.
func WriteSnapshot(s *tournament.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
