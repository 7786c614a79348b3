package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// ReadSnapshot decodes and validates a snapshot. It does not close r.
func ReadSnapshot(r io.Reader) (*tournament.Snapshot, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s tournament.Snapshot
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ImportSnapshot reads the snapshot file at path.
func ImportSnapshot(path string) (*tournament.Snapshot, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// ReadRound decodes a round written by [WriteRound].
func ReadRound(r io.Reader) (*Round, error) {
	var out Round
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode round")
	}
	return &out, nil
}

// ImportRound reads the round file at path.
func ImportRound(path string) (*Round, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "round %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRound(f)
}
