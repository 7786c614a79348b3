// Package pipeline is the shared entry point the CLI and the HTTP server use
// to generate rounds.
//
// A [Runner] validates the request, looks the snapshot up in the cache,
// runs the Swiss or round-robin engine on a miss and stores the result:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Pair(ctx, snapshot, pipeline.Options{System: pipeline.SystemSwiss})
//	if err != nil {
//	    return err
//	}
//	for _, g := range res.Games {
//	    ...
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/swiss"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Pairing systems.
const (
	SystemSwiss      = "swiss"
	SystemRoundRobin = "round-robin"
)

// DefaultSystem is used when Options.System is empty.
const DefaultSystem = SystemSwiss

// ValidSystems is the set of supported pairing systems.
var ValidSystems = map[string]bool{
	SystemSwiss:      true,
	SystemRoundRobin: true,
}

// ValidateSystem checks that system is supported.
func ValidateSystem(system string) error {
	if !ValidSystems[system] {
		return errors.New(errors.ErrCodeInvalidSystem,
			"invalid system: %q (must be one of: swiss, round-robin)", system)
	}
	return nil
}

// Options configures one round generation. It is also the JSON body of the
// HTTP pairing endpoints, minus the snapshot.
type Options struct {
	System        string `json:"system,omitempty"`
	MaxCandidates int    `json:"maxCandidates,omitempty"`

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// ValidateAndSetDefaults fills defaults and rejects unusable values. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.System == "" {
		o.System = DefaultSystem
	}
	if err := ValidateSystem(o.System); err != nil {
		return err
	}
	if o.MaxCandidates < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max candidates must not be negative, got %d", o.MaxCandidates)
	}
	if o.MaxCandidates > 0 && o.System != SystemSwiss {
		return errors.New(errors.ErrCodeInvalidInput, "max candidates only applies to the swiss system")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// KeyOpts returns the options that take part in the cache key.
func (o *Options) KeyOpts() cache.PairingKeyOpts {
	return cache.PairingKeyOpts{MaxCandidates: o.MaxCandidates}
}

// Result is a generated round.
type Result struct {
	System string            `json:"system"`
	Round  int               `json:"round"`
	Games  []tournament.Game `json:"games"`

	// Brackets is only set by the Swiss system.
	Brackets []swiss.BracketSummary `json:"brackets,omitempty"`

	// SnapshotHash identifies the input the games were generated from.
	SnapshotHash string `json:"snapshotHash"`

	CacheHit bool  `json:"cacheHit"`
	Stats    Stats `json:"stats"`
}

// Stats describes a run.
type Stats struct {
	Players  int           `json:"players"`
	Games    int           `json:"games"`
	Byes     int           `json:"byes"`
	Duration time.Duration `json:"durationNs"`
}
