// Package cache stores computed pairings so repeated requests for the same
// snapshot skip the search.
//
// Backends implement [Cache]; key construction lives behind [Keyer] so the
// server can scope keys per tournament while the CLI uses plain keys.
package cache

import (
	"context"
	"time"
)

// TTLPairing is how long a computed pairing stays valid. Pairings are a pure
// function of the snapshot, so the TTL only bounds disk and memory use.
const TTLPairing = 7 * 24 * time.Hour

// Cache is a byte-oriented key-value store with expiry.
type Cache interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// PairingKeyOpts are the request options that change a pairing result.
type PairingKeyOpts struct {
	MaxCandidates int `json:"max_candidates,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// PairingKey identifies the games produced by system for a snapshot.
	PairingKey(system, snapshotHash string, opts PairingKeyOpts) string

	// ScheduleKey identifies a full round-robin schedule for n players.
	ScheduleKey(players int, double bool) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PairingKey implements [Keyer].
func (DefaultKeyer) PairingKey(system, snapshotHash string, opts PairingKeyOpts) string {
	return hashKey("pairing:"+system, snapshotHash, opts)
}

// ScheduleKey implements [Keyer].
func (DefaultKeyer) ScheduleKey(players int, double bool) string {
	return hashKey("schedule", players, double)
}
