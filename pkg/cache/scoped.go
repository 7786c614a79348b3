package cache

// ScopedKeyer prefixes every key so that tournaments sharing one backend
// cannot read each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), TournamentPrefix(id))
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PairingKey implements [Keyer].
func (k *ScopedKeyer) PairingKey(system, snapshotHash string, opts PairingKeyOpts) string {
	return k.prefix + k.inner.PairingKey(system, snapshotHash, opts)
}

// ScheduleKey implements [Keyer].
func (k *ScopedKeyer) ScheduleKey(players int, double bool) string {
	return k.prefix + k.inner.ScheduleKey(players, double)
}

// KeyPrefixes lists the prefixes of every key this package produces. A
// backend shared with other data is cleared by these prefixes only.
var KeyPrefixes = []string{"pairing:", "schedule:", "tournament:"}

// TournamentPrefix returns the scope prefix for one tournament.
func TournamentPrefix(tournamentID string) string {
	return "tournament:" + tournamentID + ":"
}
