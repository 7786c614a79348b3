package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/observability"
	"github.com/matzehuels/swisspair/pkg/roundrobin"
	"github.com/matzehuels/swisspair/pkg/swiss"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Runner generates rounds with caching. It holds no per-request state and
// is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL applies to stored results. Zero means no expiry.
	TTL time.Duration
}

// NewRunner returns a Runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: cache.TTLPairing}
}

type cachedRound struct {
	Games    []tournament.Game      `json:"games"`
	Brackets []swiss.BracketSummary `json:"brackets,omitempty"`
}

// Pair generates round s.Round with the configured system.
func (r *Runner) Pair(ctx context.Context, s *tournament.Snapshot, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "snapshot is required")
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	hash, err := cache.HashJSON(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash snapshot")
	}
	key := r.Keyer.PairingKey(opts.System, hash, opts.KeyOpts())
	res := &Result{System: opts.System, Round: s.Round, SnapshotHash: hash}

	start := time.Now()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cr cachedRound
			if err := json.Unmarshal(data, &cr); err == nil {
				observability.Cache().OnCacheHit(ctx, "pairing")
				res.Games, res.Brackets, res.CacheHit = cr.Games, cr.Brackets, true
				res.Stats = stats(s, cr.Games, time.Since(start))
				opts.Logger.Debug("pairing cache hit", "system", opts.System, "round", s.Round)
				return res, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "pairing")
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "generate round %d", s.Round)
	}

	hooks := observability.Pairing()
	hooks.OnPairStart(ctx, opts.System, len(s.Players))
	cr, err := generate(s, opts)
	hooks.OnPairComplete(ctx, opts.System, len(cr.Games), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	for _, b := range cr.Brackets {
		hooks.OnBracket(ctx, b.Kind, b.Size, b.Candidates)
	}

	if data, err := json.Marshal(cr); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache store failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "pairing", len(data))
		}
	}

	res.Games, res.Brackets = cr.Games, cr.Brackets
	res.Stats = stats(s, cr.Games, time.Since(start))
	opts.Logger.Info("generated round",
		"system", opts.System,
		"round", s.Round,
		"games", res.Stats.Games,
		"byes", res.Stats.Byes,
		"duration", res.Stats.Duration)
	return res, nil
}

// Schedule returns the slot pairs of every round of an n-player round
// robin, two cycles when double is set.
func (r *Runner) Schedule(ctx context.Context, n int, double bool) ([][][2]int, bool, error) {
	if n < 0 {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "player count must not be negative, got %d", n)
	}
	key := r.Keyer.ScheduleKey(n, double)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var rounds [][][2]int
		if err := json.Unmarshal(data, &rounds); err == nil {
			observability.Cache().OnCacheHit(ctx, "schedule")
			return rounds, true, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "schedule")

	build := roundrobin.Schedule
	if double {
		build = roundrobin.DoubleSchedule
	}
	rounds, err := build(n)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvariant, err, "schedule %d players", n)
	}
	if data, err := json.Marshal(rounds); err == nil {
		_ = r.Cache.Set(ctx, key, data, r.TTL)
	}
	return rounds, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func generate(s *tournament.Snapshot, opts Options) (cachedRound, error) {
	switch opts.System {
	case SystemRoundRobin:
		games, err := roundrobin.Generate(s)
		if err != nil {
			return cachedRound{}, errors.Wrap(errors.ErrCodeInvariant, err, "round robin round %d", s.Round)
		}
		return cachedRound{Games: games}, nil
	default:
		res, err := swiss.Pair(s, swiss.Options{MaxCandidates: opts.MaxCandidates, Logger: opts.Logger})
		if err != nil {
			return cachedRound{}, err
		}
		return cachedRound{Games: res.Games, Brackets: res.Brackets}, nil
	}
}

func stats(s *tournament.Snapshot, games []tournament.Game, d time.Duration) Stats {
	st := Stats{Players: len(s.Players), Games: len(games), Duration: d}
	for _, g := range games {
		if g.IsBye() {
			st.Byes++
		}
	}
	return st
}
