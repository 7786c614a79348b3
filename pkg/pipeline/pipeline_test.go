package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/observability"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

func snapshot(n, round int) *tournament.Snapshot {
	s := &tournament.Snapshot{TournamentID: "open-2026", Round: round}
	for i := range n {
		s.Players = append(s.Players, tournament.Player{
			ID:       fmt.Sprintf("p%d", i+1),
			Nickname: fmt.Sprintf("player%02d", i+1),
			Rating:   float64(1500 + 10*i),
		})
	}
	return s
}

func TestValidateSystem(t *testing.T) {
	tests := []struct {
		system  string
		wantErr bool
	}{
		{"swiss", false},
		{"round-robin", false},
		{"Swiss", true},
		{"knockout", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateSystem(tt.system)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSystem(%q) error = %v, wantErr %v", tt.system, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidSystem) {
			t.Errorf("ValidateSystem(%q) code = %s", tt.system, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr errors.Code
	}{
		{name: "empty", opts: Options{}, want: SystemSwiss},
		{name: "round robin", opts: Options{System: SystemRoundRobin}, want: SystemRoundRobin},
		{name: "negative cap", opts: Options{MaxCandidates: -1}, wantErr: errors.ErrCodeInvalidInput},
		{name: "cap on round robin", opts: Options{System: SystemRoundRobin, MaxCandidates: 5}, wantErr: errors.ErrCodeInvalidInput},
		{name: "unknown system", opts: Options{System: "scheveningen"}, wantErr: errors.ErrCodeInvalidSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.opts.System != tt.want {
				t.Errorf("System = %q, want %q", tt.opts.System, tt.want)
			}
			if tt.opts.Logger == nil {
				t.Error("Logger not defaulted")
			}
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Errorf("second call: %v", err)
			}
		})
	}
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRunnerPairCaches(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	s := snapshot(7, 1)

	first, err := r.Pair(ctx, s, Options{})
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if first.CacheHit {
		t.Error("first run reported a cache hit")
	}
	if first.Stats.Games != 4 || first.Stats.Byes != 1 || first.Stats.Players != 7 {
		t.Errorf("stats = %+v", first.Stats)
	}
	if len(first.Brackets) == 0 {
		t.Error("swiss result without bracket summaries")
	}

	second, err := r.Pair(ctx, s, Options{})
	if err != nil {
		t.Fatalf("Pair: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run missed the cache")
	}
	if second.SnapshotHash != first.SnapshotHash {
		t.Error("snapshot hash changed between runs")
	}
	for i := range first.Games {
		if first.Games[i] != second.Games[i] {
			t.Errorf("game %d differs: %+v vs %+v", i, first.Games[i], second.Games[i])
		}
	}

	fresh, err := r.Pair(ctx, s, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if fresh.CacheHit {
		t.Error("refresh served from cache")
	}

	rr, err := r.Pair(ctx, s, Options{System: SystemRoundRobin})
	if err != nil {
		t.Fatal(err)
	}
	if rr.CacheHit {
		t.Error("round robin served from the swiss entry")
	}
	if len(rr.Brackets) != 0 {
		t.Error("round robin result has brackets")
	}
	if rr.Stats.Games != 3 || rr.Stats.Byes != 0 {
		t.Errorf("round robin stats = %+v", rr.Stats)
	}
}

func TestRunnerPairErrors(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(nil, nil, nil)

	if _, err := r.Pair(ctx, nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil snapshot: %v", err)
	}
	if _, err := r.Pair(ctx, snapshot(2, 0), Options{}); !errors.Is(err, errors.ErrCodeInvalidRound) {
		t.Errorf("round 0: %v", err)
	}

	s := snapshot(2, 2)
	s.Games = []tournament.Game{{Round: 1, Number: 1, WhiteID: "p1", BlackID: "p2", Result: tournament.ResultDraw}}
	s.Players[0].Draws, s.Players[0].ColourIndex = 1, 1
	s.Players[1].Draws, s.Players[1].ColourIndex = 1, -1
	if _, err := r.Pair(ctx, s, Options{}); !errors.Is(err, errors.ErrCodeNoValidPairing) {
		t.Errorf("rematch only: %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.Pair(cancelled, snapshot(4, 1), Options{}); !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("cancelled: %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPairingHooks
	mu       sync.Mutex
	started  []string
	brackets int
	errs     []error
}

func (h *recordingHooks) OnPairStart(_ context.Context, system string, _ int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, system)
}

func (h *recordingHooks) OnPairComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *recordingHooks) OnBracket(context.Context, string, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.brackets++
}

func TestRunnerHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	h := &recordingHooks{}
	observability.SetPairingHooks(h)

	r := NewRunner(nil, nil, nil)
	if _, err := r.Pair(context.Background(), snapshot(6, 1), Options{}); err != nil {
		t.Fatal(err)
	}
	if len(h.started) != 1 || h.started[0] != SystemSwiss {
		t.Errorf("started = %v", h.started)
	}
	if len(h.errs) != 1 || h.errs[0] != nil {
		t.Errorf("completions = %v", h.errs)
	}
	if h.brackets == 0 {
		t.Error("no bracket events")
	}
}

func TestRunnerSchedule(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)

	rounds, hit, err := r.Schedule(ctx, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("first schedule was a hit")
	}
	if len(rounds) != 5 {
		t.Errorf("rounds = %d, want 5", len(rounds))
	}

	again, hit, err := r.Schedule(ctx, 6, false)
	if err != nil || !hit {
		t.Fatalf("second schedule: hit=%v err=%v", hit, err)
	}
	if len(again) != len(rounds) || again[0][0] != rounds[0][0] {
		t.Error("cached schedule differs")
	}

	double, _, err := r.Schedule(ctx, 6, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(double) != 10 {
		t.Errorf("double rounds = %d, want 10", len(double))
	}

	if _, _, err := r.Schedule(ctx, -1, false); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative n: %v", err)
	}
}
