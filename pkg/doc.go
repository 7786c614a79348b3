// Package pkg holds the swisspair libraries: pairing engines for chess
// tournaments and the plumbing that serves them.
//
// # Overview
//
// A round is generated from a [tournament.Snapshot], the players still in
// the event with their running scores plus every game recorded so far. Two
// systems are supported:
//
//  1. [swiss] - the FIDE Dutch system. Players are grouped by score,
//     brackets are paired top-down and every candidate pairing is scored
//     against the quality criteria C5 to C21.
//  2. [roundrobin] - the circle method, single or double cycle.
//
// # Architecture
//
//	snapshot.json / MongoDB
//	         ↓
//	    [io] or [store] (load and validate)
//	         ↓
//	    [pipeline] (cache lookup, engine dispatch)
//	         ↓
//	    [swiss] → [matching] (maximum matching for feasibility)
//	    [roundrobin]
//	         ↓
//	    games, bracket reports, optional Graphviz drawing ([render/dot])
//
// # Quick Start
//
//	snap, err := io.ImportSnapshot("round5.json")
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	res, err := runner.Pair(ctx, snap, pipeline.Options{System: pipeline.SystemSwiss})
//	if err != nil {
//	    return err
//	}
//	for _, g := range res.Games {
//	    fmt.Println(g.Number, g.WhiteID, g.BlackID)
//	}
//
// # Main Packages
//
// [tournament] - Players, games, results and the snapshot handed to the
// engines.
//
// [swiss] - Dutch system pairing: score brackets, transpositions and
// exchanges, colour allocation and the bracket quality report.
//
// [roundrobin] - Berger-style rotation tables and game generation.
//
// [matching] - Edmonds' blossom algorithm for maximum cardinality matching
// on general graphs. Used to prove that a round or the rest of a round can
// still be completed.
//
// [combin] - Lexicographic permutations and combinations used to enumerate
// candidate pairings.
//
// ## Infrastructure
//
// [pipeline] - The shared entry point used by the CLI and the HTTP server.
//
// [cache] - Round and schedule caching on disk or in Redis.
//
// [store] - Tournament persistence, in memory or in MongoDB ([store/mongo]).
//
// [config] - TOML configuration.
//
// [observability] - Hooks for metrics and tracing.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [tournament]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/tournament
// [tournament.Snapshot]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/tournament#Snapshot
// [swiss]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/swiss
// [roundrobin]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/roundrobin
// [matching]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/matching
// [combin]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/combin
// [io]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/io
// [store]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/store
// [store/mongo]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/store/mongo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/errors
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/swisspair/pkg/render/dot
package pkg
