package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/io"
	"github.com/matzehuels/swisspair/pkg/pipeline"
	"github.com/matzehuels/swisspair/pkg/store"
	"github.com/matzehuels/swisspair/pkg/tournament"
)

// Output formats for pair.
const (
	formatTable = "table"
	formatJSON  = "json"
)

type pairOpts struct {
	output        string
	format        string
	tournament    string
	maxCandidates int
	noCache       bool
	refresh       bool
	save          bool
}

// pairCommand creates the pair command.
func (c *CLI) pairCommand() *cobra.Command {
	opts := pairOpts{format: formatTable}

	cmd := &cobra.Command{
		Use:   "pair <swiss|round-robin> [snapshot.json]",
		Short: "Generate the next round of a tournament",
		Long: `Generate the next round from a tournament snapshot.

The snapshot is read from a JSON file, or from the configured MongoDB store
with --tournament. Generated rounds are cached by snapshot content, so
re-running on the same input is instant.`,
		Example: `  # Pair round 5 of a Swiss from a file
  swisspair pair swiss round5.json

  # Write the round as JSON for another tool
  swisspair pair swiss round5.json --format json -o round5-games.json

  # Pair the next round of a stored tournament and record it
  swisspair pair round-robin --tournament club-2026 --save`,
		ValidArgs: []string{pipeline.SystemSwiss, pipeline.SystemRoundRobin},
		Args:      cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateSystem(args[0]); err != nil {
				return err
			}
			if opts.format != formatTable && opts.format != formatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be table or json)", opts.format)
			}
			if !cmd.Flags().Changed("max-candidates") && args[0] == pipeline.SystemSwiss {
				opts.maxCandidates = c.cfg.Pairing.MaxCandidates
			}
			return c.runPair(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the round as JSON to this file")
	cmd.Flags().StringVar(&opts.format, "format", opts.format, "stdout format: table or json")
	cmd.Flags().StringVar(&opts.tournament, "tournament", "", "load the snapshot from the store by tournament id")
	cmd.Flags().IntVar(&opts.maxCandidates, "max-candidates", 0, "cap on candidates evaluated per bracket level (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the round is cached")
	cmd.Flags().BoolVar(&opts.save, "save", false, "record the generated games in the store (requires --tournament)")

	return cmd
}

func (c *CLI) runPair(cmd *cobra.Command, system string, files []string, opts pairOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	snap, st, release, err := c.loadSnapshot(ctx, files, opts)
	if err != nil {
		return err
	}
	defer release()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spinner := newSpinner(ctx, cmd.ErrOrStderr(), fmt.Sprintf("Pairing round %d...", snap.Round))
	if opts.format == formatTable {
		spinner.Start()
	}
	prog := newProgress(logger)
	res, err := runner.Pair(ctx, snap, pipeline.Options{
		System:        system,
		MaxCandidates: opts.maxCandidates,
		Refresh:       opts.refresh,
		Logger:        logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Paired round %d", res.Round))

	if opts.save {
		if err := st.SaveGames(ctx, res.Games); err != nil {
			return err
		}
	}

	rd := io.NewRound(snap.TournamentID, res.Round, res.Games)
	if opts.output != "" {
		if err := io.ExportRound(rd, opts.output); err != nil {
			return err
		}
	}

	if opts.format == formatJSON {
		return io.WriteRound(rd, cmd.OutOrStdout())
	}

	fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(fmt.Sprintf("Round %d", res.Round)))
	fmt.Fprintln(cmd.OutOrStdout(), gamesTable(res.Games, snap.Players))
	printRoundStats(res)
	if opts.output != "" {
		printFile(opts.output)
	}
	if opts.save {
		printSuccess("Saved %d games to %s", len(res.Games), snap.TournamentID)
	}
	return nil
}

// loadSnapshot reads the snapshot from a file or, with --tournament, from
// the store. The store is returned for --save and is nil for files.
func (c *CLI) loadSnapshot(ctx context.Context, files []string, opts pairOpts) (*tournament.Snapshot, store.Store, func(), error) {
	switch {
	case opts.tournament != "" && len(files) > 0:
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput, "pass either a snapshot file or --tournament, not both")
	case opts.tournament == "" && len(files) == 0:
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput, "a snapshot file or --tournament is required")
	case opts.save && opts.tournament == "":
		return nil, nil, nil, errors.New(errors.ErrCodeInvalidInput, "--save requires --tournament")
	}

	if opts.tournament == "" {
		snap, err := io.ImportSnapshot(files[0])
		return snap, nil, func() {}, err
	}

	st, release, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	snap, err := st.LoadSnapshot(ctx, opts.tournament, 0)
	if err != nil {
		release()
		return nil, nil, nil, err
	}
	return snap, st, release, nil
}
