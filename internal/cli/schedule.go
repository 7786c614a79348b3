package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/errors"
)

// scheduleCommand creates the schedule command.
func (c *CLI) scheduleCommand() *cobra.Command {
	var (
		double  bool
		noCache bool
		format  = formatTable
	)

	cmd := &cobra.Command{
		Use:   "schedule <players>",
		Short: "Print a full round-robin schedule",
		Long: `Print every round of a round-robin for the given number of players.

Players are numbered by slot from 1. An odd field gets a bye slot, shown as
the highest number. With --double the second cycle repeats the first with
colours reversed.`,
		Example: `  swisspair schedule 8
  swisspair schedule 5 --double --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "players must be a number, got %q", args[0])
			}
			if format != formatTable && format != formatJSON {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be table or json)", format)
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			rounds, cached, err := runner.Schedule(cmd.Context(), n, double)
			if err != nil {
				return err
			}

			if format == formatJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rounds)
			}

			fmt.Fprintln(cmd.OutOrStdout(), scheduleTable(rounds))
			status := "fresh"
			if cached {
				status = "cached"
			}
			printDetail("%d players · %d rounds · %s", n, len(rounds), status)
			return nil
		},
	}

	cmd.Flags().BoolVar(&double, "double", false, "play every pairing twice with colours reversed")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&format, "format", format, "stdout format: table or json")

	return cmd
}
