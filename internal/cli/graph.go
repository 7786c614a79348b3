package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/io"
	"github.com/matzehuels/swisspair/pkg/render/dot"
	"github.com/matzehuels/swisspair/pkg/swiss"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   = "svg"
		detailed bool
		grouped  bool
	)

	cmd := &cobra.Command{
		Use:   "graph <snapshot.json>",
		Short: "Draw who may meet whom in the next round",
		Long: `Draw the compatibility graph of a snapshot.

Every player is a node and an edge joins two players allowed to meet. A
maximum matching is drawn in bold; players it cannot pair are outlined in
red, which usually explains why a round has no valid pairing.`,
		Example: `  swisspair graph round7.json -o round7.svg
  swisspair graph round7.json --format dot --group-scores`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "dot" && format != "svg" {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be dot or svg)", format)
			}

			snap, err := io.ImportSnapshot(args[0])
			if err != nil {
				return err
			}
			compat, err := swiss.NewCompatibility(snap)
			if err != nil {
				return err
			}
			ok, m, err := compat.Feasible()
			if err != nil {
				return err
			}

			out := []byte(dot.ToDOT(compat, m, dot.Options{Detailed: detailed, GroupScores: grouped}))
			if format == "svg" {
				if out, err = dot.RenderSVG(cmd.Context(), string(out)); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			if ok {
				printSuccess("Round %d can be paired", snap.Round)
			} else {
				printWarning("Round %d has no complete pairing", snap.Round)
			}
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&format, "format", format, "output format: dot or svg")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add rating and colour index to labels")
	cmd.Flags().BoolVar(&grouped, "group-scores", false, "cluster players by score")

	return cmd
}
