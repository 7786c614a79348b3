package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/config"
	"github.com/matzehuels/swisspair/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached rounds and schedules",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var tournamentID string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached rounds and schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch c.cfg.Cache.Backend {
			case config.BackendNone:
				printInfo("Caching is disabled")
				return nil
			case config.BackendRedis:
				return c.clearRedis(cmd.Context(), tournamentID)
			}
			if tournamentID != "" {
				return errors.New(errors.ErrCodeUnsupported, "--tournament only applies to the redis cache")
			}

			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVar(&tournamentID, "tournament", "", "only clear entries cached by the server for this tournament")
	return cmd
}

func (c *CLI) clearRedis(ctx context.Context, tournamentID string) error {
	rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
	if err != nil {
		return err
	}
	defer rc.Close()

	prefixes := cache.KeyPrefixes
	if tournamentID != "" {
		prefixes = []string{cache.TournamentPrefix(tournamentID)}
	}
	total := 0
	for _, p := range prefixes {
		n, err := rc.DeletePrefix(ctx, p)
		total += n
		if err != nil {
			return err
		}
	}
	printSuccess("Cleared %d cached entries", total)
	printDetail("Redis: %s", c.cfg.Cache.RedisURL)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCacheDir returns the configured cache directory or the XDG default.
func (c *CLI) fileCacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
