// Package cli implements the swisspair command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swisspair/pkg/buildinfo"
	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/config"
	"github.com/matzehuels/swisspair/pkg/errors"
	"github.com/matzehuels/swisspair/pkg/pipeline"
	"github.com/matzehuels/swisspair/pkg/store"
	"github.com/matzehuels/swisspair/pkg/store/mongo"
)

// appName names the cache and config directories.
const appName = "swisspair"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config

	// store overrides the configured MongoDB store when set.
	store store.Store
}

// New creates a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), cfg: config.Default()}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pair chess rounds with the FIDE Dutch system or a round robin",
		Long: `swisspair generates the next round of a chess tournament.

Swiss rounds follow the FIDE Dutch system: players are ranked by score, split
into brackets and paired so that nobody meets the same opponent twice, colours
stay balanced and floats are spread fairly. Round-robin rounds follow the
circle method.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/swisspair/config.toml)")

	root.AddCommand(c.pairCommand())
	root.AddCommand(c.scheduleCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	if ttl, err := c.cfg.CacheTTL(); err == nil {
		r.TTL = ttl
	}
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// openStore connects to the configured MongoDB store. The returned func
// releases the connection.
func (c *CLI) openStore(ctx context.Context) (store.Store, func(), error) {
	if c.store != nil {
		return c.store, func() {}, nil
	}
	if c.cfg.Store.MongoURI == "" {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "no store configured: set store.mongo_uri in %s", c.displayConfigPath())
	}
	st, err := mongo.Open(ctx, c.cfg.Store.MongoURI, c.cfg.Store.Database)
	if err != nil {
		return nil, nil, err
	}
	return st, func() {
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}, nil
}

func (c *CLI) displayConfigPath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/swisspair/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
