// Package config loads swisspair settings from a TOML file.
//
//	[pairing]
//	max_candidates = 0
//
//	[cache]
//	backend = "file"          # file, redis or none
//	ttl = "168h"
//	redis_url = "redis://localhost:6379/0"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "swisspair"
//
//	[server]
//	addr = ":8080"
//
// A missing file yields the defaults. Command-line flags override file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/swisspair/pkg/cache"
	"github.com/matzehuels/swisspair/pkg/errors"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the full settings tree.
type Config struct {
	Pairing Pairing `toml:"pairing"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
}

// Pairing holds engine tuning.
type Pairing struct {
	MaxCandidates int `toml:"max_candidates"`
}

// Cache selects and configures the pairing cache.
type Cache struct {
	Backend  string `toml:"backend"`
	TTL      string `toml:"ttl"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
}

// Store configures the MongoDB snapshot store.
type Store struct {
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Server configures the HTTP service.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Cache: Cache{
			Backend:  BackendFile,
			TTL:      cache.TTLPairing.String(),
			RedisURL: "redis://localhost:6379/0",
		},
		Store:  Store{Database: "swisspair"},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/swisspair/config.toml, falling back
// to the OS user config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "swisspair", "config.toml")
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Pairing.MaxCandidates < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "pairing.max_candidates must not be negative")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}
	if c.Cache.Backend == BackendRedis {
		if err := errors.ValidateURI(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return fmt.Errorf("cache.redis_url: %w", err)
		}
	}
	if c.Store.MongoURI != "" {
		if err := errors.ValidateURI(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("store.mongo_uri: %w", err)
		}
	}
	return nil
}

// CacheTTL parses Cache.TTL. An empty value means no expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "cache.ttl")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return d, nil
}
