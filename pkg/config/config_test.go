package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/swisspair/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendFile || cfg.Server.Addr != ":8080" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	ttl, err := cfg.CacheTTL()
	if err != nil || ttl != 7*24*time.Hour {
		t.Errorf("CacheTTL = %v, %v", ttl, err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[pairing]
max_candidates = 5000

[cache]
backend = "redis"
ttl = "30m"
redis_url = "redis://cache:6379/2"

[store]
mongo_uri = "mongodb://db:27017"

[server]
addr = "127.0.0.1:9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pairing.MaxCandidates != 5000 {
		t.Errorf("MaxCandidates = %d", cfg.Pairing.MaxCandidates)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisURL != "redis://cache:6379/2" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if ttl, _ := cfg.CacheTTL(); ttl != 30*time.Minute {
		t.Errorf("ttl = %v", ttl)
	}
	if cfg.Store.Database != "swisspair" {
		t.Errorf("database default lost: %q", cfg.Store.Database)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[cache\nbackend=", errors.ErrCodeInvalidFormat},
		{"unknown key", "[pairing]\nmax_rounds = 3\n", errors.ErrCodeInvalidInput},
		{"backend", "[cache]\nbackend = \"memcached\"\n", errors.ErrCodeInvalidInput},
		{"ttl", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidInput},
		{"negative cap", "[pairing]\nmax_candidates = -1\n", errors.ErrCodeInvalidInput},
		{"redis scheme", "[cache]\nbackend = \"redis\"\nredis_url = \"http://x\"\n", errors.ErrCodeInvalidInput},
		{"mongo scheme", "[store]\nmongo_uri = \"postgres://x\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/swisspair/config.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}
