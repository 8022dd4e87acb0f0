package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/sumnatarya/Synapse/internal/server"
	"github.com/sumnatarya/Synapse/pkg/cache"
	"github.com/sumnatarya/Synapse/pkg/store"
	"github.com/sumnatarya/Synapse/pkg/viewport"
)

// configFile is the config file name under the config directory.
const configFile = "config.toml"

// ViewerConfig tunes the interactive viewer.
type ViewerConfig struct {
	Scale        viewport.ScaleBounds `toml:"scale"`
	TransitionMS int                  `toml:"transition_ms"`
	Palette      []string             `toml:"palette"`
	Background   string               `toml:"background"`
}

// TransitionDuration returns the configured transition duration.
func (v ViewerConfig) TransitionDuration() time.Duration {
	if v.TransitionMS <= 0 {
		return viewport.DefaultTransitionDuration
	}
	return time.Duration(v.TransitionMS) * time.Millisecond
}

// CacheConfig selects the cache location.
type CacheConfig struct {
	Dir string `toml:"dir"`
}

// StoreConfig selects the map store backend: "file" (default) or "mongo".
type StoreConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Mongo   store.MongoConfig `toml:"mongo"`
}

// Config is the synapse configuration, read from
// ~/.config/synapse/config.toml when present.
type Config struct {
	Viewer ViewerConfig      `toml:"viewer"`
	Cache  CacheConfig       `toml:"cache"`
	Redis  cache.RedisConfig `toml:"redis"`
	Store  StoreConfig       `toml:"store"`
	Server server.Config     `toml:"server"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Scale: viewport.ScaleBounds{
				Min: viewport.DefaultMinScale,
				Max: viewport.DefaultMaxScale,
			},
			TransitionMS: int(viewport.DefaultTransitionDuration / time.Millisecond),
		},
		Server: server.DefaultConfig(),
	}
}

// LoadConfig reads the config file at path and overlays it on the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Viewer.Scale.Min <= 0 || cfg.Viewer.Scale.Max < cfg.Viewer.Scale.Min {
		return nil, fmt.Errorf("config %s: invalid scale bounds [%g, %g]",
			path, cfg.Viewer.Scale.Min, cfg.Viewer.Scale.Max)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the user config if present, falling back to
// defaults when the file is missing or unreadable.
func LoadConfigOrDefault() *Config {
	dir, err := configDir()
	if err != nil {
		return DefaultConfig()
	}
	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}
