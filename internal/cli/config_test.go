package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sumnatarya/Synapse/pkg/viewport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Viewer.Scale.Min != viewport.DefaultMinScale {
		t.Errorf("min scale = %g, want %g", cfg.Viewer.Scale.Min, viewport.DefaultMinScale)
	}
	if cfg.Viewer.Scale.Max != viewport.DefaultMaxScale {
		t.Errorf("max scale = %g, want %g", cfg.Viewer.Scale.Max, viewport.DefaultMaxScale)
	}
	if cfg.Viewer.TransitionDuration() != viewport.DefaultTransitionDuration {
		t.Errorf("transition = %v, want %v", cfg.Viewer.TransitionDuration(), viewport.DefaultTransitionDuration)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[viewer]
transition_ms = 300
palette = ["#111111", "#222222"]

[viewer.scale]
min = 0.5
max = 2.0

[cache]
dir = "/tmp/synapse-cache"

[redis]
addr = "localhost:6379"

[store]
backend = "mongo"

[store.mongo]
uri = "mongodb://db:27017"

[server]
addr = ":9090"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Viewer.Scale.Min != 0.5 || cfg.Viewer.Scale.Max != 2.0 {
		t.Errorf("scale = [%g, %g], want [0.5, 2.0]", cfg.Viewer.Scale.Min, cfg.Viewer.Scale.Max)
	}
	if cfg.Viewer.TransitionDuration() != 300*time.Millisecond {
		t.Errorf("transition = %v, want 300ms", cfg.Viewer.TransitionDuration())
	}
	if len(cfg.Viewer.Palette) != 2 {
		t.Errorf("palette = %v, want 2 entries", cfg.Viewer.Palette)
	}
	if cfg.Cache.Dir != "/tmp/synapse-cache" {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("redis addr = %q", cfg.Redis.Addr)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server addr = %q, want :9090", cfg.Server.Addr)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":3000"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Viewer.Scale.Min != viewport.DefaultMinScale {
		t.Errorf("min scale should keep default, got %g", cfg.Viewer.Scale.Min)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("server addr = %q, want :3000", cfg.Server.Addr)
	}
}

func TestLoadConfigRejectsBadScale(t *testing.T) {
	path := writeConfig(t, `
[viewer.scale]
min = 2.0
max = 0.5
`)

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for inverted scale bounds")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}
