package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/reasongraph/pkg/cache"
	"github.com/matzehuels/reasongraph/pkg/force"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != force.DefaultWidth || cfg.Canvas.Height != force.DefaultHeight {
		t.Errorf("canvas = %+v", cfg.Canvas)
	}
	if cfg.Server.FrameInterval.Duration != 16*time.Millisecond {
		t.Errorf("frame interval = %v", cfg.Server.FrameInterval)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[canvas]
width = 800

[forces]
charge = -120
seed = 7

[cache]
backend = "redis"
ttl = "1h"

[cache.redis]
addr = "redis:6379"

[server]
addr = ":9000"
frame_interval = "33ms"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Canvas.Width != 800 {
		t.Errorf("width = %v", cfg.Canvas.Width)
	}
	if cfg.Canvas.Height != force.DefaultHeight {
		t.Errorf("height should keep default, got %v", cfg.Canvas.Height)
	}
	if cfg.Forces.Charge != -120 || cfg.Forces.Seed != 7 {
		t.Errorf("forces = %+v", cfg.Forces)
	}
	if cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Cache.Redis.Prefix != "reasongraph:" {
		t.Errorf("redis prefix should keep default, got %q", cfg.Cache.Redis.Prefix)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.FrameInterval.Duration != 33*time.Millisecond {
		t.Errorf("server = %+v", cfg.Server)
	}

	opts := cfg.CacheOptions()
	if opts.Backend != cache.BackendRedis || opts.Redis.Addr != "redis:6379" {
		t.Errorf("cache options = %+v", opts)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[canvas\nwidth = 1", "parse config"},
		{"bad duration", "[server]\nframe_interval = \"soon\"", "parse config"},
		{"backend", "[cache]\nbackend = \"memcached\"", "unknown cache backend"},
		{"decay", "[forces]\nvelocity_decay = 1.5", "velocity_decay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestForceOptions(t *testing.T) {
	cfg := Default()
	if opts := cfg.ForceOptions(); opts.Rand != nil {
		t.Error("zero seed should leave Rand unset")
	}
	cfg.Forces.Seed = 3
	a, b := cfg.ForceOptions(), cfg.ForceOptions()
	if a.Rand == nil || a.Rand.Uint64() != b.Rand.Uint64() {
		t.Error("same seed should give identical random sources")
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_CACHE_HOME", "/cache")

	if p, _ := Path(); p != filepath.Join("/cfg", "reasongraph", "config.toml") {
		t.Errorf("Path() = %q", p)
	}
	if p, _ := CacheDir(); p != filepath.Join("/cache", "reasongraph") {
		t.Errorf("CacheDir() = %q", p)
	}
}
