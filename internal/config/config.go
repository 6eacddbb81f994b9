// Package config loads the reasongraph configuration file.
//
// The file is TOML and every key is optional:
//
//	[canvas]
//	width = 600
//	height = 400
//
//	[forces]
//	link_distance = 100
//	charge = -300
//	seed = 42            # 0 picks a random seed per run
//
//	[cache]
//	backend = "redis"    # file, redis or none
//	ttl = "168h"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	frame_interval = "16ms"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/reasongraph/pkg/cache"
	"github.com/matzehuels/reasongraph/pkg/force"
)

// AppName names the configuration and cache directories.
const AppName = "reasongraph"

// Config is the decoded configuration file.
type Config struct {
	Canvas Canvas `toml:"canvas"`
	Forces Forces `toml:"forces"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
}

type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Radius float64 `toml:"radius"`
}

type Forces struct {
	LinkDistance  float64 `toml:"link_distance"`
	Charge        float64 `toml:"charge"`
	VelocityDecay float64 `toml:"velocity_decay"`
	AlphaMin      float64 `toml:"alpha_min"`
	NoBounds      bool    `toml:"no_bounds"`
	Seed          uint64  `toml:"seed"`
}

type Cache struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Redis   Redis    `toml:"redis"`
}

type Redis struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type Server struct {
	Addr          string   `toml:"addr"`
	FrameInterval Duration `toml:"frame_interval"`
}

// Duration decodes TOML strings such as "16ms" or "168h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Canvas: Canvas{
			Width:  force.DefaultWidth,
			Height: force.DefaultHeight,
			Radius: force.DefaultRadius,
		},
		Forces: Forces{
			LinkDistance:  force.DefaultLinkDistance,
			Charge:        force.DefaultCharge,
			VelocityDecay: force.DefaultVelocityDecay,
			AlphaMin:      force.DefaultAlphaMin,
		},
		Cache: Cache{
			Backend: cache.BackendFile,
			TTL:     Duration{cache.DefaultTTL},
			Redis:   Redis{Addr: "localhost:6379", Prefix: AppName + ":"},
		},
		Server: Server{
			Addr:          "127.0.0.1:8080",
			FrameInterval: Duration{16 * time.Millisecond},
		},
	}
}

// Load reads path on top of [Default]. An empty path reads the file at
// [Path] and tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values no component can work with.
func (c Config) Validate() error {
	var errs []error
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		errs = append(errs, errors.New("canvas size must not be negative"))
	}
	if c.Forces.VelocityDecay < 0 || c.Forces.VelocityDecay >= 1 {
		errs = append(errs, fmt.Errorf("velocity_decay %v outside [0, 1)", c.Forces.VelocityDecay))
	}
	switch c.Cache.Backend {
	case "", cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}
	if c.Server.FrameInterval.Duration < 0 {
		errs = append(errs, errors.New("frame_interval must not be negative"))
	}
	return errors.Join(errs...)
}

// ForceOptions converts the canvas and forces sections into simulation
// options. A zero seed leaves the random source unset.
func (c Config) ForceOptions() force.Options {
	opts := force.Options{
		Width:         c.Canvas.Width,
		Height:        c.Canvas.Height,
		Radius:        c.Canvas.Radius,
		LinkDistance:  c.Forces.LinkDistance,
		Charge:        c.Forces.Charge,
		VelocityDecay: c.Forces.VelocityDecay,
		AlphaMin:      c.Forces.AlphaMin,
		NoBounds:      c.Forces.NoBounds,
	}
	if c.Forces.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.Forces.Seed, c.Forces.Seed))
	}
	return opts
}

// CacheOptions converts the cache section, filling the directory from
// [CacheDir] when unset.
func (c Config) CacheOptions() cache.Options {
	dir := c.Cache.Dir
	if dir == "" {
		dir, _ = CacheDir()
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisConfig{
			Addr:     c.Cache.Redis.Addr,
			Password: c.Cache.Redis.Password,
			DB:       c.Cache.Redis.DB,
			Prefix:   c.Cache.Redis.Prefix,
		},
	}
}

// Path returns the configuration file location using XDG
// (~/.config/reasongraph/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG (~/.cache/reasongraph/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
