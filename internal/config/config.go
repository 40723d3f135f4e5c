// Package config loads service configuration from a TOML file with
// environment overrides.
//
// The serve command reads clipper.toml (or the file named by --config),
// then applies CLIPPER_LISTEN and CLIPPER_STORE_URL from the environment
// so deployments can override the listen address and store connection
// without editing the file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/clipperviz/clipper/pkg/render"
	"github.com/clipperviz/clipper/pkg/store"
)

// DefaultPath is the file the serve command looks for when --config is unset.
const DefaultPath = "clipper.toml"

// Environment variables recognized by Load.
const (
	EnvListen   = "CLIPPER_LISTEN"
	EnvStoreURL = "CLIPPER_STORE_URL"
)

// Duration wraps time.Duration so TOML values like "30s" parse directly.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full service configuration tree.
type Config struct {
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Listen          string   `toml:"listen"`
	ReadTimeout     Duration `toml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

// RenderConfig controls the render pipeline.
type RenderConfig struct {
	Timeout Duration `toml:"timeout"`
}

// CacheConfig controls the in-memory artifact cache.
type CacheConfig struct {
	MaxBytes int64    `toml:"max_bytes"`
	TTL      Duration `toml:"ttl"`
}

// StoreConfig selects and parameterizes the backing artifact store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Path     string `toml:"path"`
	URL      string `toml:"url"`
	Database string `toml:"database"`
	Prefix   string `toml:"prefix"`
}

// LogConfig controls server logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:          ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Render: RenderConfig{
			Timeout: Duration(render.DefaultRenderTimeout),
		},
		Cache: CacheConfig{
			MaxBytes: render.DefaultMaxBytes,
			TTL:      Duration(render.DefaultStoreTTL),
		},
		Store: StoreConfig{
			Backend: store.BackendNull,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is non-empty), and environment overrides, in that order. The result
// is validated before it is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvListen); v != "" {
		cfg.Server.Listen = v
	}
	if v := os.Getenv(EnvStoreURL); v != "" {
		cfg.Store.URL = v
	}
}

// Validate checks enum fields and required values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("server.listen cannot be empty")
	}
	if c.Cache.MaxBytes <= 0 {
		return fmt.Errorf("cache.max_bytes must be positive, got %d", c.Cache.MaxBytes)
	}
	if c.Render.Timeout <= 0 {
		return fmt.Errorf("render.timeout must be positive, got %s", c.Render.Timeout.Std())
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendSQLite,
		store.BackendRedis, store.BackendMongo, store.BackendNull, "":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// LogLevel returns the parsed log level. Validate must have accepted the
// configuration first.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// StoreConfig maps the [store] section onto the store package's Config.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:  c.Store.Backend,
		Path:     c.Store.Path,
		URL:      c.Store.URL,
		Database: c.Store.Database,
		Prefix:   c.Store.Prefix,
	}
}

// CacheConfig maps the [cache] and [render] sections onto the render
// package's cache configuration. The store and logger are supplied by the
// caller because they are runtime objects, not file values.
func (c Config) CacheConfig(s store.Store, logger *log.Logger) render.CacheConfig {
	return render.CacheConfig{
		MaxBytes:      c.Cache.MaxBytes,
		RenderTimeout: c.Render.Timeout.Std(),
		TTL:           c.Cache.TTL.Std(),
		Store:         s,
		Logger:        logger,
	}
}
