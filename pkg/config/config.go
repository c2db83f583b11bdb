// Package config holds the blueprint configuration.
//
// Configuration is a TOML file decoded on top of [Default]. Every key is
// optional; keys the file does not set keep their default. Unknown keys are
// rejected so typos surface at startup.
//
//	[server]
//	addr = ":8080"
//
//	[metadata]
//	location = "https://drawings.example.com/metadata.json"
//
//	[assets]
//	dir = "data/drawings"
//
//	[anchor]
//	x = 2481
//	y = 1754
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	prefix = "riverside:"
//	ttl = "24h"
//
//	[session]
//	ttl = "2h"
//
// Durations are strings accepted by [time.ParseDuration].
package config

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/blueprint/pkg/errors"
	"github.com/matzehuels/blueprint/pkg/imageinfo"
	"github.com/matzehuels/blueprint/pkg/overlay"
	"github.com/matzehuels/blueprint/pkg/session"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

const (
	appName = "blueprint"

	// FileName is the config file looked up in the working directory when
	// no path is given.
	FileName = "blueprint.toml"
)

// Config is the complete configuration.
type Config struct {
	Server   Server         `toml:"server"`
	Metadata Metadata       `toml:"metadata"`
	Assets   Assets         `toml:"assets"`
	Anchor   overlay.Anchor `toml:"anchor"`
	Cache    Cache          `toml:"cache"`
	Session  Session        `toml:"session"`
}

// Server configures the HTTP server.
type Server struct {
	Addr              string        `toml:"addr"`
	ReadHeaderTimeout time.Duration `toml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `toml:"shutdown_timeout"`
}

// Metadata locates the metadata document.
type Metadata struct {
	// Location is a file path, an http(s) URL or a mongodb URI.
	Location string `toml:"location"`
	// Timeout bounds the initial load.
	Timeout time.Duration     `toml:"timeout"`
	Headers map[string]string `toml:"headers"`

	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	DocumentID string `toml:"document_id"`
}

// Assets configures the drawing image directory.
type Assets struct {
	Dir string `toml:"dir"`
	// Prefix is the URL path images are served under.
	Prefix           string `toml:"prefix"`
	ProbeConcurrency int    `toml:"probe_concurrency"`
}

// Cache configures the response and dimension cache. RedisURL wins over
// Dir; with Disabled set neither is used. Prefix scopes every key, for
// deployments sharing one Redis instance.
type Cache struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`
}

// Session configures viewer sessions.
type Session struct {
	TTL             time.Duration `toml:"ttl"`
	CleanupInterval time.Duration `toml:"cleanup_interval"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{
			Addr:              ":8080",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Metadata: Metadata{
			Location:   "data/metadata.json",
			Timeout:    30 * time.Second,
			Database:   appName,
			Collection: "metadata",
		},
		Assets: Assets{
			Dir:              "data/drawings",
			Prefix:           viewer.DefaultAssetPrefix,
			ProbeConcurrency: imageinfo.DefaultConcurrency,
		},
		Anchor: overlay.DefaultAnchor,
		Cache: Cache{
			Dir: DefaultCacheDir(),
			TTL: 24 * time.Hour,
		},
		Session: Session{
			TTL:             session.DefaultTTL,
			CleanupInterval: time.Minute,
		},
	}
}

// Load reads the config file at path on top of the defaults. An empty path
// loads FileName from the working directory if it exists and the defaults
// otherwise.
func Load(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(FileName); err != nil {
			return Default(), nil
		}
		path = FileName
	}
	if err := apperrors.ValidatePath(path); err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML data on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
	if err != nil {
		return Config{}, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, apperrors.New(apperrors.ErrCodeInvalidConfig, format, args...))
	}

	if c.Server.Addr == "" {
		invalid("server.addr is empty")
	}
	if c.Metadata.Location == "" {
		invalid("metadata.location is empty")
	}
	if c.Assets.Dir == "" {
		invalid("assets.dir is empty")
	}
	if !strings.HasPrefix(c.Assets.Prefix, "/") || !strings.HasSuffix(c.Assets.Prefix, "/") {
		invalid("assets.prefix %q must start and end with /", c.Assets.Prefix)
	}
	if c.Assets.ProbeConcurrency < 1 {
		invalid("assets.probe_concurrency must be at least 1")
	}
	if !finite(c.Anchor.X) || !finite(c.Anchor.Y) {
		invalid("anchor must be finite")
	}
	if c.Cache.TTL < 0 {
		invalid("cache.ttl must not be negative")
	}
	if c.Session.TTL <= 0 {
		invalid("session.ttl must be positive")
	}
	if c.Session.CleanupInterval <= 0 {
		invalid("session.cleanup_interval must be positive")
	}
	return errors.Join(errs...)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode config")
	}
	return nil
}
