// Package config loads tangle settings from TOML files.
//
// A settings file overrides any subset of the defaults:
//
//	cache = "redis://localhost:6379/0"
//
//	[layout]
//	node_width = 180
//	link_radius = 12
//
//	[keys]
//	entity_id = "uid"
//
//	[server]
//	addr = ":9090"
//
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
package config

import (
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tangle/pkg/errors"
	"github.com/matzehuels/tangle/pkg/tangle"
)

// Defaults for the HTTP server.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 8 << 20
	DefaultCacheTTL     = 24 * time.Hour
)

// File is the decoded settings file.
type File struct {
	// Cache selects the payload cache: "none", a directory, a redis:// URL or
	// a mongodb:// URL. Empty means the CLI default.
	Cache string `toml:"cache"`

	Layout tangle.Config `toml:"layout"`
	Keys   tangle.Keys   `toml:"keys"`
	Server Server        `toml:"server"`
}

// Server configures `tangle serve`.
type Server struct {
	Addr         string   `toml:"addr"`
	MaxBodyBytes int64    `toml:"max_body_bytes"`
	CacheTTL     Duration `toml:"cache_ttl"`
	// KeyPrefix namespaces cache keys so several deployments can share one
	// redis or mongodb cache.
	KeyPrefix string `toml:"key_prefix"`
}

// Duration decodes TOML strings such as "90m" or "24h".
type Duration struct{ time.Duration }

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

// Default returns the settings used when no file is given.
func Default() File {
	return File{
		Layout: tangle.DefaultConfig(),
		Keys:   tangle.DefaultKeys(),
		Server: Server{
			Addr:         DefaultAddr,
			MaxBodyBytes: DefaultMaxBodyBytes,
			CacheTTL:     Duration{DefaultCacheTTL},
		},
	}
}

// Load reads a settings file on top of [Default].
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes settings on top of [Default] and validates the result.
func Parse(data []byte) (File, error) {
	f := Default()
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return File{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return File{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks every section.
func (f File) Validate() error {
	if err := f.Layout.Validate(); err != nil {
		return err
	}
	if err := f.Keys.Validate(); err != nil {
		return err
	}
	if f.Server.MaxBodyBytes <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_bytes must be positive")
	}
	if f.Server.CacheTTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache_ttl must not be negative")
	}
	return nil
}
