// Package cli implements the tangle command-line interface.
//
// # Commands
//
//   - layout: compute the tangled-tree payload for an input document
//   - dot: draw the bundle graph as DOT, SVG, PDF or PNG for debugging
//   - serve: run the HTTP API
//   - cache: inspect and clear the payload cache
//
// Settings come from a TOML file (--config, default
// $XDG_CONFIG_HOME/tangle/config.toml when present) and are overridden by
// flags. All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tangle/pkg/buildinfo"
	"github.com/matzehuels/tangle/pkg/cache"
	"github.com/matzehuels/tangle/pkg/config"
	"github.com/matzehuels/tangle/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tangle"

	// configFile is the settings file name inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cacheSpec  string
	settings   config.File
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:   newLogger(w, level),
		settings: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Tangle lays out layered DAGs as tangled trees",
		Long: `Tangle computes tangled-tree layouts: layered drawings of directed acyclic
graphs where links that share the same parents are bundled into one trunk.

The layout payload is JSON geometry for an external renderer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadSettings()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default: $XDG_CONFIG_HOME/tangle/config.toml)")
	root.PersistentFlags().StringVar(&c.cacheSpec, "cache", "", "cache: directory, redis://, mongodb:// or none (default: "+displayCacheDir()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.dotCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Settings
// =============================================================================

// loadSettings reads the settings file. An explicit --config must exist; the
// default location is optional.
func (c *CLI) loadSettings() error {
	path := c.configPath
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(dir, configFile)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}

	settings, err := config.Load(path)
	if err != nil {
		return err
	}
	c.settings = settings
	c.Logger.Debug("loaded settings", "path", path)
	return nil
}

// pipelineOptions returns pipeline options seeded from the settings file.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Config: c.settings.Layout,
		Keys:   c.settings.Keys,
		Logger: c.Logger,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	spec := c.resolveCacheSpec(noCache)
	ch, err := cache.Open(ctx, spec)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened cache", "backend", cache.Describe(spec))

	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// resolveCacheSpec picks the cache by precedence: --no-cache, --cache, the
// settings file, then the default directory.
func (c *CLI) resolveCacheSpec(noCache bool) string {
	switch {
	case noCache:
		return cache.None
	case c.cacheSpec != "":
		return c.cacheSpec
	case c.settings.Cache != "":
		return c.settings.Cache
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.None
	}
	return dir
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tangle/).
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

// configDir returns the settings directory (~/.config/tangle/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func displayCacheDir() string {
	return filepath.Join("~", ".cache", appName)
}
