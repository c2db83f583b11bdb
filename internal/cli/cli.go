// Package cli implements the blueprint command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blueprint/pkg/buildinfo"
	"github.com/matzehuels/blueprint/pkg/cache"
	"github.com/matzehuels/blueprint/pkg/config"
	"github.com/matzehuels/blueprint/pkg/imageinfo"
	"github.com/matzehuels/blueprint/pkg/metadata"
	"github.com/matzehuels/blueprint/pkg/source"
	"github.com/matzehuels/blueprint/pkg/viewer"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "blueprint"
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

	// ConfigPath is the --config flag. Empty looks for blueprint.toml.
	ConfigPath string
	// Location overrides metadata.location when set (--metadata).
	Location string
	// NoCache disables the response and dimension caches (--no-cache).
	NoCache bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blueprint browses and compares construction drawings",
		Long:         `Blueprint serves a viewer for hierarchical construction drawings: buildings, disciplines, regions and revisions, with overlay comparison and manual calibration between drawings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	c.addPersistentFlags(root)

	// Register all subcommands
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.calibrateCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig reads the config file and applies flag overrides.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if c.Location != "" {
		cfg.Metadata.Location = c.Location
	}
	if c.NoCache {
		cfg.Cache.Disabled = true
	}
	return cfg, nil
}

// newCache opens the cache selected by cfg: Redis, a directory, or none.
func newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch {
	case cfg.Disabled:
		return cache.NewNullCache(), nil
	case cfg.RedisURL != "":
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	case cfg.Dir != "":
		return cache.NewFileCache(cfg.Dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// newKeyer returns the cache key builder for cfg, scoped when a prefix is set.
func newKeyer(cfg config.Cache) cache.Keyer {
	if cfg.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Prefix)
}

// newProber returns the image prober for cfg backed by c.
func newProber(cfg config.Config, c cache.Cache) *imageinfo.Prober {
	return imageinfo.NewProber(cfg.Assets.Dir,
		imageinfo.WithCache(c, cfg.Cache.TTL),
		imageinfo.WithKeyer(newKeyer(cfg.Cache)),
	)
}

// openSource builds the metadata source for cfg.
func openSource(cfg config.Config, c cache.Cache, refresh bool) (source.Source, error) {
	return source.Open(cfg.Metadata.Location, source.Options{
		Cache:      c,
		Keyer:      newKeyer(cfg.Cache),
		CacheTTL:   cfg.Cache.TTL,
		Refresh:    refresh,
		Headers:    cfg.Metadata.Headers,
		Database:   cfg.Metadata.Database,
		Collection: cfg.Metadata.Collection,
		DocumentID: cfg.Metadata.DocumentID,
	})
}

// env bundles what the offline commands need.
type env struct {
	cfg    config.Config
	cache  cache.Cache
	meta   *metadata.Metadata
	prober *imageinfo.Prober
}

func (e *env) Close() error { return e.cache.Close() }

// viewerOptions returns viewer options that size images with the prober.
func (e *env) viewerOptions() viewer.Options {
	return viewer.Options{
		Anchor:      e.cfg.Anchor,
		AssetPrefix: e.cfg.Assets.Prefix,
		Sizes:       e.prober,
	}
}

// loadEnv loads config, cache and metadata for a one-shot command. With
// probe set, image sizes are read before returning.
func (c *CLI) loadEnv(ctx context.Context, probe bool) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cc, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	src, err := openSource(cfg, cc, false)
	if err != nil {
		cc.Close()
		return nil, err
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Loading "+src.String())
	spinner.Start()
	m, err := source.Load(ctx, src)
	spinner.Stop()
	if err != nil {
		cc.Close()
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	prog.loaded(m.Drawings.Len(), len(m.Images()), src.String())

	e := &env{
		cfg:    cfg,
		cache:  cc,
		meta:   m,
		prober: newProber(cfg, cc),
	}
	if probe {
		names := m.Images()
		prog := newProgress(c.Logger)
		failed, err := e.prober.Warm(ctx, names, cfg.Assets.ProbeConcurrency)
		if err != nil {
			e.Close()
			return nil, err
		}
		prog.measured(len(names), len(failed))
		if len(failed) > 0 {
			c.Logger.Debug("image sizes unknown", "count", len(failed), "images", failed)
		}
	}
	return e, nil
}
