package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklayout/pkg/buildinfo"
	"github.com/matzehuels/stacklayout/pkg/cache"
	"github.com/matzehuels/stacklayout/pkg/config"
	"github.com/matzehuels/stacklayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "stacklayout"

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

	// Out receives command output; Err receives progress indicators.
	Out io.Writer
	Err io.Writer

	// ConfigPath is the --config flag. Empty means config.DefaultPath().
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Out:        os.Stdout,
		Err:        w,
		ConfigPath: config.DefaultPath(),
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
		Short: "Stacklayout computes coordinates for graphs and regions",
		Long: `Stacklayout is a CLI tool for laying out directed graphs with force-directed,
tree and GraphViz algorithms, and for resolving rectangular regions inside a
parent frame.`,
		Version:      buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "config file (.toml, .yaml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.regionCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// config loads the configuration on first use.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.ConfigPath, "algorithm", cfg.Layout.Algorithm, "cache", cfg.Cache.Backend)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cfg, c.openCache(ctx, cfg, noCache), nil, c.Logger), nil
}

// openCache opens the configured backend. An unreachable backend degrades
// to no caching instead of failing the command.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	cc, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without it", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return cc
}
