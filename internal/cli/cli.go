// Package cli implements the vesselgen command-line interface.
//
// This package provides commands for synthesizing vessel networks from
// voxel volumes, re-rendering saved networks and managing the local result
// cache. The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Synthesize a vessel tree from a volume file or built-in shape
//   - render: Render a saved network JSON to DOT, SVG or PNG
//   - cache: Manage the result cache
//   - completion: Generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vesselgen/pkg/buildinfo"
	"github.com/matzehuels/vesselgen/pkg/cache"
	"github.com/matzehuels/vesselgen/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "vesselgen"

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
		Short:        "Vesselgen grows vessel trees inside voxel volumes",
		Long:         `Vesselgen is a CLI tool that synthesizes a branching vessel network filling a voxelized 3D shape, with flow and radius derived from the tree topology.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. opts.CacheDir overrides
// the default cache directory and a non-empty opts.CacheScope prefixes every
// cache key.
func (c *CLI) newRunner(opts pipeline.Options) (*pipeline.Runner, error) {
	store, err := newCache(opts.NoCache, opts.CacheDir)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if opts.CacheScope != "" {
		keyer = cache.NewScopedKeyer(nil, opts.CacheScope+":")
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func newCache(noCache bool, dir string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory. VESSELGEN_CACHE_DIR wins, then the
// XDG standard (~/.cache/vesselgen/).
func cacheDir() (string, error) {
	if dir := os.Getenv(pipeline.EnvCacheDir); dir != "" {
		return dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
