package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/vesselgen/pkg/observability"
	"github.com/matzehuels/vesselgen/pkg/observability/prom"
	"github.com/matzehuels/vesselgen/pkg/pipeline"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// generateCommand creates the generate command, which runs the full
// volume → network → artifacts pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		configPath  string
		formatsStr  string
		metricsFile string
	)
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Synthesize a vessel tree inside a voxel volume",
		Long: `Synthesize a vessel tree inside a voxel volume.

The volume comes from a JSON file (--volume) or a built-in shape (--shape,
--size). Every occupied voxel becomes a node; the tree is rooted at the
deepest voxel, or the one nearest --root-at, and flow is the number of
descendants of each node.

Settings may also come from a TOML or YAML control file (--config) and from
VESSELGEN_* environment variables. Flags given on the command line override
both, and the environment overrides the file.

Networks and rendered artifacts are cached locally; use --refresh to
regenerate or --no-cache to bypass the cache entirely.`,
		Example: `  vesselgen generate --shape torus --size 32 -f json,svg
  vesselgen generate --volume lung.json --root-at 12,40,8 -o out/
  vesselgen generate --config run.toml --dump-voxels`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := resolveOptions(cmd, configPath, opts, os.Getenv)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") || configPath == "" {
				run.Formats = parseFormats(formatsStr)
			}
			return c.runGenerate(cmd.Context(), run, metricsFile)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "TOML or YAML control file")

	// Input
	f.StringVar(&opts.Volume, "volume", "", "JSON volume file (overrides --shape)")
	f.StringVar(&opts.Shape, "shape", opts.Shape, "built-in shape: "+strings.Join(voxel.Shapes(), ", "))
	f.IntVar(&opts.Size, "size", opts.Size, "edge length of the built-in shape in voxels")

	// Synthesis
	f.Float64SliceVar(&opts.RootAt, "root-at", nil, "root the tree at the voxel nearest x,y,z")
	f.Float64Var(&opts.PositionRandomness, "position-randomness", opts.PositionRandomness, "max node offset from the voxel centre")
	f.Float64Var(&opts.Jitter, "jitter", opts.Jitter, "max additive noise on each squared shell distance")
	f.IntVar(&opts.Workers, "workers", 0, "distance field workers (0 = all CPUs)")
	f.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")

	// Post-processing
	f.IntVar(&opts.Prune, "prune", opts.Prune, "leaf-stripping rounds")
	f.Float64Var(&opts.PruneFlow, "prune-flow", 0, "remove nodes with flow below this value")
	f.Float64Var(&opts.Relax, "relax", opts.Relax, "neighbour smoothing factor in [0, 1]")

	// Output
	f.StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	f.StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	f.BoolVar(&opts.DumpVoxels, "dump-voxels", false, "also write the per-voxel depth field as "+pipeline.VoxelDumpName)
	f.BoolVar(&opts.Detailed, "detailed", false, "label nodes with depth and flow")
	f.BoolVar(&opts.Spatial, "spatial", false, "lay out nodes at their voxel positions")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics for this run to a textfile")

	// Cache
	f.StringVar(&opts.CacheDir, "cache-dir", "", "cache directory (default ~/.cache/vesselgen)")
	f.BoolVar(&opts.NoCache, "no-cache", false, "disable caching")
	f.BoolVar(&opts.Refresh, "refresh", false, "ignore cached results and regenerate")
	f.StringVar(&opts.CacheScope, "cache-scope", "", "prefix for cache keys, to keep projects apart in one cache")

	return cmd
}

// resolveOptions layers the settings of one generate run: defaults, then the
// control file, then the environment, then explicitly set flags.
func resolveOptions(cmd *cobra.Command, configPath string, flags pipeline.Options, getenv func(string) string) (pipeline.Options, error) {
	base := pipeline.DefaultOptions()
	if configPath != "" {
		loaded, err := pipeline.LoadOptions(configPath)
		if err != nil {
			return base, err
		}
		base = loaded
	}
	if err := base.ApplyEnv(getenv); err != nil {
		return base, err
	}
	return mergeFlags(cmd, base, flags), nil
}

// mergeFlags copies every explicitly set flag from flags onto loaded, so the
// command line overrides the control file.
func mergeFlags(cmd *cobra.Command, loaded, flags pipeline.Options) pipeline.Options {
	changed := cmd.Flags().Changed
	set := func(name string, apply func()) {
		if changed(name) {
			apply()
		}
	}
	set("volume", func() { loaded.Volume = flags.Volume })
	set("shape", func() { loaded.Shape = flags.Shape; loaded.Volume = flags.Volume })
	set("size", func() { loaded.Size = flags.Size })
	set("root-at", func() { loaded.RootAt = flags.RootAt })
	set("position-randomness", func() { loaded.PositionRandomness = flags.PositionRandomness })
	set("jitter", func() { loaded.Jitter = flags.Jitter })
	set("workers", func() { loaded.Workers = flags.Workers })
	set("seed", func() { loaded.Seed = flags.Seed })
	set("prune", func() { loaded.Prune = flags.Prune })
	set("prune-flow", func() { loaded.PruneFlow = flags.PruneFlow })
	set("relax", func() { loaded.Relax = flags.Relax })
	set("output", func() { loaded.Output = flags.Output })
	set("dump-voxels", func() { loaded.DumpVoxels = flags.DumpVoxels })
	set("detailed", func() { loaded.Detailed = flags.Detailed })
	set("spatial", func() { loaded.Spatial = flags.Spatial })
	set("cache-dir", func() { loaded.CacheDir = flags.CacheDir })
	set("no-cache", func() { loaded.NoCache = flags.NoCache })
	set("refresh", func() { loaded.Refresh = flags.Refresh })
	set("cache-scope", func() { loaded.CacheScope = flags.CacheScope })
	return loaded
}

// runGenerate executes the pipeline and writes its artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, metricsFile string) error {
	var reg *prometheus.Registry
	if metricsFile != "" {
		reg = prometheus.NewRegistry()
		m := prom.New(reg)
		observability.SetPipelineHooks(m)
		observability.SetCacheHooks(m)
		defer observability.Reset()
	}

	runner, err := c.newRunner(opts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating vessels in %s...", opts.Describe()))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			printWarning("Generation interrupted")
			return err
		}
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Update(fmt.Sprintf("Writing %d artifacts to %s...", len(result.Artifacts), opts.Output))

	paths, err := pipeline.WriteArtifacts(result, opts.Output)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Wrote artifacts", "count", len(paths))

	printSuccess("Generated vessel network")
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheHit)
	printKeyValue("input", opts.Describe())
	printKeyValue("run", result.RunID)
	if !result.CacheHit {
		printKeyValue("pruned", fmt.Sprintf("%d nodes", result.Stats.Prune.Removed()))
	}
	if !result.Graph.HasNode(result.Root) {
		printWarning("Pruning removed the root node")
	}
	for _, p := range paths {
		printFile(p)
	}

	if reg != nil {
		if err := prom.WriteTextfile(metricsFile, reg); err != nil {
			return err
		}
		printDetail("Metrics: %s", metricsFile)
	}
	return nil
}
