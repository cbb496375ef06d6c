package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vesselgen/pkg/cache"
	pkgio "github.com/matzehuels/vesselgen/pkg/io"
	"github.com/matzehuels/vesselgen/pkg/pipeline"
)

// renderCommand creates the render command for re-rendering a saved network.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "render [network.json]",
		Short: "Render a saved vessel network",
		Long: `Render a saved vessel network.

The render command takes a network JSON file (produced by 'generate') and
renders it to DOT, SVG or PNG. The network is not regenerated, so the
output matches the saved run exactly.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := opts.ApplyEnv(os.Getenv); err != nil {
				return err
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", opts.Output, "output directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "label nodes with depth and flow")
	cmd.Flags().BoolVar(&opts.Spatial, "spatial", false, "lay out nodes at their voxel positions")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the network and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options) error {
	g, meta, err := pkgio.ImportJSON(input)
	if err != nil {
		return fmt.Errorf("load network %s: %w", input, err)
	}
	// Re-encoding yields the same bytes generate wrote, so the artifact keys
	// match the ones cached by generate.
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(g, meta, &buf); err != nil {
		return err
	}
	data := buf.Bytes()

	runner, err := c.newRunner(opts)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d nodes...", g.NodeCount()))
	spinner.Start()

	artifacts, err := runner.RenderWithCache(ctx, g, cache.Hash(data), data, meta.Root, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Update("Writing artifacts...")

	paths, err := pipeline.WriteArtifacts(&pipeline.Result{Artifacts: artifacts}, opts.Output)
	if err != nil {
		spinner.StopWithError("Writing artifacts failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", input))
	prog.done("Rendered network", "formats", opts.Formats)

	printStats(g.NodeCount(), g.EdgeCount(), false)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
