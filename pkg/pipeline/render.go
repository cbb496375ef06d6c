package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/graph"
	graphio "github.com/matzehuels/vesselgen/pkg/io"
	"github.com/matzehuels/vesselgen/pkg/observability"
	"github.com/matzehuels/vesselgen/pkg/render/nodelink"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

// Render generates output artifacts for g in the given formats. The json
// format is encoded without run information; use [Runner.Execute] for
// artifacts that carry the run id.
func Render(ctx context.Context, g *graph.Graph, root voxel.ID, formats []string, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	start := time.Now()
	artifacts, err := render(ctx, g, root, formats, opts)
	observability.Pipeline().OnRenderComplete(ctx, formats, time.Since(start), err)
	return artifacts, err
}

func render(ctx context.Context, g *graph.Graph, root voxel.ID, formats []string, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))

	var dot string
	if slices.ContainsFunc(formats, func(f string) bool { return f != FormatJSON }) {
		dot = nodelink.ToDOT(g, root, nodelink.Options{Detailed: opts.Detailed, Spatial: opts.Spatial})
	}

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			var buf bytes.Buffer
			err = graphio.WriteJSON(g, graphio.Meta{Root: root}, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// ArtifactName returns the file name an artifact is written to.
func ArtifactName(format string) string {
	if format == VoxelDumpName {
		return VoxelDumpName
	}
	return BaseName + "." + format
}

// WriteArtifacts writes every artifact of result into dir, creating it if
// needed, and returns the written paths in sorted order.
func WriteArtifacts(result *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", dir)
	}

	var paths []string
	for format, data := range result.Artifacts {
		path := filepath.Join(dir, ArtifactName(format))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths, nil
}
