package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vesselgen/pkg/cache"
	"github.com/matzehuels/vesselgen/pkg/errors"
	graphio "github.com/matzehuels/vesselgen/pkg/io"
	"github.com/matzehuels/vesselgen/pkg/voxel"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	err := ValidateFormats([]string{"svg", "invalid"})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("ValidateFormats(invalid) = %v, want %v", err, errors.ErrCodeInvalidConfig)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()

	if opts.Shape != DefaultShape {
		t.Errorf("Shape = %q, want %q", opts.Shape, DefaultShape)
	}
	if opts.Size != DefaultSize {
		t.Errorf("Size = %d, want %d", opts.Size, DefaultSize)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
	// Zero post-processing stays zero.
	if opts.Prune != 0 || opts.Relax != 0 || opts.Jitter != 0 || opts.Seed != 0 {
		t.Errorf("SetDefaults() changed meaningful zeros: %+v", opts)
	}

	withVolume := Options{Volume: "v.json"}
	withVolume.SetDefaults()
	if withVolume.Shape != "" {
		t.Errorf("Shape = %q, want empty when a volume is set", withVolume.Shape)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   errors.Code
	}{
		{"defaults", func(*Options) {}, ""},
		{"volume overrides shape", func(o *Options) { o.Volume = "in.json"; o.Shape = "blob" }, ""},
		{"unknown shape", func(o *Options) { o.Shape = "blob" }, errors.ErrCodeInvalidConfig},
		{"negative size", func(o *Options) { o.Size = -1 }, errors.ErrCodeInvalidConfig},
		{"short root", func(o *Options) { o.RootAt = []float64{1, 2} }, errors.ErrCodeInvalidConfig},
		{"negative jitter", func(o *Options) { o.Jitter = -0.1 }, errors.ErrCodeInvalidConfig},
		{"negative randomness", func(o *Options) { o.PositionRandomness = -1 }, errors.ErrCodeInvalidConfig},
		{"relax above one", func(o *Options) { o.Relax = 1.5 }, errors.ErrCodeInvalidConfig},
		{"negative prune", func(o *Options) { o.Prune = -1 }, errors.ErrCodeInvalidConfig},
		{"negative workers", func(o *Options) { o.Workers = -2 }, errors.ErrCodeInvalidConfig},
		{"bad format", func(o *Options) { o.Formats = []string{"gif"} }, errors.ErrCodeInvalidConfig},
		{"control character", func(o *Options) { o.Volume = "in\x00.json" }, errors.ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.modify(&opts)
			err := opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.ValidateAndSetDefaults())
	first := opts.NetworkKeyOpts()
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.Equal(t, first, opts.NetworkKeyOpts())
}

func TestOptionsAnchor(t *testing.T) {
	opts := DefaultOptions()
	if opts.Anchor() != nil {
		t.Errorf("Anchor() = %v, want nil", opts.Anchor())
	}
	opts.RootAt = []float64{1, 2, 3}
	want := voxel.Vec3{X: 1, Y: 2, Z: 3}
	if got := opts.Anchor(); got == nil || *got != want {
		t.Errorf("Anchor() = %v, want %v", got, want)
	}
	if p := opts.Params("run"); p.Anchor == nil || *p.Anchor != want || p.RunID != "run" {
		t.Errorf("Params() = %+v", p)
	}
}

func TestOptionsDescribe(t *testing.T) {
	opts := DefaultOptions()
	if got := opts.Describe(); got != "sphere(24)" {
		t.Errorf("Describe() = %q, want %q", got, "sphere(24)")
	}
	opts.Volume = "lung.json"
	if got := opts.Describe(); got != "lung.json" {
		t.Errorf("Describe() = %q, want %q", got, "lung.json")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadOptionsTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.toml", `
volume = "data/vol.json"
root_at = [1.0, 2.0, 3.0]
jitter = 0.0
seed = 7
prune = 1
formats = ["json", "svg"]
`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "data", "vol.json"), opts.Volume)
	require.Equal(t, []float64{1, 2, 3}, opts.RootAt)
	require.Equal(t, 0.0, opts.Jitter)
	require.Equal(t, uint64(7), opts.Seed)
	require.Equal(t, 1, opts.Prune)
	require.Equal(t, []string{"json", "svg"}, opts.Formats)
	require.Equal(t, dir, opts.Output)
	// Untouched keys keep their defaults.
	require.Equal(t, DefaultSize, opts.Size)
}

func TestLoadOptionsYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "run.yaml", `
shape: torus
size: 16
relax: 0.25
output: /tmp/vessels
dump_voxels: true
`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, "torus", opts.Shape)
	require.Equal(t, 16, opts.Size)
	require.Equal(t, 0.25, opts.Relax)
	require.Equal(t, "/tmp/vessels", opts.Output)
	require.True(t, opts.DumpVoxels)
	require.NoError(t, opts.ValidateAndSetDefaults())
}

func TestLoadOptionsEmpty(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"empty.yaml", "comment.yml", "comment.toml"} {
		t.Run(name, func(t *testing.T) {
			content := "# only a comment\n"
			if name == "empty.yaml" {
				content = ""
			}
			opts, err := LoadOptions(writeFile(t, dir, name, content))
			require.NoError(t, err)
			require.Equal(t, DefaultShape, opts.Shape)
			require.Equal(t, DefaultSeed, opts.Seed)
		})
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(dir, "nope.toml"), errors.ErrCodeFileNotFound},
		{"unknown toml key", writeFile(t, dir, "a.toml", "colour = \"red\"\n"), errors.ErrCodeInvalidConfig},
		{"unknown yaml key", writeFile(t, dir, "b.yml", "colour: red\n"), errors.ErrCodeInvalidConfig},
		{"bad syntax", writeFile(t, dir, "c.toml", "size = = 3\n"), errors.ErrCodeInvalidConfig},
		{"bad extension", writeFile(t, dir, "d.ini", "size=3\n"), errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadOptions(tt.path)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("LoadOptions() code = %q (%v), want %q", got, err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{EnvWorkers: "3", EnvCacheDir: "/var/cache/v", EnvCacheScope: "lab"}
	opts := DefaultOptions()
	require.NoError(t, opts.ApplyEnv(func(k string) string { return env[k] }))
	require.Equal(t, 3, opts.Workers)
	require.Equal(t, "/var/cache/v", opts.CacheDir)
	require.Equal(t, "lab", opts.CacheScope)

	env[EnvWorkers] = "many"
	err := opts.ApplyEnv(func(k string) string { return env[k] })
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "ApplyEnv() = %v", err)
}

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Shape = voxel.ShapeSphere
	opts.Size = 8
	opts.Formats = []string{FormatJSON, FormatDOT}
	return opts
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	first, err := runner.Execute(ctx, smallOptions())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.NotEmpty(t, first.RunID)
	require.Positive(t, first.Stats.NodeCount)
	require.Equal(t, first.Stats.NodeCount-1, first.Stats.EdgeCount)
	require.Contains(t, first.Artifacts, FormatJSON)
	require.True(t, strings.HasPrefix(string(first.Artifacts[FormatDOT]), "digraph"))

	g, meta, err := graphio.ReadJSON(strings.NewReader(string(first.Artifacts[FormatJSON])))
	require.NoError(t, err)
	require.Equal(t, first.RunID, meta.RunID)
	require.Equal(t, first.Graph.NodeCount(), g.NodeCount())

	second, err := runner.Execute(ctx, smallOptions())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, first.RunID, second.RunID)
	require.Equal(t, first.NetworkHash, second.NetworkHash)
	require.Equal(t, first.Artifacts, second.Artifacts)

	refresh := smallOptions()
	refresh.Refresh = true
	third, err := runner.Execute(ctx, refresh)
	require.NoError(t, err)
	require.False(t, third.CacheHit)
	require.NotEqual(t, first.RunID, third.RunID)
	// Same seed, same network apart from the run id.
	require.Equal(t, first.Stats.NodeCount, third.Stats.NodeCount)
}

func TestExecuteOptionsChangeKey(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	_, err = runner.Execute(ctx, smallOptions())
	require.NoError(t, err)

	opts := smallOptions()
	opts.Seed = 9
	res, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	require.False(t, res.CacheHit)
}

func TestExecuteSeedZero(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	_, err = runner.Execute(ctx, smallOptions())
	require.NoError(t, err)

	opts := smallOptions()
	opts.Seed = 0
	require.NoError(t, opts.ValidateAndSetDefaults())
	require.Zero(t, opts.Seed)

	res, err := runner.Execute(ctx, opts)
	require.NoError(t, err)
	require.False(t, res.CacheHit, "seed 0 must not reuse the seed 42 network")
}

func TestExecuteNoCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	runner := NewRunner(fc, nil, nil)

	opts := smallOptions()
	opts.NoCache = true
	_, err = runner.Execute(ctx, opts)
	require.NoError(t, err)

	res, err := runner.Execute(ctx, smallOptions())
	require.NoError(t, err)
	require.False(t, res.CacheHit)
}

func TestExecuteDumpVoxels(t *testing.T) {
	opts := smallOptions()
	opts.DumpVoxels = true
	opts.Prune = 0

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NoError(t, err)

	dump := string(res.Artifacts[VoxelDumpName])
	lines := strings.Split(strings.TrimSpace(dump), "\n")
	require.Equal(t, "x,y,z,depth", lines[0])
	require.Equal(t, res.Stats.Generate.Voxels, len(lines)-1)
}

func TestExecuteVolumeFile(t *testing.T) {
	dir := t.TempDir()
	vol, err := voxel.Box(3, 2, 2)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, graphio.WriteVolume(vol, &buf))
	path := writeFile(t, dir, "box.json", buf.String())

	opts := DefaultOptions()
	opts.Volume = path
	opts.Prune = 0
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 12, res.Stats.NodeCount)

	opts.Volume = filepath.Join(dir, "missing.json")
	_, err = NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	require.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "Execute() = %v", err)
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, nil).Execute(ctx, smallOptions())
	require.True(t, errors.Is(err, errors.ErrCodeCancelled), "Execute() = %v", err)
}

func TestWriteArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	result := &Result{Artifacts: map[string][]byte{
		FormatJSON:    []byte("{}"),
		FormatDOT:     []byte("digraph {}"),
		VoxelDumpName: []byte("x,y,z,depth\n"),
	}}

	paths, err := WriteArtifacts(result, dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "vessels.dot"),
		filepath.Join(dir, "vessels.json"),
		filepath.Join(dir, "voxels.csv"),
	}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "vessels.dot"))
	require.NoError(t, err)
	require.Equal(t, "digraph {}", string(data))
}
