package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/vesselgen/pkg/cache"
	"github.com/matzehuels/vesselgen/pkg/errors"
	"github.com/matzehuels/vesselgen/pkg/pipeline"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, dot,", []string{"json", "dot"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatsLine(t *testing.T) {
	got := statsLine(12, 11, true)
	for _, want := range []string{"12 nodes", "11 edges", "cached"} {
		if !strings.Contains(got, want) {
			t.Errorf("statsLine() = %q, should contain %q", got, want)
		}
	}
	if got := statsLine(1, 0, false); !strings.Contains(got, "fresh") {
		t.Errorf("statsLine() = %q, should contain %q", got, "fresh")
	}
}

func TestGenerateAndRender(t *testing.T) {
	t.Setenv(pipeline.EnvCacheDir, t.TempDir())
	out := t.TempDir()

	_, err := execute(t, "generate", "--shape", "torus", "--size", "8",
		"-f", "json,dot", "--dump-voxels", "-o", out)
	require.NoError(t, err)
	for _, name := range []string{"vessels.json", "vessels.dot", "voxels.csv"} {
		require.FileExists(t, filepath.Join(out, name))
	}

	rendered := filepath.Join(out, "rendered")
	_, err = execute(t, "render", filepath.Join(out, "vessels.json"), "-f", "dot", "--detailed", "-o", rendered)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(rendered, "vessels.dot"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "digraph"))
}

func TestGenerateConfigFile(t *testing.T) {
	t.Setenv(pipeline.EnvCacheDir, t.TempDir())
	dir := t.TempDir()
	config := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(config, []byte("shape: box\nsize: 4\nformats: [dot]\noutput: out\n"), 0644))

	_, err := execute(t, "generate", "--config", config, "--prune", "0", "--no-cache")
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "out", "vessels.dot"))
	require.NoFileExists(t, filepath.Join(dir, "out", "vessels.json"))
}

func TestGenerateJitterHelp(t *testing.T) {
	out, err := execute(t, "generate", "--help")
	require.NoError(t, err)
	require.Contains(t, out, "additive noise on each squared shell distance")
	require.NotContains(t, out, "multiplicative")
}

func TestResolveOptions(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "run.toml")
	require.NoError(t, os.WriteFile(config, []byte("workers = 4\nseed = 0\n"), 0644))

	tests := []struct {
		name        string
		args        []string
		config      string
		env         map[string]string
		wantWorkers int
		wantScope   string
	}{
		{"defaults", nil, "", nil, 0, ""},
		{"config", nil, config, nil, 4, ""},
		{"env over config", nil, config, map[string]string{pipeline.EnvWorkers: "8"}, 8, ""},
		{"flag over env", []string{"--workers", "2"}, "", map[string]string{pipeline.EnvWorkers: "8"}, 2, ""},
		{"flag over env and config", []string{"--workers", "2"}, config, map[string]string{pipeline.EnvWorkers: "8"}, 2, ""},
		{"scope from env", nil, "", map[string]string{pipeline.EnvCacheScope: "lab"}, 0, "lab"},
		{"scope flag over env", []string{"--cache-scope", "clinic"}, "", map[string]string{pipeline.EnvCacheScope: "lab"}, 0, "clinic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := pipeline.DefaultOptions()
			cmd := &cobra.Command{}
			cmd.Flags().IntVar(&flags.Workers, "workers", 0, "")
			cmd.Flags().StringVar(&flags.CacheScope, "cache-scope", "", "")
			require.NoError(t, cmd.ParseFlags(tt.args))

			got, err := resolveOptions(cmd, tt.config, flags, func(k string) string { return tt.env[k] })
			require.NoError(t, err)
			require.Equal(t, tt.wantWorkers, got.Workers)
			require.Equal(t, tt.wantScope, got.CacheScope)
			if tt.config != "" {
				require.Zero(t, got.Seed, "seed 0 from the control file must survive")
			}
		})
	}
}

func TestNewRunnerCacheScope(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)

	scoped, err := c.newRunner(pipeline.Options{NoCache: true, CacheScope: "lab"})
	require.NoError(t, err)
	plain, err := c.newRunner(pipeline.Options{NoCache: true})
	require.NoError(t, err)

	opts := cache.NetworkKeyOpts{Seed: 42}
	key := scoped.Keyer.NetworkKey("abc", opts)
	require.True(t, strings.HasPrefix(key, "lab:"), "NetworkKey() = %q", key)
	require.Equal(t, "lab:"+plain.Keyer.NetworkKey("abc", opts), key)
}

func TestGenerateCacheScope(t *testing.T) {
	cacheDir := t.TempDir()
	t.Setenv(pipeline.EnvCacheDir, cacheDir)
	out := t.TempDir()

	args := []string{"generate", "--shape", "box", "--size", "3", "-o", out}
	_, err := execute(t, args...)
	require.NoError(t, err)

	// Same settings in another scope must not reuse the cached network.
	t.Setenv(pipeline.EnvCacheScope, "lab")
	_, err = execute(t, args...)
	require.NoError(t, err)

	fc, err := cache.NewFileCache(cacheDir)
	require.NoError(t, err)
	n, err := fc.Clear()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestGenerateMetricsFile(t *testing.T) {
	t.Setenv(pipeline.EnvCacheDir, t.TempDir())
	dir := t.TempDir()
	metrics := filepath.Join(dir, "vesselgen.prom")

	_, err := execute(t, "generate", "--shape", "sphere", "--size", "6", "-o", dir, "--metrics-file", metrics)
	require.NoError(t, err)
	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	require.Contains(t, string(data), "vesselgen_runs_total")
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown shape", []string{"generate", "--shape", "cube", "--no-cache"}, errors.ErrCodeInvalidConfig},
		{"bad format", []string{"generate", "-f", "gif", "--no-cache"}, errors.ErrCodeInvalidConfig},
		{"missing volume", []string{"generate", "--volume", "nope.json", "--no-cache"}, errors.ErrCodeFileNotFound},
		{"missing config", []string{"generate", "--config", "nope.toml"}, errors.ErrCodeFileNotFound},
		{"missing network", []string{"render", "nope.json"}, errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("execute(%v) code = %q (%v), want %q", tt.args, got, err, tt.code)
			}
		})
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	require.Contains(t, out, "vesselgen")

	_, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}
