package pipeline

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/vesselgen/pkg/errors"
)

// Environment variables read by [Options.ApplyEnv].
const (
	EnvWorkers    = "VESSELGEN_WORKERS"
	EnvCacheDir   = "VESSELGEN_CACHE_DIR"
	EnvCacheScope = "VESSELGEN_CACHE_SCOPE"
)

// LoadOptions reads a control file on top of [DefaultOptions].
//
// The format is chosen by extension: .toml, or .yaml / .yml. Unknown keys
// are rejected. Relative volume and output paths are resolved against the
// directory of the control file. The result is not validated.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, errors.Wrap(errors.ErrCodeFileNotFound, err, "control file %s", path)
		}
		return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read control file %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.Decode(string(data), &opts)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, keys[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty or comment-only document decodes to io.EOF and sets no keys.
		if err := dec.Decode(&opts); err != nil && !stderrors.Is(err, io.EOF) {
			return opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return opts, errors.New(errors.ErrCodeInvalidConfig,
			"unsupported control file extension %q (use .toml, .yaml or .yml)", ext)
	}

	dir := filepath.Dir(path)
	opts.Volume = resolve(dir, opts.Volume)
	opts.Output = resolve(dir, opts.Output)
	return opts, nil
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// ApplyEnv overrides options from environment variables looked up with
// getenv (usually os.Getenv).
func (o *Options) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", EnvWorkers)
		}
		o.Workers = n
	}
	if v := getenv(EnvCacheDir); v != "" {
		o.CacheDir = v
	}
	if v := getenv(EnvCacheScope); v != "" {
		o.CacheScope = v
	}
	return nil
}
