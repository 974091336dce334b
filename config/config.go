// Package config loads analysis settings from TOML files.
//
// A file only overrides the keys it defines; everything else keeps the
// value of the configuration it is merged into, starting from Default.
//
//	width = 16
//	entry = "main"
//
//	[trace]
//	matrices = true
//	generators = false
//
//	[log]
//	level = "debug"
//	format = "json"
package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/affrel/ring"
)

// ErrInvalid is wrapped by every validation and decoding failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds every setting of an analysis run.
type Config struct {
	// Width is the word size w; arithmetic is modulo 2^Width.
	Width int         `toml:"width"`
	Entry string      `toml:"entry"`
	Trace TraceConfig `toml:"trace"`
	Log   LogConfig   `toml:"log"`
}

// TraceConfig holds the two independent diagnostic switches.
type TraceConfig struct {
	Matrices   bool `toml:"matrices"`
	Generators bool `toml:"generators"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

var defaultConfig = Config{
	Width: 32,
	Entry: "main",
	Log: LogConfig{
		Level:  "info",
		Format: "console",
	},
}

// Default returns the built-in configuration.
func Default() Config { return defaultConfig }

// file is a decoded TOML document together with the set of keys it defined.
type file struct {
	cfg  Config
	meta toml.MetaData
}

func (cfg Config) merge(f file) Config {
	if f.meta.IsDefined("width") {
		cfg.Width = f.cfg.Width
	}
	if f.meta.IsDefined("entry") {
		cfg.Entry = f.cfg.Entry
	}
	if f.meta.IsDefined("trace", "matrices") {
		cfg.Trace.Matrices = f.cfg.Trace.Matrices
	}
	if f.meta.IsDefined("trace", "generators") {
		cfg.Trace.Generators = f.cfg.Trace.Generators
	}
	if f.meta.IsDefined("log", "level") {
		cfg.Log.Level = f.cfg.Log.Level
	}
	if f.meta.IsDefined("log", "format") {
		cfg.Log.Format = f.cfg.Log.Format
	}
	return cfg
}

func decode(r io.Reader, name string) (file, error) {
	var f file
	meta, err := toml.DecodeReader(r, &f.cfg)
	if err != nil {
		return f, errors.Wrapf(err, "config: decoding %s", name)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return f, errors.Wrapf(ErrInvalid, "%s: unknown keys %s", name, strings.Join(keys, ", "))
	}
	f.meta = meta
	return f, nil
}

// Parse reads a TOML document from r and merges it over base. The result is
// validated.
func Parse(base Config, r io.Reader) (Config, error) {
	f, err := decode(r, "input")
	if err != nil {
		return Config{}, err
	}
	cfg := base.merge(f)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads path and merges it over Default.
func Load(path string) (Config, error) {
	fd, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: opening %s", path)
	}
	defer fd.Close()

	f, err := decode(fd, path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default().merge(f)
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (cfg Config) Validate() error {
	if cfg.Width < 1 || cfg.Width > ring.MaxWidth {
		return errors.Wrapf(ErrInvalid, "width %d outside [1, %d]", cfg.Width, ring.MaxWidth)
	}
	if cfg.Entry == "" {
		return errors.Wrap(ErrInvalid, "entry is empty")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalid, "log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		return errors.Wrapf(ErrInvalid, "log format %q (want console or json)", cfg.Log.Format)
	}
	return nil
}
