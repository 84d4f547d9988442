package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v2"
)

// Loader reads configuration files and applies environment overrides.
type Loader struct {
	lookuper envconfig.Lookuper
}

// NewLoader creates a loader reading DELEGATOR_* from the process environment.
func NewLoader() *Loader {
	return NewLoaderWithLookuper(envconfig.PrefixLookuper(EnvPrefix, envconfig.OsLookuper()))
}

// NewLoaderWithLookuper creates a loader with a custom environment source.
func NewLoaderWithLookuper(l envconfig.Lookuper) *Loader {
	return &Loader{lookuper: l}
}

// Load is shorthand for NewLoader().Load.
func Load(ctx context.Context, path string) (*Config, error) {
	return NewLoader().Load(ctx, path)
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads the defaults.
//
// A file that declares any element replaces the default layout; likewise
// for bindings.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		return l.finish(ctx, Default())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return l.LoadBytes(ctx, path, data)
}

// LoadBytes decodes data using the codec chosen by name's extension.
func (l *Loader) LoadBytes(ctx context.Context, name string, data []byte) (*Config, error) {
	cfg := Default()
	defaults := *cfg
	cfg.Elements = nil
	cfg.Bindings = nil

	if err := decode(name, data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Elements) == 0 {
		cfg.Elements = defaults.Elements
	}
	if len(cfg.Bindings) == 0 {
		cfg.Bindings = defaults.Bindings
	}
	return l.finish(ctx, cfg)
}

func (l *Loader) finish(ctx context.Context, cfg *Config) (*Config, error) {
	if err := envconfig.ProcessWith(ctx, cfg, l.lookuper); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(name string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			perr := &ParseError{Path: name, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return perr
		}
	case ".yaml", ".yml":
		if err := yaml.UnmarshalStrict(data, cfg); err != nil {
			return &ParseError{Path: name, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}
