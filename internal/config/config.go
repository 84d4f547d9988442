package config

import (
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DELEGATOR_"

// Config is the root configuration.
type Config struct {
	Root     string          `toml:"root" yaml:"root" env:"ROOT,overwrite"`
	Log      LogConfig       `toml:"log" yaml:"log"`
	Script   ScriptConfig    `toml:"script" yaml:"script"`
	Metrics  MetricsConfig   `toml:"metrics" yaml:"metrics"`
	Elements []ElementConfig `toml:"element" yaml:"elements"`
	Bindings []BindingConfig `toml:"binding" yaml:"bindings"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string        `toml:"level" yaml:"level" env:"LOG_LEVEL,overwrite"`
	Pretty bool          `toml:"pretty" yaml:"pretty" env:"LOG_PRETTY,overwrite"`
	File   FileLogConfig `toml:"file" yaml:"file"`
}

// FileLogConfig configures a rotating log file. An empty filename disables
// file output.
type FileLogConfig struct {
	Filename   string `toml:"filename" yaml:"filename" env:"LOG_FILE,overwrite"`
	MaxSize    int    `toml:"maxsize" yaml:"maxsize" env:"LOG_FILE_MAX_SIZE,overwrite"`
	MaxAge     int    `toml:"maxage" yaml:"maxage" env:"LOG_FILE_MAX_AGE,overwrite"`
	MaxBackups int    `toml:"maxbackups" yaml:"maxbackups" env:"LOG_FILE_MAX_BACKUPS,overwrite"`
	LocalTime  bool   `toml:"localtime" yaml:"localtime"`
	Compress   bool   `toml:"compress" yaml:"compress" env:"LOG_FILE_COMPRESS,overwrite"`
}

// ScriptConfig configures the Lua declaration script.
type ScriptConfig struct {
	Path    string `toml:"path" yaml:"path" env:"SCRIPT,overwrite"`
	Timeout string `toml:"timeout" yaml:"timeout" env:"SCRIPT_TIMEOUT,overwrite"`
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (s ScriptConfig) TimeoutDuration() (time.Duration, error) {
	if s.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Timeout)
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled" yaml:"enabled" env:"METRICS_ENABLED,overwrite"`
	Address string `toml:"address" yaml:"address" env:"METRICS_ADDRESS,overwrite"`
}

// ElementConfig declares one element of the layout. An element without a
// parent is the document root; exactly one is allowed.
type ElementConfig struct {
	ID      string   `toml:"id" yaml:"id"`
	Parent  string   `toml:"parent" yaml:"parent"`
	Classes []string `toml:"classes" yaml:"classes"`
	Label   string   `toml:"label" yaml:"label"`
	X       int      `toml:"x" yaml:"x"`
	Y       int      `toml:"y" yaml:"y"`
	Width   int      `toml:"width" yaml:"width"`
	Height  int      `toml:"height" yaml:"height"`
}

// BindingConfig declares one delegated binding that runs a built-in action.
type BindingConfig struct {
	Event  string `toml:"event" yaml:"event"`
	Key    string `toml:"key" yaml:"key"`
	Type   string `toml:"type" yaml:"type"`
	Stop   bool   `toml:"stop" yaml:"stop"`
	Action string `toml:"action" yaml:"action"`
	Arg    string `toml:"arg" yaml:"arg"`
}

// Default returns the built-in configuration: a small demo layout with a
// toolbar, an item list and an info panel, and bindings exercising every
// built-in action.
func Default() *Config {
	cfg := &Config{
		Root: "body",
		Log: LogConfig{
			Level: "info",
			File: FileLogConfig{
				MaxSize:    10,
				MaxAge:     7,
				MaxBackups: 3,
			},
		},
		Script: ScriptConfig{
			Timeout: "2s",
		},
		Metrics: MetricsConfig{
			Address: ":9090",
		},
		Elements: []ElementConfig{
			{ID: "body", Label: "delegator (Esc to quit)", Width: 60, Height: 18},
			{ID: "toolbar", Parent: "body", Classes: []string{"bar"}, X: 1, Y: 1, Width: 58, Height: 3},
			{ID: "save", Parent: "toolbar", Classes: []string{"button"}, Label: "[ save ]", X: 2, Y: 2, Width: 8, Height: 1},
			{ID: "open", Parent: "toolbar", Classes: []string{"button"}, Label: "[ open ]", X: 12, Y: 2, Width: 8, Height: 1},
			{ID: "list", Parent: "body", Classes: []string{"list"}, Label: "items", X: 1, Y: 4, Width: 30, Height: 10},
			{ID: "info", Parent: "body", Classes: []string{"panel"}, Label: "info", X: 32, Y: 4, Width: 27, Height: 10},
		},
		Bindings: []BindingConfig{
			{Event: "click", Key: "item", Action: "select"},
			{Event: "click", Key: "save", Type: "id", Stop: true, Action: "status", Arg: "saved"},
			{Event: "click", Key: "button", Action: "count", Arg: "buttons"},
			{Event: "mouseover", Key: "item", Action: "hover"},
			{Event: "mouseout", Key: "item", Action: "unhover"},
			{Event: "keydown", Key: "item", Action: "log"},
		},
	}
	for i := 1; i <= 4; i++ {
		cfg.Elements = append(cfg.Elements, ElementConfig{
			ID:      "item" + strconv.Itoa(i),
			Parent:  "list",
			Classes: []string{"item"},
			Label:   "item " + strconv.Itoa(i),
			X:       2,
			Y:       4 + i,
			Width:   28,
			Height:  1,
		})
	}
	return cfg
}
