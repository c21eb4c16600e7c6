// Package config loads the settings shared by the rbxmesh tools.
package config

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file searched for by Load.
const FileName = "rbxmesh.yaml"

// Config holds tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Decode  DecodeConfig  `yaml:"decode"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DecodeConfig holds settings applied when decoding.
type DecodeConfig struct {
	// Raw disables vertex fixups on meshes.
	Raw bool `yaml:"raw"`
	// TruncatedColor is the RGBA color given to vertices of the legacy
	// layout, which have none.
	TruncatedColor []int `yaml:"truncated_color,flow"`
}

// ExportConfig holds settings for geometry export.
type ExportConfig struct {
	// Format is obj or gltf.
	Format string `yaml:"format"`
	// Skeleton adds mesh bones to glTF output.
	Skeleton bool `yaml:"skeleton"`
}

// Formats lists the supported export formats.
var Formats = []string{"obj", "gltf"}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "warn"},
		Decode:  DecodeConfig{TruncatedColor: []int{255, 255, 255, 255}},
		Export:  ExportConfig{Format: "obj", Skeleton: true},
	}
}

// Color returns the truncated vertex color as RGBA bytes.
func (d DecodeConfig) Color() ([4]uint8, error) {
	var c [4]uint8
	if len(d.TruncatedColor) != len(c) {
		return c, errors.Errorf("truncated_color: expected 4 components, got %d", len(d.TruncatedColor))
	}
	for i, v := range d.TruncatedColor {
		if v < 0 || v > 255 {
			return c, errors.Errorf("truncated_color: component %d out of range: %d", i, v)
		}
		c[i] = uint8(v)
	}
	return c, nil
}

// Validate checks that c holds usable values.
func (c *Config) Validate() error {
	if _, err := c.Decode.Color(); err != nil {
		return err
	}
	for _, f := range Formats {
		if c.Export.Format == f {
			return nil
		}
	}
	return errors.Errorf("export format: unknown format %q", c.Export.Format)
}

// Flags holds command-line overrides. Unset flags leave the configuration
// unchanged.
type Flags struct {
	Config string
	Debug  bool
	Level  string
	Log    string
	Raw    bool
	Format string
}

// Register adds the flags to fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "enable debug logging")
	fs.StringVar(&f.Level, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.Log, "log-file", "", "write logs to a rotating file")
	fs.BoolVar(&f.Raw, "raw", false, "decode meshes without vertex fixups")
}

// RegisterFormat adds the export format flag to fs.
func (f *Flags) RegisterFormat(fs *flag.FlagSet) {
	fs.StringVar(&f.Format, "format", "", "export format (obj, gltf)")
}

func (f *Flags) apply(cfg *Config) {
	if f.Level != "" {
		cfg.Logging.Level = f.Level
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Log != "" {
		cfg.Logging.LogFile = f.Log
	}
	if f.Raw {
		cfg.Decode.Raw = true
	}
	if f.Format != "" {
		cfg.Export.Format = f.Format
	}
}

// Load returns the configuration with priority defaults < file < flags. The
// file is taken from flags, or else searched for in the working directory
// and then in Dir. A nil flags applies no overrides.
func Load(flags *Flags) (*Config, error) {
	cfg := Default()

	path := ""
	if flags != nil {
		path = flags.Config
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "load config %s", path)
		}
	}

	if flags != nil {
		flags.apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{FileName}
	if dir := Dir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, FileName))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Dir returns the user configuration directory for rbxmesh, or an empty
// string if there is none.
func Dir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rbxmesh")
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// SaveTo writes c as YAML to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
