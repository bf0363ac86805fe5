// Package config loads the axe configuration snapshot.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"github.com/tmc/axe"
)

const (
	// FileName is the config file inside the config directory.
	FileName = "config.json"

	// EnvPrefix prefixes environment overrides, e.g. AXE_OUTPUT_PATH.
	EnvPrefix = "AXE"

	// HomeEnv overrides the config directory.
	HomeEnv = "AXE_HOME"

	// DefaultOutputDirName is created under the working directory.
	DefaultOutputDirName = "axe_output"
)

type (
	// Config is an immutable snapshot. The With methods return modified
	// copies; nothing is written until Save.
	Config struct {
		Paths
		Conversion
		Network
		Storage

		dir string
	}

	Paths struct {
		Input  string
		Output string
	}
	Conversion struct {
		DefaultFormat axe.Format
		PDFToText     string // pdftotext binary
	}
	Network struct {
		Delay     time.Duration // pause between directory items
		Timeout   time.Duration
		UserAgent string
	}
	Storage struct {
		StatsFile  string
		LedgerFile string
	}
)

// Dir returns the config directory: $AXE_HOME, else axe under the
// per-user config directory.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "axe"), nil
}

// Load reads dir/config.json over the defaults, then applies AXE_*
// environment overrides. Relative defaults are resolved against cwd. A
// missing or malformed file yields the defaults.
func Load(dir, cwd string) Config {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, FileName))
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("input_path", cwd)
	v.SetDefault("output_path", filepath.Join(cwd, DefaultOutputDirName))
	v.SetDefault("default_format", string(axe.FormatMarkdown))
	v.SetDefault("delay", axe.DefaultDelay.String())
	v.SetDefault("timeout", "60s")
	v.SetDefault("pdftotext", "pdftotext")
	v.SetDefault("user_agent", "")
	v.SetDefault("stats_file", filepath.Join(dir, "stats.json"))
	v.SetDefault("ledger_file", filepath.Join(dir, "ledger.db"))

	// A missing or malformed file leaves the defaults in place.
	_ = v.ReadInConfig()

	format, err := axe.ParseFormat(v.GetString("default_format"))
	if err != nil {
		format = axe.FormatMarkdown
	}

	return Config{
		Paths: Paths{
			Input:  v.GetString("input_path"),
			Output: v.GetString("output_path"),
		},
		Conversion: Conversion{
			DefaultFormat: format,
			PDFToText:     v.GetString("pdftotext"),
		},
		Network: Network{
			Delay:     v.GetDuration("delay"),
			Timeout:   v.GetDuration("timeout"),
			UserAgent: v.GetString("user_agent"),
		},
		Storage: Storage{
			StatsFile:  v.GetString("stats_file"),
			LedgerFile: v.GetString("ledger_file"),
		},
		dir: dir,
	}
}

// Dir returns the directory the snapshot was loaded from.
func (c Config) Dir() string {
	return c.dir
}

// Path returns the config file location.
func (c Config) Path() string {
	return filepath.Join(c.dir, FileName)
}

// WithInputPath returns a copy with the default input directory set.
func (c Config) WithInputPath(path string) Config {
	c.Input = path
	return c
}

// WithOutputPath returns a copy with the default output directory set.
func (c Config) WithOutputPath(path string) Config {
	c.Output = path
	return c
}

// WithDefaultFormat returns a copy with the default format set.
func (c Config) WithDefaultFormat(f axe.Format) Config {
	c.DefaultFormat = f
	return c
}

// Save writes the user-editable settings of cfg to its config file.
func Save(cfg Config) error {
	if err := os.MkdirAll(cfg.dir, 0755); err != nil {
		return err
	}
	v := viper.New()
	v.Set("input_path", cfg.Input)
	v.Set("output_path", cfg.Output)
	v.Set("default_format", string(cfg.DefaultFormat))
	v.Set("delay", cfg.Delay.String())
	v.Set("timeout", cfg.Timeout.String())
	v.Set("pdftotext", cfg.PDFToText)
	if cfg.UserAgent != "" {
		v.Set("user_agent", cfg.UserAgent)
	}
	return v.WriteConfigAs(cfg.Path())
}
