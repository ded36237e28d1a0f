package clamsweep

import (
	"os"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML run configuration consumed by the CLI.
// Zero values fall back to the library defaults.
type Config struct {
	// ClamscanPath is the scan engine binary name or path.
	ClamscanPath string `yaml:"clamscan_path"`

	// OutputDir is the shared output root for extraction results.
	OutputDir string `yaml:"output_dir"`

	// ScanTimeout is the per-file scan timeout as a Go duration string.
	ScanTimeout string `yaml:"scan_timeout"`

	// EnableRar toggles rar extraction support. Nil means enabled.
	EnableRar *bool `yaml:"enable_rar"`

	// JSONReport is the path the JSON report is written to, if any.
	JSONReport string `yaml:"json_report"`

	// TextReport is the path the text report is written to, if any.
	TextReport string `yaml:"text_report"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "failed to read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "failed to parse config %s", path)
	}

	if cfg.ScanTimeout != "" {
		if _, err := time.ParseDuration(cfg.ScanTimeout); err != nil {
			return nil, platformerrors.Wrapf(err, platformerrors.CodeInvalidConfig, "invalid scan_timeout %q", cfg.ScanTimeout)
		}
	}
	return &cfg, nil
}

// Timeout returns the configured scan timeout, or zero when unset. LoadConfig
// has already validated the duration string.
func (c *Config) Timeout() time.Duration {
	if c.ScanTimeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.ScanTimeout)
	return d
}

// RarEnabled reports whether rar extraction should be enabled.
func (c *Config) RarEnabled() bool {
	return c.EnableRar == nil || *c.EnableRar
}
