package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	View    ViewConfig    `yaml:"view" json:"view"`
	Loader  LoaderConfig  `yaml:"loader" json:"loader"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ViewConfig configures the interactive grid
type ViewConfig struct {
	Theme          string `yaml:"theme" json:"theme"`                       // default|high-contrast|minimal
	ResetOnLoad    bool   `yaml:"reset_on_load" json:"reset_on_load"`       // clear query and sort when a new file loads
	MaxColumnWidth int    `yaml:"max_column_width" json:"max_column_width"` // cells wider than this are truncated
	PageSize       int    `yaml:"page_size" json:"page_size"`               // rows per page, 0 fits the terminal
}

// LoaderConfig configures spreadsheet reading
type LoaderConfig struct {
	MaxFileSize int64         `yaml:"max_file_size" json:"max_file_size"` // bytes
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`             // read timeout for printed output
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// LoggingConfig configures where diagnostics are written
type LoggingConfig struct {
	File       string `yaml:"file" json:"file"`                 // empty writes to stderr
	MaxSizeMB  int    `yaml:"max_size_mb" json:"max_size_mb"`   // rotate after this size
	MaxBackups int    `yaml:"max_backups" json:"max_backups"`   // rotated files kept
	MaxAgeDays int    `yaml:"max_age_days" json:"max_age_days"` // rotated files expire after
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		View: ViewConfig{
			Theme:          "default",
			ResetOnLoad:    false,
			MaxColumnWidth: 24,
			PageSize:       0,
		},
		Loader: LoaderConfig{
			MaxFileSize: 50 << 20, // 50MB
			Timeout:     30 * time.Second,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			File:       "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateViewConfig(); err != nil {
		return err
	}
	if err := c.validateLoaderConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateLoggingConfig(); err != nil {
		return err
	}
	return nil
}

// validateViewConfig validates grid-related configuration
func (c *Config) validateViewConfig() error {
	if c.View.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.View.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.View.Theme)
		}
	}
	if c.View.MaxColumnWidth < 4 {
		return fmt.Errorf("max_column_width must be at least 4")
	}
	if c.View.PageSize < 0 {
		return fmt.Errorf("page_size must be non-negative")
	}
	return nil
}

// validateLoaderConfig validates loader-related configuration
func (c *Config) validateLoaderConfig() error {
	if c.Loader.MaxFileSize < 1 {
		return fmt.Errorf("max_file_size must be greater than 0")
	}
	if c.Loader.Timeout < 0 {
		return fmt.Errorf("loader timeout must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateLoggingConfig validates log rotation settings
func (c *Config) validateLoggingConfig() error {
	if c.Logging.MaxSizeMB < 0 {
		return fmt.Errorf("max_size_mb must be non-negative")
	}
	if c.Logging.MaxBackups < 0 {
		return fmt.Errorf("max_backups must be non-negative")
	}
	if c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("max_age_days must be non-negative")
	}
	return nil
}
