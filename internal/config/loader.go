package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.sheetview.yaml",               // Project-specific config (highest priority)
	"~/.config/sheetview/config.yaml", // User config
	"/etc/sheetview/config.yaml",      // System config (lowest priority)
}

// DefaultEnvFile is read for SHEETVIEW_* values missing from the process environment
const DefaultEnvFile = ".env"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	envFile     string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		envFile:     DefaultEnvFile,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. Variables from ./.env
// 4. ./.sheetview.yaml
// 5. ~/.config/sheetview/config.yaml
// 6. /etc/sheetview/config.yaml
// 7. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.applyEnvOverrides(config, l.envLookup()); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)

	return nil
}

// envLookup resolves a variable from the process environment first and the
// dotenv file second. The dotenv file never mutates the process environment.
func (l *Loader) envLookup() func(string) string {
	var fromFile map[string]string
	if l.envFile != "" && fileExists(l.envFile) {
		values, err := godotenv.Read(l.envFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to read %s: %v\n", l.envFile, err)
		} else {
			fromFile = values
		}
	}

	return func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fromFile[key]
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config, getenv func(string) string) error {
	envMappings := map[string]func(string) error{
		// View Config
		"SHEETVIEW_VIEW_THEME":            func(v string) error { config.View.Theme = v; return nil },
		"SHEETVIEW_VIEW_RESET_ON_LOAD":    func(v string) error { return parseBool(v, &config.View.ResetOnLoad) },
		"SHEETVIEW_VIEW_MAX_COLUMN_WIDTH": func(v string) error { return parseInt(v, &config.View.MaxColumnWidth) },
		"SHEETVIEW_VIEW_PAGE_SIZE":        func(v string) error { return parseInt(v, &config.View.PageSize) },

		// Loader Config
		"SHEETVIEW_LOADER_MAX_FILE_SIZE": func(v string) error { return parseInt64(v, &config.Loader.MaxFileSize) },
		"SHEETVIEW_LOADER_TIMEOUT":       func(v string) error { return parseDuration(v, &config.Loader.Timeout) },

		// Output Config
		"SHEETVIEW_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"SHEETVIEW_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"SHEETVIEW_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// Logging Config
		"SHEETVIEW_LOGGING_FILE":         func(v string) error { config.Logging.File = v; return nil },
		"SHEETVIEW_LOGGING_MAX_SIZE_MB":  func(v string) error { return parseInt(v, &config.Logging.MaxSizeMB) },
		"SHEETVIEW_LOGGING_MAX_BACKUPS":  func(v string) error { return parseInt(v, &config.Logging.MaxBackups) },
		"SHEETVIEW_LOGGING_MAX_AGE_DAYS": func(v string) error { return parseInt(v, &config.Logging.MaxAgeDays) },
	}

	for envVar, setter := range envMappings {
		if value := getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeViewConfig(&dst.View, &src.View)
	mergeLoaderConfig(&dst.Loader, &src.Loader)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeLoggingConfig(&dst.Logging, &src.Logging)
}

// mergeViewConfig merges grid configuration
func mergeViewConfig(dst, src *ViewConfig) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.MaxColumnWidth != 0 {
		dst.MaxColumnWidth = src.MaxColumnWidth
	}
	if src.PageSize != 0 {
		dst.PageSize = src.PageSize
	}
	mergeIfSet(&dst.ResetOnLoad, src.ResetOnLoad)
}

// mergeLoaderConfig merges loader configuration
func mergeLoaderConfig(dst, src *LoaderConfig) {
	if src.MaxFileSize != 0 {
		dst.MaxFileSize = src.MaxFileSize
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

// mergeOutputConfig merges output configuration
func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	mergeIfSet(&dst.Verbose, src.Verbose)
}

// mergeLoggingConfig merges log rotation configuration
func mergeLoggingConfig(dst, src *LoggingConfig) {
	if src.File != "" {
		dst.File = src.File
	}
	if src.MaxSizeMB != 0 {
		dst.MaxSizeMB = src.MaxSizeMB
	}
	if src.MaxBackups != 0 {
		dst.MaxBackups = src.MaxBackups
	}
	if src.MaxAgeDays != 0 {
		dst.MaxAgeDays = src.MaxAgeDays
	}
}

// mergeIfSet merges a boolean only when the source turns it on. YAML cannot
// tell an omitted false from an explicit one; env overrides can turn it off.
func mergeIfSet(dst *bool, src bool) {
	if src {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
