package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# SheetView configuration
#
# Search order (first match wins):
#   ./.sheetview.yaml
#   ~/.config/sheetview/config.yaml
#   /etc/sheetview/config.yaml
#
# Every setting can be overridden with a SHEETVIEW_<SECTION>_<KEY>
# environment variable, e.g. SHEETVIEW_VIEW_THEME=minimal. Variables may
# also be placed in a .env file in the working directory.

version: "1.0"

view:
  # Color theme: default, high-contrast or minimal
  theme: default
  # Clear the search query and sort when a new file is opened
  reset_on_load: false
  # Cells wider than this many columns are truncated with an ellipsis
  max_column_width: 24
  # Rows shown per page, 0 fits the terminal height
  page_size: 0

loader:
  # Largest file accepted, in bytes
  max_file_size: 52428800
  # Give up reading and decoding a file after this long
  timeout: 30s

output:
  # Non-interactive output: text, json, markdown or csv
  default_format: text
  # auto, always or never
  color_mode: auto
  verbose: false

logging:
  # Write diagnostics to a rotating file instead of stderr
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
`
}

// MinimalSampleConfig returns a configuration file with the essential settings only
func MinimalSampleConfig() string {
	return `version: "1.0"

view:
  theme: default
  reset_on_load: false

output:
  default_format: text
`
}
