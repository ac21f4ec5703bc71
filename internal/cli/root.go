package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/yildizm/SheetView/internal/config"
	"github.com/yildizm/SheetView/internal/emoji"
	"github.com/yildizm/SheetView/internal/logger"
	"github.com/yildizm/SheetView/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	noEmoji   bool
	outputFmt string

	globalConfig *config.Config

	// logFile is the rotating log opened from logging.file, if any
	logFile io.WriteCloser
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetview",
		Short: "Terminal spreadsheet viewer",
		Long: `SheetView opens .xlsx and .xls workbooks in the terminal.

The first worksheet is shown as a grid whose first row is the header.
Rows can be filtered with a case-insensitive search and sorted by any
column, and the current view can be printed as text, JSON, Markdown or CSV.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupGlobals,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogFile()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "output format (text, json, markdown, csv)")

	// Add subcommands
	rootCmd.AddCommand(newViewCommand())
	rootCmd.AddCommand(newSheetsCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// setupGlobals loads the configuration and applies it underneath explicit flags
func setupGlobals(cmd *cobra.Command, args []string) error {
	// Auto-disable emojis on Windows if not explicitly set
	if runtime.GOOS == "windows" && !flagChanged(cmd, "no-emoji") {
		noEmoji = true
	}
	emoji.SetEmojiDisabled(noEmoji)

	// config subcommands load and report on configuration themselves
	if isConfigCommand(cmd) {
		globalConfig = config.DefaultConfig()
		return nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return err
	}
	globalConfig = cfg

	if !flagChanged(cmd, "output") && cfg.Output.DefaultFormat != "" {
		outputFmt = cfg.Output.DefaultFormat
	}
	if !flagChanged(cmd, "verbose") {
		verbose = cfg.Output.Verbose
	}
	if !flagChanged(cmd, "no-color") && cfg.Output.ColorMode == "never" {
		noColor = true
	}

	ui.SetColorDisabled(noColor)
	if !ui.SetThemeByName(cfg.View.Theme) {
		return fmt.Errorf("unknown theme: %s", cfg.View.Theme)
	}

	closeLogFile()
	if cfg.Logging.File != "" {
		logFile = logger.NewFileWriter(cfg.Logging.File, logger.RotationOptions{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
		logger.SetDefaultWriter(logFile)
	}

	return nil
}

// closeLogFile puts logging back on stderr and closes the rotating log
func closeLogFile() {
	if logFile == nil {
		return
	}
	logger.SetDefaultWriter(nil)
	if err := logFile.Close(); err != nil && isVerbose() {
		fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
	}
	logFile = nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && flag.Changed
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "SheetView %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig returns the configuration loaded for the running command
func GetGlobalConfig() *config.Config {
	if globalConfig == nil {
		return config.DefaultConfig()
	}
	return globalConfig
}

// Global helpers
func isVerbose() bool {
	return verbose
}

func getOutputFormat() string {
	return outputFmt
}

func newLogger(component string) *logger.Logger {
	return logger.NewWithCallback(component, isVerbose)
}
