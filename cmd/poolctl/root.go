package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/fbpool/internal/config"
	"github.com/joshuapare/fbpool/internal/logger"
)

var (
	// Global flags
	cfgPath  string
	verbose  bool
	quiet    bool
	jsonOut  bool
	noColor  bool
	logLevel string

	// layout is loaded before any subcommand runs.
	layout *config.Layout

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "poolctl",
	Short: "Exercise fixed-block pools and the size-class dispatcher",
	Long: `poolctl composes the configured fixed-block pools into a size-class
dispatcher and exercises them. The layout comes from a YAML file (--config or
$FBPOOL_CONFIG_FILE) and FBPOOL_* environment overrides; without either it
uses the "bm" preset of 2048 and 4096 byte classes.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Layout file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error, off)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// setup loads the layout and configures logging for every subcommand.
func setup(cmd *cobra.Command, _ []string) error {
	l, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	layout = l

	name := l.LogLevel
	if logLevel != "" {
		name = logLevel
	}
	if name == "" && verbose {
		name = "debug"
	}
	level, enabled, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}
	logger.Init(logger.Options{
		Enabled: enabled && !quiet,
		Level:   level,
		JSON:    l.LogFormat == "json",
		Writer:  stderr,
	})
	logger.Debug("layout loaded",
		"command", cmd.Name(),
		"preset", l.Preset,
		"classes", len(l.Pools),
		"storage", l.Storage,
		"cascade", l.Cascade)
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
