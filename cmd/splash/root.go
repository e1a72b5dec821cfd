package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/splash/internal/config"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	cfg        *config.Config
	globalOpts struct {
		verbose    bool
		configPath string
	}
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "splash",
	Short: "Non-blocking splash screens for desktop and terminal",
	Long: `splash shows small borderless status windows that stay on top of other
windows while a long running task keeps working.

A splash can be driven from a script through stdin or a followed file,
from another process over D-Bus, or by a scenario file.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/splash/splash.toml)")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel()})
	setLogger(slog.New(handler))
}

func logLevel() slog.Level {
	if globalOpts.verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

func setLogger(l *slog.Logger) {
	logger = l
	slog.SetDefault(l)
}
