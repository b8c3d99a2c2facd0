// Command posttypes loads post type definitions and renders or saves their
// edit screens against an in-process host, either from the command line or
// over HTTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagVerbose bool

	cfg    config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "posttypes",
	Short: "Render and save post type edit screens",
	Long: `posttypes registers the post types described by definition files with an
in-process host and renders or saves their edit screens.

Configuration is read from posttypes.yaml in the working directory, or the
file given with --config, and POSTTYPES_* environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cfg.LogLevel, flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./posttypes.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(scaffoldCmd)
	rootCmd.AddCommand(openapiCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger(level string, verbose bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
