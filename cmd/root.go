// Package cmd provides the CLI commands for reminderd.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/logging"
	"github.com/goalsapp/reminderd/internal/output"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagColor string
	flagDebug bool
)

// cfg is the shared runtime configuration, loaded once per invocation.
var cfg *config.Config

// out is the shared terminal formatter.
var out = output.NewFormatter()

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "reminderd",
	Short: "Smart reminder daemon for habits, goals and missions",
	Long: `Reminderd watches each user's habit completion history, learns when
they usually complete each habit and nudges them over Telegram inside
short windows around that time. It also warns about mission deadlines a
week ahead and posts a daily summary of unfinished goals.

Examples:
  reminderd start              # Start the daemon in the background
  reminderd status             # Show whether it is running
  reminderd tick --dry-run     # Run one evaluation pass without sending
  reminderd logs --tail 50`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()

		switch flagColor {
		case "always":
			out.ColorMode = output.ColorAlways
		case "never":
			out.ColorMode = output.ColorNever
		default:
			out.ColorMode = output.ColorAuto
		}

		level := slog.LevelInfo
		if flagDebug {
			level = slog.LevelDebug
		}
		logging.Init(logging.Config{Level: level})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reminderd %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
