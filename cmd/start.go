package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/daemon"
	"github.com/goalsapp/reminderd/internal/logging"
)

var startFlagForeground bool

// startCmd starts the reminder daemon.
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reminder daemon",
	Long: `Start the reminderd background process.

The daemon ticks every few minutes, evaluates all users and delivers due
reminders via the Telegram Bot API. The bot token comes from the
REMINDERD_BOT_TOKEN environment variable.

Examples:
  reminderd start         # Start in background
  reminderd start -f      # Start in foreground (for debugging)`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().BoolVarP(&startFlagForeground, "foreground", "f", false,
		"Run in foreground (don't daemonize)")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	d := daemon.New(cfg)

	if !startFlagForeground {
		if d.IsRunning() {
			return fmt.Errorf("daemon is already running (PID: %d)", d.GetStatus().PID)
		}

		out.Println("Starting reminderd...")
		pid, err := d.StartBackground()
		if err != nil {
			return err
		}
		out.Success(fmt.Sprintf("Daemon started (PID: %d)", pid))
		return nil
	}

	if d.IsRunning() {
		return fmt.Errorf("daemon is already running (PID: %d)", d.GetStatus().PID)
	}

	// When detached (spawned by StartBackground) stderr is not a terminal;
	// log JSON lines into the rotating daemon log instead.
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		logWriter, err := daemon.NewLogWriter(cfg.Daemon.LogMaxSize)
		if err != nil {
			return err
		}
		defer logWriter.Close()

		level := slog.LevelInfo
		if flagDebug {
			level = slog.LevelDebug
		}
		logging.Init(logging.Config{Level: level, JSON: true, Output: logWriter})
	} else {
		out.Println("Starting reminderd (foreground mode)...")
	}

	return d.Run(context.Background())
}
