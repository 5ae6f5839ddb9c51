package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/errors"
	"github.com/goalsapp/reminderd/internal/reminder"
	"github.com/goalsapp/reminderd/internal/storage"
	"github.com/goalsapp/reminderd/internal/telegram"
	"github.com/goalsapp/reminderd/internal/worker"
)

var tickFlagDryRun bool

// tickCmd runs a single evaluation pass.
var tickCmd = &cobra.Command{
	Use:   "tick",
	Short: "Run one evaluation pass and exit",
	Long: `Run a single reminder evaluation pass across all users, then exit.

Useful for debugging window math against live data, or for driving the
evaluation from an external scheduler instead of the built-in daemon.

Examples:
  reminderd tick
  reminderd tick --dry-run   # Print due reminders without sending`,
	RunE: runTick,
}

func init() {
	tickCmd.Flags().BoolVar(&tickFlagDryRun, "dry-run", false,
		"Print due reminders instead of sending them")
	rootCmd.AddCommand(tickCmd)
}

func runTick(cmd *cobra.Command, args []string) error {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = storage.DefaultPath()
	}

	db, err := storage.Open(storage.Options{Path: cfg.Storage.Path})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var sender reminder.Sender
	if tickFlagDryRun {
		sender = &dryRunSender{}
	} else {
		if cfg.Telegram.Token == "" {
			return errors.ErrMissingToken
		}
		sender = telegram.NewClient(cfg.Telegram)
	}

	w, err := worker.New(storage.NewReminderStore(db), sender, cfg)
	if err != nil {
		return err
	}

	if err := w.RunOnce(context.Background()); err != nil {
		return err
	}

	out.Success("tick complete")
	return nil
}

// dryRunSender prints what would be sent. It returns an error so the
// evaluation never acknowledges the delivery and the dedup ledger stays
// untouched.
type dryRunSender struct{}

var errDryRun = errors.New("dry run")

func (s *dryRunSender) SendMessage(_ context.Context, chatID int64, text string) error {
	out.Printf("would send to %d:\n", chatID)
	out.Muted("  " + text)
	return errDryRun
}
