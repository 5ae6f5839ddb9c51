package cmd

import (
	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/daemon"
)

var statusFlagJSON bool

// statusCmd shows daemon status.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusFlagJSON, "json", false,
		"Output status as JSON")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	d := daemon.New(cfg)
	status := d.GetStatus()

	if statusFlagJSON {
		return out.JSON(status)
	}

	out.Title("Reminderd Status")
	out.Println("")

	if status.Running {
		out.Printf("  Status:    running\n")
		out.Printf("  PID:       %d\n", status.PID)
		if status.Uptime != "" {
			out.Printf("  Uptime:    %s\n", status.Uptime)
		}
		out.Printf("  Interval:  %s\n", cfg.Worker.TickInterval)
		out.Printf("  Timezone:  %s\n", cfg.Worker.Timezone)
	} else {
		out.Printf("  Status:    stopped\n")
		out.Println("")
		out.Muted("Start with: reminderd start")
	}

	if cfg.Telegram.Token == "" {
		out.Println("")
		out.Warning("no bot token configured (set REMINDERD_BOT_TOKEN)")
	}

	return nil
}
