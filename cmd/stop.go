package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/daemon"
)

// stopCmd stops the reminder daemon.
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the reminder daemon",
	RunE:  runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	d := daemon.New(cfg)

	if !d.IsRunning() {
		out.Println("Daemon is not running")
		return nil
	}

	pid := d.GetStatus().PID
	out.Println("Stopping reminderd...")

	if err := d.Stop(); err != nil {
		return err
	}

	out.Success(fmt.Sprintf("Daemon stopped (was PID: %d)", pid))
	return nil
}
