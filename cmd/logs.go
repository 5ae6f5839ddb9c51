package cmd

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/goalsapp/reminderd/internal/daemon"
)

var (
	logsFlagTail   int
	logsFlagFollow bool
)

// logsCmd shows daemon logs.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View daemon logs",
	Long: `View the daemon log file.

Examples:
  reminderd logs
  reminderd logs --tail 50
  reminderd logs -f`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().IntVarP(&logsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	logsCmd.Flags().BoolVarP(&logsFlagFollow, "follow", "f", false,
		"Follow log output (like tail -f)")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.LogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		out.Println("No log file found.")
		out.Muted(fmt.Sprintf("Log path: %s", logPath))
		return nil
	}

	if logsFlagFollow {
		return followLogs(logPath)
	}

	lines, err := tailFile(logPath, logsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		out.Println(line)
	}
	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// followLogs prints new log lines as they are appended.
func followLogs(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	file.Seek(0, 2)

	scanner := bufio.NewScanner(file)
	for {
		for scanner.Scan() {
			out.Println(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		time.Sleep(500 * time.Millisecond)
		scanner = bufio.NewScanner(file)
	}
}
