// Reminderd - smart reminder daemon for habits, goals and missions.
package main

import (
	"os"

	"github.com/goalsapp/reminderd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
