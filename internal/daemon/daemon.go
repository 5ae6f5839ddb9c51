package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/errors"
	"github.com/goalsapp/reminderd/internal/logging"
	"github.com/goalsapp/reminderd/internal/storage"
	"github.com/goalsapp/reminderd/internal/telegram"
	"github.com/goalsapp/reminderd/internal/worker"
)

// Daemon manages the background reminder process.
type Daemon struct {
	pidFile *PIDFile
	cfg     *config.Config
}

// Status represents the daemon status.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

// New creates a new daemon manager.
func New(cfg *config.Config) *Daemon {
	return &Daemon{
		pidFile: NewPIDFile(),
		cfg:     cfg,
	}
}

// IsRunning returns true if the daemon is running.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{}

	pid := d.pidFile.GetRunningPID()
	if pid > 0 {
		status.Running = true
		status.PID = pid
		if state, err := d.readState(); err == nil {
			status.StartedAt = state.StartedAt
			status.Uptime = formatUptime(time.Since(state.StartedAt))
		}
	}
	return status
}

// Run runs the daemon in the foreground until a shutdown signal arrives.
// It owns the full wiring: database, delivery channel, tick worker.
func (d *Daemon) Run(ctx context.Context) error {
	if d.IsRunning() {
		return errors.ErrAlreadyRunning
	}
	if d.cfg.Telegram.Token == "" {
		return errors.ErrMissingToken
	}

	if err := d.pidFile.Write(); err != nil {
		return err
	}
	defer d.pidFile.Remove()

	if err := d.writeState(&State{StartedAt: time.Now()}); err != nil {
		return err
	}
	defer d.removeState()

	dbPath := d.cfg.Storage.Path
	if dbPath == "" {
		dbPath = storage.DefaultPath()
	}
	db, err := storage.Open(storage.Options{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	store := storage.NewReminderStore(db)
	sender := telegram.NewClient(d.cfg.Telegram)

	w, err := worker.New(store, sender, d.cfg)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}

	sigHandler := NewSignalHandler()
	sigHandler.Setup()
	defer sigHandler.Cleanup()

	logging.Info("daemon started", "pid", os.Getpid(), "db", dbPath)

	sig := sigHandler.Wait(ctx)
	if sig != nil {
		logging.Info("received signal", "signal", sig.String())
	}

	w.Stop()
	return nil
}

// StartBackground starts the daemon as a detached child process.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.GetRunningPID(), errors.ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, "start", "--foreground")
	cmd.Stdin = nil

	// Stray prints from the child land in the daemon log too.
	logPath := LogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err == nil {
			cmd.Stdout = logFile
			cmd.Stderr = logFile
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}

	// Give the child a moment to write its PID file.
	time.Sleep(d.cfg.Daemon.StartupWait)

	if !d.pidFile.IsRunning() {
		if errMsg := d.readLastLogError(); errMsg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", errMsg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", logPath)
	}

	return cmd.Process.Pid, nil
}

// Stop stops the running daemon.
func (d *Daemon) Stop() error {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return errors.ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
	}

	// Wait for the process to exit, force kill on timeout.
	deadline := time.Now().Add(d.cfg.Daemon.KillTimeout)
	for time.Now().Before(deadline) {
		if !IsProcessRunning(pid) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if IsProcessRunning(pid) {
		process.Kill()
	}

	d.pidFile.Remove()
	d.removeState()
	return nil
}

// readLastLogError scans the tail of the log file for an error line, to
// surface a useful message when background startup fails.
func (d *Daemon) readLastLogError() string {
	data, err := os.ReadFile(LogPath())
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := len(lines) - 10
	if start < 0 {
		start = 0
	}

	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(strings.ToLower(line), "error") ||
			strings.Contains(line, "failed to") {
			return line
		}
	}
	return ""
}

// State holds persistent daemon state.
type State struct {
	StartedAt time.Time `json:"started_at"`
}

func statePath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.json")
}

func (d *Daemon) writeState(state *State) error {
	path := statePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (d *Daemon) readState() (*State, error) {
	data, err := os.ReadFile(statePath())
	if err != nil {
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (d *Daemon) removeState() {
	if err := os.Remove(statePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file",
			logging.KeyError, err, "path", statePath())
	}
}

// formatUptime formats a duration as human-readable uptime.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
