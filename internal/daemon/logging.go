package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
)

// LogWriter is the append-only daemon log sink with size-based rotation.
// It implements io.Writer so the structured logger can write through it.
type LogWriter struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	maxSize int64
}

// NewLogWriter opens the daemon log for appending, rotating it first if it
// already exceeds maxSize bytes.
func NewLogWriter(maxSize int64) (*LogWriter, error) {
	return newLogWriterAt(LogPath(), maxSize)
}

func newLogWriterAt(path string, maxSize int64) (*LogWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	w := &LogWriter{file: file, path: path, maxSize: maxSize}
	if err := w.rotateIfNeeded(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Write appends to the log, rotating first when the size limit is hit.
func (w *LogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateIfNeededLocked(); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

// Close closes the log file.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		return w.file.Close()
	}
	return nil
}

func (w *LogWriter) rotateIfNeeded() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotateIfNeededLocked()
}

// rotateIfNeededLocked swaps the log for a fresh one, keeping a single .old
// backup. Caller holds the mutex.
func (w *LogWriter) rotateIfNeededLocked() error {
	if w.maxSize <= 0 {
		return nil
	}

	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < w.maxSize {
		return nil
	}

	w.file.Close()
	backup := w.path + ".old"
	os.Remove(backup)
	if err := os.Rename(w.path, backup); err != nil {
		return err
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	w.file = file
	return nil
}

// LogPath returns the path to the daemon log file.
func LogPath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.log")
}
