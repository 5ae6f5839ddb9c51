// Package worker drives the periodic reminder evaluation: a cron-backed
// tick loop that walks all notifiable users and runs the evaluation pass
// for each, with per-user failure isolation.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/logging"
	"github.com/goalsapp/reminderd/internal/reminder"
)

// Worker owns the tick loop.
type Worker struct {
	cron           *cron.Cron
	store          reminder.Store
	eval           *reminder.Evaluator
	interval       time.Duration
	sleepThreshold time.Duration
	loc            *time.Location

	// nowFunc is replaceable in tests.
	nowFunc func() time.Time

	mu       sync.Mutex
	lastTick time.Time
}

// New creates a worker from configuration. The reference timezone is
// resolved here so a bad zone name fails at startup, not mid-tick.
func New(store reminder.Store, sender reminder.Sender, cfg *config.Config) (*Worker, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return &Worker{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		store:          store,
		eval:           reminder.NewEvaluator(store, sender, cfg.Windows),
		interval:       cfg.Worker.TickInterval,
		sleepThreshold: cfg.Worker.SleepThreshold,
		loc:            loc,
		nowFunc:        time.Now,
	}, nil
}

// Start runs the first tick immediately and then on every interval. ctx is
// passed down to deliveries; Stop ends the loop.
func (w *Worker) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %ds", int(w.interval.Seconds()))
	_, err := w.cron.AddFunc(spec, func() { w.tick(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule tick: %w", err)
	}

	logging.Info("worker started",
		"interval", w.interval.String(),
		"timezone", w.loc.String())

	w.cron.Start()
	go w.tick(ctx)
	return nil
}

// Stop stops the tick loop and waits for a running tick to finish.
func (w *Worker) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	logging.Info("worker stopped")
}

// RunOnce executes a single evaluation pass, for the one-shot command.
func (w *Worker) RunOnce(ctx context.Context) error {
	return w.runPass(ctx, w.nowFunc().In(w.loc))
}

// tick is the cron entry point. A panic here must never kill the daemon.
func (w *Worker) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("tick panicked", logging.KeyError, fmt.Sprint(r))
		}
	}()

	now := w.nowFunc().In(w.loc)
	if w.staleAfterSleep(now) {
		return
	}

	start := time.Now()
	if err := w.runPass(ctx, now); err != nil {
		logging.Error("tick failed", logging.KeyError, err)
		return
	}
	logging.Debug("tick complete",
		logging.KeyTick, now.Format("15:04"),
		logging.KeyDuration, time.Since(start).Milliseconds())
}

// staleAfterSleep detects a large gap since the previous tick, which means
// the host was suspended. The catch-up tick is skipped so a burst of
// overdue windows is not delivered hours late.
func (w *Worker) staleAfterSleep(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	last := w.lastTick
	w.lastTick = now
	if last.IsZero() || now.Sub(last) <= w.sleepThreshold {
		return false
	}

	logging.Warn("skipping stale tick after sleep",
		"elapsed", now.Sub(last).Round(time.Second).String())
	return true
}

// runPass walks every notifiable user. One user's failure, including a
// panic, never blocks the rest.
func (w *Worker) runPass(ctx context.Context, now time.Time) error {
	userIDs, err := w.store.UserIDsWithNotifications()
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	for _, userID := range userIDs {
		w.runUser(ctx, now, userID)
	}
	return nil
}

func (w *Worker) runUser(ctx context.Context, now time.Time, userID int64) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("user evaluation panicked",
				logging.KeyUserID, userID,
				logging.KeyError, fmt.Sprint(r))
		}
	}()

	if err := w.eval.EvaluateUser(ctx, now, userID); err != nil {
		logging.Error("user evaluation failed",
			logging.KeyUserID, userID,
			logging.KeyError, err)
	}
}
