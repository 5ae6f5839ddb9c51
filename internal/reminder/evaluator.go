package reminder

import (
	"context"
	"time"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/errors"
	"github.com/goalsapp/reminderd/internal/logging"
	"github.com/goalsapp/reminderd/internal/model"
)

// Evaluator runs the per-user evaluation pass: given one user's settings,
// habits, missions and goals at an explicit "now", it decides which
// notifications fire and delivers them. The dedup ledger is written only
// after the channel acknowledged a send, so a transient delivery failure is
// retried implicitly on the next tick within the same window.
type Evaluator struct {
	store   Store
	sender  Sender
	windows config.WindowConfig
}

// NewEvaluator creates an evaluator.
func NewEvaluator(store Store, sender Sender, windows config.WindowConfig) *Evaluator {
	return &Evaluator{
		store:   store,
		sender:  sender,
		windows: windows,
	}
}

// EvaluateUser runs one evaluation pass for one user. now must already be in
// the reference timezone. Storage errors propagate to the caller; delivery
// failures do not (they are logged and retried by the next tick).
func (e *Evaluator) EvaluateUser(ctx context.Context, now time.Time, userID int64) error {
	nowMin := now.Hour()*60 + now.Minute()
	day := now.Format(model.DateLayout)
	log := logging.With(logging.KeyUserID, userID)

	settings, err := e.store.UserSettings(userID)
	if err != nil {
		return errors.WithContext(err, "load settings")
	}
	if !settings.NotificationsEnabled {
		return nil
	}

	quiet, err := InQuietHours(nowMin, settings.QuietHoursStart, settings.QuietHoursEnd)
	if err != nil {
		// Fail open but keep the bug visible.
		log.Warn("malformed quiet hours, ignoring", logging.KeyError, err)
	}
	if quiet {
		return nil
	}

	intensity := settings.EffectiveIntensity()
	firstSent := settings.FirstReminderSent

	habits, err := e.store.HabitsNotDoneToday(userID, day)
	if err != nil {
		return errors.WithContext(err, "load habits")
	}

	var noHistory []*model.Habit
	for _, habit := range habits {
		avgStr, err := e.store.HabitAvgCompletionTime(habit.ID, e.windows.AvgHistoryDays, now)
		if err != nil {
			return errors.WithContextf(err, "habit %s average time", habit.ID)
		}
		if avgStr == "" {
			noHistory = append(noHistory, habit)
			continue
		}
		avgMin, err := ParseClock(avgStr)
		if err != nil {
			log.Warn("unparseable average time, treating as no history",
				logging.KeyHabitID, habit.ID, logging.KeyError, err)
			noHistory = append(noHistory, habit)
			continue
		}

		w := HabitWindows(avgMin, e.windows)
		title := habit.DisplayTitle()

		// At most one send per habit per tick; the windows are disjoint by
		// construction but each branch still ends the habit's turn.
		switch {
		case intensity >= 1 && w.First.Contains(nowMin):
			scope := model.HabitScope(model.KindHabitFirst, habit.ID)
			text := habitFirstMessage(title, !firstSent)
			delivered, err := e.send(ctx, userID, scope, text, now, day)
			if err != nil {
				return err
			}
			if delivered && !firstSent {
				if err := e.store.SetFirstReminderSent(userID); err != nil {
					return errors.WithContext(err, "set first reminder flag")
				}
				firstSent = true
			}
		case intensity >= 2 && w.Second.Contains(nowMin):
			scope := model.HabitScope(model.KindHabitSecond, habit.ID)
			if _, err := e.send(ctx, userID, scope, habitSecondMessage(title), now, day); err != nil {
				return err
			}
		case intensity >= 3 && w.Third.Contains(nowMin):
			scope := model.HabitScope(model.KindHabitThird, habit.ID)
			if _, err := e.send(ctx, userID, scope, habitThirdMessage(title), now, day); err != nil {
				return err
			}
		}
	}

	// Habits without completion history share one batched nudge in the
	// fallback window, under a user-global key.
	if len(noHistory) > 0 && intensity >= 1 && FallbackWindow(e.windows).Contains(nowMin) {
		scope := model.GlobalScope(model.KindHabitNoHistory)
		text := noHistoryMessage(len(noHistory), !firstSent)
		delivered, err := e.send(ctx, userID, scope, text, now, day)
		if err != nil {
			return err
		}
		if delivered && !firstSent {
			if err := e.store.SetFirstReminderSent(userID); err != nil {
				return errors.WithContext(err, "set first reminder flag")
			}
			firstSent = true
		}
	}

	if err := e.checkMissionDeadlines(ctx, now, day, userID); err != nil {
		return err
	}

	return e.checkGoalDaily(ctx, now, nowMin, day, userID)
}

// checkMissionDeadlines sends a warning for every non-completed mission
// whose deadline is exactly 7 calendar days away. The comparison is
// exact-day equality: a full-day tick outage on that day skips the warning
// for good, which mirrors the historical behavior pending product
// clarification.
func (e *Evaluator) checkMissionDeadlines(ctx context.Context, now time.Time, day string, userID int64) error {
	missions, err := e.store.Missions(userID, false)
	if err != nil {
		return errors.WithContext(err, "load missions")
	}

	weekLater := now.AddDate(0, 0, 7).Format(model.DateLayout)
	for _, mission := range missions {
		if mission.ID == "" || mission.DeadlineDate() != weekLater {
			continue
		}
		scope := model.MissionScope(mission.ID)
		text := missionDeadlineMessage(mission.DisplayTitle())
		if _, err := e.send(ctx, userID, scope, text, now, day); err != nil {
			return err
		}
	}
	return nil
}

// checkGoalDaily sends the once-a-day incomplete goals summary inside its
// fixed window.
func (e *Evaluator) checkGoalDaily(ctx context.Context, now time.Time, nowMin int, day string, userID int64) error {
	if !GoalDailyWindow(e.windows).Contains(nowMin) {
		return nil
	}

	scope := model.GlobalScope(model.KindGoalDaily)
	already, err := e.store.WasSentToday(userID, scope, day)
	if err != nil {
		return errors.WithContext(err, "ledger check")
	}
	if already {
		return nil
	}

	goals, err := e.store.Goals(userID, false)
	if err != nil {
		return errors.WithContext(err, "load goals")
	}
	if len(goals) == 0 {
		return nil
	}

	_, err = e.send(ctx, userID, scope, goalDailyMessage(len(goals)), now, day)
	return err
}

// send performs the dedup-checked, acknowledgment-gated delivery for one
// scope. It returns true only when the message was delivered and logged.
// Delivery failures are contained here: the ledger stays unwritten and the
// next tick retries while the window is still open.
func (e *Evaluator) send(ctx context.Context, userID int64, scope model.Scope, text string, now time.Time, day string) (bool, error) {
	already, err := e.store.WasSentToday(userID, scope, day)
	if err != nil {
		return false, errors.WithContext(err, "ledger check")
	}
	if already {
		return false, nil
	}

	if err := e.sender.SendMessage(ctx, userID, text); err != nil {
		logging.Warn("delivery not acknowledged, will retry next tick",
			logging.KeyUserID, userID,
			logging.KeyKind, string(scope.Kind),
			logging.KeyError, err)
		return false, nil
	}

	if err := e.store.LogSent(userID, scope, now); err != nil {
		return true, errors.WithContext(err, "ledger write")
	}

	logging.Debug("reminder sent",
		logging.KeyUserID, userID,
		logging.KeyKind, string(scope.Kind))
	return true, nil
}
