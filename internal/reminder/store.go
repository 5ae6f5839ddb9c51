package reminder

import (
	"context"
	"time"

	"github.com/goalsapp/reminderd/internal/model"
)

// Store is the persistence surface the evaluation core consumes. The
// storage package provides the Badger-backed implementation; tests may
// substitute their own.
type Store interface {
	// UserIDsWithNotifications returns users eligible for evaluation
	// (coarse pre-filter; per-user settings are re-checked per tick).
	UserIDsWithNotifications() ([]int64, error)

	// UserSettings returns a user's reminder settings, defaults applied.
	UserSettings(userID int64) (*model.ReminderSettings, error)

	// SetFirstReminderSent sets the lifetime first-reminder flag.
	SetFirstReminderSent(userID int64) error

	// HabitsNotDoneToday returns the user's active, reminder-enabled
	// habits with no completion for the given day.
	HabitsNotDoneToday(userID int64, day string) ([]*model.Habit, error)

	// HabitAvgCompletionTime returns the habit's rolling mean completion
	// time as "HH:MM", or "" when no usable history exists.
	HabitAvgCompletionTime(habitID string, days int, now time.Time) (string, error)

	// Missions returns the user's missions.
	Missions(userID int64, includeCompleted bool) ([]*model.Mission, error)

	// Goals returns the user's goals.
	Goals(userID int64, includeCompleted bool) ([]*model.Goal, error)

	// WasSentToday queries the dedup ledger.
	WasSentToday(userID int64, scope model.Scope, day string) (bool, error)

	// LogSent appends to the dedup ledger. Only called after a confirmed
	// delivery.
	LogSent(userID int64, scope model.Scope, at time.Time) error
}

// Sender is the notification channel. A nil error is a delivery
// acknowledgment; anything else means the send must not be recorded as
// done.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
