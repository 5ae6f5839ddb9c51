package storage

import (
	"time"

	"github.com/goalsapp/reminderd/internal/model"
)

// ReminderStore bundles the repositories behind the persistence surface the
// reminder core consumes.
type ReminderStore struct {
	users    *UserRepo
	settings *SettingsRepo
	habits   *HabitRepo
	missions *MissionRepo
	goals    *GoalRepo
	sentLog  *SentLogRepo
}

// NewReminderStore creates the aggregate over one database.
func NewReminderStore(db *DB) *ReminderStore {
	return &ReminderStore{
		users:    NewUserRepo(db),
		settings: NewSettingsRepo(db),
		habits:   NewHabitRepo(db),
		missions: NewMissionRepo(db),
		goals:    NewGoalRepo(db),
		sentLog:  NewSentLogRepo(db),
	}
}

// UserIDsWithNotifications returns users not having opted out.
func (s *ReminderStore) UserIDsWithNotifications() ([]int64, error) {
	return s.settings.UserIDsWithNotifications(s.users)
}

// UserSettings returns a user's settings with defaults applied.
func (s *ReminderStore) UserSettings(userID int64) (*model.ReminderSettings, error) {
	return s.settings.Get(userID)
}

// SetFirstReminderSent sets the lifetime first-reminder flag.
func (s *ReminderStore) SetFirstReminderSent(userID int64) error {
	return s.settings.SetFirstReminderSent(userID)
}

// HabitsNotDoneToday returns remindable habits pending for the day.
func (s *ReminderStore) HabitsNotDoneToday(userID int64, day string) ([]*model.Habit, error) {
	return s.habits.NotDoneToday(userID, day)
}

// HabitAvgCompletionTime returns the rolling mean completion time.
func (s *ReminderStore) HabitAvgCompletionTime(habitID string, days int, now time.Time) (string, error) {
	return s.habits.AvgCompletionTime(habitID, days, now)
}

// Missions returns the user's missions.
func (s *ReminderStore) Missions(userID int64, includeCompleted bool) ([]*model.Mission, error) {
	return s.missions.ListByUser(userID, includeCompleted)
}

// Goals returns the user's goals.
func (s *ReminderStore) Goals(userID int64, includeCompleted bool) ([]*model.Goal, error) {
	return s.goals.ListByUser(userID, includeCompleted)
}

// WasSentToday queries the dedup ledger.
func (s *ReminderStore) WasSentToday(userID int64, scope model.Scope, day string) (bool, error) {
	return s.sentLog.WasSentToday(userID, scope, day)
}

// LogSent appends to the dedup ledger.
func (s *ReminderStore) LogSent(userID int64, scope model.Scope, at time.Time) error {
	return s.sentLog.LogSent(userID, scope, at)
}
