package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalsapp/reminderd/internal/model"
)

func setupTestDB(t *testing.T) *DB {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustLoc(t *testing.T, name string) *time.Location {
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestSettingsDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings, err := repo.Get(100)
	require.NoError(t, err)
	assert.True(t, settings.NotificationsEnabled)
	assert.Equal(t, model.IntensityDefault, settings.Intensity)
	assert.False(t, settings.FirstReminderSent)
	assert.Empty(t, settings.QuietHoursStart)
}

func TestSettingsPutAndFirstReminderFlag(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSettingsRepo(db)

	settings := model.DefaultSettings(100)
	settings.QuietHoursStart = "22:00"
	settings.QuietHoursEnd = "08:00"
	settings.Intensity = 3
	require.NoError(t, repo.Put(settings))

	got, err := repo.Get(100)
	require.NoError(t, err)
	assert.Equal(t, "22:00", got.QuietHoursStart)
	assert.Equal(t, 3, got.Intensity)

	require.NoError(t, repo.SetFirstReminderSent(100))
	got, err = repo.Get(100)
	require.NoError(t, err)
	assert.True(t, got.FirstReminderSent)
	// The rest of the settings survive the flag update.
	assert.Equal(t, "22:00", got.QuietHoursStart)
}

func TestUserIDsWithNotifications(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserRepo(db)
	settings := NewSettingsRepo(db)

	require.NoError(t, users.Create(model.NewUser(1, "a")))
	require.NoError(t, users.Create(model.NewUser(2, "b")))
	require.NoError(t, users.Create(model.NewUser(3, "c")))

	// User 2 opts out. User 3 has a settings row but stays enabled.
	s2 := model.DefaultSettings(2)
	s2.NotificationsEnabled = false
	require.NoError(t, settings.Put(s2))
	require.NoError(t, settings.Put(model.DefaultSettings(3)))

	ids, err := settings.UserIDsWithNotifications(users)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}

func TestHabitNotDoneToday(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	water := model.NewHabit("", 1, "Drink water")
	require.NoError(t, repo.Create(water))
	reading := model.NewHabit("", 1, "Read a book")
	require.NoError(t, repo.Create(reading))
	paused := model.NewHabit("", 1, "Paused habit")
	paused.Active = false
	require.NoError(t, repo.Create(paused))
	muted := model.NewHabit("", 1, "Muted habit")
	muted.RemindersEnabled = false
	require.NoError(t, repo.Create(muted))
	otherUser := model.NewHabit("", 2, "Someone else")
	require.NoError(t, repo.Create(otherUser))

	day := "2025-06-01"
	require.NoError(t, repo.MarkCompleted(reading.ID, day, time.Now()))

	habits, err := repo.NotDoneToday(1, day)
	require.NoError(t, err)
	require.Len(t, habits, 1)
	assert.Equal(t, water.ID, habits[0].ID)

	// Next day the completed habit is pending again.
	habits, err = repo.NotDoneToday(1, "2025-06-02")
	require.NoError(t, err)
	assert.Len(t, habits, 2)
}

func TestMarkCompletedKeepsFirstTimestamp(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	habit := model.NewHabit("", 1, "Stretch")
	require.NoError(t, repo.Create(habit))

	first := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	second := first.Add(3 * time.Hour)
	require.NoError(t, repo.MarkCompleted(habit.ID, "2025-06-01", first))
	require.NoError(t, repo.MarkCompleted(habit.ID, "2025-06-01", second))

	record, err := repo.RecordFor(habit.ID, "2025-06-01")
	require.NoError(t, err)
	assert.Equal(t, 2, record.Count)
	assert.True(t, record.CompletedAt.Equal(first))
}

func TestAvgCompletionTime(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)
	loc := mustLoc(t, "Europe/Moscow")

	habit := model.NewHabit("", 1, "Drink water")
	require.NoError(t, repo.Create(habit))

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	// Completions at 09:50 and 10:10 within the window -> average 10:00.
	for i, clock := range []struct{ h, m int }{{9, 50}, {10, 10}} {
		day := now.AddDate(0, 0, -(i + 1))
		at := time.Date(day.Year(), day.Month(), day.Day(), clock.h, clock.m, 0, 0, loc)
		require.NoError(t, repo.MarkCompleted(habit.ID, day.Format(model.DateLayout), at))
	}

	avg, err := repo.AvgCompletionTime(habit.ID, 30, now)
	require.NoError(t, err)
	assert.Equal(t, "10:00", avg)
}

func TestAvgCompletionTimeIgnoresOldAndTimeless(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)
	loc := mustLoc(t, "Europe/Moscow")

	habit := model.NewHabit("", 1, "Run")
	require.NoError(t, repo.Create(habit))

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, loc)

	// Too old to count.
	old := now.AddDate(0, 0, -40)
	require.NoError(t, repo.MarkCompleted(habit.ID, old.Format(model.DateLayout), old))

	// Recent but without a captured completion time.
	require.NoError(t, repo.PutRecord(&model.HabitRecord{
		HabitID:   habit.ID,
		Date:      now.AddDate(0, 0, -2).Format(model.DateLayout),
		Completed: true,
		Count:     1,
	}))

	avg, err := repo.AvgCompletionTime(habit.ID, 30, now)
	require.NoError(t, err)
	assert.Equal(t, "", avg, "no usable history means no average")
}

func TestSentLogDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSentLogRepo(db)
	loc := mustLoc(t, "Europe/Moscow")

	at := time.Date(2025, 6, 1, 9, 50, 0, 0, loc)
	day := at.Format(model.DateLayout)
	scope := model.HabitScope(model.KindHabitFirst, "h1")

	sent, err := repo.WasSentToday(1, scope, day)
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, repo.LogSent(1, scope, at))

	sent, err = repo.WasSentToday(1, scope, day)
	require.NoError(t, err)
	assert.True(t, sent)

	// Different kind, same habit, same day: distinct ledger entry.
	sent, err = repo.WasSentToday(1, model.HabitScope(model.KindHabitSecond, "h1"), day)
	require.NoError(t, err)
	assert.False(t, sent)

	// Same scope the next day: clean slate.
	sent, err = repo.WasSentToday(1, scope, "2025-06-02")
	require.NoError(t, err)
	assert.False(t, sent)

	records, err := repo.ListByUserDay(1, day)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.KindHabitFirst, records[0].Kind)
	assert.Equal(t, "h1", records[0].HabitID)
}

func TestMissionAndGoalListing(t *testing.T) {
	db := setupTestDB(t)
	missions := NewMissionRepo(db)
	goals := NewGoalRepo(db)

	m1 := model.NewMission("", 1, "Learn Go", "2025-06-08")
	require.NoError(t, missions.Create(m1))
	m2 := model.NewMission("", 1, "Done already", "")
	m2.Completed = true
	require.NoError(t, missions.Create(m2))

	got, err := missions.ListByUser(1, false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Learn Go", got[0].Title)

	got, err = missions.ListByUser(1, true)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.NoError(t, goals.Create(model.NewGoal("", 1, "Ship v1")))
	g2 := model.NewGoal("", 1, "Shipped")
	g2.Completed = true
	require.NoError(t, goals.Create(g2))

	open, err := goals.ListByUser(1, false)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
