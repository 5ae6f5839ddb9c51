package reminder

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/errors"
	"github.com/goalsapp/reminderd/internal/model"
	"github.com/goalsapp/reminderd/internal/storage"
)

type sentMsg struct {
	chatID int64
	text   string
}

// fakeSender records deliveries and can be flipped into failure mode to
// model an unreachable channel.
type fakeSender struct {
	fail     bool
	attempts int
	sends    []sentMsg
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.attempts++
	if f.fail {
		return errors.Transient("send message", errors.New("connection refused"))
	}
	f.sends = append(f.sends, sentMsg{chatID: chatID, text: text})
	return nil
}

type evalFixture struct {
	settings *storage.SettingsRepo
	habits   *storage.HabitRepo
	missions *storage.MissionRepo
	goals    *storage.GoalRepo
	sentLog  *storage.SentLogRepo
	sender   *fakeSender
	eval     *Evaluator
}

func setupEvaluator(t *testing.T) *evalFixture {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sender := &fakeSender{}
	return &evalFixture{
		settings: storage.NewSettingsRepo(db),
		habits:   storage.NewHabitRepo(db),
		missions: storage.NewMissionRepo(db),
		goals:    storage.NewGoalRepo(db),
		sentLog:  storage.NewSentLogRepo(db),
		sender:   sender,
		eval:     NewEvaluator(storage.NewReminderStore(db), sender, config.Default().Windows),
	}
}

// seedHabit creates a habit and completion records on the two days before
// now, at the given clock times, which fixes its learned average.
func (f *evalFixture) seedHabit(t *testing.T, userID int64, title string, now time.Time, clocks ...string) *model.Habit {
	t.Helper()
	habit := model.NewHabit("", userID, title)
	require.NoError(t, f.habits.Create(habit))

	for i, clock := range clocks {
		day := now.AddDate(0, 0, -(i + 1))
		var h, m int
		_, err := fmt.Sscanf(clock, "%d:%d", &h, &m)
		require.NoError(t, err)
		at := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, now.Location())
		require.NoError(t, f.habits.MarkCompleted(habit.ID, day.Format(model.DateLayout), at))
	}
	return habit
}

func TestEvaluateFirstNudgeScenario(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(1)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	habit := f.seedHabit(t, userID, "Drink water", now, "09:50", "10:10") // avg 10:00

	// 09:50 falls inside the first window 09:45-10:05.
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	require.Len(t, f.sender.sends, 1)
	assert.Equal(t, userID, f.sender.sends[0].chatID)
	assert.Contains(t, f.sender.sends[0].text, "water")
	assert.True(t, strings.HasSuffix(f.sender.sends[0].text, DisableHint),
		"the very first reminder carries the disable hint")

	settings, err := f.settings.Get(userID)
	require.NoError(t, err)
	assert.True(t, settings.FirstReminderSent)

	// A second pass in the same window is a no-op: the ledger holds.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(5*time.Minute), userID))
	assert.Len(t, f.sender.sends, 1)

	// 10:35 is the second window; no hint this time.
	later := time.Date(2025, 6, 10, 10, 35, 0, 0, time.UTC)
	require.NoError(t, f.eval.EvaluateUser(ctx, later, userID))
	require.Len(t, f.sender.sends, 2)
	assert.Contains(t, f.sender.sends[1].text, "haven't checked off")
	assert.NotContains(t, f.sender.sends[1].text, DisableHint)

	// Next day the habit is done before the window opens: nothing fires.
	nextDay := time.Date(2025, 6, 11, 9, 50, 0, 0, time.UTC)
	require.NoError(t, f.habits.MarkCompleted(habit.ID, nextDay.Format(model.DateLayout),
		time.Date(2025, 6, 11, 8, 0, 0, 0, time.UTC)))
	require.NoError(t, f.eval.EvaluateUser(ctx, nextDay, userID))
	assert.Len(t, f.sender.sends, 2)
}

func TestEvaluateQuietHoursSuppress(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(2)

	now := time.Date(2025, 6, 10, 23, 0, 0, 0, time.UTC)
	f.seedHabit(t, userID, "Stretch", now, "23:00", "23:00") // avg 23:00

	settings := model.DefaultSettings(userID)
	settings.QuietHoursStart = "22:00"
	settings.QuietHoursEnd = "08:00"
	require.NoError(t, f.settings.Put(settings))

	// 23:00 is inside both the first window and quiet hours.
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	assert.Empty(t, f.sender.sends)
	assert.Zero(t, f.sender.attempts)

	// With quiet hours elsewhere the same minute delivers.
	settings.QuietHoursStart = "02:00"
	settings.QuietHoursEnd = "05:00"
	require.NoError(t, f.settings.Put(settings))
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	assert.Len(t, f.sender.sends, 1)
}

func TestEvaluateMalformedQuietHoursFailOpen(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(3)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	f.seedHabit(t, userID, "Meditate", now, "10:00", "10:00")

	settings := model.DefaultSettings(userID)
	settings.QuietHoursStart = "banana"
	settings.QuietHoursEnd = "08:00"
	require.NoError(t, f.settings.Put(settings))

	// Broken quiet hours must not mute the user.
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	assert.Len(t, f.sender.sends, 1)
}

func TestEvaluateNotificationsDisabled(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(4)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	f.seedHabit(t, userID, "Journal", now, "10:00", "10:00")

	settings := model.DefaultSettings(userID)
	settings.NotificationsEnabled = false
	require.NoError(t, f.settings.Put(settings))

	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	assert.Empty(t, f.sender.sends)
}

func TestEvaluateIntensityGating(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(5)

	base := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	f.seedHabit(t, userID, "Run", base, "10:00", "10:00")

	inFirst := base.Add(9*time.Hour + 50*time.Minute)  // 09:50
	inSecond := base.Add(10*time.Hour + 35*time.Minute) // 10:35
	inThird := base.Add(12*time.Hour + 5*time.Minute)   // 12:05

	setIntensity := func(level int) {
		settings := model.DefaultSettings(userID)
		settings.Intensity = level
		require.NoError(t, f.settings.Put(settings))
	}

	// Level 1 gets the first nudge only.
	setIntensity(1)
	require.NoError(t, f.eval.EvaluateUser(ctx, inSecond, userID))
	require.NoError(t, f.eval.EvaluateUser(ctx, inThird, userID))
	assert.Empty(t, f.sender.sends)
	require.NoError(t, f.eval.EvaluateUser(ctx, inFirst, userID))
	assert.Len(t, f.sender.sends, 1)

	// Level 2 adds the second but not the third.
	setIntensity(2)
	require.NoError(t, f.eval.EvaluateUser(ctx, inSecond, userID))
	assert.Len(t, f.sender.sends, 2)
	require.NoError(t, f.eval.EvaluateUser(ctx, inThird, userID))
	assert.Len(t, f.sender.sends, 2)

	// Level 3 unlocks the third window on the following day.
	setIntensity(3)
	require.NoError(t, f.eval.EvaluateUser(ctx, inThird.AddDate(0, 0, 1), userID))
	assert.Len(t, f.sender.sends, 3)
	assert.Contains(t, f.sender.sends[2].text, "evening")
}

func TestEvaluateNoHistoryBatch(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(6)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	require.NoError(t, f.habits.Create(model.NewHabit("", userID, "New habit one")))
	require.NoError(t, f.habits.Create(model.NewHabit("", userID, "New habit two")))

	// Both habits lack history: one batched message in the fallback window.
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	require.Len(t, f.sender.sends, 1)
	assert.Contains(t, f.sender.sends[0].text, "(2)")
	assert.True(t, strings.HasSuffix(f.sender.sends[0].text, DisableHint))

	// Deduplicated for the rest of the day.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(10*time.Minute), userID))
	assert.Len(t, f.sender.sends, 1)

	// Outside the fallback window nothing fires.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.AddDate(0, 0, 1).Add(3*time.Hour), userID))
	assert.Len(t, f.sender.sends, 1)
}

func TestEvaluateDeliveryFailureRetriesNextTick(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(7)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	f.seedHabit(t, userID, "Drink water", now, "10:00", "10:00")

	// The channel is down: the pass succeeds but nothing is committed.
	f.sender.fail = true
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	assert.Equal(t, 1, f.sender.attempts)
	assert.Empty(t, f.sender.sends)

	records, err := f.sentLog.ListByUserDay(userID, now.Format(model.DateLayout))
	require.NoError(t, err)
	assert.Empty(t, records, "ledger must stay unwritten without acknowledgment")

	settings, err := f.settings.Get(userID)
	require.NoError(t, err)
	assert.False(t, settings.FirstReminderSent)

	// Next tick, still inside the window, the send goes through once.
	f.sender.fail = false
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(5*time.Minute), userID))
	require.Len(t, f.sender.sends, 1)

	records, err = f.sentLog.ListByUserDay(userID, now.Format(model.DateLayout))
	require.NoError(t, err)
	assert.Len(t, records, 1)

	// And only once.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(10*time.Minute), userID))
	assert.Len(t, f.sender.sends, 1)
}

func TestEvaluateMissionDeadline(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(8)

	now := time.Date(2025, 6, 10, 12, 30, 0, 0, time.UTC)

	inWeek := model.NewMission("", userID, "Launch the app", "2025-06-17")
	require.NoError(t, f.missions.Create(inWeek))
	tooSoon := model.NewMission("", userID, "Write the blog post", "2025-06-16")
	require.NoError(t, f.missions.Create(tooSoon))
	done := model.NewMission("", userID, "Old mission", "2025-06-17")
	done.Completed = true
	require.NoError(t, f.missions.Create(done))

	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	require.Len(t, f.sender.sends, 1)
	assert.Contains(t, f.sender.sends[0].text, "Launch the app")
	assert.Contains(t, f.sender.sends[0].text, "7 days")

	// Once per mission per day.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(5*time.Minute), userID))
	assert.Len(t, f.sender.sends, 1)
}

func TestEvaluateGoalDaily(t *testing.T) {
	f := setupEvaluator(t)
	ctx := context.Background()
	const userID = int64(9)

	require.NoError(t, f.goals.Create(model.NewGoal("", userID, "Learn piano")))
	require.NoError(t, f.goals.Create(model.NewGoal("", userID, "Run a marathon")))
	finished := model.NewGoal("", userID, "Old goal")
	finished.Completed = true
	require.NoError(t, f.goals.Create(finished))

	now := time.Date(2025, 6, 10, 10, 5, 0, 0, time.UTC)
	require.NoError(t, f.eval.EvaluateUser(ctx, now, userID))
	require.Len(t, f.sender.sends, 1)
	assert.Contains(t, f.sender.sends[0].text, "2 unfinished")

	// Once a day.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.Add(5*time.Minute), userID))
	assert.Len(t, f.sender.sends, 1)

	// Outside the window nothing fires.
	require.NoError(t, f.eval.EvaluateUser(ctx, now.AddDate(0, 0, 1).Add(4*time.Hour), userID))
	assert.Len(t, f.sender.sends, 1)
}
