package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalsapp/reminderd/internal/config"
	"github.com/goalsapp/reminderd/internal/model"
	"github.com/goalsapp/reminderd/internal/reminder"
	"github.com/goalsapp/reminderd/internal/storage"
)

type sentMsg struct {
	chatID int64
	text   string
}

type fakeSender struct {
	sends []sentMsg
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	f.sends = append(f.sends, sentMsg{chatID: chatID, text: text})
	return nil
}

// panickyStore wraps the real store and blows up for one user, to prove a
// single bad row cannot take the pass down.
type panickyStore struct {
	reminder.Store
	panicUser int64
}

func (s *panickyStore) UserSettings(userID int64) (*model.ReminderSettings, error) {
	if userID == s.panicUser {
		panic("corrupt settings row")
	}
	return s.Store.UserSettings(userID)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Worker.Timezone = "UTC"
	return cfg
}

func setupStore(t *testing.T) (*storage.DB, *storage.ReminderStore) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, storage.NewReminderStore(db)
}

func TestNewRejectsBadTimezone(t *testing.T) {
	_, store := setupStore(t)
	cfg := testConfig()
	cfg.Worker.Timezone = "Mars/Olympus"

	_, err := New(store, &fakeSender{}, cfg)
	assert.Error(t, err)
}

func TestRunPassIsolatesUserFailures(t *testing.T) {
	db, store := setupStore(t)
	users := storage.NewUserRepo(db)
	habits := storage.NewHabitRepo(db)

	require.NoError(t, users.Create(model.NewUser(1, "alice")))
	require.NoError(t, users.Create(model.NewUser(2, "bob")))
	require.NoError(t, habits.Create(model.NewHabit("", 1, "Stretch")))
	require.NoError(t, habits.Create(model.NewHabit("", 2, "Stretch")))

	sender := &fakeSender{}
	w, err := New(&panickyStore{Store: store, panicUser: 1}, sender, testConfig())
	require.NoError(t, err)

	// 09:50 is inside the no-history fallback window for both users.
	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	w.nowFunc = func() time.Time { return now }

	w.tick(context.Background())

	// Alice's panic is contained; Bob still gets his reminder.
	require.Len(t, sender.sends, 1)
	assert.Equal(t, int64(2), sender.sends[0].chatID)
}

func TestTickSkippedAfterSleep(t *testing.T) {
	db, store := setupStore(t)
	users := storage.NewUserRepo(db)
	habits := storage.NewHabitRepo(db)

	require.NoError(t, users.Create(model.NewUser(1, "alice")))
	require.NoError(t, habits.Create(model.NewHabit("", 1, "Stretch")))

	sender := &fakeSender{}
	w, err := New(store, sender, testConfig())
	require.NoError(t, err)

	now := time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	w.nowFunc = func() time.Time { return now }
	w.lastTick = now.Add(-2 * time.Hour)

	// The host slept through the gap, so this tick is dropped.
	w.tick(context.Background())
	assert.Empty(t, sender.sends)

	// The next one runs normally.
	w.tick(context.Background())
	assert.Len(t, sender.sends, 1)
}

func TestRunOnce(t *testing.T) {
	db, store := setupStore(t)
	users := storage.NewUserRepo(db)
	habits := storage.NewHabitRepo(db)

	require.NoError(t, users.Create(model.NewUser(1, "alice")))
	require.NoError(t, habits.Create(model.NewHabit("", 1, "Stretch")))

	sender := &fakeSender{}
	w, err := New(store, sender, testConfig())
	require.NoError(t, err)
	w.nowFunc = func() time.Time {
		return time.Date(2025, 6, 10, 9, 50, 0, 0, time.UTC)
	}

	require.NoError(t, w.RunOnce(context.Background()))
	assert.Len(t, sender.sends, 1)
}

func TestWorkerStartStop(t *testing.T) {
	_, store := setupStore(t)
	w, err := New(store, &fakeSender{}, testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	time.Sleep(100 * time.Millisecond)
	w.Stop()
}
