package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goalsapp/reminderd/internal/model"
)

// HabitRepo provides operations for Habit entities and their completion
// records.
type HabitRepo struct {
	db *DB
}

// NewHabitRepo creates a new habit repository.
func NewHabitRepo(db *DB) *HabitRepo {
	return &HabitRepo{db: db}
}

// Create creates a new habit with a generated ID.
func (r *HabitRepo) Create(habit *model.Habit) error {
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}
	habit.Key = model.GenerateHabitKey(habit.ID)
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	return r.db.Set(habit)
}

// Get retrieves a habit by ID.
func (r *HabitRepo) Get(id string) (*model.Habit, error) {
	habit := &model.Habit{}
	if err := r.db.Get(model.GenerateHabitKey(id), habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Update updates an existing habit.
func (r *HabitRepo) Update(habit *model.Habit) error {
	return r.db.Set(habit)
}

// ListByUser retrieves all habits belonging to a user.
func (r *HabitRepo) ListByUser(userID int64) ([]*model.Habit, error) {
	all, err := GetAllByPrefix(r.db, model.PrefixHabit+":", func() *model.Habit {
		return &model.Habit{}
	})
	if err != nil {
		return nil, err
	}

	var habits []*model.Habit
	for _, h := range all {
		if h.UserID == userID {
			habits = append(habits, h)
		}
	}
	return habits, nil
}

// SetRemindersEnabled toggles the per-habit reminder override.
func (r *HabitRepo) SetRemindersEnabled(id string, enabled bool) error {
	habit, err := r.Get(id)
	if err != nil {
		return err
	}
	habit.RemindersEnabled = enabled
	return r.db.Set(habit)
}

// MarkCompleted records a completion of the habit on the given date. The
// first completion of the day captures its wall-clock timestamp; later
// completions only bump the count.
func (r *HabitRepo) MarkCompleted(habitID, date string, at time.Time) error {
	record, err := r.RecordFor(habitID, date)
	if err != nil && !IsErrKeyNotFound(err) {
		return err
	}
	if record == nil {
		record = &model.HabitRecord{
			Key:     model.GenerateRecordKey(habitID, date),
			HabitID: habitID,
			Date:    date,
		}
	}

	record.Count++
	record.Completed = true
	if record.CompletedAt.IsZero() {
		record.CompletedAt = at
	}
	return r.db.Set(record)
}

// PutRecord stores a completion record directly.
func (r *HabitRepo) PutRecord(record *model.HabitRecord) error {
	if record.Key == "" {
		record.Key = model.GenerateRecordKey(record.HabitID, record.Date)
	}
	return r.db.Set(record)
}

// RecordFor retrieves the completion record for a habit on a date, or nil
// with ErrKeyNotFound when none exists.
func (r *HabitRepo) RecordFor(habitID, date string) (*model.HabitRecord, error) {
	record := &model.HabitRecord{}
	if err := r.db.Get(model.GenerateRecordKey(habitID, date), record); err != nil {
		return nil, err
	}
	return record, nil
}

// NotDoneToday returns the user's active, reminder-enabled habits that have
// no completed record for the given day.
func (r *HabitRepo) NotDoneToday(userID int64, day string) ([]*model.Habit, error) {
	habits, err := r.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	var out []*model.Habit
	for _, h := range habits {
		if !h.Remindable() {
			continue
		}
		record, err := r.RecordFor(h.ID, day)
		if err != nil {
			if IsErrKeyNotFound(err) {
				out = append(out, h)
				continue
			}
			return nil, err
		}
		if !record.Done() {
			out = append(out, h)
		}
	}
	return out, nil
}

// AvgCompletionTime computes the habit's mean completion time of day over
// records within the last `days` days before now, as "HH:MM". Records
// without a captured completion timestamp are skipped. Returns "" when no
// usable history exists.
func (r *HabitRepo) AvgCompletionTime(habitID string, days int, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%s:%s:", model.PrefixRecord, habitID)
	records, err := GetAllByPrefix(r.db, prefix, func() *model.HabitRecord {
		return &model.HabitRecord{}
	})
	if err != nil {
		return "", err
	}

	cutoff := now.AddDate(0, 0, -days).Format(model.DateLayout)

	var total, count int
	for _, rec := range records {
		if rec.Date < cutoff || rec.CompletedAt.IsZero() {
			continue
		}
		at := rec.CompletedAt.In(now.Location())
		total += at.Hour()*60 + at.Minute()
		count++
	}

	if count == 0 {
		return "", nil
	}

	avg := total / count
	return fmt.Sprintf("%02d:%02d", avg/60, avg%60), nil
}
