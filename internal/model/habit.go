package model

import (
	"fmt"
	"time"
)

// Habit represents a recurring practice tracked by one user.
type Habit struct {
	Key              string    `json:"key"`
	ID               string    `json:"id"`
	UserID           int64     `json:"user_id"`
	Title            string    `json:"title"`
	Active           bool      `json:"active"`
	RemindersEnabled bool      `json:"reminders_enabled"`
	CreatedAt        time.Time `json:"created_at"`
}

// SetKey sets the database key for this habit.
func (h *Habit) SetKey(key string) {
	h.Key = key
}

// GetKey returns the database key for this habit.
func (h *Habit) GetKey() string {
	return h.Key
}

// GenerateHabitKey generates a database key for a habit using its UUID.
func GenerateHabitKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixHabit, id)
}

// NewHabit creates an active habit with reminders enabled. An empty id is
// filled in by the repository on create.
func NewHabit(id string, userID int64, title string) *Habit {
	return &Habit{
		ID:               id,
		UserID:           userID,
		Title:            title,
		Active:           true,
		RemindersEnabled: true,
		CreatedAt:        time.Now(),
	}
}

// DisplayTitle returns the title or a placeholder for untitled habits.
func (h *Habit) DisplayTitle() string {
	if h.Title == "" {
		return "Habit"
	}
	return h.Title
}

// Remindable reports whether this habit participates in reminder
// evaluation at all.
func (h *Habit) Remindable() bool {
	return h.Active && h.RemindersEnabled
}

// HabitRecord tracks completion of a habit on one calendar date. At most one
// record exists per (habit, date). CompletedAt is the wall clock of the first
// completion that day; a zero CompletedAt means no usable timestamp was
// captured and the record is excluded from average-time computation.
type HabitRecord struct {
	Key         string    `json:"key"`
	HabitID     string    `json:"habit_id"`
	Date        string    `json:"date"` // YYYY-MM-DD in the reference zone
	Completed   bool      `json:"completed"`
	Count       int       `json:"count"`
	CompletedAt time.Time `json:"completed_at,omitempty"`
}

// SetKey sets the database key for this record.
func (r *HabitRecord) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this record.
func (r *HabitRecord) GetKey() string {
	return r.Key
}

// GenerateRecordKey generates a database key for a habit's record on a date.
func GenerateRecordKey(habitID, date string) string {
	return fmt.Sprintf("%s:%s:%s", PrefixRecord, habitID, date)
}

// Done reports whether the habit counts as completed on this record's date.
func (r *HabitRecord) Done() bool {
	return r.Completed || r.Count > 0
}
