package model

import (
	"fmt"
	"time"
)

// Mission represents a long-horizon objective with an optional deadline.
type Mission struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Deadline  string    `json:"deadline,omitempty"` // ISO date, possibly with a time suffix
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this mission.
func (m *Mission) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this mission.
func (m *Mission) GetKey() string {
	return m.Key
}

// GenerateMissionKey generates a database key for a mission using its UUID.
func GenerateMissionKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixMission, id)
}

// NewMission creates a mission. deadline may be empty.
func NewMission(id string, userID int64, title, deadline string) *Mission {
	return &Mission{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the title or a placeholder for untitled missions.
func (m *Mission) DisplayTitle() string {
	if m.Title == "" {
		return "Mission"
	}
	return m.Title
}

// DeadlineDate returns the calendar-date portion of the deadline, or "" when
// the deadline is unset or too short to hold a date.
func (m *Mission) DeadlineDate() string {
	if len(m.Deadline) < len(DateLayout) {
		return ""
	}
	return m.Deadline[:len(DateLayout)]
}
