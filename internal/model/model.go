// Package model defines the domain models for reminderd.
package model

// Model is the interface that all database models must implement.
type Model interface {
	// SetKey sets the database key for this model.
	SetKey(key string)
	// GetKey returns the database key for this model.
	GetKey() string
}

// Key prefix constants for database key generation.
const (
	PrefixUser     = "user"
	PrefixSettings = "settings"
	PrefixHabit    = "habit"
	PrefixRecord   = "record"
	PrefixMission  = "mission"
	PrefixGoal     = "goal"
	PrefixSent     = "sent"
)

// DateLayout is the canonical calendar-date format used for record dates,
// mission deadlines and ledger days.
const DateLayout = "2006-01-02"

// ClockLayout is the canonical HH:MM time-of-day format.
const ClockLayout = "15:04"
