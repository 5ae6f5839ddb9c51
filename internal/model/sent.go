package model

import (
	"fmt"
	"time"
)

// SentRecord is one append-only dedup ledger row: a reminder of this kind and
// scope was delivered to this user on this day. The ledger is only written
// after the delivery channel acknowledged the send.
type SentRecord struct {
	Key       string       `json:"key"`
	ID        string       `json:"id"`
	UserID    int64        `json:"user_id"`
	Kind      ReminderKind `json:"kind"`
	HabitID   string       `json:"habit_id,omitempty"`
	MissionID string       `json:"mission_id,omitempty"`
	Day       string       `json:"day"` // YYYY-MM-DD in the reference zone
	SentAt    time.Time    `json:"sent_at"`
}

// SetKey sets the database key for this record.
func (r *SentRecord) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this record.
func (r *SentRecord) GetKey() string {
	return r.Key
}

// GenerateSentKey generates the ledger key for (user, day, scope). One key
// per calendar day per compound scope; a concurrent duplicate write lands on
// the same key, which keeps the at-most-one-per-day invariant without a
// uniqueness constraint.
func GenerateSentKey(userID int64, day string, scope Scope) string {
	return fmt.Sprintf("%s:%d:%s:%s:%s", PrefixSent, userID, day, scope.Kind, scope.EntityID())
}
