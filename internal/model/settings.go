package model

import "fmt"

// Reminder intensity levels. Level 1 sends only the first nudge, level 2
// adds the second, level 3 adds the evening reschedule nudge.
const (
	IntensityMin     = 1
	IntensityDefault = 2
	IntensityMax     = 3
)

// ReminderSettings holds a user's notification preferences. A user without a
// stored settings row behaves as if DefaultSettings applied.
type ReminderSettings struct {
	Key                  string `json:"key"`
	UserID               int64  `json:"user_id"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	QuietHoursStart      string `json:"quiet_hours_start,omitempty"` // "HH:MM", empty = unset
	QuietHoursEnd        string `json:"quiet_hours_end,omitempty"`   // "HH:MM", empty = unset
	Intensity            int    `json:"reminder_intensity"`
	FirstReminderSent    bool   `json:"first_reminder_sent"` // lifetime flag
}

// SetKey sets the database key for these settings.
func (s *ReminderSettings) SetKey(key string) {
	s.Key = key
}

// GetKey returns the database key for these settings.
func (s *ReminderSettings) GetKey() string {
	return s.Key
}

// GenerateSettingsKey generates a database key for a user's settings.
func GenerateSettingsKey(userID int64) string {
	return fmt.Sprintf("%s:%d", PrefixSettings, userID)
}

// DefaultSettings returns the settings applied to a user with no stored row:
// notifications on, medium intensity, no quiet hours.
func DefaultSettings(userID int64) *ReminderSettings {
	return &ReminderSettings{
		Key:                  GenerateSettingsKey(userID),
		UserID:               userID,
		NotificationsEnabled: true,
		Intensity:            IntensityDefault,
	}
}

// EffectiveIntensity clamps the stored intensity into the valid 1..3 range,
// treating zero (unset) as the default.
func (s *ReminderSettings) EffectiveIntensity() int {
	switch {
	case s.Intensity == 0:
		return IntensityDefault
	case s.Intensity < IntensityMin:
		return IntensityMin
	case s.Intensity > IntensityMax:
		return IntensityMax
	}
	return s.Intensity
}
