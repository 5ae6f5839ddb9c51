package model

import (
	"fmt"
	"time"
)

// User represents a registered user. The ID doubles as the Telegram chat ID
// the user's reminders are delivered to.
type User struct {
	Key       string    `json:"key"`
	ID        int64     `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this user.
func (u *User) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this user.
func (u *User) GetKey() string {
	return u.Key
}

// GenerateUserKey generates a database key for a user ID.
func GenerateUserKey(id int64) string {
	return fmt.Sprintf("%s:%d", PrefixUser, id)
}

// NewUser creates a new user record.
func NewUser(id int64, name string) *User {
	return &User{
		Key:       GenerateUserKey(id),
		ID:        id,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
