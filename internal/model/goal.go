package model

import (
	"fmt"
	"time"
)

// Goal represents a user's goal with a completion flag. The reminder worker
// only reads goals to count the incomplete ones for the daily summary nudge.
type Goal struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this goal.
func (g *Goal) SetKey(key string) {
	g.Key = key
}

// GetKey returns the database key for this goal.
func (g *Goal) GetKey() string {
	return g.Key
}

// GenerateGoalKey generates a database key for a goal using its UUID.
func GenerateGoalKey(id string) string {
	return fmt.Sprintf("%s:%s", PrefixGoal, id)
}

// NewGoal creates an incomplete goal.
func NewGoal(id string, userID int64, title string) *Goal {
	return &Goal{
		ID:        id,
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now(),
	}
}
