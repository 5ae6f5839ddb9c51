package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/goalsapp/reminderd/internal/model"
)

// GoalRepo provides operations for Goal entities.
type GoalRepo struct {
	db *DB
}

// NewGoalRepo creates a new goal repository.
func NewGoalRepo(db *DB) *GoalRepo {
	return &GoalRepo{db: db}
}

// Create creates a new goal with a generated ID.
func (r *GoalRepo) Create(goal *model.Goal) error {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	goal.Key = model.GenerateGoalKey(goal.ID)
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	return r.db.Set(goal)
}

// ListByUser retrieves a user's goals, excluding completed ones unless
// includeCompleted is set.
func (r *GoalRepo) ListByUser(userID int64, includeCompleted bool) ([]*model.Goal, error) {
	all, err := GetAllByPrefix(r.db, model.PrefixGoal+":", func() *model.Goal {
		return &model.Goal{}
	})
	if err != nil {
		return nil, err
	}

	var goals []*model.Goal
	for _, g := range all {
		if g.UserID != userID {
			continue
		}
		if g.Completed && !includeCompleted {
			continue
		}
		goals = append(goals, g)
	}
	return goals, nil
}
