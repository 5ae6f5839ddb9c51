package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/goalsapp/reminderd/internal/model"
)

// MissionRepo provides operations for Mission entities.
type MissionRepo struct {
	db *DB
}

// NewMissionRepo creates a new mission repository.
func NewMissionRepo(db *DB) *MissionRepo {
	return &MissionRepo{db: db}
}

// Create creates a new mission with a generated ID.
func (r *MissionRepo) Create(mission *model.Mission) error {
	if mission.ID == "" {
		mission.ID = uuid.New().String()
	}
	mission.Key = model.GenerateMissionKey(mission.ID)
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now()
	}
	return r.db.Set(mission)
}

// Get retrieves a mission by ID.
func (r *MissionRepo) Get(id string) (*model.Mission, error) {
	mission := &model.Mission{}
	if err := r.db.Get(model.GenerateMissionKey(id), mission); err != nil {
		return nil, err
	}
	return mission, nil
}

// ListByUser retrieves a user's missions, excluding completed ones unless
// includeCompleted is set.
func (r *MissionRepo) ListByUser(userID int64, includeCompleted bool) ([]*model.Mission, error) {
	all, err := GetAllByPrefix(r.db, model.PrefixMission+":", func() *model.Mission {
		return &model.Mission{}
	})
	if err != nil {
		return nil, err
	}

	var missions []*model.Mission
	for _, m := range all {
		if m.UserID != userID {
			continue
		}
		if m.Completed && !includeCompleted {
			continue
		}
		missions = append(missions, m)
	}
	return missions, nil
}
