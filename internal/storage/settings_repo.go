package storage

import "github.com/goalsapp/reminderd/internal/model"

// SettingsRepo provides operations for per-user reminder settings.
type SettingsRepo struct {
	db *DB
}

// NewSettingsRepo creates a new settings repository.
func NewSettingsRepo(db *DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// Get retrieves a user's settings. A user with no stored row gets the
// defaults (notifications on, medium intensity).
func (r *SettingsRepo) Get(userID int64) (*model.ReminderSettings, error) {
	settings := &model.ReminderSettings{}
	err := r.db.Get(model.GenerateSettingsKey(userID), settings)
	if err != nil {
		if IsErrKeyNotFound(err) {
			return model.DefaultSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

// Put upserts a user's settings.
func (r *SettingsRepo) Put(settings *model.ReminderSettings) error {
	if settings.Key == "" {
		settings.Key = model.GenerateSettingsKey(settings.UserID)
	}
	return r.db.Set(settings)
}

// SetFirstReminderSent sets the one-time lifetime flag for a user.
func (r *SettingsRepo) SetFirstReminderSent(userID int64) error {
	settings, err := r.Get(userID)
	if err != nil {
		return err
	}
	settings.FirstReminderSent = true
	return r.Put(settings)
}

// UserIDsWithNotifications returns the IDs of all users except those who
// explicitly disabled notifications. Users without a settings row count as
// enabled, matching the settings defaults.
func (r *SettingsRepo) UserIDsWithNotifications(users *UserRepo) ([]int64, error) {
	all, err := users.List()
	if err != nil {
		return nil, err
	}

	disabled := make(map[int64]bool)
	rows, err := GetAllByPrefix(r.db, model.PrefixSettings+":", func() *model.ReminderSettings {
		return &model.ReminderSettings{}
	})
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		if !s.NotificationsEnabled {
			disabled[s.UserID] = true
		}
	}

	var ids []int64
	for _, u := range all {
		if !disabled[u.ID] {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}
