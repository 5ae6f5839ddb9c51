package storage

import "github.com/goalsapp/reminderd/internal/model"

// UserRepo provides operations for User entities.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create stores a user record.
func (r *UserRepo) Create(user *model.User) error {
	if user.Key == "" {
		user.Key = model.GenerateUserKey(user.ID)
	}
	return r.db.Set(user)
}

// Get retrieves a user by ID.
func (r *UserRepo) Get(id int64) (*model.User, error) {
	user := &model.User{}
	if err := r.db.Get(model.GenerateUserKey(id), user); err != nil {
		return nil, err
	}
	return user, nil
}

// List retrieves all users.
func (r *UserRepo) List() ([]*model.User, error) {
	return GetAllByPrefix(r.db, model.PrefixUser+":", func() *model.User {
		return &model.User{}
	})
}
